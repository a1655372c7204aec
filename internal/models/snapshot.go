package models

import "time"

// Snapshot is a persisted copy of Data. Only one row is kept.
type Snapshot struct {
	ID         uint64    `gorm:"primarykey;autoIncrement:false" json:"id"`
	Generation int       `gorm:"not null" json:"generation"`
	Payload    []byte    `gorm:"not null" json:"-"`
	UpdatedAt  time.Time `json:"updated_at"`
}
