package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// snapshotRowID is the id of the single snapshot row.
const snapshotRowID = 1

// ErrSnapshotNotFound is returned by Load before anything has been saved.
var ErrSnapshotNotFound = errors.New("snapshot repository: no snapshot stored")

// GormSnapshotRepository is a GORM implementation of SnapshotRepository
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Save upserts the snapshot row
func (r *GormSnapshotRepository) Save(ctx context.Context, snapshot *models.Snapshot) error {
	snapshot.ID = snapshotRowID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(snapshot).Error
	if err != nil {
		return fmt.Errorf("snapshot repository: save failed: %w", err)
	}
	return nil
}

// Load reads the snapshot row
func (r *GormSnapshotRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := r.db.WithContext(ctx).First(&snapshot, snapshotRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("snapshot repository: load failed: %w", err)
	}
	return &snapshot, nil
}
