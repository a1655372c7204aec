package dto

// ChannelDTO is a channel in list responses
type ChannelDTO struct {
	ChannelID int    `json:"channel_id"`
	Name      string `json:"name"`
}

// ChannelDetailDTO represents detailed channel information
type ChannelDetailDTO struct {
	Name         string    `json:"name"`
	IsPublic     bool      `json:"is_public"`
	OwnerMembers []UserDTO `json:"owner_members"`
	AllMembers   []UserDTO `json:"all_members"`
}

// DmDTO is a DM in list responses
type DmDTO struct {
	DmID int    `json:"dm_id"`
	Name string `json:"name"`
}

// DmDetailDTO represents detailed DM information
type DmDetailDTO struct {
	Name    string    `json:"name"`
	Members []UserDTO `json:"members"`
}

// StandupDTO reports the standup state of a channel
type StandupDTO struct {
	IsActive   bool   `json:"is_active"`
	TimeFinish *int64 `json:"time_finish"`
}
