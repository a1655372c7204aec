package models

// Data is the whole workspace. It is serialized as a single snapshot.
type Data struct {
	Users              []*User        `json:"users"`
	Channels           []*Channel     `json:"channels"`
	Dms                []*Dm          `json:"dms"`
	GlobalOwnerIDs     []int          `json:"global_owners"`
	BotUserID          *int           `json:"bot_u_id,omitempty"`
	ReservedMessageIDs []int          `json:"reserved_message_ids"`
	NextMessageID      int            `json:"next_message_id"`
	NextDmID           int            `json:"next_dm_id"`
	NumMessages        int            `json:"num_msgs"`
	WorkspaceStats     WorkspaceStats `json:"workspace_stats"`
	Generation         int            `json:"generation"`
}
