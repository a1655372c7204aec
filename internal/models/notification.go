package models

type Notification struct {
	ChannelID           int    `json:"channel_id"`
	DmID                int    `json:"dm_id"`
	NotificationMessage string `json:"notification_message"`
}
