package models

// StatPoint is one sample of a monotonically appended usage series.
type StatPoint struct {
	Count     int   `json:"count"`
	TimeStamp int64 `json:"time_stamp"`
}

type UserStats struct {
	ChannelsJoined []StatPoint `json:"channels_joined"`
	DmsJoined      []StatPoint `json:"dms_joined"`
	MessagesSent   []StatPoint `json:"messages_sent"`
}

type WorkspaceStats struct {
	ChannelsExist []StatPoint `json:"channels_exist"`
	DmsExist      []StatPoint `json:"dms_exist"`
	MessagesExist []StatPoint `json:"messages_exist"`
}

// Last returns the latest count of a series, or 0 for an empty one.
func Last(series []StatPoint) int {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1].Count
}
