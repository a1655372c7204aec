package dto

import "github.com/yukikurage/workspace-messaging-api/internal/models"

// UserStatsDTO is a user's usage series with their involvement rate
type UserStatsDTO struct {
	ChannelsJoined  []models.StatPoint `json:"channels_joined"`
	DmsJoined       []models.StatPoint `json:"dms_joined"`
	MessagesSent    []models.StatPoint `json:"messages_sent"`
	InvolvementRate float64            `json:"involvement_rate"`
}

// WorkspaceStatsDTO is the workspace usage series with the utilization rate
type WorkspaceStatsDTO struct {
	ChannelsExist   []models.StatPoint `json:"channels_exist"`
	DmsExist        []models.StatPoint `json:"dms_exist"`
	MessagesExist   []models.StatPoint `json:"messages_exist"`
	UtilizationRate float64            `json:"utilization_rate"`
}

func copyPoints(series []models.StatPoint) []models.StatPoint {
	return append([]models.StatPoint{}, series...)
}

// ToUserStatsDTO copies a user's series
func ToUserStatsDTO(stats models.UserStats, rate float64) UserStatsDTO {
	return UserStatsDTO{
		ChannelsJoined:  copyPoints(stats.ChannelsJoined),
		DmsJoined:       copyPoints(stats.DmsJoined),
		MessagesSent:    copyPoints(stats.MessagesSent),
		InvolvementRate: rate,
	}
}

// ToWorkspaceStatsDTO copies the workspace series
func ToWorkspaceStatsDTO(stats models.WorkspaceStats, rate float64) WorkspaceStatsDTO {
	return WorkspaceStatsDTO{
		ChannelsExist:   copyPoints(stats.ChannelsExist),
		DmsExist:        copyPoints(stats.DmsExist),
		MessagesExist:   copyPoints(stats.MessagesExist),
		UtilizationRate: rate,
	}
}
