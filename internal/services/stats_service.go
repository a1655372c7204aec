package services

import (
	"context"
	"log/slog"

	"github.com/yukikurage/workspace-messaging-api/internal/dto"
	"github.com/yukikurage/workspace-messaging-api/internal/events"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/scheduler"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

// StatsService keeps the usage series. Record methods expect the caller to hold the store lock.
type StatsService struct {
	store     *store.Store
	clock     scheduler.Clock
	publisher events.Publisher
}

// NewStatsService creates a new StatsService.
func NewStatsService(st *store.Store, clock scheduler.Clock, publisher events.Publisher) *StatsService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &StatsService{store: st, clock: clock, publisher: publisher}
}

func (s *StatsService) point(count int) models.StatPoint {
	return models.StatPoint{Count: count, TimeStamp: s.clock.Now().Unix()}
}

func (s *StatsService) emit(eventType string, userID, count int) {
	event := events.Event{Type: eventType, UserID: userID, Count: count, TimeStamp: s.clock.Now().Unix()}
	if err := s.publisher.Publish(context.Background(), event); err != nil {
		slog.Warn("stats: Failed to publish event", "type", eventType, "error", err)
	}
}

// InitUser starts a new user's series at zero. The first user also starts the workspace series.
func (s *StatsService) InitUser(u *models.User) {
	u.Stats = models.UserStats{
		ChannelsJoined: []models.StatPoint{s.point(0)},
		DmsJoined:      []models.StatPoint{s.point(0)},
		MessagesSent:   []models.StatPoint{s.point(0)},
	}

	ws := &s.store.Data().WorkspaceStats
	if len(ws.ChannelsExist) == 0 {
		ws.ChannelsExist = []models.StatPoint{s.point(0)}
		ws.DmsExist = []models.StatPoint{s.point(0)}
		ws.MessagesExist = []models.StatPoint{s.point(0)}
	}
}

// MessageSent counts a message that now exists in a container.
func (s *StatsService) MessageSent(author *models.User) {
	d := s.store.Data()
	d.NumMessages++
	d.WorkspaceStats.MessagesExist = append(d.WorkspaceStats.MessagesExist, s.point(d.NumMessages))
	if author != nil {
		count := models.Last(author.Stats.MessagesSent) + 1
		author.Stats.MessagesSent = append(author.Stats.MessagesSent, s.point(count))
		s.emit(events.TypeMessageSent, author.ID, count)
	}
}

// MessagesRemoved counts n messages that no longer exist.
func (s *StatsService) MessagesRemoved(n int) {
	if n <= 0 {
		return
	}
	d := s.store.Data()
	d.NumMessages -= n
	if d.NumMessages < 0 {
		d.NumMessages = 0
	}
	d.WorkspaceStats.MessagesExist = append(d.WorkspaceStats.MessagesExist, s.point(d.NumMessages))
	s.emit(events.TypeMessagesRemoved, 0, d.NumMessages)
}

// ChannelMembershipChanged records a user joining (+1) or leaving (-1) a channel.
func (s *StatsService) ChannelMembershipChanged(u *models.User, delta int) {
	count := models.Last(u.Stats.ChannelsJoined) + delta
	u.Stats.ChannelsJoined = append(u.Stats.ChannelsJoined, s.point(count))
	s.emit(events.TypeChannelJoined, u.ID, count)
}

// DmMembershipChanged records a user joining (+1) or leaving (-1) a DM.
func (s *StatsService) DmMembershipChanged(u *models.User, delta int) {
	count := models.Last(u.Stats.DmsJoined) + delta
	u.Stats.DmsJoined = append(u.Stats.DmsJoined, s.point(count))
	s.emit(events.TypeDmJoined, u.ID, count)
}

// ChannelsChanged samples the number of channels.
func (s *StatsService) ChannelsChanged() {
	d := s.store.Data()
	d.WorkspaceStats.ChannelsExist = append(d.WorkspaceStats.ChannelsExist, s.point(len(d.Channels)))
	s.emit(events.TypeChannelCreated, 0, len(d.Channels))
}

// DmsChanged samples the number of DMs.
func (s *StatsService) DmsChanged() {
	d := s.store.Data()
	d.WorkspaceStats.DmsExist = append(d.WorkspaceStats.DmsExist, s.point(len(d.Dms)))
	s.emit(events.TypeDmsChanged, 0, len(d.Dms))
}

// UserStats returns the caller's series and involvement rate.
func (s *StatsService) UserStats(token string) (dto.UserStatsDTO, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return dto.UserStatsDTO{}, err
	}

	d := s.store.Data()
	mine := models.Last(user.Stats.ChannelsJoined) + models.Last(user.Stats.DmsJoined) + models.Last(user.Stats.MessagesSent)
	total := len(d.Channels) + len(d.Dms) + d.NumMessages

	rate := 0.0
	if total > 0 {
		rate = float64(mine) / float64(total)
		if rate > 1 {
			rate = 1
		}
	}
	return dto.ToUserStatsDTO(user.Stats, rate), nil
}

// WorkspaceStats returns the workspace series and utilization rate.
func (s *StatsService) WorkspaceStats(token string) (dto.WorkspaceStatsDTO, error) {
	s.store.Lock()
	defer s.store.Unlock()

	if _, err := authenticate(s.store, token); err != nil {
		return dto.WorkspaceStatsDTO{}, err
	}

	d := s.store.Data()
	involved := map[int]bool{}
	for _, ch := range d.Channels {
		for _, id := range ch.MemberIDs {
			involved[id] = true
		}
	}
	for _, dm := range d.Dms {
		for _, id := range dm.MemberIDs {
			involved[id] = true
		}
	}

	active := s.store.ActiveUsers()
	rate := 0.0
	if len(active) > 0 {
		n := 0
		for _, u := range active {
			if involved[u.ID] {
				n++
			}
		}
		rate = float64(n) / float64(len(active))
	}
	return dto.ToWorkspaceStatsDTO(d.WorkspaceStats, rate), nil
}
