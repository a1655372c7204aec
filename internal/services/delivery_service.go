package services

import (
	"log/slog"
	"time"

	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/scheduler"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

// Draft is a message waiting to be delivered.
type Draft struct {
	AuthorID int
	Text     string
	TimeSent int64
}

// DeliveryService arms deferred sends and standup ends. Fired tasks never hold a
// reference to a container; they look it up again by id and check that the store has
// not been reset since they were armed.
type DeliveryService struct {
	store     *store.Store
	scheduler *scheduler.Scheduler
	clock     scheduler.Clock
	notifier  *NotificationService
	stats     *StatsService
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(st *store.Store, sched *scheduler.Scheduler, clock scheduler.Clock, notifier *NotificationService, stats *StatsService) *DeliveryService {
	return &DeliveryService{
		store:     st,
		scheduler: sched,
		clock:     clock,
		notifier:  notifier,
		stats:     stats,
	}
}

// ScheduleSend reserves a message id now and delivers draft into c at draft.TimeSent.
// Caller holds the store lock.
func (s *DeliveryService) ScheduleSend(c store.Container, draft Draft) int {
	id := s.store.AllocateMessageID(true)
	generation := s.store.Generation()
	isChannel, containerID := c.IsChannel(), c.ID()

	s.scheduler.Schedule(time.Unix(draft.TimeSent, 0), func() {
		s.store.Lock()
		defer s.store.Unlock()

		if s.store.Generation() != generation {
			slog.Debug("delivery: Dropping send after reset", "message_id", id)
			return
		}
		target, ok := s.lookup(isChannel, containerID)
		if !ok {
			slog.Debug("delivery: Dropping send, container is gone", "message_id", id, "container_id", containerID)
			return
		}
		s.deliver(target, &models.Message{
			ID:       id,
			UserID:   draft.AuthorID,
			Text:     draft.Text,
			TimeSent: draft.TimeSent,
			Reacts:   []models.React{},
		})
	})
	return id
}

func (s *DeliveryService) lookup(isChannel bool, id int) (store.Container, bool) {
	if isChannel {
		if ch := s.store.ChannelByID(id); ch != nil {
			return store.ChannelContainer(ch), true
		}
		return store.Container{}, false
	}
	if dm := s.store.DmByID(id); dm != nil {
		return store.DmContainer(dm), true
	}
	return store.Container{}, false
}

// deliver inserts msg and runs the same side effects as an immediate send, with mentions
// resolved against the membership at this moment. Caller holds the store lock.
func (s *DeliveryService) deliver(c store.Container, msg *models.Message) {
	c.Prepend(msg)
	author := s.store.UserByID(msg.UserID)
	if author != nil {
		s.notifier.NotifyMentions(msg.Text, author, c)
	}
	s.stats.MessageSent(author)
}

// ScheduleStandupEnd flushes the channel's standup at finish. Caller holds the store lock.
func (s *DeliveryService) ScheduleStandupEnd(channelID int, finish time.Time) {
	generation := s.store.Generation()
	finishUnix := finish.Unix()

	s.scheduler.Schedule(finish, func() {
		s.store.Lock()
		defer s.store.Unlock()

		if s.store.Generation() != generation {
			return
		}
		ch := s.store.ChannelByID(channelID)
		if ch == nil || !ch.Standup.IsActive || ch.Standup.TimeFinish == nil || *ch.Standup.TimeFinish != finishUnix {
			return
		}
		s.flushStandup(ch)
	})
}

// Rearm reschedules the end of every standup that was active when the state was saved.
// Scheduled tasks are not part of a snapshot, so this runs once after a restore. Finish
// times already in the past fire on the scheduler's next pass.
func (s *DeliveryService) Rearm() int {
	s.store.Lock()
	defer s.store.Unlock()

	n := 0
	for _, ch := range s.store.Data().Channels {
		if !ch.Standup.IsActive || ch.Standup.TimeFinish == nil {
			continue
		}
		s.ScheduleStandupEnd(ch.ID, time.Unix(*ch.Standup.TimeFinish, 0))
		n++
	}
	if n > 0 {
		slog.Info("delivery: Rearmed standups", "count", n)
	}
	return n
}

func (s *DeliveryService) flushStandup(ch *models.Channel) {
	standup := ch.Standup
	ch.Standup.Reset()

	if standup.Buffer == "" || standup.StarterID == nil {
		return
	}
	msg := &models.Message{
		ID:       s.store.AllocateMessageID(false),
		UserID:   *standup.StarterID,
		Text:     standup.Buffer,
		TimeSent: s.clock.Now().Unix(),
		Reacts:   []models.React{},
	}
	store.ChannelContainer(ch).Prepend(msg)
	s.stats.MessageSent(s.store.UserByID(msg.UserID))
	slog.Debug("delivery: Standup flushed", "channel_id", ch.ID, "message_id", msg.ID)
}
