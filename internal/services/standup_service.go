package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/dto"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/scheduler"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

// StandupService runs per-channel standups. Lines sent during a standup are buffered and
// posted as one message by the starter when it ends.
type StandupService struct {
	store    *store.Store
	clock    scheduler.Clock
	delivery *DeliveryService
}

// NewStandupService creates a new StandupService.
func NewStandupService(st *store.Store, clock scheduler.Clock, delivery *DeliveryService) *StandupService {
	return &StandupService{store: st, clock: clock, delivery: delivery}
}

func (s *StandupService) memberChannel(token string, channelID int) (*models.User, *models.Channel, error) {
	user, err := authenticate(s.store, token)
	if err != nil {
		return nil, nil, err
	}
	ch := s.store.ChannelByID(channelID)
	if ch == nil {
		return nil, nil, fmt.Errorf("%w (channel %d)", ErrChannelNotFound, channelID)
	}
	if !models.ContainsID(ch.MemberIDs, user.ID) {
		return nil, nil, ErrNotMember
	}
	return user, ch, nil
}

// Start opens a standup lasting length seconds and returns its finish time.
func (s *StandupService) Start(token string, channelID int, length int64) (int64, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return 0, err
	}
	ch := s.store.ChannelByID(channelID)
	if ch == nil {
		return 0, fmt.Errorf("%w (channel %d)", ErrChannelNotFound, channelID)
	}
	if length < 0 {
		return 0, ErrInvalidStandupLength
	}
	if ch.Standup.IsActive {
		return 0, ErrStandupActive
	}
	if !models.ContainsID(ch.MemberIDs, user.ID) {
		return 0, ErrNotMember
	}

	finish := s.clock.Now().Add(time.Duration(length) * time.Second)
	finishUnix := finish.Unix()
	starter := user.ID
	ch.Standup = models.Standup{
		IsActive:   true,
		TimeFinish: &finishUnix,
		StarterID:  &starter,
	}
	s.delivery.ScheduleStandupEnd(ch.ID, finish)
	return finishUnix, nil
}

// Active reports whether a standup is running in the channel and when it ends.
func (s *StandupService) Active(token string, channelID int) (dto.StandupDTO, error) {
	s.store.Lock()
	defer s.store.Unlock()

	_, ch, err := s.memberChannel(token, channelID)
	if err != nil {
		return dto.StandupDTO{}, err
	}

	out := dto.StandupDTO{IsActive: ch.Standup.IsActive}
	if ch.Standup.TimeFinish != nil {
		finish := *ch.Standup.TimeFinish
		out.TimeFinish = &finish
	}
	return out, nil
}

// Send appends a line to the running standup.
func (s *StandupService) Send(token string, channelID int, text string) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, ch, err := s.memberChannel(token, channelID)
	if err != nil {
		return err
	}
	if !ch.Standup.IsActive {
		return ErrStandupNotActive
	}
	if len([]rune(text)) > constants.MaxMessageLength {
		return ErrMessageTooLong
	}

	line := fmt.Sprintf("%s: %s", user.Handle, text)
	if ch.Standup.Buffer == "" {
		ch.Standup.Buffer = line
	} else {
		ch.Standup.Buffer += "\n" + line
	}
	return nil
}
