package services

import (
	"fmt"

	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/dto"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

// ChannelService provides channel membership operations.
type ChannelService struct {
	store    *store.Store
	notifier *NotificationService
	stats    *StatsService
}

// NewChannelService creates a new ChannelService.
func NewChannelService(st *store.Store, notifier *NotificationService, stats *StatsService) *ChannelService {
	return &ChannelService{store: st, notifier: notifier, stats: stats}
}

func (s *ChannelService) channel(id int) (*models.Channel, error) {
	ch := s.store.ChannelByID(id)
	if ch == nil {
		return nil, fmt.Errorf("%w (channel %d)", ErrChannelNotFound, id)
	}
	return ch, nil
}

// hasOwnerPermission: channel owners, and global owners who are members.
func (s *ChannelService) hasOwnerPermission(ch *models.Channel, userID int) bool {
	if models.ContainsID(ch.OwnerIDs, userID) {
		return true
	}
	return s.store.IsGlobalOwner(userID) && models.ContainsID(ch.MemberIDs, userID)
}

// CreateChannelInput represents parameters to create a new channel.
type CreateChannelInput struct {
	Token    string
	Name     string
	IsPublic bool
}

// Create makes a channel owned by the caller and returns its id.
func (s *ChannelService) Create(input CreateChannelInput) (int, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, input.Token)
	if err != nil {
		return 0, err
	}
	n := len([]rune(input.Name))
	if n < constants.MinChannelName || n > constants.MaxChannelName {
		return 0, ErrInvalidChannelName
	}

	d := s.store.Data()
	ch := &models.Channel{
		ID:        len(d.Channels),
		Name:      input.Name,
		IsPublic:  input.IsPublic,
		OwnerIDs:  []int{user.ID},
		MemberIDs: []int{user.ID},
		Messages:  []*models.Message{},
	}
	d.Channels = append(d.Channels, ch)

	s.stats.ChannelsChanged()
	s.stats.ChannelMembershipChanged(user, 1)
	return ch.ID, nil
}

// List returns the channels the caller belongs to.
func (s *ChannelService) List(token string) ([]dto.ChannelDTO, error) {
	return s.list(token, true)
}

// ListAll returns every channel, public or private.
func (s *ChannelService) ListAll(token string) ([]dto.ChannelDTO, error) {
	return s.list(token, false)
}

func (s *ChannelService) list(token string, mineOnly bool) ([]dto.ChannelDTO, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return nil, err
	}

	out := []dto.ChannelDTO{}
	for _, ch := range s.store.Data().Channels {
		if mineOnly && !models.ContainsID(ch.MemberIDs, user.ID) {
			continue
		}
		out = append(out, dto.ChannelDTO{ChannelID: ch.ID, Name: ch.Name})
	}
	return out, nil
}

func (s *ChannelService) users(ids []int) []*models.User {
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, s.store.UserByID(id))
	}
	return users
}

// Details returns the channel's name, visibility and members.
func (s *ChannelService) Details(token string, channelID int) (dto.ChannelDetailDTO, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return dto.ChannelDetailDTO{}, err
	}
	ch, err := s.channel(channelID)
	if err != nil {
		return dto.ChannelDetailDTO{}, err
	}
	if !models.ContainsID(ch.MemberIDs, user.ID) {
		return dto.ChannelDetailDTO{}, ErrNotMember
	}

	return dto.ChannelDetailDTO{
		Name:         ch.Name,
		IsPublic:     ch.IsPublic,
		OwnerMembers: dto.ToUserDTOs(s.users(ch.OwnerIDs)),
		AllMembers:   dto.ToUserDTOs(s.users(ch.MemberIDs)),
	}, nil
}

// Join adds the caller to a public channel. Global owners may also join private ones.
func (s *ChannelService) Join(token string, channelID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	ch, err := s.channel(channelID)
	if err != nil {
		return err
	}
	if models.ContainsID(ch.MemberIDs, user.ID) {
		return ErrAlreadyMember
	}
	if !ch.IsPublic && !s.store.IsGlobalOwner(user.ID) {
		return ErrPrivateChannel
	}

	ch.MemberIDs = append(ch.MemberIDs, user.ID)
	s.stats.ChannelMembershipChanged(user, 1)
	return nil
}

// Invite adds another user to a channel the caller belongs to.
func (s *ChannelService) Invite(token string, channelID, userID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	ch, err := s.channel(channelID)
	if err != nil {
		return err
	}
	invitee := s.store.ActiveUserByID(userID)
	if invitee == nil {
		return fmt.Errorf("%w (u_id %d)", ErrUserNotFound, userID)
	}
	if models.ContainsID(ch.MemberIDs, invitee.ID) {
		return ErrAlreadyMember
	}
	if !models.ContainsID(ch.MemberIDs, user.ID) {
		return ErrNotMember
	}

	ch.MemberIDs = append(ch.MemberIDs, invitee.ID)
	s.notifier.NotifyAdded(user, store.ChannelContainer(ch), invitee)
	s.stats.ChannelMembershipChanged(invitee, 1)
	return nil
}

// Messages returns a page of the channel's messages, newest first.
func (s *ChannelService) Messages(token string, channelID, start int) (store.Page, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return store.Page{}, err
	}
	ch, err := s.channel(channelID)
	if err != nil {
		return store.Page{}, err
	}
	if !models.ContainsID(ch.MemberIDs, user.ID) {
		return store.Page{}, ErrNotMember
	}
	return paginate(ch.Messages, start, user.ID)
}

// Leave removes the caller from the channel and its owners.
func (s *ChannelService) Leave(token string, channelID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	ch, err := s.channel(channelID)
	if err != nil {
		return err
	}
	if !models.ContainsID(ch.MemberIDs, user.ID) {
		return ErrNotMember
	}
	if ch.Standup.IsActive && ch.Standup.StarterID != nil && *ch.Standup.StarterID == user.ID {
		return ErrStandupStarterLeaving
	}

	ch.MemberIDs = models.WithoutID(ch.MemberIDs, user.ID)
	ch.OwnerIDs = models.WithoutID(ch.OwnerIDs, user.ID)
	s.stats.ChannelMembershipChanged(user, -1)
	return nil
}

// AddOwner promotes a member to channel owner.
func (s *ChannelService) AddOwner(token string, channelID, userID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	ch, err := s.channel(channelID)
	if err != nil {
		return err
	}
	target := s.store.ActiveUserByID(userID)
	if target == nil {
		return fmt.Errorf("%w (u_id %d)", ErrUserNotFound, userID)
	}
	if !models.ContainsID(ch.MemberIDs, target.ID) {
		return fmt.Errorf("%w (u_id %d)", ErrNotMember, target.ID)
	}
	if models.ContainsID(ch.OwnerIDs, target.ID) {
		return ErrAlreadyOwner
	}
	if !s.hasOwnerPermission(ch, user.ID) {
		return ErrNotChannelOwner
	}

	ch.OwnerIDs = append(ch.OwnerIDs, target.ID)
	return nil
}

// RemoveOwner demotes a channel owner. The last owner cannot be removed.
func (s *ChannelService) RemoveOwner(token string, channelID, userID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	ch, err := s.channel(channelID)
	if err != nil {
		return err
	}
	target := s.store.ActiveUserByID(userID)
	if target == nil {
		return fmt.Errorf("%w (u_id %d)", ErrUserNotFound, userID)
	}
	if !models.ContainsID(ch.OwnerIDs, target.ID) {
		return ErrNotOwner
	}
	if len(ch.OwnerIDs) == 1 {
		return ErrOnlyOwner
	}
	if !s.hasOwnerPermission(ch, user.ID) {
		return ErrNotChannelOwner
	}

	ch.OwnerIDs = models.WithoutID(ch.OwnerIDs, target.ID)
	return nil
}
