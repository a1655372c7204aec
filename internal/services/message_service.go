package services

import (
	"fmt"
	"strings"

	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/scheduler"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

// CommandDispatcher receives channel messages that start with a bot command.
// It is called with the store lock held, after the message has been stored.
type CommandDispatcher interface {
	Dispatch(channelID int, text string)
}

var botCommands = []string{"/play", "/guess", "/stop", "/help"}

func isBotCommand(text string) bool {
	for _, cmd := range botCommands {
		if strings.HasPrefix(text, cmd) {
			return true
		}
	}
	return false
}

// MessageService implements the message lifecycle: send, edit, remove, pin, react, share and search.
type MessageService struct {
	store    *store.Store
	clock    scheduler.Clock
	notifier *NotificationService
	stats    *StatsService
	delivery *DeliveryService
	bot      CommandDispatcher
}

// NewMessageService creates a new MessageService. bot may be nil.
func NewMessageService(st *store.Store, clock scheduler.Clock, notifier *NotificationService, stats *StatsService, delivery *DeliveryService, bot CommandDispatcher) *MessageService {
	return &MessageService{
		store:    st,
		clock:    clock,
		notifier: notifier,
		stats:    stats,
		delivery: delivery,
		bot:      bot,
	}
}

func validLength(text string) bool {
	n := len([]rune(text))
	return n >= constants.MinMessageLength && n <= constants.MaxMessageLength
}

func (s *MessageService) channelContainer(id int) (store.Container, error) {
	ch := s.store.ChannelByID(id)
	if ch == nil {
		return store.Container{}, fmt.Errorf("%w (channel %d)", ErrChannelNotFound, id)
	}
	return store.ChannelContainer(ch), nil
}

func (s *MessageService) dmContainer(id int) (store.Container, error) {
	dm := s.store.DmByID(id)
	if dm == nil {
		return store.Container{}, fmt.Errorf("%w (dm %d)", ErrDmNotFound, id)
	}
	return store.DmContainer(dm), nil
}

// SendToChannel posts text to a channel and returns the new message id.
func (s *MessageService) SendToChannel(token string, channelID int, text string) (int, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return 0, err
	}
	c, err := s.channelContainer(channelID)
	if err != nil {
		return 0, err
	}
	return s.send(user, c, text)
}

// SendToDm posts text to a DM and returns the new message id.
func (s *MessageService) SendToDm(token string, dmID int, text string) (int, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return 0, err
	}
	c, err := s.dmContainer(dmID)
	if err != nil {
		return 0, err
	}
	return s.send(user, c, text)
}

func (s *MessageService) send(user *models.User, c store.Container, text string) (int, error) {
	if !validLength(text) {
		return 0, ErrInvalidMessageLength
	}
	if !c.IsMember(user.ID) {
		return 0, ErrNotMember
	}

	msg := &models.Message{
		ID:       s.store.AllocateMessageID(false),
		UserID:   user.ID,
		Text:     text,
		TimeSent: s.clock.Now().Unix(),
		Reacts:   []models.React{},
	}
	c.Prepend(msg)
	s.notifier.NotifyMentions(text, user, c)
	s.stats.MessageSent(user)

	if s.bot != nil && c.IsChannel() && isBotCommand(text) {
		s.bot.Dispatch(c.ID(), text)
	}
	return msg.ID, nil
}

// canModify reports whether user may edit or remove msg in c.
func (s *MessageService) canModify(user *models.User, msg *models.Message, c store.Container) bool {
	return msg.UserID == user.ID || s.store.IsContainerOwner(c, user.ID) || s.store.IsGlobalOwner(user.ID)
}

// Edit replaces the text of a message. An empty text removes the message.
func (s *MessageService) Edit(token string, messageID int, text string) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	loc, ok := s.store.FindMessage(messageID)
	if !ok {
		return fmt.Errorf("%w (id %d)", ErrMessageNotFound, messageID)
	}
	if len([]rune(text)) > constants.MaxMessageLength {
		return ErrMessageTooLong
	}
	if !s.canModify(user, loc.Message, loc.Container) {
		return ErrNotMessageEditor
	}

	if text == "" {
		loc.Container.RemoveMessage(messageID)
		s.stats.MessagesRemoved(1)
		return nil
	}
	s.notifier.NotifyMentions(text, user, loc.Container)
	loc.Message.Text = text
	return nil
}

// Remove deletes a message.
func (s *MessageService) Remove(token string, messageID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	if messageID < 0 {
		return ErrInvalidMessageID
	}
	loc, ok := s.store.FindMessage(messageID)
	if !ok {
		return fmt.Errorf("%w (id %d)", ErrMessageNotFound, messageID)
	}
	if !s.canModify(user, loc.Message, loc.Container) {
		return ErrNotMessageEditor
	}

	loc.Container.RemoveMessage(messageID)
	s.stats.MessagesRemoved(1)
	return nil
}

// visibleMessage finds a message inside a container the user belongs to.
func (s *MessageService) visibleMessage(user *models.User, messageID int) (store.Location, error) {
	loc, ok := s.store.FindMessage(messageID)
	if !ok || !loc.Container.IsMember(user.ID) {
		return store.Location{}, fmt.Errorf("%w (id %d)", ErrMessageNotFound, messageID)
	}
	return loc, nil
}

// canPin: channel owners and global owners moderate channels; only the creator moderates a DM.
func (s *MessageService) canPin(user *models.User, c store.Container) bool {
	return s.store.IsContainerOwner(c, user.ID)
}

// Pin marks a message as pinned.
func (s *MessageService) Pin(token string, messageID int) error {
	return s.setPinned(token, messageID, true)
}

// Unpin clears the pinned mark.
func (s *MessageService) Unpin(token string, messageID int) error {
	return s.setPinned(token, messageID, false)
}

func (s *MessageService) setPinned(token string, messageID int, pinned bool) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	loc, err := s.visibleMessage(user, messageID)
	if err != nil {
		return err
	}
	if loc.Message.IsPinned == pinned {
		if pinned {
			return ErrAlreadyPinned
		}
		return ErrNotPinned
	}
	if !s.canPin(user, loc.Container) {
		return ErrNotMessageModerator
	}

	loc.Message.IsPinned = pinned
	return nil
}

// React adds the caller's reaction to a message and notifies its author.
func (s *MessageService) React(token string, messageID, reactID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	if reactID != constants.ReactThumbsUp {
		return ErrInvalidReact
	}
	loc, err := s.visibleMessage(user, messageID)
	if err != nil {
		return err
	}

	msg := loc.Message
	if i := msg.FindReact(reactID); i >= 0 {
		if models.ContainsID(msg.Reacts[i].UserIDs, user.ID) {
			return ErrAlreadyReacted
		}
		msg.Reacts[i].UserIDs = append(msg.Reacts[i].UserIDs, user.ID)
	} else {
		msg.Reacts = append(msg.Reacts, models.React{ReactID: reactID, UserIDs: []int{user.ID}})
	}

	s.notifier.NotifyReaction(user, msg, loc.Container)
	return nil
}

// Unreact removes the caller's reaction. The record goes away with its last reactor.
func (s *MessageService) Unreact(token string, messageID, reactID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	if reactID != constants.ReactThumbsUp {
		return ErrInvalidReact
	}
	loc, err := s.visibleMessage(user, messageID)
	if err != nil {
		return err
	}

	msg := loc.Message
	i := msg.FindReact(reactID)
	if i < 0 || !models.ContainsID(msg.Reacts[i].UserIDs, user.ID) {
		return ErrNotReacted
	}
	if len(msg.Reacts[i].UserIDs) == 1 {
		msg.Reacts = append(msg.Reacts[:i], msg.Reacts[i+1:]...)
		return nil
	}
	msg.Reacts[i].UserIDs = models.WithoutID(msg.Reacts[i].UserIDs, user.ID)
	return nil
}

// ShareInput describes a repost. Exactly one of ChannelID and DmID is not -1.
type ShareInput struct {
	Token      string
	MessageID  int
	Annotation string
	ChannelID  int
	DmID       int
}

// Share reposts an existing message, optionally annotated, and returns the new message id.
func (s *MessageService) Share(input ShareInput) (int, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, input.Token)
	if err != nil {
		return 0, err
	}
	if (input.ChannelID == constants.NoContainer) == (input.DmID == constants.NoContainer) {
		return 0, ErrInvalidShareTarget
	}
	if len([]rune(input.Annotation)) > constants.MaxMessageLength {
		return 0, ErrMessageTooLong
	}
	dest, ok := s.store.ContainerByTarget(input.ChannelID, input.DmID)
	if !ok {
		if input.ChannelID != constants.NoContainer {
			return 0, fmt.Errorf("%w (channel %d)", ErrChannelNotFound, input.ChannelID)
		}
		return 0, fmt.Errorf("%w (dm %d)", ErrDmNotFound, input.DmID)
	}
	source, err := s.visibleMessage(user, input.MessageID)
	if err != nil {
		return 0, err
	}
	if !dest.IsMember(user.ID) {
		return 0, ErrNotMember
	}

	text := source.Message.Text
	if input.Annotation != "" {
		text += " " + input.Annotation
	}
	msg := &models.Message{
		ID:       s.store.AllocateMessageID(false),
		UserID:   user.ID,
		Text:     text,
		TimeSent: s.clock.Now().Unix(),
		Reacts:   []models.React{},
	}
	dest.Prepend(msg)
	if input.Annotation != "" {
		s.notifier.NotifyTagged(input.Annotation, text, user, dest)
	}
	s.stats.MessageSent(user)
	return msg.ID, nil
}

// Search returns messages containing query, ignoring case, from every container the caller belongs to.
func (s *MessageService) Search(token, query string) ([]models.MessageView, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return nil, err
	}
	if !validLength(query) {
		return nil, ErrInvalidQuery
	}

	needle := strings.ToLower(query)
	results := []models.MessageView{}
	collect := func(c store.Container) {
		if !c.IsMember(user.ID) {
			return
		}
		for _, m := range c.Messages() {
			if strings.Contains(strings.ToLower(m.Text), needle) {
				results = append(results, m.View(user.ID))
			}
		}
	}
	for _, ch := range s.store.Data().Channels {
		collect(store.ChannelContainer(ch))
	}
	for _, dm := range s.store.Data().Dms {
		collect(store.DmContainer(dm))
	}
	return results, nil
}

// SendLaterToChannel schedules a channel message for timeSent (epoch seconds) and returns its reserved id.
func (s *MessageService) SendLaterToChannel(token string, channelID int, text string, timeSent int64) (int, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return 0, err
	}
	c, err := s.channelContainer(channelID)
	if err != nil {
		return 0, err
	}
	return s.sendLater(user, c, text, timeSent)
}

// SendLaterToDm schedules a DM message for timeSent (epoch seconds) and returns its reserved id.
func (s *MessageService) SendLaterToDm(token string, dmID int, text string, timeSent int64) (int, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return 0, err
	}
	c, err := s.dmContainer(dmID)
	if err != nil {
		return 0, err
	}
	return s.sendLater(user, c, text, timeSent)
}

func (s *MessageService) sendLater(user *models.User, c store.Container, text string, timeSent int64) (int, error) {
	if !validLength(text) {
		return 0, ErrInvalidMessageLength
	}
	if timeSent < s.clock.Now().Unix() {
		return 0, ErrTimeInPast
	}
	if !c.IsMember(user.ID) {
		return 0, ErrNotMember
	}
	return s.delivery.ScheduleSend(c, Draft{AuthorID: user.ID, Text: text, TimeSent: timeSent}), nil
}
