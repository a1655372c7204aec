package services

import (
	"fmt"

	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
	"github.com/yukikurage/workspace-messaging-api/internal/utils"
)

// NotificationService extracts mentions and fans notifications out to users.
// Notify methods expect the caller to hold the store lock.
type NotificationService struct {
	store *store.Store
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(st *store.Store) *NotificationService {
	return &NotificationService{store: st}
}

// ExtractHandles returns the distinct handles mentioned in text, in order of first
// appearance. A mention is '@' followed by the longest run of ASCII letters and digits;
// scanning resumes right after the run, so "@alice@bob" yields both handles.
func ExtractHandles(text string) []string {
	var handles []string
	seen := map[string]bool{}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '@' {
			continue
		}
		j := i + 1
		for j < len(runes) && utils.IsAlphanumeric(runes[j]) {
			j++
		}
		if j > i+1 {
			handle := string(runes[i+1 : j])
			if !seen[handle] {
				seen[handle] = true
				handles = append(handles, handle)
			}
		}
		i = j - 1
	}
	return handles
}

// NotifyMentions tags every member of c mentioned in text.
func (s *NotificationService) NotifyMentions(text string, author *models.User, c store.Container) {
	s.NotifyTagged(text, text, author, c)
}

// NotifyTagged tags members of c mentioned in source, previewing text. Shares use it to
// take mentions from the annotation only.
func (s *NotificationService) NotifyTagged(source, text string, author *models.User, c store.Container) {
	preview := utils.Truncate(text, constants.NotificationPreviewLength)
	for _, handle := range ExtractHandles(source) {
		recipient := s.store.UserByHandle(handle)
		if recipient == nil || !c.IsMember(recipient.ID) {
			continue
		}
		recipient.PushNotification(c.Notification(
			fmt.Sprintf("%s tagged you in %s: %s", author.Handle, c.Name(), preview),
		))
	}
}

// NotifyReaction tells the author of msg about a reaction, provided they are still a member of c.
func (s *NotificationService) NotifyReaction(reactor *models.User, msg *models.Message, c store.Container) {
	recipient := s.store.ActiveUserByID(msg.UserID)
	if recipient == nil || !c.IsMember(recipient.ID) {
		return
	}
	recipient.PushNotification(c.Notification(
		fmt.Sprintf("%s reacted to your message in %s", reactor.Handle, c.Name()),
	))
}

// NotifyAdded tells recipient they were added to c.
func (s *NotificationService) NotifyAdded(adder *models.User, c store.Container, recipient *models.User) {
	recipient.PushNotification(c.Notification(
		fmt.Sprintf("%s added you to %s", adder.Handle, c.Name()),
	))
}

// List returns the caller's most recent notifications.
func (s *NotificationService) List(token string) ([]models.Notification, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return nil, err
	}

	n := len(user.Notifications)
	if n > constants.NotificationLimit {
		n = constants.NotificationLimit
	}
	return append([]models.Notification{}, user.Notifications[:n]...), nil
}
