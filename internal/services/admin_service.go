package services

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

// AdminService holds global owner operations.
type AdminService struct {
	store *store.Store
}

// NewAdminService creates a new AdminService.
func NewAdminService(st *store.Store) *AdminService {
	return &AdminService{store: st}
}

func (s *AdminService) authorize(token string, targetID int) (*models.User, error) {
	user, err := authenticate(s.store, token)
	if err != nil {
		return nil, err
	}
	target := s.store.ActiveUserByID(targetID)
	if target == nil {
		return nil, fmt.Errorf("%w (u_id %d)", ErrUserNotFound, targetID)
	}
	if !s.store.IsGlobalOwner(user.ID) {
		return nil, ErrNotGlobalOwner
	}
	return target, nil
}

func (s *AdminService) onlyGlobalOwner(userID int) bool {
	owners := s.store.Data().GlobalOwnerIDs
	return len(owners) == 1 && owners[0] == userID
}

// ChangePermission makes the target a global owner (1) or a plain member (2).
func (s *AdminService) ChangePermission(token string, userID, permissionID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	target, err := s.authorize(token, userID)
	if err != nil {
		return err
	}
	if permissionID != constants.PermissionOwner && permissionID != constants.PermissionMember {
		return ErrInvalidPermission
	}

	d := s.store.Data()
	isOwner := s.store.IsGlobalOwner(target.ID)
	switch {
	case permissionID == constants.PermissionOwner && isOwner,
		permissionID == constants.PermissionMember && !isOwner:
		return ErrPermissionSame
	case permissionID == constants.PermissionMember && s.onlyGlobalOwner(target.ID):
		return ErrOnlyGlobalOwner
	case permissionID == constants.PermissionOwner:
		d.GlobalOwnerIDs = append(d.GlobalOwnerIDs, target.ID)
	default:
		d.GlobalOwnerIDs = models.WithoutID(d.GlobalOwnerIDs, target.ID)
	}
	return nil
}

// RemoveUser turns the target into a tombstone. Their messages stay, with replaced text,
// so attribution survives; their handle and email become free.
func (s *AdminService) RemoveUser(token string, userID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	target, err := s.authorize(token, userID)
	if err != nil {
		return err
	}
	if s.onlyGlobalOwner(target.ID) {
		return ErrOnlyGlobalOwner
	}

	d := s.store.Data()
	scrub := func(msgs []*models.Message) {
		for _, m := range msgs {
			if m.UserID == target.ID {
				m.Text = constants.RemovedMessageText
			}
		}
	}
	for _, ch := range d.Channels {
		ch.MemberIDs = models.WithoutID(ch.MemberIDs, target.ID)
		ch.OwnerIDs = models.WithoutID(ch.OwnerIDs, target.ID)
		scrub(ch.Messages)
	}
	for _, dm := range d.Dms {
		dm.MemberIDs = models.WithoutID(dm.MemberIDs, target.ID)
		scrub(dm.Messages)
	}
	d.GlobalOwnerIDs = models.WithoutID(d.GlobalOwnerIDs, target.ID)

	target.Removed = true
	target.NameFirst = constants.RemovedUserFirstName
	target.NameLast = constants.RemovedUserLastName
	target.TokenHashes = []string{}
	target.ResetCodeHashes = []string{}

	slog.Info("admin: User removed", "u_id", target.ID)
	return nil
}
