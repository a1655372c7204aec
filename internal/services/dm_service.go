package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yukikurage/workspace-messaging-api/internal/dto"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

// DmService provides direct message group operations.
type DmService struct {
	store    *store.Store
	notifier *NotificationService
	stats    *StatsService
}

// NewDmService creates a new DmService.
func NewDmService(st *store.Store, notifier *NotificationService, stats *StatsService) *DmService {
	return &DmService{store: st, notifier: notifier, stats: stats}
}

func (s *DmService) memberDm(token string, dmID int) (*models.User, *models.Dm, error) {
	user, err := authenticate(s.store, token)
	if err != nil {
		return nil, nil, err
	}
	dm := s.store.DmByID(dmID)
	if dm == nil {
		return nil, nil, fmt.Errorf("%w (dm %d)", ErrDmNotFound, dmID)
	}
	if !models.ContainsID(dm.MemberIDs, user.ID) {
		return nil, nil, ErrNotMember
	}
	return user, dm, nil
}

// Create opens a DM between the caller and userIDs and returns its id. The name is the
// sorted member handles and is not updated afterwards.
func (s *DmService) Create(token string, userIDs []int) (int, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return 0, err
	}

	members := []*models.User{user}
	seen := map[int]bool{user.ID: true}
	for _, id := range userIDs {
		u := s.store.ActiveUserByID(id)
		if u == nil || seen[id] {
			return 0, fmt.Errorf("%w (u_id %d)", ErrInvalidDmMembers, id)
		}
		seen[id] = true
		members = append(members, u)
	}

	handles := make([]string, 0, len(members))
	ids := make([]int, 0, len(members))
	for _, m := range members {
		handles = append(handles, m.Handle)
		ids = append(ids, m.ID)
	}
	sort.Strings(handles)

	d := s.store.Data()
	dm := &models.Dm{
		ID:        d.NextDmID,
		Name:      strings.Join(handles, ", "),
		OwnerID:   user.ID,
		MemberIDs: ids,
		Messages:  []*models.Message{},
	}
	d.NextDmID++
	d.Dms = append(d.Dms, dm)

	c := store.DmContainer(dm)
	for _, m := range members {
		if m.ID != user.ID {
			s.notifier.NotifyAdded(user, c, m)
		}
		s.stats.DmMembershipChanged(m, 1)
	}
	s.stats.DmsChanged()
	return dm.ID, nil
}

// List returns the DMs the caller belongs to.
func (s *DmService) List(token string) ([]dto.DmDTO, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return nil, err
	}

	out := []dto.DmDTO{}
	for _, dm := range s.store.Data().Dms {
		if models.ContainsID(dm.MemberIDs, user.ID) {
			out = append(out, dto.DmDTO{DmID: dm.ID, Name: dm.Name})
		}
	}
	return out, nil
}

// Remove deletes a DM and its messages. Only its creator, while still a member, may do this.
func (s *DmService) Remove(token string, dmID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, dm, err := s.memberDm(token, dmID)
	if err != nil {
		return err
	}
	if dm.OwnerID != user.ID {
		return ErrNotDmCreator
	}

	d := s.store.Data()
	for i, other := range d.Dms {
		if other.ID == dm.ID {
			d.Dms = append(d.Dms[:i], d.Dms[i+1:]...)
			break
		}
	}
	for _, id := range dm.MemberIDs {
		if m := s.store.UserByID(id); m != nil {
			s.stats.DmMembershipChanged(m, -1)
		}
	}
	s.stats.MessagesRemoved(len(dm.Messages))
	s.stats.DmsChanged()
	return nil
}

// Details returns the DM's name and members.
func (s *DmService) Details(token string, dmID int) (dto.DmDetailDTO, error) {
	s.store.Lock()
	defer s.store.Unlock()

	_, dm, err := s.memberDm(token, dmID)
	if err != nil {
		return dto.DmDetailDTO{}, err
	}

	members := make([]*models.User, 0, len(dm.MemberIDs))
	for _, id := range dm.MemberIDs {
		members = append(members, s.store.UserByID(id))
	}
	return dto.DmDetailDTO{Name: dm.Name, Members: dto.ToUserDTOs(members)}, nil
}

// Leave removes the caller from the DM. The DM keeps its name and creator.
func (s *DmService) Leave(token string, dmID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, dm, err := s.memberDm(token, dmID)
	if err != nil {
		return err
	}
	dm.MemberIDs = models.WithoutID(dm.MemberIDs, user.ID)
	s.stats.DmMembershipChanged(user, -1)
	return nil
}

// Messages returns a page of the DM's messages, newest first.
func (s *DmService) Messages(token string, dmID, start int) (store.Page, error) {
	s.store.Lock()
	defer s.store.Unlock()

	user, dm, err := s.memberDm(token, dmID)
	if err != nil {
		return store.Page{}, err
	}
	return paginate(dm.Messages, start, user.ID)
}
