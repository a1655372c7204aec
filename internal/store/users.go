package store

import (
	"strconv"

	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/utils"
)

// UniqueHandle derives a handle from the names and, if it is taken, appends the
// smallest integer suffix that makes it free. Caller holds the lock.
func (s *Store) UniqueHandle(nameFirst, nameLast string) string {
	base := utils.HandleBase(nameFirst, nameLast, constants.MaxHandleLength)
	handle := base
	for n := 0; s.UserByHandle(handle) != nil; n++ {
		handle = base + strconv.Itoa(n)
	}
	return handle
}

// AddUser assigns the next user id and stores u. Caller holds the lock.
func (s *Store) AddUser(u *models.User) {
	u.ID = len(s.data.Users)
	if u.TokenHashes == nil {
		u.TokenHashes = []string{}
	}
	if u.ResetCodeHashes == nil {
		u.ResetCodeHashes = []string{}
	}
	if u.Notifications == nil {
		u.Notifications = []models.Notification{}
	}
	s.data.Users = append(s.data.Users, u)
}
