package store

import (
	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/utils"
)

// Lookups in this file expect the caller to hold the lock.

// ResolveSession returns the active user holding token, or nil.
func (s *Store) ResolveSession(token string) *models.User {
	if token == "" {
		return nil
	}
	hash := utils.HashToken(token)
	for _, u := range s.data.Users {
		if !u.Removed && u.HasTokenHash(hash) {
			return u
		}
	}
	return nil
}

// UserByID returns any user with the id, including removed ones.
func (s *Store) UserByID(id int) *models.User {
	if id < 0 || id >= len(s.data.Users) || s.data.Users[id].ID != id {
		for _, u := range s.data.Users {
			if u.ID == id {
				return u
			}
		}
		return nil
	}
	return s.data.Users[id]
}

// ActiveUserByID is UserByID without removed users.
func (s *Store) ActiveUserByID(id int) *models.User {
	u := s.UserByID(id)
	if u == nil || u.Removed {
		return nil
	}
	return u
}

func (s *Store) UserByHandle(handle string) *models.User {
	for _, u := range s.data.Users {
		if !u.Removed && u.Handle == handle {
			return u
		}
	}
	return nil
}

func (s *Store) UserByEmail(email string) *models.User {
	for _, u := range s.data.Users {
		if !u.Removed && u.Email == email {
			return u
		}
	}
	return nil
}

// ActiveUsers returns users that have not been removed, in id order.
func (s *Store) ActiveUsers() []*models.User {
	users := make([]*models.User, 0, len(s.data.Users))
	for _, u := range s.data.Users {
		if !u.Removed {
			users = append(users, u)
		}
	}
	return users
}

func (s *Store) ChannelByID(id int) *models.Channel {
	for _, ch := range s.data.Channels {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

func (s *Store) DmByID(id int) *models.Dm {
	for _, dm := range s.data.Dms {
		if dm.ID == id {
			return dm
		}
	}
	return nil
}

// ContainerByTarget resolves a (channel id, dm id) pair where the unused side is -1.
func (s *Store) ContainerByTarget(channelID, dmID int) (Container, bool) {
	if ch := s.ChannelByID(channelID); ch != nil {
		return ChannelContainer(ch), true
	}
	if dm := s.DmByID(dmID); dm != nil {
		return DmContainer(dm), true
	}
	return Container{}, false
}

func (s *Store) IsGlobalOwner(userID int) bool {
	return models.ContainsID(s.data.GlobalOwnerIDs, userID)
}

// IsContainerOwner: channel owners and global owners own a channel; only the creator owns a DM.
func (s *Store) IsContainerOwner(c Container, userID int) bool {
	if c.IsChannel() {
		return models.ContainsID(c.Channel.OwnerIDs, userID) || s.IsGlobalOwner(userID)
	}
	return c.Dm.OwnerID == userID
}
