package store

import (
	"errors"

	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
)

var ErrInvalidRange = errors.New("start is greater than the total number of messages")

// AllocateMessageID returns an id above every existing, reserved or previously handed out id.
// Reserved ids are kept for good so a deferred message never collides with a later send.
// Caller holds the lock.
func (s *Store) AllocateMessageID(reserve bool) int {
	next := s.data.NextMessageID
	bump := func(id int) {
		if id >= next {
			next = id + 1
		}
	}
	for _, ch := range s.data.Channels {
		for _, m := range ch.Messages {
			bump(m.ID)
		}
	}
	for _, dm := range s.data.Dms {
		for _, m := range dm.Messages {
			bump(m.ID)
		}
	}
	for _, id := range s.data.ReservedMessageIDs {
		bump(id)
	}

	s.data.NextMessageID = next + 1
	if reserve {
		s.data.ReservedMessageIDs = append(s.data.ReservedMessageIDs, next)
	}
	return next
}

// Location is where a message lives.
type Location struct {
	Message   *models.Message
	Container Container
	Index     int
}

// FindMessage scans channels then DMs. Caller holds the lock.
func (s *Store) FindMessage(id int) (Location, bool) {
	for _, ch := range s.data.Channels {
		for i, m := range ch.Messages {
			if m.ID == id {
				return Location{Message: m, Container: ChannelContainer(ch), Index: i}, true
			}
		}
	}
	for _, dm := range s.data.Dms {
		for i, m := range dm.Messages {
			if m.ID == id {
				return Location{Message: m, Container: DmContainer(dm), Index: i}, true
			}
		}
	}
	return Location{}, false
}

type Page struct {
	Messages []models.MessageView `json:"messages"`
	Start    int                  `json:"start"`
	End      int                  `json:"end"`
}

// Paginate returns up to PageSize messages from start, newest first. A negative start
// selects nothing. End is -1 when no messages remain past the page.
func Paginate(messages []*models.Message, start, viewerID int) (Page, error) {
	total := len(messages)
	if start > total {
		return Page{}, ErrInvalidRange
	}

	page := Page{
		Messages: []models.MessageView{},
		Start:    start,
		End:      constants.EndOfMessages,
	}
	if start < 0 {
		return page, nil
	}

	end := start + constants.PageSize
	if end > total {
		end = total
	}
	for _, m := range messages[start:end] {
		page.Messages = append(page.Messages, m.View(viewerID))
	}
	if start+constants.PageSize < total {
		page.End = start + constants.PageSize
	}
	return page, nil
}
