package models

type Message struct {
	ID       int     `json:"message_id"`
	UserID   int     `json:"u_id"`
	Text     string  `json:"message"`
	TimeSent int64   `json:"time_sent"`
	IsPinned bool    `json:"is_pinned"`
	Reacts   []React `json:"reacts"`
}

type React struct {
	ReactID int   `json:"react_id"`
	UserIDs []int `json:"u_ids"`
}

// MessageView is a message as seen by one user. IsThisUserReacted is computed per request.
type MessageView struct {
	MessageID int         `json:"message_id"`
	UserID    int         `json:"u_id"`
	Message   string      `json:"message"`
	TimeSent  int64       `json:"time_sent"`
	IsPinned  bool        `json:"is_pinned"`
	Reacts    []ReactView `json:"reacts"`
}

type ReactView struct {
	ReactID           int   `json:"react_id"`
	UserIDs           []int `json:"u_ids"`
	IsThisUserReacted bool  `json:"is_this_user_reacted"`
}

// FindReact returns the index of the react record with the given kind, or -1.
func (m *Message) FindReact(reactID int) int {
	for i, r := range m.Reacts {
		if r.ReactID == reactID {
			return i
		}
	}
	return -1
}

// View copies the message and marks which reactions include viewerID.
func (m *Message) View(viewerID int) MessageView {
	reacts := make([]ReactView, 0, len(m.Reacts))
	for _, r := range m.Reacts {
		reacts = append(reacts, ReactView{
			ReactID:           r.ReactID,
			UserIDs:           append([]int(nil), r.UserIDs...),
			IsThisUserReacted: ContainsID(r.UserIDs, viewerID),
		})
	}
	return MessageView{
		MessageID: m.ID,
		UserID:    m.UserID,
		Message:   m.Text,
		TimeSent:  m.TimeSent,
		IsPinned:  m.IsPinned,
		Reacts:    reacts,
	}
}
