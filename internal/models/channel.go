package models

type Channel struct {
	ID        int        `json:"channel_id"`
	Name      string     `json:"name"`
	IsPublic  bool       `json:"is_public"`
	OwnerIDs  []int      `json:"owner_members"`
	MemberIDs []int      `json:"all_members"`
	Messages  []*Message `json:"messages"`
	Standup   Standup    `json:"standup"`
}

// Standup is the per-channel aggregation window. Only one can be active at a time.
type Standup struct {
	IsActive   bool   `json:"is_active"`
	TimeFinish *int64 `json:"time_finish"`
	Buffer     string `json:"buffer"`
	StarterID  *int   `json:"starter_id"`
}

// Reset returns the standup to its inactive state.
func (s *Standup) Reset() {
	*s = Standup{}
}

type Dm struct {
	ID        int        `json:"dm_id"`
	Name      string     `json:"name"`
	OwnerID   int        `json:"owner"`
	MemberIDs []int      `json:"members"`
	Messages  []*Message `json:"messages"`
}

// ContainsID reports whether id is in ids.
func ContainsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// WithoutID returns ids with every occurrence of id removed.
func WithoutID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
