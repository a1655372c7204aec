package models

type User struct {
	ID              int            `json:"u_id"`
	Email           string         `json:"email"`
	PasswordHash    string         `json:"password_hash"`
	NameFirst       string         `json:"name_first"`
	NameLast        string         `json:"name_last"`
	Handle          string         `json:"handle_str"`
	ProfileImgURL   string         `json:"profile_img_url"`
	TokenHashes     []string       `json:"token_hashes"`
	ResetCodeHashes []string       `json:"reset_code_hashes"`
	Notifications   []Notification `json:"notifications"`
	Stats           UserStats      `json:"stats"`
	Removed         bool           `json:"removed"`
}

// HasTokenHash reports whether the user holds an active session with the given token hash.
func (u *User) HasTokenHash(hash string) bool {
	for _, h := range u.TokenHashes {
		if h == hash {
			return true
		}
	}
	return false
}

// RemoveTokenHash drops a session. It reports false when the session was not held.
func (u *User) RemoveTokenHash(hash string) bool {
	for i, h := range u.TokenHashes {
		if h == hash {
			u.TokenHashes = append(u.TokenHashes[:i], u.TokenHashes[i+1:]...)
			return true
		}
	}
	return false
}

// PushNotification prepends n so the queue stays most-recent-first.
func (u *User) PushNotification(n Notification) {
	u.Notifications = append([]Notification{n}, u.Notifications...)
}
