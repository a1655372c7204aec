package dto

import (
	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID            int    `json:"u_id"`
	Email         string `json:"email"`
	NameFirst     string `json:"name_first"`
	NameLast      string `json:"name_last"`
	Handle        string `json:"handle_str"`
	ProfileImgURL string `json:"profile_img_url"`
}

// AuthDTO is returned by register and login
type AuthDTO struct {
	Token      string `json:"token"`
	AuthUserID int    `json:"auth_user_id"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	img := user.ProfileImgURL
	if img == "" {
		img = constants.DefaultProfileImgURL
	}
	return UserDTO{
		ID:            user.ID,
		Email:         user.Email,
		NameFirst:     user.NameFirst,
		NameLast:      user.NameLast,
		Handle:        user.Handle,
		ProfileImgURL: img,
	}
}

// ToUserDTOs converts users, skipping nil entries
func ToUserDTOs(users []*models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		if u != nil {
			out = append(out, ToUserDTO(*u))
		}
	}
	return out
}
