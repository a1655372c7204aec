package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/dto"
	"github.com/yukikurage/workspace-messaging-api/internal/images"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
	"github.com/yukikurage/workspace-messaging-api/internal/utils"
)

// PhotoCropper crops a remote image into a user's profile photo and returns its url.
type PhotoCropper interface {
	SaveCropped(ctx context.Context, userID int, url string, box image.Rectangle) (string, error)
}

// UserService exposes user profiles.
type UserService struct {
	store    *store.Store
	photos   PhotoCropper
	validate *validator.Validate
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store, photos PhotoCropper) *UserService {
	return &UserService{store: st, photos: photos, validate: validator.New()}
}

// All returns every user that has not been removed.
func (s *UserService) All(token string) ([]dto.UserDTO, error) {
	s.store.Lock()
	defer s.store.Unlock()

	if _, err := authenticate(s.store, token); err != nil {
		return nil, err
	}
	return dto.ToUserDTOs(s.store.ActiveUsers()), nil
}

// Profile returns any user, removed users included.
func (s *UserService) Profile(token string, userID int) (dto.UserDTO, error) {
	s.store.Lock()
	defer s.store.Unlock()

	if _, err := authenticate(s.store, token); err != nil {
		return dto.UserDTO{}, err
	}
	u := s.store.UserByID(userID)
	if u == nil {
		return dto.UserDTO{}, fmt.Errorf("%w (u_id %d)", ErrUserNotFound, userID)
	}
	return dto.ToUserDTO(*u), nil
}

// SetName updates the caller's first and last names.
func (s *UserService) SetName(token, nameFirst, nameLast string) error {
	if !validName(nameFirst) || !validName(nameLast) {
		return ErrInvalidName
	}

	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	user.NameFirst = nameFirst
	user.NameLast = nameLast
	return nil
}

// SetEmail changes the caller's email.
func (s *UserService) SetEmail(token, email string) error {
	email = strings.TrimSpace(email)
	if s.validate.Var(email, "required,email") != nil {
		return ErrInvalidEmail
	}

	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	if isBotEmail(email) {
		return ErrEmailTaken
	}
	if other := s.store.UserByEmail(email); other != nil && other.ID != user.ID {
		return ErrEmailTaken
	}
	user.Email = email
	return nil
}

// SetHandle changes the caller's handle.
func (s *UserService) SetHandle(token, handle string) error {
	n := len(handle)
	if n < constants.MinHandleLength || n > constants.MaxHandleLength || !utils.IsAlphanumericString(handle) {
		return ErrInvalidHandle
	}

	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	if other := s.store.UserByHandle(handle); other != nil && other.ID != user.ID {
		return ErrHandleTaken
	}
	user.Handle = handle
	return nil
}

// UploadPhotoInput names a jpg and the crop box inside it. Coordinates start at 1 and
// both corners are included.
type UploadPhotoInput struct {
	Token  string
	ImgURL string
	XStart int
	YStart int
	XEnd   int
	YEnd   int
}

// UploadPhoto crops the image at ImgURL and makes it the caller's profile photo. The
// download runs without holding the store lock.
func (s *UserService) UploadPhoto(ctx context.Context, input UploadPhotoInput) error {
	s.store.Lock()
	user, err := authenticate(s.store, input.Token)
	s.store.Unlock()
	if err != nil {
		return err
	}

	lower := strings.ToLower(input.ImgURL)
	if !strings.HasSuffix(lower, ".jpg") && !strings.HasSuffix(lower, ".jpeg") {
		return ErrNotJPEG
	}
	if input.XStart < 1 || input.YStart < 1 || input.XEnd <= input.XStart || input.YEnd <= input.YStart {
		return ErrInvalidCrop
	}
	if s.photos == nil {
		return ErrPhotosDisabled
	}

	box := image.Rect(input.XStart-1, input.YStart-1, input.XEnd, input.YEnd)
	url, err := s.photos.SaveCropped(ctx, user.ID, input.ImgURL, box)
	switch {
	case errors.Is(err, images.ErrOutOfBounds):
		return fmt.Errorf("%w: %v", ErrInvalidCrop, err)
	case errors.Is(err, images.ErrFetch), errors.Is(err, images.ErrDecode):
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	case err != nil:
		return err
	}

	s.store.Lock()
	defer s.store.Unlock()

	// The session may have ended during the download.
	user, err = authenticate(s.store, input.Token)
	if err != nil {
		return err
	}
	user.ProfileImgURL = url
	return nil
}
