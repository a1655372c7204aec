package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/dto"
	"github.com/yukikurage/workspace-messaging-api/internal/models"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
	"github.com/yukikurage/workspace-messaging-api/internal/utils"
)

// CodeSender delivers password reset codes to users.
type CodeSender interface {
	SendResetCode(email, code string) error
}

// LogCodeSender writes reset codes to the debug log instead of mailing them.
type LogCodeSender struct{}

func (LogCodeSender) SendResetCode(email, code string) error {
	slog.Debug("auth: Password reset code issued", "email", email, "code", code)
	return nil
}

// AuthService handles registration, sessions and password resets.
type AuthService struct {
	store    *store.Store
	stats    *StatsService
	sender   CodeSender
	validate *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(st *store.Store, stats *StatsService, sender CodeSender) *AuthService {
	if sender == nil {
		sender = LogCodeSender{}
	}
	return &AuthService{
		store:    st,
		stats:    stats,
		sender:   sender,
		validate: validator.New(),
	}
}

func (s *AuthService) validEmail(email string) bool {
	return s.validate.Var(email, "required,email") == nil
}

func isBotEmail(email string) bool {
	return strings.EqualFold(email, constants.BotEmail)
}

func validName(name string) bool {
	n := len([]rune(name))
	return n >= constants.MinNameLength && n <= constants.MaxNameLength
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email     string
	Password  string
	NameFirst string
	NameLast  string
}

// Register creates a user and logs them in. The first user becomes a global owner.
func (s *AuthService) Register(input RegisterInput) (dto.AuthDTO, error) {
	email := strings.TrimSpace(input.Email)
	if !s.validEmail(email) {
		return dto.AuthDTO{}, ErrInvalidEmail
	}
	if !validName(input.NameFirst) || !validName(input.NameLast) {
		return dto.AuthDTO{}, ErrInvalidName
	}
	if len(input.Password) < constants.MinPasswordLength {
		return dto.AuthDTO{}, ErrPasswordTooShort
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return dto.AuthDTO{}, fmt.Errorf("%w: %v", ErrFailedToHash, err)
	}

	s.store.Lock()
	defer s.store.Unlock()

	if isBotEmail(email) || s.store.UserByEmail(email) != nil {
		return dto.AuthDTO{}, ErrEmailTaken
	}

	token := utils.GenerateToken()
	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		NameFirst:    input.NameFirst,
		NameLast:     input.NameLast,
		Handle:       s.store.UniqueHandle(input.NameFirst, input.NameLast),
		TokenHashes:  []string{utils.HashToken(token)},
	}
	s.store.AddUser(user)
	s.stats.InitUser(user)

	d := s.store.Data()
	if len(d.GlobalOwnerIDs) == 0 {
		d.GlobalOwnerIDs = append(d.GlobalOwnerIDs, user.ID)
	}

	slog.Info("auth: User registered", "u_id", user.ID, "handle", user.Handle)
	return dto.AuthDTO{Token: token, AuthUserID: user.ID}, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and opens a new session.
func (s *AuthService) Login(input LoginInput) (dto.AuthDTO, error) {
	s.store.Lock()
	user := s.store.UserByEmail(strings.TrimSpace(input.Email))
	var hash string
	if user != nil {
		hash = user.PasswordHash
	}
	s.store.Unlock()

	if user == nil || !utils.VerifyPassword(hash, input.Password) {
		return dto.AuthDTO{}, ErrInvalidCredentials
	}

	s.store.Lock()
	defer s.store.Unlock()

	// The user may have been removed while the password was being checked.
	if user.Removed {
		return dto.AuthDTO{}, ErrInvalidCredentials
	}
	token := utils.GenerateToken()
	user.TokenHashes = append(user.TokenHashes, utils.HashToken(token))
	return dto.AuthDTO{Token: token, AuthUserID: user.ID}, nil
}

// Logout ends the session identified by token.
func (s *AuthService) Logout(token string) error {
	s.store.Lock()
	defer s.store.Unlock()

	user, err := authenticate(s.store, token)
	if err != nil {
		return err
	}
	user.RemoveTokenHash(utils.HashToken(token))
	return nil
}

// RequestPasswordReset issues a reset code for a known email and ends all of that
// user's sessions. Unknown emails are accepted silently.
func (s *AuthService) RequestPasswordReset(email string) error {
	code, err := utils.GenerateResetCode()
	if err != nil {
		return err
	}
	codeHash, err := utils.HashPassword(code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToHash, err)
	}

	s.store.Lock()
	user := s.store.UserByEmail(strings.TrimSpace(email))
	if user != nil {
		user.ResetCodeHashes = append(user.ResetCodeHashes, codeHash)
		user.TokenHashes = []string{}
	}
	s.store.Unlock()

	if user == nil {
		return nil
	}
	if err := s.sender.SendResetCode(user.Email, code); err != nil {
		slog.Warn("auth: Failed to send reset code", "u_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword consumes a reset code and sets a new password.
func (s *AuthService) ResetPassword(code, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}
	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToHash, err)
	}

	s.store.Lock()
	defer s.store.Unlock()

	for _, u := range s.store.ActiveUsers() {
		for i, h := range u.ResetCodeHashes {
			if utils.VerifyPassword(h, code) {
				u.ResetCodeHashes = append(u.ResetCodeHashes[:i], u.ResetCodeHashes[i+1:]...)
				u.PasswordHash = hashedPassword
				return nil
			}
		}
	}
	return ErrInvalidResetCode
}
