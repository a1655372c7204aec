package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-messaging-api/internal/errors"
	"github.com/yukikurage/workspace-messaging-api/internal/middleware"
	"github.com/yukikurage/workspace-messaging-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a user and opens a session for them.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		NameFirst string `json:"name_first"`
		NameLast  string `json:"name_last"`
	}

	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	auth, err := h.authService.Register(services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		NameFirst: req.NameFirst,
		NameLast:  req.NameLast,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.startSession(c, http.StatusCreated, auth)
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	auth, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.startSession(c, http.StatusOK, auth)
}

func (h *AuthHandler) startSession(c *gin.Context, status int, auth dto.AuthDTO) {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, auth.Token)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}
	c.JSON(status, auth)
}

// Logout ends the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(middleware.GetToken(c)); err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}
	ok(c)
}

// RequestPasswordReset issues a reset code. It answers the same way for unknown emails.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	type ResetRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req ResetRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

// ResetPassword sets a new password using a reset code.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	type ResetRequest struct {
		ResetCode   string `json:"reset_code" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	var req ResetRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authService.ResetPassword(req.ResetCode, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}
