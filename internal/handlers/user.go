package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/workspace-messaging-api/internal/errors"
	"github.com/yukikurage/workspace-messaging-api/internal/middleware"
	"github.com/yukikurage/workspace-messaging-api/internal/services"
	"github.com/yukikurage/workspace-messaging-api/internal/utils"
)

// UserHandler serves profile, notification and usage routes.
type UserHandler struct {
	userService         *services.UserService
	notificationService *services.NotificationService
	statsService        *services.StatsService
}

func NewUserHandler(userService *services.UserService, notificationService *services.NotificationService, statsService *services.StatsService) *UserHandler {
	return &UserHandler{
		userService:         userService,
		notificationService: notificationService,
		statsService:        statsService,
	}
}

func (h *UserHandler) All(c *gin.Context) {
	users, err := h.userService.All(middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Profile returns the user named by the u_id query parameter.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, err := utils.GetIntParam(c, "u_id")
	if err != nil {
		apierrors.BadRequest(c, "u_id must be an integer")
		return
	}
	user, err := h.userService.Profile(middleware.GetToken(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) SetName(c *gin.Context) {
	var req struct {
		NameFirst string `json:"name_first"`
		NameLast  string `json:"name_last"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.userService.SetName(middleware.GetToken(c), req.NameFirst, req.NameLast); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *UserHandler) SetEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.userService.SetEmail(middleware.GetToken(c), req.Email); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *UserHandler) SetHandle(c *gin.Context) {
	var req struct {
		Handle string `json:"handle_str"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.userService.SetHandle(middleware.GetToken(c), req.Handle); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *UserHandler) UploadPhoto(c *gin.Context) {
	var req struct {
		ImgURL string `json:"img_url" binding:"required"`
		XStart int    `json:"x_start"`
		YStart int    `json:"y_start"`
		XEnd   int    `json:"x_end"`
		YEnd   int    `json:"y_end"`
	}
	if !bindJSON(c, &req) {
		return
	}
	err := h.userService.UploadPhoto(c.Request.Context(), services.UploadPhotoInput{
		Token:  middleware.GetToken(c),
		ImgURL: req.ImgURL,
		XStart: req.XStart,
		YStart: req.YStart,
		XEnd:   req.XEnd,
		YEnd:   req.YEnd,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

// Notifications returns the caller's 20 most recent notifications.
func (h *UserHandler) Notifications(c *gin.Context) {
	notifications, err := h.notificationService.List(middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *UserHandler) UserStats(c *gin.Context) {
	stats, err := h.statsService.UserStats(middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_stats": stats})
}

func (h *UserHandler) WorkspaceStats(c *gin.Context) {
	stats, err := h.statsService.WorkspaceStats(middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspace_stats": stats})
}
