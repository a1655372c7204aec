package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/workspace-messaging-api/internal/errors"
	"github.com/yukikurage/workspace-messaging-api/internal/middleware"
	"github.com/yukikurage/workspace-messaging-api/internal/services"
	"github.com/yukikurage/workspace-messaging-api/internal/utils"
)

// ChannelHandler serves channel and standup routes.
type ChannelHandler struct {
	channelService *services.ChannelService
	standupService *services.StandupService
}

func NewChannelHandler(channelService *services.ChannelService, standupService *services.StandupService) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
		standupService: standupService,
	}
}

type channelQuery struct {
	ChannelID *int `form:"channel_id" binding:"required"`
}

type channelMemberRequest struct {
	ChannelID *int `json:"channel_id" binding:"required"`
	UserID    *int `json:"u_id" binding:"required"`
}

// Create makes a new channel.
func (h *ChannelHandler) Create(c *gin.Context) {
	type CreateRequest struct {
		Name     string `json:"name"`
		IsPublic bool   `json:"is_public"`
	}

	var req CreateRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.channelService.Create(services.CreateChannelInput{
		Token:    middleware.GetToken(c),
		Name:     req.Name,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"channel_id": id})
}

// List returns the caller's channels.
func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.channelService.List(middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// ListAll returns every channel.
func (h *ChannelHandler) ListAll(c *gin.Context) {
	channels, err := h.channelService.ListAll(middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

func (h *ChannelHandler) Details(c *gin.Context) {
	var q channelQuery
	if !bindQuery(c, &q) {
		return
	}
	details, err := h.channelService.Details(middleware.GetToken(c), *q.ChannelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Messages returns one page of the channel's history.
func (h *ChannelHandler) Messages(c *gin.Context) {
	var q channelQuery
	if !bindQuery(c, &q) {
		return
	}
	start, err := utils.GetStartParam(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	page, err := h.channelService.Messages(middleware.GetToken(c), *q.ChannelID, start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ChannelHandler) Join(c *gin.Context) {
	var req struct {
		ChannelID *int `json:"channel_id" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.channelService.Join(middleware.GetToken(c), *req.ChannelID); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *ChannelHandler) Leave(c *gin.Context) {
	var req struct {
		ChannelID *int `json:"channel_id" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.channelService.Leave(middleware.GetToken(c), *req.ChannelID); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *ChannelHandler) Invite(c *gin.Context) {
	h.member(c, h.channelService.Invite)
}

func (h *ChannelHandler) AddOwner(c *gin.Context) {
	h.member(c, h.channelService.AddOwner)
}

func (h *ChannelHandler) RemoveOwner(c *gin.Context) {
	h.member(c, h.channelService.RemoveOwner)
}

func (h *ChannelHandler) member(c *gin.Context, op func(token string, channelID, userID int) error) {
	var req channelMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := op(middleware.GetToken(c), *req.ChannelID, *req.UserID); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

// StartStandup opens a standup for length seconds.
func (h *ChannelHandler) StartStandup(c *gin.Context) {
	var req struct {
		ChannelID *int  `json:"channel_id" binding:"required"`
		Length    int64 `json:"length"`
	}
	if !bindJSON(c, &req) {
		return
	}
	finish, err := h.standupService.Start(middleware.GetToken(c), *req.ChannelID, req.Length)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_finish": finish})
}

func (h *ChannelHandler) ActiveStandup(c *gin.Context) {
	var q channelQuery
	if !bindQuery(c, &q) {
		return
	}
	status, err := h.standupService.Active(middleware.GetToken(c), *q.ChannelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// SendStandup buffers a line for the running standup.
func (h *ChannelHandler) SendStandup(c *gin.Context) {
	var req struct {
		ChannelID *int   `json:"channel_id" binding:"required"`
		Message   string `json:"message"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.standupService.Send(middleware.GetToken(c), *req.ChannelID, req.Message); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}
