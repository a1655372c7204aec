package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workspace-messaging-api/internal/middleware"
	"github.com/yukikurage/workspace-messaging-api/internal/services"
)

// MessageHandler serves the message lifecycle routes.
type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type messageRequest struct {
	MessageID *int `json:"message_id" binding:"required"`
}

type reactRequest struct {
	MessageID *int `json:"message_id" binding:"required"`
	ReactID   int  `json:"react_id"`
}

func respondMessageID(c *gin.Context, messageID int) {
	c.JSON(http.StatusOK, gin.H{"message_id": messageID})
}

// Send posts to a channel.
func (h *MessageHandler) Send(c *gin.Context) {
	var req struct {
		ChannelID *int   `json:"channel_id" binding:"required"`
		Message   string `json:"message"`
	}
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.messageService.SendToChannel(middleware.GetToken(c), *req.ChannelID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageID(c, id)
}

// SendDm posts to a DM.
func (h *MessageHandler) SendDm(c *gin.Context) {
	var req struct {
		DmID    *int   `json:"dm_id" binding:"required"`
		Message string `json:"message"`
	}
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.messageService.SendToDm(middleware.GetToken(c), *req.DmID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageID(c, id)
}

// Edit replaces a message's text; an empty text removes it.
func (h *MessageHandler) Edit(c *gin.Context) {
	var req struct {
		MessageID *int   `json:"message_id" binding:"required"`
		Message   string `json:"message"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.messageService.Edit(middleware.GetToken(c), *req.MessageID, req.Message); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *MessageHandler) Remove(c *gin.Context) {
	h.byID(c, h.messageService.Remove)
}

func (h *MessageHandler) Pin(c *gin.Context) {
	h.byID(c, h.messageService.Pin)
}

func (h *MessageHandler) Unpin(c *gin.Context) {
	h.byID(c, h.messageService.Unpin)
}

func (h *MessageHandler) byID(c *gin.Context, op func(token string, messageID int) error) {
	var req messageRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := op(middleware.GetToken(c), *req.MessageID); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *MessageHandler) React(c *gin.Context) {
	h.react(c, h.messageService.React)
}

func (h *MessageHandler) Unreact(c *gin.Context) {
	h.react(c, h.messageService.Unreact)
}

func (h *MessageHandler) react(c *gin.Context, op func(token string, messageID, reactID int) error) {
	var req reactRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := op(middleware.GetToken(c), *req.MessageID, req.ReactID); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

// Share reposts a message into a channel or a DM.
func (h *MessageHandler) Share(c *gin.Context) {
	var req struct {
		OgMessageID *int   `json:"og_message_id" binding:"required"`
		Message     string `json:"message"`
		ChannelID   *int   `json:"channel_id"`
		DmID        *int   `json:"dm_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.messageService.Share(services.ShareInput{
		Token:      middleware.GetToken(c),
		MessageID:  *req.OgMessageID,
		Annotation: req.Message,
		ChannelID:  optionalID(req.ChannelID),
		DmID:       optionalID(req.DmID),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shared_message_id": id})
}

// SendLater schedules a channel message for time_sent.
func (h *MessageHandler) SendLater(c *gin.Context) {
	var req struct {
		ChannelID *int   `json:"channel_id" binding:"required"`
		Message   string `json:"message"`
		TimeSent  int64  `json:"time_sent"`
	}
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.messageService.SendLaterToChannel(middleware.GetToken(c), *req.ChannelID, req.Message, req.TimeSent)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageID(c, id)
}

// SendLaterDm schedules a DM message for time_sent.
func (h *MessageHandler) SendLaterDm(c *gin.Context) {
	var req struct {
		DmID     *int   `json:"dm_id" binding:"required"`
		Message  string `json:"message"`
		TimeSent int64  `json:"time_sent"`
	}
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.messageService.SendLaterToDm(middleware.GetToken(c), *req.DmID, req.Message, req.TimeSent)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageID(c, id)
}

// Search finds messages across the caller's channels and DMs.
func (h *MessageHandler) Search(c *gin.Context) {
	results, err := h.messageService.Search(middleware.GetToken(c), c.Query("query_str"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": results})
}
