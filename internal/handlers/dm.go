package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/workspace-messaging-api/internal/errors"
	"github.com/yukikurage/workspace-messaging-api/internal/middleware"
	"github.com/yukikurage/workspace-messaging-api/internal/services"
	"github.com/yukikurage/workspace-messaging-api/internal/utils"
)

// DmHandler serves direct message group routes.
type DmHandler struct {
	dmService *services.DmService
}

func NewDmHandler(dmService *services.DmService) *DmHandler {
	return &DmHandler{dmService: dmService}
}

type dmQuery struct {
	DmID *int `form:"dm_id" binding:"required"`
}

type dmRequest struct {
	DmID *int `json:"dm_id" binding:"required"`
}

func (h *DmHandler) Create(c *gin.Context) {
	var req struct {
		UserIDs []int `json:"u_ids"`
	}
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.dmService.Create(middleware.GetToken(c), req.UserIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"dm_id": id})
}

func (h *DmHandler) List(c *gin.Context) {
	dms, err := h.dmService.List(middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dms": dms})
}

// Remove deletes a DM. Only its creator may.
func (h *DmHandler) Remove(c *gin.Context) {
	var req dmRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.dmService.Remove(middleware.GetToken(c), *req.DmID); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *DmHandler) Details(c *gin.Context) {
	var q dmQuery
	if !bindQuery(c, &q) {
		return
	}
	details, err := h.dmService.Details(middleware.GetToken(c), *q.DmID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *DmHandler) Leave(c *gin.Context) {
	var req dmRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.dmService.Leave(middleware.GetToken(c), *req.DmID); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *DmHandler) Messages(c *gin.Context) {
	var q dmQuery
	if !bindQuery(c, &q) {
		return
	}
	start, err := utils.GetStartParam(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	page, err := h.dmService.Messages(middleware.GetToken(c), *q.DmID, start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
