package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workspace-messaging-api/internal/middleware"
	"github.com/yukikurage/workspace-messaging-api/internal/services"
)

// AdminHandler serves global owner routes and the workspace reset.
type AdminHandler struct {
	adminService     *services.AdminService
	workspaceService *services.WorkspaceService
}

func NewAdminHandler(adminService *services.AdminService, workspaceService *services.WorkspaceService) *AdminHandler {
	return &AdminHandler{
		adminService:     adminService,
		workspaceService: workspaceService,
	}
}

func (h *AdminHandler) RemoveUser(c *gin.Context) {
	var req struct {
		UserID *int `json:"u_id" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.adminService.RemoveUser(middleware.GetToken(c), *req.UserID); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *AdminHandler) ChangePermission(c *gin.Context) {
	var req struct {
		UserID       *int `json:"u_id" binding:"required"`
		PermissionID int  `json:"permission_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.adminService.ChangePermission(middleware.GetToken(c), *req.UserID, req.PermissionID); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

// Clear resets the whole workspace. It needs no token.
func (h *AdminHandler) Clear(c *gin.Context) {
	h.workspaceService.Clear()
	ok(c)
}
