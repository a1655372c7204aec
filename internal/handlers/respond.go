package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	apierrors "github.com/yukikurage/workspace-messaging-api/internal/errors"
	"github.com/yukikurage/workspace-messaging-api/internal/services"
)

// respondError maps a service error onto the HTTP taxonomy. Permission errors are checked
// before invalid requests because they wrap them.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidRequest):
		apierrors.BadRequest(c, err.Error())
	default:
		slog.Error("handlers: Unexpected error", "path", c.FullPath(), "error", err)
		apierrors.InternalError(c, "")
	}
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		apierrors.BadRequest(c, "Invalid query parameters")
		return false
	}
	return true
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}

// optionalID turns a missing target id into NoContainer.
func optionalID(id *int) int {
	if id == nil {
		return constants.NoContainer
	}
	return *id
}
