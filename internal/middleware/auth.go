package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	apierrors "github.com/yukikurage/workspace-messaging-api/internal/errors"
)

// RequireToken reads the session token from the token header, falling back to the
// session cookie, and stores it in the context. Whether the token is live is decided
// by the services.
func RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(constants.TokenHeader)
		if token == "" {
			if v, ok := sessions.Default(c).Get(constants.SessionKeyToken).(string); ok {
				token = v
			}
		}

		if token == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		c.Set(constants.ContextKeyToken, token)
		c.Next()
	}
}

// GetToken retrieves the token stored by RequireToken.
func GetToken(c *gin.Context) string {
	return c.GetString(constants.ContextKeyToken)
}

// Saver persists the workspace.
type Saver interface {
	Save(ctx context.Context) error
}

// PersistAfterWrite saves the workspace after every successful state-changing request.
func PersistAfterWrite(saver Saver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		if err := saver.Save(c.Request.Context()); err != nil {
			slog.Error("middleware: Failed to persist workspace", "path", c.FullPath(), "error", err)
		}
	}
}
