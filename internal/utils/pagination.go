package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

var ErrInvalidStart = errors.New("start must be an integer")

// GetStartParam extracts the "start" query parameter used by message pagination.
// A missing parameter means the newest page.
func GetStartParam(c *gin.Context) (int, error) {
	raw := c.DefaultQuery("start", "0")
	start, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidStart
	}
	return start, nil
}

// GetIntParam parses a required integer path or query value.
func GetIntParam(c *gin.Context, key string) (int, error) {
	raw := c.Param(key)
	if raw == "" {
		raw = c.Query(key)
	}
	return strconv.Atoi(raw)
}
