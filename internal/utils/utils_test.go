package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetCode(t *testing.T) {
	code, err := GenerateResetCode()
	require.NoError(t, err)
	assert.Len(t, code, 14)
	assert.Equal(t, byte('-'), code[4])
	assert.Equal(t, byte('-'), code[9])

	other, err := GenerateResetCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestHashToken(t *testing.T) {
	token := GenerateToken()
	assert.Equal(t, HashToken(token), HashToken(token))
	assert.NotEqual(t, token, HashToken(token))
	assert.Len(t, HashToken(token), 64)
	assert.NotEqual(t, HashToken(token), HashToken(GenerateToken()))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
	assert.False(t, VerifyPassword("", "hunter22"))
}

func TestHandleBase(t *testing.T) {
	tests := []struct {
		first, last string
		want        string
	}{
		{"Hayden", "Smith", "haydensmith"},
		{"Ab-c", "D e@f", "abcdef"},
		{"Abcdefghijklmnop", "Qrstuvwxyz", "abcdefghijklmnopqrst"},
		{"@@", "!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HandleBase(tt.first, tt.last, 20))
	}
}

func TestIsAlphanumericString(t *testing.T) {
	assert.True(t, IsAlphanumericString("abc123"))
	assert.False(t, IsAlphanumericString("abc 123"))
	assert.False(t, IsAlphanumericString("é"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 20))
	assert.Equal(t, "hel", Truncate("hello", 3))
}

func TestGetStartParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/channel/messages?start=50", nil)
	start, err := GetStartParam(c)
	require.NoError(t, err)
	assert.Equal(t, 50, start)

	c.Request = httptest.NewRequest("GET", "/channel/messages", nil)
	start, err = GetStartParam(c)
	require.NoError(t, err)
	assert.Equal(t, 0, start)

	c.Request = httptest.NewRequest("GET", "/channel/messages?start=abc", nil)
	_, err = GetStartParam(c)
	assert.ErrorIs(t, err, ErrInvalidStart)
}
