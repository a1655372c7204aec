package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-messaging-api/internal/errors"
	"github.com/yukikurage/workspace-messaging-api/internal/images"
	"github.com/yukikurage/workspace-messaging-api/internal/middleware"
	"github.com/yukikurage/workspace-messaging-api/internal/scheduler"
	"github.com/yukikurage/workspace-messaging-api/internal/services"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

type handlerTestEnv struct {
	router      *gin.Engine
	clock       *scheduler.FakeClock
	sched       *scheduler.Scheduler
	authService *services.AuthService
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	clock := scheduler.NewFakeClock(time.Unix(1_700_000_000, 0))
	sched := scheduler.New(clock)
	notifier := services.NewNotificationService(st)
	stats := services.NewStatsService(st, clock, nil)
	delivery := services.NewDeliveryService(st, sched, clock, notifier, stats)
	authService := services.NewAuthService(st, stats, nil)

	auth := NewAuthHandler(authService)
	channels := NewChannelHandler(services.NewChannelService(st, notifier, stats), services.NewStandupService(st, clock, delivery))
	dms := NewDmHandler(services.NewDmService(st, notifier, stats))
	messages := NewMessageHandler(services.NewMessageService(st, clock, notifier, stats, delivery, nil))
	users := NewUserHandler(services.NewUserService(st, images.NewProfileImages(t.TempDir(), "http://chat.test", nil)), notifier, stats)
	admin := NewAdminHandler(services.NewAdminService(st), services.NewWorkspaceService(st))

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)
	r.DELETE("/clear", admin.Clear)

	api := r.Group("")
	api.Use(middleware.RequireToken())
	api.POST("/auth/logout", auth.Logout)
	api.POST("/channels/create", channels.Create)
	api.GET("/channels/list", channels.List)
	api.GET("/channel/details", channels.Details)
	api.GET("/channel/messages", channels.Messages)
	api.POST("/channel/join", channels.Join)
	api.POST("/standup/start", channels.StartStandup)
	api.POST("/dm/create", dms.Create)
	api.DELETE("/dm/remove", dms.Remove)
	api.POST("/message/send", messages.Send)
	api.POST("/message/share", messages.Share)
	api.POST("/message/pin", messages.Pin)
	api.GET("/search", messages.Search)
	api.GET("/user/profile", users.Profile)
	api.POST("/user/profile/uploadphoto", users.UploadPhoto)
	api.GET("/notifications/get", users.Notifications)
	api.POST("/admin/userpermission/change", admin.ChangePermission)

	return handlerTestEnv{
		router:      r,
		clock:       clock,
		sched:       sched,
		authService: authService,
	}
}

func (e handlerTestEnv) do(t *testing.T, method, url, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(constants.TokenHeader, token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e handlerTestEnv) register(t *testing.T, email, first string) dto.AuthDTO {
	t.Helper()
	auth, err := e.authService.Register(services.RegisterInput{
		Email:     email,
		Password:  "supersecret",
		NameFirst: first,
		NameLast:  "Smith",
	})
	require.NoError(t, err)
	return auth
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":      "newuser@example.com",
		"password":   "supersecret",
		"name_first": "New",
		"name_last":  "User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	response := decode[dto.AuthDTO](t, w)
	require.NotEmpty(t, response.Token)
	require.Equal(t, 0, response.AuthUserID)
	require.NotEmpty(t, w.Result().Cookies(), "expected session cookie to be set")
}

func TestAuthHandler_RegisterErrors(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.register(t, "taken@example.com", "Taken")

	w := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":      "taken@example.com",
		"password":   "supersecret",
		"name_first": "Again",
		"name_last":  "User",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, apierrors.ErrCodeInvalidInput, decode[apierrors.APIError](t, w).Code)

	w = env.do(t, http.MethodPost, "/auth/register", "", map[string]string{"email": "x@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LoginUsesSessionCookie(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.register(t, "existing@example.com", "Existing")

	w := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")

	// The cookie alone authenticates later requests.
	req := httptest.NewRequest(http.MethodGet, "/channels/list", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "existing@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupHandlerTestEnv(t)
	auth := env.register(t, "current@example.com", "Current")

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/auth/logout", auth.Token, nil).Code)

	w := env.do(t, http.MethodGet, "/channels/list", auth.Token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, apierrors.ErrCodeUnauthorized, decode[apierrors.APIError](t, w).Code)

	w = env.do(t, http.MethodGet, "/channels/list", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
