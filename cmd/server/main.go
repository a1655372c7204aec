package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workspace-messaging-api/internal/bot"
	"github.com/yukikurage/workspace-messaging-api/internal/config"
	"github.com/yukikurage/workspace-messaging-api/internal/constants"
	"github.com/yukikurage/workspace-messaging-api/internal/database"
	apierrors "github.com/yukikurage/workspace-messaging-api/internal/errors"
	"github.com/yukikurage/workspace-messaging-api/internal/events"
	"github.com/yukikurage/workspace-messaging-api/internal/handlers"
	"github.com/yukikurage/workspace-messaging-api/internal/images"
	"github.com/yukikurage/workspace-messaging-api/internal/middleware"
	"github.com/yukikurage/workspace-messaging-api/internal/repository"
	"github.com/yukikurage/workspace-messaging-api/internal/scheduler"
	"github.com/yukikurage/workspace-messaging-api/internal/services"
	"github.com/yukikurage/workspace-messaging-api/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	if err := run(cfg); err != nil {
		slog.Error("main: Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.SessionStore == "redis" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	st := store.New()
	snapshots := services.NewSnapshotService(st, repository.NewSnapshotRepository(db))
	if err := snapshots.Load(ctx); err != nil {
		return err
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
		defer amqpPublisher.Close()
		async := events.NewAsync(amqpPublisher, 1024)
		defer async.Close()
		publisher = async
		slog.Info("main: Publishing usage events", "queue", cfg.EventsQueue)
	}

	clock := scheduler.SystemClock()
	sched := scheduler.New(clock)
	go func() {
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("main: Scheduler stopped", "error", err)
		}
	}()

	notifier := services.NewNotificationService(st)
	stats := services.NewStatsService(st, clock, publisher)
	delivery := services.NewDeliveryService(st, sched, clock, notifier, stats)
	delivery.Rearm()
	hangman := bot.NewHangman(st, clock, stats, nil)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(st, stats, nil))
	channelHandler := handlers.NewChannelHandler(
		services.NewChannelService(st, notifier, stats),
		services.NewStandupService(st, clock, delivery),
	)
	dmHandler := handlers.NewDmHandler(services.NewDmService(st, notifier, stats))
	messageHandler := handlers.NewMessageHandler(services.NewMessageService(st, clock, notifier, stats, delivery, hangman))
	photos := images.NewProfileImages(cfg.ImageDir, cfg.PublicURL, nil)
	userHandler := handlers.NewUserHandler(services.NewUserService(st, photos), notifier, stats)
	adminHandler := handlers.NewAdminHandler(services.NewAdminService(st), services.NewWorkspaceService(st))

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.IsDebugging() {
		r.Use(gin.Logger())
	}

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		return err
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))
	r.Use(middleware.PersistAfterWrite(snapshots))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Workspace Messaging API is running",
		})
	})
	r.Static("/img", cfg.ImageDir)
	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "")
	})

	// Public routes
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/passwordreset/request", authHandler.RequestPasswordReset)
	r.POST("/auth/passwordreset/reset", authHandler.ResetPassword)
	r.DELETE("/clear", adminHandler.Clear)

	api := r.Group("")
	api.Use(middleware.RequireToken())
	{
		api.POST("/auth/logout", authHandler.Logout)

		api.POST("/channels/create", channelHandler.Create)
		api.GET("/channels/list", channelHandler.List)
		api.GET("/channels/listall", channelHandler.ListAll)

		api.GET("/channel/details", channelHandler.Details)
		api.GET("/channel/messages", channelHandler.Messages)
		api.POST("/channel/join", channelHandler.Join)
		api.POST("/channel/invite", channelHandler.Invite)
		api.POST("/channel/leave", channelHandler.Leave)
		api.POST("/channel/addowner", channelHandler.AddOwner)
		api.POST("/channel/removeowner", channelHandler.RemoveOwner)

		api.POST("/standup/start", channelHandler.StartStandup)
		api.GET("/standup/active", channelHandler.ActiveStandup)
		api.POST("/standup/send", channelHandler.SendStandup)

		api.POST("/dm/create", dmHandler.Create)
		api.GET("/dm/list", dmHandler.List)
		api.DELETE("/dm/remove", dmHandler.Remove)
		api.GET("/dm/details", dmHandler.Details)
		api.POST("/dm/leave", dmHandler.Leave)
		api.GET("/dm/messages", dmHandler.Messages)

		api.POST("/message/send", messageHandler.Send)
		api.POST("/message/senddm", messageHandler.SendDm)
		api.PUT("/message/edit", messageHandler.Edit)
		api.DELETE("/message/remove", messageHandler.Remove)
		api.POST("/message/share", messageHandler.Share)
		api.POST("/message/react", messageHandler.React)
		api.POST("/message/unreact", messageHandler.Unreact)
		api.POST("/message/pin", messageHandler.Pin)
		api.POST("/message/unpin", messageHandler.Unpin)
		api.POST("/message/sendlater", messageHandler.SendLater)
		api.POST("/message/sendlaterdm", messageHandler.SendLaterDm)
		api.GET("/search", messageHandler.Search)

		api.GET("/users/all", userHandler.All)
		api.GET("/users/stats", userHandler.WorkspaceStats)
		api.GET("/user/profile", userHandler.Profile)
		api.PUT("/user/profile/setname", userHandler.SetName)
		api.PUT("/user/profile/setemail", userHandler.SetEmail)
		api.PUT("/user/profile/sethandle", userHandler.SetHandle)
		api.POST("/user/profile/uploadphoto", userHandler.UploadPhoto)
		api.GET("/user/stats", userHandler.UserStats)
		api.GET("/notifications/get", userHandler.Notifications)

		api.DELETE("/admin/user/remove", adminHandler.RemoveUser)
		api.POST("/admin/userpermission/change", adminHandler.ChangePermission)
	}

	snapshotDone := make(chan struct{})
	go func() {
		snapshots.Run(ctx, cfg.SnapshotInterval)
		close(snapshotDone)
	}()

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("main: Server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			<-snapshotDone
			return err
		}
	case <-ctx.Done():
	}

	slog.Info("main: Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("main: Graceful shutdown failed", "error", err)
	}
	<-snapshotDone
	return nil
}
