package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/api"
	"github.com/tanvi-28/huddle/internal/config"
	"github.com/tanvi-28/huddle/internal/mailer"
	"github.com/tanvi-28/huddle/internal/middleware"
	"github.com/tanvi-28/huddle/internal/observ"
	"github.com/tanvi-28/huddle/internal/snapshot"
	"github.com/tanvi-28/huddle/internal/workspace"
	"github.com/tanvi-28/huddle/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()

	hub := ws.NewHub(logger)
	svc := workspace.NewService(store, logger,
		workspace.WithNotifier(hub),
		workspace.WithMailer(mailer.NewLogMailer(logger)),
	)
	if err := svc.Recover(context.Background()); err != nil {
		return fmt.Errorf("recover scheduled tasks: %w", err)
	}
	defer svc.Shutdown()

	authHandler := api.NewAuthHandler(svc, logger, cfg.JWTSecret, cfg.TokenTTL)
	userHandler := api.NewUserHandler(svc, logger)
	channelHandler := api.NewChannelHandler(svc, logger)
	dmHandler := api.NewDMHandler(svc, logger)
	messageHandler := api.NewMessageHandler(svc, logger)
	standupHandler := api.NewStandupHandler(svc, logger)
	adminHandler := api.NewAdminHandler(svc, logger)
	notificationHandler := api.NewNotificationHandler(svc, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	srv.GET("/v1/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	srv.POST("/v1/auth/register", authHandler.Register)
	srv.POST("/v1/auth/login", authHandler.Login)
	srv.POST("/v1/auth/password-reset/request", authHandler.RequestPasswordReset)
	srv.POST("/v1/auth/password-reset", authHandler.PasswordReset)

	v1 := srv.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	v1.POST("/auth/logout", authHandler.Logout)

	v1.GET("/users", userHandler.List)
	v1.GET("/users/:id", userHandler.Profile)
	v1.PUT("/user/name", userHandler.SetName)
	v1.PUT("/user/email", userHandler.SetEmail)
	v1.PUT("/user/handle", userHandler.SetHandle)
	v1.GET("/user/stats", userHandler.Stats)
	v1.GET("/stats", userHandler.WorkspaceStats)

	v1.POST("/channels", channelHandler.Create)
	v1.GET("/channels", channelHandler.List)
	v1.GET("/channels/all", channelHandler.ListAll)
	v1.GET("/channels/:id", channelHandler.Details)
	v1.POST("/channels/:id/join", channelHandler.Join)
	v1.POST("/channels/:id/invite", channelHandler.Invite)
	v1.POST("/channels/:id/leave", channelHandler.Leave)
	v1.POST("/channels/:id/owners", channelHandler.AddOwner)
	v1.DELETE("/channels/:id/owners/:uid", channelHandler.RemoveOwner)
	v1.GET("/channels/:id/messages", channelHandler.Messages)

	v1.POST("/dms", dmHandler.Create)
	v1.GET("/dms", dmHandler.List)
	v1.GET("/dms/:id", dmHandler.Details)
	v1.DELETE("/dms/:id", dmHandler.Remove)
	v1.POST("/dms/:id/leave", dmHandler.Leave)
	v1.GET("/dms/:id/messages", dmHandler.Messages)

	v1.POST("/channels/:id/messages", messageHandler.Send)
	v1.POST("/dms/:id/messages", messageHandler.SendDM)
	v1.POST("/channels/:id/messages/later", messageHandler.SendLater)
	v1.POST("/dms/:id/messages/later", messageHandler.SendLaterDM)
	v1.PUT("/messages/:id", messageHandler.Edit)
	v1.DELETE("/messages/:id", messageHandler.Remove)
	v1.POST("/messages/:id/share", messageHandler.Share)
	v1.POST("/messages/:id/react", messageHandler.React)
	v1.POST("/messages/:id/unreact", messageHandler.Unreact)
	v1.POST("/messages/:id/pin", messageHandler.Pin)
	v1.POST("/messages/:id/unpin", messageHandler.Unpin)
	v1.GET("/search", messageHandler.Search)

	v1.POST("/channels/:id/standup/start", standupHandler.Start)
	v1.GET("/channels/:id/standup", standupHandler.Active)
	v1.POST("/channels/:id/standup/send", standupHandler.Send)

	v1.POST("/admin/permissions", adminHandler.PermissionChange)
	v1.DELETE("/admin/users/:id", adminHandler.RemoveUser)

	v1.GET("/notifications", notificationHandler.List)
	v1.GET("/notifications/ws", hub.Handler)

	logger.Info("starting huddle",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("snapshotBackend", cfg.SnapshotBackend),
	)
	return srv.Run(":" + cfg.Port)
}

func newStore(cfg *config.Config) (snapshot.Store, error) {
	switch cfg.SnapshotBackend {
	case "memory":
		return snapshot.NewMemoryStore(), nil
	case "redis":
		return snapshot.NewRedisStore(cfg.RedisURL)
	case "postgres":
		return snapshot.NewPostgresStore(context.Background(), cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
}
