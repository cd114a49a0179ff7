package router

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/handlers"
	"github.com/anonto42/linkup/backend/internal/live"
	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/realtime"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/timeline"
	"github.com/anonto42/linkup/backend/pkg/config"
	"github.com/anonto42/linkup/backend/pkg/logger"
)

// Deps is everything the HTTP surface is built from.
type Deps struct {
	Config   *config.Config
	Services *services.Services
	Events   realtime.Subscriber
	// Checks are probed by /ready.
	Checks map[string]handlers.Check
}

// SetupRoutes configures all application routes and returns the registry of
// live sessions so the caller can close them on shutdown.
func SetupRoutes(e *echo.Echo, d Deps) *live.Registry {
	s := d.Services

	e.GET("/health", handlers.HealthCheck)
	e.GET("/ready", handlers.Readiness(d.Checks))

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(s.Auth).RegisterAuthRoutes(authGroup)

	// Anonymous callers may read; handlers that write require a user.
	api := e.Group("/api/v1", middleware.Optional(authMiddleware(d.Config, s)))
	logger.Log.Info("auth middleware applied to /api/v1 group")

	handlers.NewUserHandler(s.Profiles).RegisterProfileRoutes(api)
	handlers.NewPostHandler(s.Posts, s.Feed).RegisterPostRoutes(api)
	handlers.NewFeedHandler(s.Feed).RegisterFeedRoutes(api)
	handlers.NewLikeHandler(s.Posts).RegisterLikeRoutes(api)
	handlers.NewBookmarkHandler(s.Posts, s.Feed).RegisterBookmarkRoutes(api)
	handlers.NewCommentHandler(s.Comments).RegisterCommentRoutes(api)
	handlers.NewFollowHandler(s.Follows).RegisterFollowRoutes(api)
	handlers.NewNotificationHandler(s.Notifications).RegisterNotificationRoutes(api)
	handlers.NewMessageHandler(s.Messaging).RegisterMessageRoutes(api)
	handlers.NewGroupChatHandler(s.Messaging).RegisterGroupChatRoutes(api)
	handlers.NewSearchHandler(s.Search, s.Hashtags).RegisterSearchRoutes(api)
	handlers.NewUploadHandler(s.Uploads).RegisterUploadRoutes(api)

	registry := live.NewRegistry()
	live.NewHandler(registry, live.Deps{
		Timelines: func(viewerID uint) *timeline.Timeline {
			return timeline.New(
				timeline.FeedFetcher(s.Feed, viewerID),
				timeline.PostMutator{Posts: s.Posts, ViewerID: viewerID},
			)
		},
		Inbox:         s.Messaging,
		Notifications: s.Notifications,
		Comments:      s.Comments,
		Events:        d.Events,
	}).RegisterLiveRoutes(api)

	logger.Log.Info("all routes configured")
	return registry
}

func authMiddleware(cfg *config.Config, s *services.Services) echo.MiddlewareFunc {
	if cfg.AuthMode == config.AuthModeFirebase {
		return middleware.FirebaseAuthMiddleware(s.Auth)
	}
	return middleware.JWTAuthMiddleware(s.Auth)
}
