// Package router wires the HTTP routes to their handlers.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rethread/backend/internal/infrastructure/auth"
	"github.com/rethread/backend/internal/infrastructure/logger"
	"github.com/rethread/backend/internal/interfaces/http/handler"
	"github.com/rethread/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Config holds everything the router needs
type Config struct {
	AuthHandler      *handler.AuthHandler
	ListingHandler   *handler.ListingHandler
	GalleryHandler   *handler.GalleryHandler
	MessagingHandler *handler.MessagingHandler
	MediaHandler     *handler.MediaHandler
	SystemHandler    *handler.SystemHandler

	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger

	CORSAllowOrigins []string
	MaxBodyBytes     int64

	RateLimitRequests   int
	RateLimitWindow     time.Duration
	AuthRateLimit       int
	AuthRateLimitWindow time.Duration
}

// New builds the gin engine with all routes registered
func New(cfg Config) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	if cfg.Logger != nil {
		engine.Use(logger.Recovery(cfg.Logger))
		engine.Use(logger.GinMiddleware(cfg.Logger))
	} else {
		engine.Use(gin.Recovery())
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	}
	if cfg.RateLimitRequests > 0 {
		window := cfg.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitRequests, window)))
	}

	jwtConfig := middleware.DefaultJWTConfig(cfg.JWTService)
	jwtConfig.TokenBlacklist = cfg.TokenBlacklist
	jwtConfig.Logger = cfg.Logger

	// Public reads go through the optional variant so browsing works
	// without an account
	requireAuth := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)
	optionalAuth := middleware.OptionalJWTAuthMiddleware(cfg.JWTService)

	engine.GET("/health", cfg.SystemHandler.Health)
	engine.GET("/ready", cfg.SystemHandler.Ready)

	v1 := engine.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	{
		var authLimiter gin.HandlerFunc
		if cfg.AuthRateLimit > 0 {
			window := cfg.AuthRateLimitWindow
			if window <= 0 {
				window = time.Minute
			}
			authLimiter = middleware.AuthRateLimit(middleware.NewRateLimiter(cfg.AuthRateLimit, window))
		} else {
			authLimiter = func(c *gin.Context) { c.Next() }
		}

		authRoutes.POST("/register", authLimiter, cfg.AuthHandler.Register)
		authRoutes.POST("/login", authLimiter, cfg.AuthHandler.Login)
		authRoutes.POST("/refresh", authLimiter, cfg.AuthHandler.RefreshToken)
		authRoutes.POST("/logout", requireAuth, cfg.AuthHandler.Logout)
		authRoutes.GET("/me", requireAuth, cfg.AuthHandler.GetCurrentUser)
		authRoutes.PUT("/me", requireAuth, cfg.AuthHandler.UpdateProfile)
		authRoutes.PUT("/me/password", requireAuth, cfg.AuthHandler.ChangePassword)
	}

	listings := v1.Group("/listings")
	{
		listings.GET("", optionalAuth, cfg.ListingHandler.Browse)
		listings.GET("/nearby", optionalAuth, cfg.ListingHandler.SearchNearby)
		listings.GET("/mine", requireAuth, cfg.ListingHandler.ListMine)
		listings.GET("/:id", optionalAuth, cfg.ListingHandler.Get)
		listings.POST("", requireAuth, cfg.ListingHandler.Create)
		listings.PUT("/:id", requireAuth, cfg.ListingHandler.Update)
		listings.PUT("/:id/type", requireAuth, cfg.ListingHandler.ChangeType)
		listings.PUT("/:id/location", requireAuth, cfg.ListingHandler.Relocate)
		listings.PUT("/:id/images", requireAuth, cfg.ListingHandler.SetImages)
		listings.POST("/:id/close", requireAuth, cfg.ListingHandler.Close)
		listings.POST("/:id/reopen", requireAuth, cfg.ListingHandler.Reopen)
		listings.DELETE("/:id", requireAuth, cfg.ListingHandler.Delete)
	}

	gallery := v1.Group("/gallery")
	{
		gallery.GET("", optionalAuth, cfg.GalleryHandler.List)
		gallery.GET("/:id", optionalAuth, cfg.GalleryHandler.Get)
		gallery.POST("", requireAuth, cfg.GalleryHandler.Create)
		gallery.PUT("/:id", requireAuth, cfg.GalleryHandler.UpdateCaption)
		gallery.PUT("/:id/listing", requireAuth, cfg.GalleryHandler.LinkListing)
		gallery.DELETE("/:id", requireAuth, cfg.GalleryHandler.Delete)
	}

	v1.GET("/users/:id/gallery", optionalAuth, cfg.GalleryHandler.ListByAuthor)

	messages := v1.Group("/messages", requireAuth)
	{
		messages.POST("", cfg.MessagingHandler.SendMessage)
		messages.GET("/conversations", cfg.MessagingHandler.ListConversations)
		messages.GET("/conversations/:id", cfg.MessagingHandler.ListMessages)
		messages.GET("/unread", cfg.MessagingHandler.UnreadCount)
	}

	media := v1.Group("/media", requireAuth)
	{
		media.POST("/uploads", cfg.MediaHandler.RequestUpload)
		media.POST("/uploads/confirm", cfg.MediaHandler.ConfirmUpload)
		media.DELETE("/uploads", cfg.MediaHandler.DeleteImage)
	}

	return engine
}
