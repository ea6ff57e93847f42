package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appgallery "github.com/rethread/backend/internal/application/gallery"
	"github.com/rethread/backend/internal/application/identity"
	applisting "github.com/rethread/backend/internal/application/listing"
	appmedia "github.com/rethread/backend/internal/application/media"
	appmessaging "github.com/rethread/backend/internal/application/messaging"
	"github.com/rethread/backend/internal/infrastructure/auth"
	"github.com/rethread/backend/internal/infrastructure/config"
	"github.com/rethread/backend/internal/infrastructure/geocoding"
	"github.com/rethread/backend/internal/infrastructure/logger"
	"github.com/rethread/backend/internal/infrastructure/persistence"
	"github.com/rethread/backend/internal/infrastructure/storage"
	"github.com/rethread/backend/internal/interfaces/http/handler"
	"github.com/rethread/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("Starting re-thread server",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Revoked tokens live in Redis so restarts don't resurrect them.
	// Without Redis the in-memory blacklist still covers a single node.
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisBlacklist.Close() //nolint:errcheck
		blacklist = redisBlacklist
		log.Info("Token blacklist backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, token blacklist is in-memory only")
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	userRepo := persistence.NewGormUserRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	galleryRepo := persistence.NewGormGalleryRepository(db.DB)
	conversationRepo := persistence.NewGormConversationRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)

	var geocoder applisting.Geocoder
	switch cfg.Geocoding.Provider {
	case "static":
		geocoder = geocoding.NewStaticGeocoder()
		log.Info("Using built-in static geocoder")
	default:
		geocoder = geocoding.NewNominatimGeocoder(&cfg.Geocoding)
		log.Info("Using Nominatim geocoder", zap.String("base_url", cfg.Geocoding.BaseURL))
	}

	var objectStorage appmedia.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		bucketCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(bucketCtx); err != nil {
			cancel()
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		cancel()
		objectStorage = s3Storage
		log.Info("Object storage ready", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage not configured, image uploads use the stub backend")
	}

	authService := identity.NewAuthService(userRepo, jwtService, blacklist, log)
	listingService := applisting.NewListingService(listingRepo, geocoder, log)
	galleryService := appgallery.NewGalleryService(galleryRepo, listingRepo, log)
	messagingService := appmessaging.NewMessagingService(conversationRepo, messageRepo, log)
	uploadService := appmedia.NewUploadService(objectStorage, appmedia.UploadServiceConfig{
		UploadURLExpiry: cfg.Storage.PresignExpiry,
		MaxUploadSize:   cfg.Storage.MaxUploadSize,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
	})

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rateLimit := 0
	if cfg.HTTP.RateLimitEnabled {
		rateLimit = cfg.HTTP.RateLimitRequests
	}
	authRateLimit := 0
	if cfg.HTTP.AuthRateLimitEnabled {
		authRateLimit = cfg.HTTP.AuthRateLimitRequests
	}

	engine := router.New(router.Config{
		AuthHandler:      handler.NewAuthHandler(authService),
		ListingHandler:   handler.NewListingHandler(listingService),
		GalleryHandler:   handler.NewGalleryHandler(galleryService),
		MessagingHandler: handler.NewMessagingHandler(messagingService),
		MediaHandler:     handler.NewMediaHandler(uploadService),
		SystemHandler:    handler.NewSystemHandler(db.DB, version),

		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,

		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		MaxBodyBytes:     cfg.HTTP.MaxBodySize,

		RateLimitRequests:   rateLimit,
		RateLimitWindow:     cfg.HTTP.RateLimitWindow,
		AuthRateLimit:       authRateLimit,
		AuthRateLimitWindow: cfg.HTTP.AuthRateLimitWindow,
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
