package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "luminora-backend/docs"
	"luminora-backend/internal/common/config"
	"luminora-backend/internal/common/logger"
	"luminora-backend/internal/common/middleware"
	adminhttp "luminora-backend/internal/features/admin/delivery/http"
	"luminora-backend/internal/features/blocklist"
	"luminora-backend/internal/features/giveaway/avatar"
	giveawayhttp "luminora-backend/internal/features/giveaway/delivery/http"
	"luminora-backend/internal/features/giveaway/repository"
	filestorerepo "luminora-backend/internal/features/giveaway/repository/filestore"
	redisrepo "luminora-backend/internal/features/giveaway/repository/redis"
	"luminora-backend/internal/features/giveaway/service"
	"luminora-backend/internal/platform/filestore"
	redisplatform "luminora-backend/internal/platform/redis"
	"luminora-backend/internal/web"
)

// @title           LUMINORA Giveaway API
// @version         1.0
// @description     API for the referral-based giveaway platform: hosts create giveaways, participants join and share referral links, referral clicks rank participants and pick the winner.

// @BasePath  /

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.Init("luminora-backend", cfg.Debug)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	giveawayRepo, blocklistRepo, err := openRepositories(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("Failed to open store")
	}

	avatars, err := avatar.NewSaver(cfg.Uploads.Dir, cfg.Uploads.MaxBytes, cfg.Server.PublicBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to prepare uploads dir")
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to parse templates")
	}

	giveawayService := service.NewGiveawayService(giveawayRepo, avatars, cfg.Server.PublicBaseURL)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Content-Type", "Authorization", "X-Device-Fingerprint", "X-Request-ID"},
			AllowCredentials: true,
		}),
		middleware.Blocklist(blocklistRepo),
		middleware.BotDetection(),
	)

	strict := middleware.NewRateLimiter(cfg.RateLimit.StrictPerMinute).Middleware()
	general := middleware.NewRateLimiter(cfg.RateLimit.GeneralPerMinute).Middleware()

	api := router.Group("/api", general)
	api.GET("/health", health)

	giveawayHandler := giveawayhttp.NewGiveawayHandler(giveawayService, renderer)
	giveawayHandler.RegisterRoutes(api, router, strict)

	adminHandler := adminhttp.NewAdminHandler(blocklistRepo, cfg.Admin.Token)
	adminHandler.RegisterRoutes(api)

	router.Static("/uploads", cfg.Uploads.Dir)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "LUMINORA backend is live!")
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	logger.Info().Msg("Server stopped")
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UnixMilli(),
		"service":   "LUMINORA Giveaway Platform",
		"version":   "1.0.0",
	})
}

func openRepositories(ctx context.Context, cfg *config.Config) (repository.GiveawayRepository, blocklist.Repository, error) {
	switch cfg.Store.Backend {
	case "redis":
		client, err := redisplatform.Open(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return redisrepo.New(client), blocklist.NewRedis(client), nil
	default:
		store, err := filestore.Open(cfg.Store.DataDir)
		if err != nil {
			return nil, nil, err
		}
		giveawayRepo, err := filestorerepo.New(store)
		if err != nil {
			return nil, nil, err
		}
		blocklistRepo, err := blocklist.NewFilestore(store)
		if err != nil {
			return nil, nil, err
		}
		return giveawayRepo, blocklistRepo, nil
	}
}
