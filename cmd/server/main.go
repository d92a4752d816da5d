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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sahiblovesdata/court-vision/internal/api"
	"github.com/sahiblovesdata/court-vision/internal/api/handlers"
	"github.com/sahiblovesdata/court-vision/internal/api/middleware"
	"github.com/sahiblovesdata/court-vision/internal/services"
	"github.com/sahiblovesdata/court-vision/pkg/config"
	"github.com/sahiblovesdata/court-vision/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the sqlite stats snapshot
	db, err := database.NewConnection(cfg.DatabasePath, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to open stats database: %v", err)
	}
	defer db.Close()

	// Connect to Redis; the response cache is optional, the server runs
	// without it
	var redisClient *redis.Client
	var cacheService *services.CacheService
	if opt, err := redis.ParseURL(cfg.RedisURL); err != nil {
		logrus.Warnf("Invalid Redis URL, response caching disabled: %v", err)
	} else {
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Warnf("Redis unreachable, response caching disabled: %v", err)
			redisClient.Close()
			redisClient = nil
		} else {
			cacheService = services.NewCacheService(redisClient)
			defer redisClient.Close()
		}
	}

	// Initialize services
	loader := services.NewStatLoader(db, services.LoaderConfig{
		MinGames:   cfg.MinGames,
		MinMinutes: cfg.MinMinutes,
	}, logrus.StandardLogger())
	rankingService := services.NewRankingService(loader, cfg.SeasonLength, logrus.StandardLogger())

	// Build the initial board; a structurally broken snapshot is fatal
	if _, err := rankingService.Rebuild(); err != nil {
		logrus.Fatalf("Failed to build initial rankings: %v", err)
	}

	// Parse refresh interval
	refreshInterval, err := time.ParseDuration(cfg.RefreshInterval)
	if err != nil {
		logrus.Warnf("Invalid refresh interval, using default 24h: %v", err)
		refreshInterval = 24 * time.Hour
	}

	// Schedule background rebuilds
	refresher := services.NewRefresherService(rankingService, refreshInterval, logrus.StandardLogger())
	if err := refresher.Start(); err != nil {
		logrus.Errorf("Failed to start refresher: %v", err)
	}
	defer refresher.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health check endpoint
	healthHandler := handlers.NewHealthHandler(db, redisClient, rankingService)
	router.GET("/health", healthHandler.GetHealth)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, rankingService, cacheService, cfg, logrus.StandardLogger())

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
