package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sahiblovesdata/court-vision/internal/api/handlers"
	"github.com/sahiblovesdata/court-vision/internal/services"
	"github.com/sahiblovesdata/court-vision/pkg/config"
)

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, rankings *services.RankingService, cache *services.CacheService, cfg *config.Config, logger *logrus.Logger) {
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	rankingsHandler := handlers.NewRankingsHandler(rankings, cache, cacheTTL, logger)

	// Ranking endpoints
	group.GET("/rankings", rankingsHandler.GetRankings)
	group.GET("/rankings/search", rankingsHandler.SearchRankings)
	group.GET("/rankings/categories", rankingsHandler.GetCategoryStats)
	group.POST("/rankings/refresh", rankingsHandler.RefreshRankings)

	// Player endpoints
	group.GET("/players/:id", rankingsHandler.GetPlayer)
}
