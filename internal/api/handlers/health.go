package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/sahiblovesdata/court-vision/internal/services"
	"github.com/sahiblovesdata/court-vision/pkg/database"
)

type HealthHandler struct {
	db       *database.DB
	redis    *redis.Client
	rankings *services.RankingService
}

func NewHealthHandler(db *database.DB, redisClient *redis.Client, rankings *services.RankingService) *HealthHandler {
	return &HealthHandler{
		db:       db,
		redis:    redisClient,
		rankings: rankings,
	}
}

// GetHealth reports liveness plus the state of each dependency.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}

	if sqlDB, err := h.db.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "down"
		} else {
			checks["redis"] = "ok"
		}
	}

	if board := h.rankings.Board(); board != nil {
		checks["rankings"] = gin.H{
			"players":  len(board.Snapshot.Players),
			"built_at": board.Snapshot.BuiltAt,
		}
	} else {
		checks["rankings"] = "not built"
	}

	c.JSON(status, gin.H{
		"status": http.StatusText(status),
		"time":   time.Now().UTC(),
		"checks": checks,
	})
}
