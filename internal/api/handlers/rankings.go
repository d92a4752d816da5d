package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sahiblovesdata/court-vision/internal/ranking"
	"github.com/sahiblovesdata/court-vision/internal/services"
	"github.com/sahiblovesdata/court-vision/pkg/utils"
)

type RankingsHandler struct {
	rankings *services.RankingService
	cache    *services.CacheService
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewRankingsHandler(rankings *services.RankingService, cache *services.CacheService, cacheTTL time.Duration, logger *logrus.Logger) *RankingsHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RankingsHandler{
		rankings: rankings,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// GetRankings returns the ranked board, optionally filtered by position
// and paginated.
func (h *RankingsHandler) GetRankings(c *gin.Context) {
	board := h.rankings.Board()
	if board == nil {
		utils.SendUnavailable(c, "Rankings not built yet")
		return
	}

	position := c.Query("position")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		utils.SendValidationError(c, "Invalid limit", c.Query("limit"))
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		utils.SendValidationError(c, "Invalid offset", c.Query("offset"))
		return
	}

	// Only the full, unfiltered board is cached; filtered views are cheap
	// slices of the in-memory index anyway.
	ctx := context.Background()
	cacheable := position == "" && limit == 0 && offset == 0
	cacheKey := services.RankingsCacheKey(board.Snapshot.BuiltAt, position, limit, offset)
	if h.cache != nil && cacheable {
		var cached []ranking.ScoredPlayer
		if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
			utils.SendSuccessWithMeta(c, cached, &utils.Meta{
				Limit:  limit,
				Offset: offset,
				Total:  int64(len(cached)),
			})
			return
		}
	}

	players := board.Index.Filter("", position)
	total := int64(len(players))
	players = page(players, limit, offset)

	if h.cache != nil && cacheable {
		if err := h.cache.Set(ctx, cacheKey, players, h.cacheTTL); err != nil {
			h.logger.WithError(err).Debug("Failed to cache rankings response")
		}
	}

	utils.SendSuccessWithMeta(c, players, &utils.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

// SearchRankings returns players whose names match the query, accent- and
// case-insensitively, still in rank order. An empty query returns the
// whole board.
func (h *RankingsHandler) SearchRankings(c *gin.Context) {
	board := h.rankings.Board()
	if board == nil {
		utils.SendUnavailable(c, "Rankings not built yet")
		return
	}

	query := c.Query("q")
	position := c.Query("position")

	ctx := context.Background()
	cacheKey := services.SearchCacheKey(board.Snapshot.BuiltAt, query, position)
	var cached []ranking.ScoredPlayer
	if h.cache != nil {
		if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
			utils.SendSuccess(c, cached)
			return
		}
	}

	players := board.Index.Filter(query, position)

	if h.cache != nil {
		if err := h.cache.Set(ctx, cacheKey, players, h.cacheTTL); err != nil {
			h.logger.WithError(err).Debug("Failed to cache search response")
		}
	}

	utils.SendSuccess(c, players)
}

// GetPlayer returns a single scored player by ID.
func (h *RankingsHandler) GetPlayer(c *gin.Context) {
	board := h.rankings.Board()
	if board == nil {
		utils.SendUnavailable(c, "Rankings not built yet")
		return
	}

	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid player ID", err.Error())
		return
	}

	for i := range board.Snapshot.Players {
		if board.Snapshot.Players[i].PlayerID == playerID {
			utils.SendSuccess(c, board.Snapshot.Players[i])
			return
		}
	}
	utils.SendNotFound(c, "Player not found")
}

// GetCategoryStats returns the per-category means and standard deviations
// behind the current board, handy for data-quality checks.
func (h *RankingsHandler) GetCategoryStats(c *gin.Context) {
	board := h.rankings.Board()
	if board == nil {
		utils.SendUnavailable(c, "Rankings not built yet")
		return
	}

	utils.SendSuccess(c, gin.H{
		"season":     board.Snapshot.Season,
		"built_at":   board.Snapshot.BuiltAt,
		"categories": board.Snapshot.Categories,
		"warnings":   board.Snapshot.Warnings,
	})
}

// RefreshRankings rebuilds the board from the stats snapshot on demand.
func (h *RankingsHandler) RefreshRankings(c *gin.Context) {
	board, err := h.rankings.Rebuild()
	if err != nil {
		var loadErr *services.LoadError
		switch {
		case errors.As(err, &loadErr):
			utils.SendError(c, http.StatusUnprocessableEntity,
				utils.NewAppError(utils.ErrCodeLoad, "Failed to load stats snapshot", loadErr.Error()))
		case errors.Is(err, ranking.ErrEmptyInput):
			utils.SendError(c, http.StatusUnprocessableEntity,
				utils.NewAppError(utils.ErrCodeEmptyInput, "No eligible players in stats snapshot"))
		default:
			h.logger.WithError(err).Error("Ranking rebuild failed")
			utils.SendInternalError(c, "Failed to rebuild rankings")
		}
		return
	}

	utils.SendSuccess(c, gin.H{
		"players":  len(board.Snapshot.Players),
		"season":   board.Snapshot.Season,
		"built_at": board.Snapshot.BuiltAt,
		"warnings": board.Snapshot.Warnings,
	})
}

func page(players []ranking.ScoredPlayer, limit, offset int) []ranking.ScoredPlayer {
	if offset >= len(players) {
		return []ranking.ScoredPlayer{}
	}
	players = players[offset:]
	if limit > 0 && limit < len(players) {
		players = players[:limit]
	}
	return players
}
