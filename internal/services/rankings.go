package services

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sahiblovesdata/court-vision/internal/ranking"
	"github.com/sahiblovesdata/court-vision/internal/search"
)

// Board pairs one ranking snapshot with its search index. Both are
// immutable once published.
type Board struct {
	Snapshot *ranking.Snapshot
	Index    *search.Index
}

// RankingService owns the current ranking board. Rebuild constructs a
// complete new board and swaps it in atomically, so readers never observe
// a half-built ranking; concurrent reads need no locking.
type RankingService struct {
	loader *StatLoader
	logger *logrus.Logger

	seasonLength int

	mu      sync.Mutex // serializes rebuilds, not reads
	current atomic.Pointer[Board]
}

func NewRankingService(loader *StatLoader, seasonLength int, logger *logrus.Logger) *RankingService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RankingService{
		loader:       loader,
		logger:       logger,
		seasonLength: seasonLength,
	}
}

// Rebuild recomputes the board from the stats snapshot. On failure the
// previous board, if any, stays published.
func (s *RankingService) Rebuild() (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	rows, season, err := s.loader.Load()
	if err != nil {
		return nil, err
	}

	snap, err := ranking.Build(rows, ranking.Config{
		SeasonLength: s.seasonLength,
		Season:       season,
		Logger:       s.logger,
	})
	if err != nil {
		return nil, err
	}

	board := &Board{
		Snapshot: snap,
		Index:    search.NewIndex(snap.Players),
	}
	s.current.Store(board)

	s.logger.WithFields(logrus.Fields{
		"players":               len(snap.Players),
		"season":                snap.Season,
		"degenerate_categories": snap.Warnings.DegenerateCategories,
		"missing_values":        snap.Warnings.MissingValues,
		"duration":              time.Since(start).String(),
	}).Info("Ranking board rebuilt")

	return board, nil
}

// Board returns the current board, or nil if no rebuild has succeeded yet.
func (s *RankingService) Board() *Board {
	return s.current.Load()
}
