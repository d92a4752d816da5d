package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahiblovesdata/court-vision/internal/models"
)

func seededRankingService(t *testing.T) *RankingService {
	t.Helper()
	db := migratedDB(t)

	players := []models.Player{
		{PlayerID: 1, FullName: "Star Player", Position: "Guard"},
		{PlayerID: 2, FullName: "Role Player", Position: "Forward"},
		{PlayerID: 3, FullName: "Bench Player", Position: "Center"},
	}
	for i := range players {
		require.NoError(t, db.Create(&players[i]).Error)
	}
	seedGames(t, db, 1, 5, 30, "36:00")
	seedGames(t, db, 2, 5, 15, "28:00")
	seedGames(t, db, 3, 5, 5, "15:00")

	loader := NewStatLoader(db, LoaderConfig{MinGames: 1, MinMinutes: 0}, nil)
	return NewRankingService(loader, 82, nil)
}

func TestRankingService_RebuildPublishesBoard(t *testing.T) {
	svc := seededRankingService(t)

	assert.Nil(t, svc.Board(), "no board before the first rebuild")

	board, err := svc.Rebuild()
	require.NoError(t, err)
	require.NotNil(t, board)
	assert.Same(t, board, svc.Board())

	require.Len(t, board.Snapshot.Players, 3)
	assert.Equal(t, "Star Player", board.Snapshot.Players[0].Name)
	assert.Equal(t, 1, board.Snapshot.Players[0].Rank)
	assert.Equal(t, 3, board.Index.Len())
}

func TestRankingService_RebuildSwapsWholesale(t *testing.T) {
	svc := seededRankingService(t)

	first, err := svc.Rebuild()
	require.NoError(t, err)
	second, err := svc.Rebuild()
	require.NoError(t, err)

	assert.NotSame(t, first, second, "each rebuild publishes a fresh board")
	assert.Same(t, second, svc.Board())

	// Same input, same ranking.
	require.Len(t, second.Snapshot.Players, len(first.Snapshot.Players))
	for i := range first.Snapshot.Players {
		assert.Equal(t, first.Snapshot.Players[i].Rank, second.Snapshot.Players[i].Rank)
		assert.InDelta(t, first.Snapshot.Players[i].Score, second.Snapshot.Players[i].Score, 1e-12)
	}
}

func TestRankingService_LoadFailureKeepsNothingPartial(t *testing.T) {
	db := testDB(t) // empty database, no tables
	loader := NewStatLoader(db, LoaderConfig{MinGames: 1, MinMinutes: 0}, nil)
	svc := NewRankingService(loader, 82, nil)

	_, err := svc.Rebuild()
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Nil(t, svc.Board(), "failed rebuild publishes nothing")
}

func TestRankingService_FailedRebuildKeepsPreviousBoard(t *testing.T) {
	db := migratedDB(t)
	require.NoError(t, db.Create(&models.Player{PlayerID: 1, FullName: "Only Player"}).Error)
	seedGames(t, db, 1, 5, 20, "30:00")

	loader := NewStatLoader(db, LoaderConfig{MinGames: 1, MinMinutes: 0}, nil)
	svc := NewRankingService(loader, 82, nil)

	board, err := svc.Rebuild()
	require.NoError(t, err)

	// Raise the floor so the next load finds nobody eligible.
	loader.cfg.MinGames = 100
	_, err = svc.Rebuild()
	require.Error(t, err)

	assert.Same(t, board, svc.Board(), "old board survives a failed rebuild")
}
