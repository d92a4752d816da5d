package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sahiblovesdata/court-vision/internal/models"
	"github.com/sahiblovesdata/court-vision/internal/ranking"
	"github.com/sahiblovesdata/court-vision/pkg/database"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()
	// A named shared in-memory database so every pooled connection sees
	// the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return &database.DB{DB: gdb}
}

func migratedDB(t *testing.T) *database.DB {
	t.Helper()
	db := testDB(t)
	require.NoError(t, db.AutoMigrate(&models.Player{}, &models.GameLog{}))
	return db
}

func fval(v float64) *float64 {
	return &v
}

// seedGames inserts n identical game logs for a player.
func seedGames(t *testing.T, db *database.DB, playerID int64, n int, pts float64, minutes string) {
	t.Helper()
	for i := 0; i < n; i++ {
		log := models.GameLog{
			PlayerID: playerID,
			GameID:   fmt.Sprintf("%d-%d", playerID, i),
			Date:     fmt.Sprintf("2024-01-%02d", i+1),
			Season:   "2023-24",
			Points:   fval(pts),
			Rebounds: fval(5), Assists: fval(3), Steals: fval(1), Blocks: fval(1),
			ThreesMade: fval(2), FieldGoalPct: fval(0.5), FreeThrowPct: fval(0.8),
			Turnovers: fval(2),
			Minutes:   minutes,
		}
		require.NoError(t, db.Create(&log).Error)
	}
}

func TestLoad_AggregatesPerGameAverages(t *testing.T) {
	db := migratedDB(t)
	require.NoError(t, db.Create(&models.Player{PlayerID: 1, FullName: "Nikola Jokić", Position: "Center"}).Error)

	// Two games with different point totals and minutes.
	logs := []models.GameLog{
		{PlayerID: 1, GameID: "g1", Season: "2023-24", Points: fval(10), Rebounds: fval(10), Assists: fval(8), Steals: fval(1), Blocks: fval(1), ThreesMade: fval(1), FieldGoalPct: fval(0.6), FreeThrowPct: fval(0.8), Turnovers: fval(3), Minutes: "30:00"},
		{PlayerID: 1, GameID: "g2", Season: "2023-24", Points: fval(20), Rebounds: fval(14), Assists: fval(12), Steals: fval(2), Blocks: fval(0), ThreesMade: fval(2), FieldGoalPct: fval(0.5), FreeThrowPct: fval(0.9), Turnovers: fval(2), Minutes: "40:00"},
	}
	for i := range logs {
		require.NoError(t, db.Create(&logs[i]).Error)
	}

	loader := NewStatLoader(db, LoaderConfig{MinGames: 1, MinMinutes: 0}, nil)
	rows, season, err := loader.Load()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, int64(1), row.PlayerID)
	assert.Equal(t, "Nikola Jokić", row.Name)
	assert.Equal(t, "Center", row.Position)
	assert.Equal(t, 2, row.GamesPlayed)
	assert.InDelta(t, 35.0, row.Minutes, 1e-9)
	assert.Equal(t, "2023-24", season)

	pts, ok := row.Values.Get(ranking.Points)
	require.True(t, ok)
	assert.InDelta(t, 15.0, pts, 1e-9)

	fgp, ok := row.Values.Get(ranking.FieldGoalPct)
	require.True(t, ok)
	assert.InDelta(t, 0.55, fgp, 1e-9)
}

func TestLoad_FiltersSmallSamples(t *testing.T) {
	db := migratedDB(t)
	require.NoError(t, db.Create(&models.Player{PlayerID: 1, FullName: "Regular"}).Error)
	require.NoError(t, db.Create(&models.Player{PlayerID: 2, FullName: "Fringe"}).Error)
	require.NoError(t, db.Create(&models.Player{PlayerID: 3, FullName: "Benchwarmer"}).Error)

	seedGames(t, db, 1, 12, 20, "32:00") // enough games, enough minutes
	seedGames(t, db, 2, 3, 25, "35:00")  // too few games
	seedGames(t, db, 3, 12, 4, "06:30")  // too few minutes

	loader := NewStatLoader(db, LoaderConfig{MinGames: 10, MinMinutes: 10.0}, nil)
	rows, _, err := loader.Load()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Regular", rows[0].Name)
}

func TestLoad_MissingNameFallsBack(t *testing.T) {
	db := migratedDB(t)
	// No players row at all for this ID.
	seedGames(t, db, 42, 2, 10, "20:00")

	loader := NewStatLoader(db, LoaderConfig{MinGames: 1, MinMinutes: 0}, nil)
	rows, _, err := loader.Load()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Player 42", rows[0].Name)
}

func TestLoad_MissingStatLeavesValueAbsent(t *testing.T) {
	db := migratedDB(t)
	require.NoError(t, db.Create(&models.Player{PlayerID: 7, FullName: "No Blocks Recorded"}).Error)

	log := models.GameLog{
		PlayerID: 7, GameID: "g1", Season: "2023-24",
		Points: fval(18), Rebounds: fval(6), Assists: fval(4), Steals: fval(1),
		Blocks: nil, // never recorded
		ThreesMade: fval(2), FieldGoalPct: fval(0.45), FreeThrowPct: fval(0.85), Turnovers: fval(2),
		Minutes: "28:00",
	}
	require.NoError(t, db.Create(&log).Error)

	loader := NewStatLoader(db, LoaderConfig{MinGames: 1, MinMinutes: 0}, nil)
	rows, _, err := loader.Load()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, ok := rows[0].Values.Get(ranking.Blocks)
	assert.False(t, ok, "absent stat must stay absent, not default to zero")
	pts, ok := rows[0].Values.Get(ranking.Points)
	require.True(t, ok)
	assert.InDelta(t, 18.0, pts, 1e-9)
}

func TestLoad_MissingTableIsFatal(t *testing.T) {
	db := testDB(t) // no tables at all

	loader := NewStatLoader(db, LoaderConfig{MinGames: 1, MinMinutes: 0}, nil)
	_, _, err := loader.Load()

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "stats", loadErr.Table)
}

func TestLoad_MissingColumnIsFatal(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.AutoMigrate(&models.Player{}))
	// A stats table missing the turnover column.
	require.NoError(t, db.Exec(`CREATE TABLE stats (
		player_id INTEGER, game_id TEXT, date TEXT, season TEXT,
		pts REAL, reb REAL, ast REAL, stl REAL, blk REAL,
		fg3m REAL, fg_pct REAL, ft_pct REAL, min TEXT
	)`).Error)

	loader := NewStatLoader(db, LoaderConfig{MinGames: 1, MinMinutes: 0}, nil)
	_, _, err := loader.Load()

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "stats", loadErr.Table)
	assert.Equal(t, "tov", loadErr.Column)
	assert.Contains(t, loadErr.Error(), "tov")
}

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"30:00", 30.0, true},
		{"30:30", 30.5, true},
		{"7:45", 7.75, true},
		{"28.5", 28.5, true},
		{"33", 33.0, true},
		{"", 0, false},
		{"DNP", 0, false},
		{"12:xx", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseMinutes(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw %q", tc.raw)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, "raw %q", tc.raw)
		}
	}
}

func TestSeasonLabel(t *testing.T) {
	logs := []models.GameLog{
		{Season: "2023-24"},
		{Season: "2022-23"},
		{Season: "2023-24"},
		{Season: ""},
	}
	assert.Equal(t, "2022-23 / 2023-24", seasonLabel(logs))
	assert.Equal(t, "", seasonLabel(nil))
}
