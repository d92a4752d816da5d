package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sahiblovesdata/court-vision/internal/models"
	"github.com/sahiblovesdata/court-vision/internal/ranking"
	"github.com/sahiblovesdata/court-vision/pkg/database"
)

// LoadError reports a structural problem with the stats snapshot: a
// missing table or column, or an unreadable database. It aborts the whole
// ranking run.
type LoadError struct {
	Table  string
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("load error: table %q is missing required column %q", e.Table, e.Column)
	case e.Err != nil:
		return fmt.Sprintf("load error: table %q: %v", e.Table, e.Err)
	default:
		return fmt.Sprintf("load error: missing required table %q", e.Table)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoaderConfig filters out players with sample sizes too small to rank
// meaningfully.
type LoaderConfig struct {
	MinGames   int
	MinMinutes float64
}

// StatLoader reads the sqlite stats snapshot and aggregates raw game logs
// into one per-game stat row per eligible player.
type StatLoader struct {
	db     *database.DB
	cfg    LoaderConfig
	logger *logrus.Logger
}

func NewStatLoader(db *database.DB, cfg LoaderConfig, logger *logrus.Logger) *StatLoader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &StatLoader{db: db, cfg: cfg, logger: logger}
}

var requiredStatColumns = []string{
	"player_id", "game_id", "min",
	"pts", "reb", "ast", "stl", "blk", "fg3m", "fg_pct", "ft_pct", "tov",
}

var requiredPlayerColumns = []string{"player_id", "full_name"}

// Load validates the snapshot schema, aggregates game logs into per-game
// season averages, and returns the rows alongside the season label found
// in the data. A structural problem returns a *LoadError before any
// aggregation happens.
func (l *StatLoader) Load() ([]ranking.PlayerStatRow, string, error) {
	if err := l.validateSchema(); err != nil {
		return nil, "", err
	}

	var logs []models.GameLog
	if err := l.db.Find(&logs).Error; err != nil {
		return nil, "", &LoadError{Table: models.GameLog{}.TableName(), Err: err}
	}

	var players []models.Player
	if err := l.db.Find(&players).Error; err != nil {
		return nil, "", &LoadError{Table: models.Player{}.TableName(), Err: err}
	}

	rows := l.aggregate(logs, players)
	season := seasonLabel(logs)

	l.logger.WithFields(logrus.Fields{
		"game_logs": len(logs),
		"players":   len(rows),
		"season":    season,
	}).Info("Loaded per-game stat rows")

	return rows, season, nil
}

func (l *StatLoader) validateSchema() error {
	migrator := l.db.Migrator()

	statsTable := models.GameLog{}.TableName()
	if !migrator.HasTable(statsTable) {
		return &LoadError{Table: statsTable}
	}
	for _, col := range requiredStatColumns {
		if !migrator.HasColumn(&models.GameLog{}, col) {
			return &LoadError{Table: statsTable, Column: col}
		}
	}

	playersTable := models.Player{}.TableName()
	if !migrator.HasTable(playersTable) {
		return &LoadError{Table: playersTable}
	}
	for _, col := range requiredPlayerColumns {
		if !migrator.HasColumn(&models.Player{}, col) {
			return &LoadError{Table: playersTable, Column: col}
		}
	}
	return nil
}

// accumulator gathers one player's season totals before averaging.
type accumulator struct {
	games      map[string]struct{}
	minutesSum float64
	minutesN   int
	sums       [ranking.NumCategories]float64
	counts     [ranking.NumCategories]int
}

func (l *StatLoader) aggregate(logs []models.GameLog, players []models.Player) []ranking.PlayerStatRow {
	acc := make(map[int64]*accumulator)

	for i := range logs {
		log := &logs[i]
		a := acc[log.PlayerID]
		if a == nil {
			a = &accumulator{games: make(map[string]struct{})}
			acc[log.PlayerID] = a
		}
		a.games[log.GameID] = struct{}{}

		if mp, ok := parseMinutes(log.Minutes); ok {
			a.minutesSum += mp
			a.minutesN++
		}

		for _, cat := range ranking.AllCategories {
			if val := categoryValue(log, cat); val != nil {
				a.sums[cat] += *val
				a.counts[cat]++
			}
		}
	}

	info := make(map[int64]*models.Player, len(players))
	for i := range players {
		info[players[i].PlayerID] = &players[i]
	}

	rows := make([]ranking.PlayerStatRow, 0, len(acc))
	skipped := 0
	for playerID, a := range acc {
		games := len(a.games)
		minutes := 0.0
		if a.minutesN > 0 {
			minutes = a.minutesSum / float64(a.minutesN)
		}

		// Fringe players distort the category baselines more than they
		// inform them, so they are filtered before standardization.
		if games < l.cfg.MinGames || minutes < l.cfg.MinMinutes {
			skipped++
			continue
		}

		row := ranking.PlayerStatRow{
			PlayerID:    playerID,
			Name:        fmt.Sprintf("Player %d", playerID),
			GamesPlayed: games,
			Minutes:     minutes,
		}
		if p := info[playerID]; p != nil {
			if p.FullName != "" {
				row.Name = p.FullName
			}
			row.Position = p.Position
		}
		for _, cat := range ranking.AllCategories {
			if a.counts[cat] > 0 {
				row.Values.Set(cat, a.sums[cat]/float64(a.counts[cat]))
			}
		}
		rows = append(rows, row)
	}

	if skipped > 0 {
		l.logger.WithFields(logrus.Fields{
			"skipped":     skipped,
			"min_games":   l.cfg.MinGames,
			"min_minutes": l.cfg.MinMinutes,
		}).Debug("Filtered players below the sample-size floor")
	}

	// Deterministic input order for the pipeline regardless of map iteration
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].PlayerID < rows[j].PlayerID
	})
	return rows
}

func categoryValue(log *models.GameLog, cat ranking.Category) *float64 {
	switch cat {
	case ranking.Points:
		return log.Points
	case ranking.Rebounds:
		return log.Rebounds
	case ranking.Assists:
		return log.Assists
	case ranking.Steals:
		return log.Steals
	case ranking.Blocks:
		return log.Blocks
	case ranking.ThreesMade:
		return log.ThreesMade
	case ranking.FieldGoalPct:
		return log.FieldGoalPct
	case ranking.FreeThrowPct:
		return log.FreeThrowPct
	case ranking.Turnovers:
		return log.Turnovers
	}
	return nil
}

// parseMinutes converts "mm:ss" box-score minutes to a float, passing
// plain numeric strings through unchanged.
func parseMinutes(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if mins, secs, found := strings.Cut(raw, ":"); found {
		m, err1 := strconv.Atoi(mins)
		s, err2 := strconv.Atoi(secs)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return float64(m) + float64(s)/60.0, true
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// seasonLabel collects the distinct season values present in the logs,
// e.g. "2023-24" or "2022-23 / 2023-24" for a mixed snapshot.
func seasonLabel(logs []models.GameLog) string {
	seen := make(map[string]struct{})
	for i := range logs {
		if s := strings.TrimSpace(logs[i].Season); s != "" {
			seen[s] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return ""
	}
	seasons := make([]string, 0, len(seen))
	for s := range seen {
		seasons = append(seasons, s)
	}
	sort.Strings(seasons)
	return strings.Join(seasons, " / ")
}
