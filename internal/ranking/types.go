package ranking

import (
	"time"
)

// PlayerStatRow is one player's season per-game averages, as loaded from
// the stats snapshot. Rows are immutable once handed to Build.
type PlayerStatRow struct {
	PlayerID    int64
	Name        string
	Position    string
	GamesPlayed int
	Minutes     float64
	Values      CategoryValues
}

// CategoryStats is the derived mean and sample standard deviation of a
// category across all loaded players. Degenerate marks zero variance.
type CategoryStats struct {
	Category   string  `json:"category"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Degenerate bool    `json:"degenerate,omitempty"`
}

// ScoredPlayer is one fully scored and ranked player.
type ScoredPlayer struct {
	PlayerID    int64          `json:"player_id"`
	Name        string         `json:"full_name"`
	Position    string         `json:"position,omitempty"`
	GamesPlayed int            `json:"games"`
	Minutes     float64        `json:"mp"`
	ZScores     CategoryScores `json:"z_scores"`
	Composite   float64        `json:"composite_score"`
	Score       float64        `json:"score"`
	Rank        int            `json:"rank"`
}

// Warnings counts the per-run data-quality anomalies that were recovered
// from rather than aborting the batch.
type Warnings struct {
	DegenerateCategories int `json:"degenerate_categories"`
	MissingValues        int `json:"missing_values"`
}

// Snapshot is the immutable result of one full ranking run. A rebuild
// produces a fresh Snapshot which replaces the old one wholesale, so
// concurrent readers always see a consistent board.
type Snapshot struct {
	Players    []ScoredPlayer  `json:"players"`
	Categories []CategoryStats `json:"categories"`
	Warnings   Warnings        `json:"warnings"`
	Season     string          `json:"season,omitempty"`
	BuiltAt    time.Time       `json:"built_at"`
}
