package ranking

import (
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyInput is returned when there are no players to rank. Means and
// standard deviations are undefined over an empty set, so this is fatal.
var ErrEmptyInput = errors.New("no players to rank")

// Config tunes one ranking run.
type Config struct {
	// SeasonLength caps the availability ratio: a player with this many
	// games (or more) keeps their full composite score.
	SeasonLength int

	// Season is an informational label carried through to the snapshot.
	Season string

	Logger *logrus.Logger
}

// Build runs the full scoring pipeline over a set of per-game stat rows
// and returns a ranked snapshot.
//
// Per category it computes the mean and sample (n-1) standard deviation
// across all players, converts
// each raw value to a z-score, flips the sign of the turnover z so that
// fewer turnovers scores higher, averages the nine adjusted z-scores into
// a composite, and scales the composite by min(1, games/SeasonLength).
// Players are then sorted by final score descending and assigned unique
// 1-based ranks.
//
// A zero-variance category yields z=0 for every player in that category.
// A missing raw value contributes 0 to the composite (the denominator
// stays at nine). Both cases are counted in the snapshot's Warnings and
// logged, never fatal.
func Build(rows []PlayerStatRow, cfg Config) (*Snapshot, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	if cfg.SeasonLength <= 0 {
		cfg.SeasonLength = 82
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	snap := &Snapshot{
		Players:    make([]ScoredPlayer, len(rows)),
		Categories: make([]CategoryStats, 0, NumCategories),
		Season:     cfg.Season,
		BuiltAt:    time.Now().UTC(),
	}

	for i, row := range rows {
		snap.Players[i] = ScoredPlayer{
			PlayerID:    row.PlayerID,
			Name:        row.Name,
			Position:    row.Position,
			GamesPlayed: row.GamesPlayed,
			Minutes:     row.Minutes,
		}
	}

	// Standardize each category, then adjust and accumulate the composite.
	for _, cat := range AllCategories {
		cs := standardize(rows, cat, snap, log)
		snap.Categories = append(snap.Categories, cs)
	}

	for i := range snap.Players {
		player := &snap.Players[i]

		// Composite is the equal-weight mean of the nine adjusted z-scores.
		var sum float64
		for _, cat := range AllCategories {
			sum += player.ZScores[cat]
		}
		player.Composite = sum / NumCategories

		// Availability weighting: full credit at a full season, a strictly
		// smaller share of the composite for every game missed below that.
		ratio := float64(player.GamesPlayed) / float64(cfg.SeasonLength)
		if ratio > 1 {
			ratio = 1
		}
		player.Score = player.Composite * ratio
	}

	rank(snap.Players)

	return snap, nil
}

// standardize computes the category's stats over the present values and
// fills in each player's (adjusted) z-score for it.
func standardize(rows []PlayerStatRow, cat Category, snap *Snapshot, log *logrus.Logger) CategoryStats {
	values := make([]float64, 0, len(rows))
	for i := range rows {
		if val, ok := rows[i].Values.Get(cat); ok {
			values = append(values, val)
		}
	}

	cs := CategoryStats{Category: cat.Key()}
	if len(values) > 0 {
		cs.Mean = stat.Mean(values, nil)
	}
	if len(values) > 1 {
		cs.StdDev = stat.StdDev(values, nil)
	}
	if cs.StdDev == 0 {
		// Zero variance: every z is defined as 0 rather than dividing.
		cs.Degenerate = true
		snap.Warnings.DegenerateCategories++
		log.WithField("category", cat.Key()).Warn("Category has zero variance, z-scores set to 0")
	}

	missing := 0
	for i := range rows {
		z := 0.0
		val, ok := rows[i].Values.Get(cat)
		switch {
		case !ok:
			missing++
		case !cs.Degenerate:
			z = (val - cs.Mean) / cs.StdDev
		}
		// Turnovers are the one category where less is better.
		if cat == Turnovers {
			z = -z
		}
		snap.Players[i].ZScores[cat] = z
	}
	if missing > 0 {
		snap.Warnings.MissingValues += missing
		log.WithFields(logrus.Fields{
			"category": cat.Key(),
			"players":  missing,
		}).Warn("Missing raw values, scored as average (z=0)")
	}

	return cs
}

// rank sorts players best-first and assigns unique 1-based ranks.
// Ties on final score fall back to the unweighted composite, then to the
// player name so the ordering is fully deterministic.
func rank(players []ScoredPlayer) {
	sort.Slice(players, func(i, j int) bool {
		a, b := &players[i], &players[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Composite != b.Composite {
			return a.Composite > b.Composite
		}
		return a.Name < b.Name
	})
	for i := range players {
		players[i].Rank = i + 1
	}
}
