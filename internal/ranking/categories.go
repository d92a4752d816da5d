package ranking

import (
	"encoding/json"
	"fmt"
)

// Category identifies one of the nine standard fantasy scoring categories.
type Category int

const (
	Points Category = iota
	Rebounds
	Assists
	Steals
	Blocks
	ThreesMade
	FieldGoalPct
	FreeThrowPct
	Turnovers

	NumCategories = 9
)

var categoryKeys = [NumCategories]string{
	"pts", "reb", "ast", "stl", "blk", "fg3m", "fg_pct", "ft_pct", "tov",
}

// AllCategories lists the nine categories in their canonical column order.
var AllCategories = []Category{
	Points, Rebounds, Assists, Steals, Blocks,
	ThreesMade, FieldGoalPct, FreeThrowPct, Turnovers,
}

// Key returns the category's column name in the stats snapshot.
func (c Category) Key() string {
	if c < 0 || int(c) >= NumCategories {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryKeys[c]
}

func (c Category) String() string {
	return c.Key()
}

// CategoryValues holds a player's nine per-game category averages.
// A nil entry means the stat was missing from the source rows.
type CategoryValues [NumCategories]*float64

// Get returns the raw value for a category and whether it is present.
func (v *CategoryValues) Get(c Category) (float64, bool) {
	if v[c] == nil {
		return 0, false
	}
	return *v[c], true
}

// Set records a raw value for a category.
func (v *CategoryValues) Set(c Category, value float64) {
	val := value
	v[c] = &val
}

// CategoryScores holds a player's nine adjusted z-scores, one per category.
// It serializes as an object keyed by category name so the cached JSON form
// round-trips and reads naturally in API responses.
type CategoryScores [NumCategories]float64

func (s CategoryScores) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, NumCategories)
	for _, cat := range AllCategories {
		m[cat.Key()] = s[cat]
	}
	return json.Marshal(m)
}

func (s *CategoryScores) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for _, cat := range AllCategories {
		if val, ok := m[cat.Key()]; ok {
			s[cat] = val
		}
	}
	return nil
}
