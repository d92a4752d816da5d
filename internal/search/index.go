// Package search provides an accent- and case-insensitive lookup over a
// ranked player board. The index is built once per ranking snapshot and is
// read-only afterwards, so it is safe for concurrent queries.
package search

import (
	"strings"

	"github.com/sahiblovesdata/court-vision/internal/ranking"
)

type entry struct {
	name     string // normalized full name
	position string // normalized position string
}

// Index holds pre-normalized names for the players of one snapshot, in
// rank order.
type Index struct {
	entries []entry
	players []ranking.ScoredPlayer
}

// NewIndex builds an index over an already rank-ordered player list.
func NewIndex(players []ranking.ScoredPlayer) *Index {
	ix := &Index{
		entries: make([]entry, len(players)),
		players: players,
	}
	for i := range players {
		ix.entries[i] = entry{
			name:     Normalize(players[i].Name),
			position: Normalize(players[i].Position),
		}
	}
	return ix
}

// Query returns the players whose normalized name contains the normalized
// query as a substring, in rank order. An empty query returns the full
// board; no match returns an empty slice.
func (ix *Index) Query(query string) []ranking.ScoredPlayer {
	return ix.Filter(query, "")
}

// Filter is Query with an optional position restriction. The position
// matches as a case-insensitive substring, so "guard" keeps combo
// positions like "Guard-Forward".
func (ix *Index) Filter(query, position string) []ranking.ScoredPlayer {
	q := Normalize(strings.TrimSpace(query))
	pos := Normalize(strings.TrimSpace(position))

	matches := make([]ranking.ScoredPlayer, 0, len(ix.players))
	for i := range ix.entries {
		if q != "" && !strings.Contains(ix.entries[i].name, q) {
			continue
		}
		if pos != "" && !strings.Contains(ix.entries[i].position, pos) {
			continue
		}
		matches = append(matches, ix.players[i])
	}
	return matches
}

// Len reports the number of indexed players.
func (ix *Index) Len() int {
	return len(ix.players)
}
