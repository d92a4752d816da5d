// Command rank prints the fantasy draft board from a local stats snapshot,
// as a table or CSV. Useful for sanity-checking the pipeline without
// running the server.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/sahiblovesdata/court-vision/internal/ranking"
	"github.com/sahiblovesdata/court-vision/internal/services"
	"github.com/sahiblovesdata/court-vision/pkg/database"
)

func main() {
	var (
		dbPath       = flag.String("db", "nba.sqlite", "path to the sqlite stats snapshot")
		top          = flag.Int("top", 50, "number of players to print (0 for all)")
		query        = flag.String("q", "", "name search, accent-insensitive")
		position     = flag.String("position", "", "position filter, e.g. guard")
		csvOut       = flag.Bool("csv", false, "emit CSV instead of a table")
		seasonLength = flag.Int("season-length", 82, "games in a full season")
		minGames     = flag.Int("min-games", 10, "minimum games played to be ranked")
		minMinutes   = flag.Float64("min-minutes", 10.0, "minimum per-game minutes to be ranked")
	)
	flag.Parse()

	logrus.SetLevel(logrus.WarnLevel)

	db, err := database.NewConnection(*dbPath, false)
	if err != nil {
		logrus.Fatalf("Failed to open stats database: %v", err)
	}
	defer db.Close()

	loader := services.NewStatLoader(db, services.LoaderConfig{
		MinGames:   *minGames,
		MinMinutes: *minMinutes,
	}, logrus.StandardLogger())

	rankings := services.NewRankingService(loader, *seasonLength, logrus.StandardLogger())
	board, err := rankings.Rebuild()
	if err != nil {
		logrus.Fatalf("Failed to build rankings: %v", err)
	}

	players := board.Index.Filter(*query, *position)
	if *top > 0 && *top < len(players) {
		players = players[:*top]
	}

	if *csvOut {
		writeCSV(os.Stdout, players)
		return
	}
	writeTable(os.Stdout, players, board.Snapshot)
}

func writeTable(out *os.File, players []ranking.ScoredPlayer, snap *ranking.Snapshot) {
	if snap.Season != "" {
		fmt.Fprintf(out, "Season: %s\n", snap.Season)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tPOS\tGP\tMPG\tSCORE\tCOMPOSITE")
	for i := range players {
		p := &players[i]
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.1f\t%.3f\t%.3f\n",
			p.Rank, p.Name, p.Position, p.GamesPlayed, p.Minutes, p.Score, p.Composite)
	}
	w.Flush()
}

func writeCSV(out *os.File, players []ranking.ScoredPlayer) {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{"rank", "player_id", "full_name", "position", "games", "mp", "score", "composite_score"}
	for _, cat := range ranking.AllCategories {
		header = append(header, cat.Key()+"_z")
	}
	w.Write(header)

	for i := range players {
		p := &players[i]
		record := []string{
			strconv.Itoa(p.Rank),
			strconv.FormatInt(p.PlayerID, 10),
			p.Name,
			p.Position,
			strconv.Itoa(p.GamesPlayed),
			formatFloat(p.Minutes),
			formatFloat(p.Score),
			formatFloat(p.Composite),
		}
		for _, cat := range ranking.AllCategories {
			record = append(record, formatFloat(p.ZScores[cat]))
		}
		w.Write(record)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
