package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

var flagStatsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the persisted statistics record",
	Long: `Display the statistics record saved after every game over: the last
game's score, level and lines, the high score and the running totals.

The record is read from --stats-file when given, else from the database.

Examples:
  blockfall stats
  blockfall stats --json
  blockfall stats --stats-file ~/.blockfall/stats.json`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsJSON, "json", false, "Print the raw JSON record")
}

func runStats(_ *cobra.Command, _ []string) {
	var store *storage.Store
	if flagStatsFile == "" {
		var err error
		store, err = storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	source, err := openStatsStore(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stats, err := source.LoadStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading statistics: %v\n", err)
		os.Exit(1)
	}

	if flagStatsJSON {
		data, err := tetris.EncodeStats(stats)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Println("Statistics")
	fmt.Println()
	fmt.Printf("  %-14s %d\n", "High score", stats.HighScore)
	fmt.Printf("  %-14s %d\n", "Games played", stats.TotalGames)
	fmt.Printf("  %-14s %d\n", "Pieces placed", stats.TotalPieces)
	fmt.Println()
	fmt.Println("Last game")
	fmt.Printf("  %-14s %d\n", "Score", stats.Score)
	fmt.Printf("  %-14s %d\n", "Level", stats.Level)
	fmt.Printf("  %-14s %d\n", "Lines", stats.Lines)
}
