// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall play           - Play in the terminal
//	blockfall serve          - Start SSH server for remote play
//	blockfall scores         - Show high scores
//	blockfall stats          - Show the persisted statistics record
//	blockfall list           - List available games
//
// Global flags:
//
//	--fps <rate>          - Set platform frame rate (default: 60)
//	--seed <value>        - Set RNG seed for a reproducible piece sequence
//	--db <path>           - Set database path (default: ~/.blockfall/scores.db)
//	--stats-file <path>   - Keep statistics in a JSON file instead of the database
//	--log-file <path>     - Write logs to a file (default: no logging)
//	--log-level <level>   - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

var (
	// Global flags
	flagFPS       int
	flagSeed      int64
	flagDBPath    string
	flagStatsFile string
	flagLogFile   string
	flagLogLevel  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - falling blocks in your terminal",
	Long: `Blockfall is a falling-block puzzle game for the terminal.
Steer the falling pieces, complete rows to clear them and keep the
stack from reaching the top.

Available commands:
  play     - Play in the terminal
  serve    - Start SSH server for remote play
  scores   - View high scores
  stats    - View persisted statistics
  list     - Show all available games

Examples:
  blockfall play
  blockfall play --difficulty hard
  blockfall serve --ssh :2222
  blockfall scores`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Platform frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config seed, or random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagStatsFile, "stats-file", "", "Keep statistics in this JSON file instead of the database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
}

// newLogger builds the logger selected by --log-file and --log-level.
// The terminal belongs to the game, so without a log file nothing is logged.
// The returned closer releases the file.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var w io.Writer = fallback
	var closer io.Closer = io.NopCloser(nil)
	if flagLogFile != "" {
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closer, nil
}

// openStatsStore returns where the statistics record lives: the JSON file
// named by --stats-file, else the database. Nil when neither is available.
func openStatsStore(store *storage.Store) (tetris.StatsStore, error) {
	if flagStatsFile != "" {
		fs, err := storage.NewFileStats(flagStatsFile)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
	if store == nil {
		return nil, nil
	}
	return store.StatsFor(tetris.GameID), nil
}
