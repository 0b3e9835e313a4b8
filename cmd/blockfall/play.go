package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal. The game defaults to tetris.

Controls:
  Left/A, Right/D   - Move
  Up/W              - Rotate clockwise
  Down/S            - Soft drop
  Space             - Hard drop
  P/Esc             - Pause / resume
  R                 - Restart (after game over)
  Ctrl+S            - Save a text screenshot
  Q/Ctrl+C          - Quit

Difficulty options (drop speed only, scoring is unchanged):
  easy   - Slow start, gentle speed-up
  normal - Config timing (500ms, 30ms faster per level)
  hard   - Fast start
  fixed  - Config start speed, never speeds up

Examples:
  blockfall play
  blockfall play --difficulty hard
  blockfall play --config ./my-tetris.yaml --seed 42
  blockfall play --stats-file ~/.blockfall/stats.json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := tetris.GameID
	if len(args) > 0 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'blockfall list' to see available games.")
		os.Exit(1)
	}

	logger, logCloser, err := newLogger("blockfall", io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	seed, err := configureGame(store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed,
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	var scores tui.ScoreSaver
	if store != nil {
		scores = store
	}

	if err := tui.Run(game, scores, logger, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// configureGame loads the game config, applies the difficulty preset and
// hands rules, statistics store and logger to newly created games.
// It returns the RNG seed: --seed wins over the config's seed.
func configureGame(store *storage.Store, logger *log.Logger) (int64, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return 0, err
	}

	cfg, err := config.LoadTetris(flagConfig)
	if err != nil {
		return 0, err
	}
	config.ApplyTetrisPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	statsStore, err := openStatsStore(store)
	if err != nil {
		return 0, err
	}

	tetris.SetRules(cfg.ToRules())
	tetris.SetStatsStore(statsStore)
	tetris.SetLogger(logger)
	logger.Debug("game configured", "difficulty", preset, "base_interval_ms", cfg.Timing.BaseIntervalMs)

	if flagSeed != 0 {
		return flagSeed, nil
	}
	return cfg.Seed, nil
}
