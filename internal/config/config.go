// Package config provides YAML-based configuration loading and difficulty
// presets for the tetris engine.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/blockfall/internal/tetris"
)

// TetrisConfig contains all tunable parameters of the game.
type TetrisConfig struct {
	Timing  TetrisTiming  `yaml:"timing"`
	Scoring TetrisScoring `yaml:"scoring"`
	Spawn   TetrisSpawn   `yaml:"spawn"`
	Seed    int64         `yaml:"seed"` // 0 = random
}

// TetrisTiming defines the automatic drop speed.
// Interval at level n = max(min, base - (n-1)*step).
type TetrisTiming struct {
	BaseIntervalMs int `yaml:"base_interval_ms"`
	IntervalStepMs int `yaml:"interval_step_ms"`
	MinIntervalMs  int `yaml:"min_interval_ms"`
}

// TetrisScoring defines points and level progression.
type TetrisScoring struct {
	LineScores    []int `yaml:"line_scores"` // points for clearing 0..4 rows, times the level
	LinesPerLevel int   `yaml:"lines_per_level"`
}

// TetrisSpawn defines where new pieces appear (top-left of the piece box).
type TetrisSpawn struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// IsFixedPreset returns true if the preset disables speed progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports the first nonsensical setting.
func (c TetrisConfig) Validate() error {
	t := c.Timing
	switch {
	case t.BaseIntervalMs <= 0:
		return invalid("timing.base_interval_ms must be positive, got %d", t.BaseIntervalMs)
	case t.MinIntervalMs <= 0:
		return invalid("timing.min_interval_ms must be positive, got %d", t.MinIntervalMs)
	case t.MinIntervalMs > t.BaseIntervalMs:
		return invalid("timing.min_interval_ms (%d) exceeds base_interval_ms (%d)", t.MinIntervalMs, t.BaseIntervalMs)
	case t.IntervalStepMs < 0:
		return invalid("timing.interval_step_ms must not be negative, got %d", t.IntervalStepMs)
	}

	s := c.Scoring
	if len(s.LineScores) != 5 {
		return invalid("scoring.line_scores needs 5 entries (0 to 4 rows), got %d", len(s.LineScores))
	}
	for i, v := range s.LineScores {
		if v < 0 {
			return invalid("scoring.line_scores[%d] must not be negative, got %d", i, v)
		}
	}
	if s.LinesPerLevel <= 0 {
		return invalid("scoring.lines_per_level must be positive, got %d", s.LinesPerLevel)
	}

	var empty tetris.Board
	for _, k := range tetris.Kinds {
		if !tetris.IsValidPlacement(&empty, k, 0, c.Spawn.X, c.Spawn.Y) {
			return invalid("spawn (%d,%d) does not fit piece %s on an empty board", c.Spawn.X, c.Spawn.Y, k)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("config: %w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// ToRules converts the config to engine rules.
func (c TetrisConfig) ToRules() tetris.Rules {
	r := tetris.Rules{
		LinesPerLevel: c.Scoring.LinesPerLevel,
		BaseInterval:  ms(c.Timing.BaseIntervalMs),
		IntervalStep:  ms(c.Timing.IntervalStepMs),
		MinInterval:   ms(c.Timing.MinIntervalMs),
		SpawnX:        c.Spawn.X,
		SpawnY:        c.Spawn.Y,
	}
	copy(r.LineScores[:], c.Scoring.LineScores)
	return r
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
