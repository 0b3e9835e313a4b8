package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the default configuration: the classic
// scoring table and a 500ms drop interval shrinking 30ms per level.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Timing: TetrisTiming{
			BaseIntervalMs: 500,
			IntervalStepMs: 30,
			MinIntervalMs:  50,
		},
		Scoring: TetrisScoring{
			LineScores:    []int{0, 40, 100, 300, 1200},
			LinesPerLevel: 10,
		},
		Spawn: TetrisSpawn{
			X: 3,
			Y: 0,
		},
		Seed: 0,
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "tetris":
		return defaultTetrisYAML
	default:
		return nil
	}
}
