package tetris

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
)

// Stats is the persisted statistics record.
// Score, Level and Lines describe the current (or last) game; the totals and
// the high score accumulate across games.
type Stats struct {
	Score       int `json:"score"`
	Level       int `json:"level"`
	Lines       int `json:"lines"`
	TotalPieces int `json:"totalPieces"`
	TotalGames  int `json:"totalGames"`
	HighScore   int `json:"highScore"`
}

// StatsStore loads and saves the statistics record.
// The engine reads it once on construction and writes it after every game over.
type StatsStore interface {
	LoadStats() (Stats, error)
	SaveStats(Stats) error
}

// StatsUpdater is implemented by stores that can change the record in one
// atomic step. Stores shared by several engines implement it so that
// concurrent games add up instead of overwriting each other.
type StatsUpdater interface {
	UpdateStats(fn func(Stats) Stats) (Stats, error)
}

// RecordGame folds a finished game into a stored record. Only the last-game
// fields of game are read; the totals grow by one game and pieces.
func RecordGame(record, game Stats, pieces int) Stats {
	record.Score = game.Score
	record.Level = game.Level
	record.Lines = game.Lines
	record.TotalGames++
	record.TotalPieces += pieces
	record.HighScore = max(record.HighScore, game.Score)
	return record
}

// DecodeStats parses a JSON statistics record.
func DecodeStats(data []byte) (Stats, error) {
	var s Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return Stats{}, fmt.Errorf("tetris: decode stats: %w", err)
	}
	if s.Score < 0 || s.Level < 0 || s.Lines < 0 || s.TotalPieces < 0 || s.TotalGames < 0 || s.HighScore < 0 {
		return Stats{}, fmt.Errorf("tetris: decode stats: negative counter in %s", data)
	}
	return s, nil
}

// EncodeStats serializes a statistics record to JSON.
func EncodeStats(s Stats) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("tetris: encode stats: %w", err)
	}
	return data, nil
}

// loadStats reads the record from store. Missing or unreadable data yields
// zeroed stats; the failure is only logged.
func loadStats(store StatsStore, logger *log.Logger) Stats {
	if store == nil {
		return Stats{}
	}
	s, err := store.LoadStats()
	if err != nil {
		logger.Warn("stats unavailable, starting from zero", "error", err)
		return Stats{}
	}
	return s
}

// saveGame records a finished game in store and returns the stored record.
// local is the engine's own view with this game already counted; it is
// written as-is when the stored record cannot be read.
func saveGame(store StatsStore, local Stats, pieces int) (Stats, error) {
	if u, ok := store.(StatsUpdater); ok {
		return u.UpdateStats(func(record Stats) Stats {
			return RecordGame(record, local, pieces)
		})
	}
	record, err := store.LoadStats()
	if err != nil {
		record = local
	} else {
		record = RecordGame(record, local, pieces)
	}
	if err := store.SaveStats(record); err != nil {
		return Stats{}, err
	}
	return record, nil
}
