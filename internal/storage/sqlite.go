// Package storage provides persistence for scores and the statistics record.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB

	statsMu sync.Mutex // serializes UpdateStats
}

// ScoreEntry represents a single finished game.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	Lines     int
	Level     int
	SessionID string // Session that played the game, empty if unknown
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandPath(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			session_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS stats (
			game_id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score, lines, level, session_id) VALUES (?, ?, ?, ?, ?)",
		e.GameID, e.Score, e.Lines, e.Level, e.SessionID,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(
		`SELECT id, game_id, score, lines, level, session_id, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		gameID, limit,
	)
}

// AllScores retrieves all scores for the given game (no limit).
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	return s.queryScores(
		`SELECT id, game_id, score, lines, level, session_id, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC`,
		gameID,
	)
}

func (s *Store) queryScores(query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &e.Lines, &e.Level, &e.SessionID, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics over the scores table.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	TotalLines int64
	BestLevel  int
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0),
		        COALESCE(SUM(lines), 0), COALESCE(MAX(level), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &stats.TotalLines, &stats.BestLevel)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// LoadStats returns the statistics record of a game.
// A game without a record yields zero stats.
func (s *Store) LoadStats(gameID string) (tetris.Stats, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM stats WHERE game_id = ?", gameID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return tetris.Stats{}, nil
	}
	if err != nil {
		return tetris.Stats{}, fmt.Errorf("storage: cannot load stats: %w", err)
	}
	stats, err := tetris.DecodeStats([]byte(data))
	if err != nil {
		return tetris.Stats{}, fmt.Errorf("storage: %w", err)
	}
	return stats, nil
}

// SaveStats replaces the statistics record of a game.
func (s *Store) SaveStats(gameID string, stats tetris.Stats) error {
	data, err := tetris.EncodeStats(stats)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO stats (game_id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(game_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		gameID, string(data),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save stats: %w", err)
	}
	return nil
}

// UpdateStats applies fn to the statistics record of a game and stores the
// result in one transaction. A missing or corrupt record is passed to fn as
// zero stats and replaced.
func (s *Store) UpdateStats(gameID string, fn func(tetris.Stats) tetris.Stats) (tetris.Stats, error) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return tetris.Stats{}, fmt.Errorf("storage: cannot begin stats update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after Commit

	var current tetris.Stats
	var data string
	err = tx.QueryRow("SELECT data FROM stats WHERE game_id = ?", gameID).Scan(&data)
	switch {
	case err == nil:
		if decoded, decodeErr := tetris.DecodeStats([]byte(data)); decodeErr == nil {
			current = decoded
		}
	case !errors.Is(err, sql.ErrNoRows):
		return tetris.Stats{}, fmt.Errorf("storage: cannot load stats: %w", err)
	}

	next := fn(current)
	encoded, err := tetris.EncodeStats(next)
	if err != nil {
		return tetris.Stats{}, fmt.Errorf("storage: %w", err)
	}
	_, err = tx.Exec(
		`INSERT INTO stats (game_id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(game_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		gameID, string(encoded),
	)
	if err != nil {
		return tetris.Stats{}, fmt.Errorf("storage: cannot save stats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return tetris.Stats{}, fmt.Errorf("storage: cannot commit stats: %w", err)
	}
	return next, nil
}

// StatsRecord binds a Store to one game's statistics record.
type StatsRecord struct {
	store  *Store
	gameID string
}

// StatsFor returns the statistics record of gameID.
func (s *Store) StatsFor(gameID string) *StatsRecord {
	return &StatsRecord{store: s, gameID: gameID}
}

// LoadStats implements tetris.StatsStore.
func (r *StatsRecord) LoadStats() (tetris.Stats, error) {
	return r.store.LoadStats(r.gameID)
}

// SaveStats implements tetris.StatsStore.
func (r *StatsRecord) SaveStats(stats tetris.Stats) error {
	return r.store.SaveStats(r.gameID, stats)
}

// UpdateStats implements tetris.StatsUpdater.
func (r *StatsRecord) UpdateStats(fn func(tetris.Stats) tetris.Stats) (tetris.Stats, error) {
	return r.store.UpdateStats(r.gameID, fn)
}

var (
	_ tetris.StatsStore   = (*StatsRecord)(nil)
	_ tetris.StatsUpdater = (*StatsRecord)(nil)
)
