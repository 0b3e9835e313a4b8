package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vovakirdan/blockfall/internal/tetris"
)

// FileStats keeps the statistics record as a single JSON document on disk.
// Updates through one FileStats are serialized; separate processes writing
// the same file are not coordinated.
type FileStats struct {
	path string
	mu   sync.Mutex
}

// NewFileStats returns a store for the JSON file at path. The file and its
// directory are created on the first save.
func NewFileStats(path string) (*FileStats, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	return &FileStats{path: path}, nil
}

// Path returns the file location.
func (f *FileStats) Path() string {
	return f.path
}

// LoadStats implements tetris.StatsStore. A missing file yields zero stats.
func (f *FileStats) LoadStats() (tetris.Stats, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tetris.Stats{}, nil
	}
	if err != nil {
		return tetris.Stats{}, fmt.Errorf("storage: cannot read %s: %w", f.path, err)
	}
	stats, err := tetris.DecodeStats(data)
	if err != nil {
		return tetris.Stats{}, fmt.Errorf("storage: %s: %w", f.path, err)
	}
	return stats, nil
}

// SaveStats implements tetris.StatsStore. The file is replaced atomically.
func (f *FileStats) SaveStats(stats tetris.Stats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(stats)
}

// UpdateStats implements tetris.StatsUpdater. A missing or corrupt file is
// passed to fn as zero stats and replaced.
func (f *FileStats) UpdateStats(fn func(tetris.Stats) tetris.Stats) (tetris.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.LoadStats()
	if err != nil {
		current = tetris.Stats{}
	}
	next := fn(current)
	if err := f.write(next); err != nil {
		return tetris.Stats{}, err
	}
	return next, nil
}

func (f *FileStats) write(stats tetris.Stats) error {
	data, err := tetris.EncodeStats(stats)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".stats-*.json")
	if err != nil {
		return fmt.Errorf("storage: cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: cannot write stats: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cannot write stats: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("storage: cannot replace %s: %w", f.path, err)
	}
	return nil
}

var (
	_ tetris.StatsStore   = (*FileStats)(nil)
	_ tetris.StatsUpdater = (*FileStats)(nil)
)
