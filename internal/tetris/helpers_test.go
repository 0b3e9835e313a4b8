package tetris

import (
	"errors"
	"sync"
	"time"

	"github.com/vovakirdan/blockfall/internal/core"
)

// sequence is a Randomizer that cycles through a fixed list of kinds.
type sequence struct {
	kinds []Kind
	i     int
}

func newSequence(kinds ...Kind) *sequence { return &sequence{kinds: kinds} }

func (s *sequence) Next() Kind {
	k := s.kinds[s.i%len(s.kinds)]
	s.i++
	return k
}

// memStore is an in-memory StatsStore.
type memStore struct {
	mu      sync.Mutex
	stats   Stats
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) LoadStats() (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return Stats{}, m.loadErr
	}
	return m.stats, nil
}

func (m *memStore) SaveStats(s Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stats = s
	m.saves++
	return nil
}

func (m *memStore) UpdateStats(fn func(Stats) Stats) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return Stats{}, m.saveErr
	}
	m.stats = fn(m.stats)
	m.saves++
	return m.stats, nil
}

func (m *memStore) saved() (Stats, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats, m.saves
}

// plainStore hides memStore's UpdateStats so the load-and-save path is used.
type plainStore struct {
	m *memStore
}

func (p plainStore) LoadStats() (Stats, error) { return p.m.LoadStats() }
func (p plainStore) SaveStats(s Stats) error   { return p.m.SaveStats(s) }

var errBroken = errors.New("broken store")

// mockTicker only fires when Tick is called.
type mockTicker struct {
	ch     chan time.Time
	mu     sync.Mutex
	resets []time.Duration
	stops  int
}

func newMockTicker() *mockTicker          { return &mockTicker{ch: make(chan time.Time)} }
func (m *mockTicker) C() <-chan time.Time { return m.ch }
func (m *mockTicker) Tick()               { m.ch <- time.Now() }

func (m *mockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
}

func (m *mockTicker) Reset(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, d)
}

func (m *mockTicker) lastReset() (time.Duration, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.resets) == 0 {
		return 0, 0
	}
	return m.resets[len(m.resets)-1], len(m.resets)
}

// fillRow occupies every cell of row except the listed columns.
func fillRow(b *Board, row int, except ...int) {
	for x := range Width {
		skip := false
		for _, e := range except {
			if e == x {
				skip = true
			}
		}
		if !skip {
			b.SetOccupied(x, row, J)
		}
	}
}

// overlaps reports whether any cell is off the board or on a locked cell.
func overlaps(b *Board, cells []core.Point) bool {
	for _, c := range cells {
		if c.X < 0 || c.X >= Width || c.Y >= Height {
			return true
		}
		if b.IsOccupied(c.X, c.Y) {
			return true
		}
	}
	return false
}

func pt(x, y int) core.Point { return core.Point{X: x, Y: y} }
