package tetris

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/core"
)

func newTestEngine(t *testing.T, kinds ...Kind) *Engine {
	t.Helper()
	if len(kinds) == 0 {
		kinds = []Kind{O}
	}
	return NewEngine(WithRandomizer(newSequence(kinds...)))
}

func TestEngineStartsIdle(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Nil(t, e.ActiveCells())

	assert.False(t, e.MoveLeft())
	assert.False(t, e.SoftDrop())
	assert.False(t, e.Pause())
	assert.Equal(t, PhaseIdle, e.Phase())
}

func TestEngineStart(t *testing.T) {
	e := newTestEngine(t, T, S)
	require.True(t, e.Start())

	assert.Equal(t, PhasePlaying, e.Phase())
	p, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, Piece{Kind: T, X: 3, Y: 0}, p)
	assert.Equal(t, S, e.Next())
	assert.Equal(t, 1, e.Stats().Level)
	assert.Equal(t, 0, e.Board().Count())
}

func TestEngineMoveAgainstWall(t *testing.T) {
	e := newTestEngine(t, O)
	e.Start()

	moves := 0
	for e.MoveLeft() {
		moves++
	}
	assert.Equal(t, 4, moves, "O occupies mask columns 1-2, so it reaches x=-1")
	p, _ := e.Active()
	assert.Equal(t, -1, p.X)

	for e.MoveRight() {
	}
	p, _ = e.Active()
	assert.Equal(t, Width-3, p.X)
}

func TestEngineRotateRejectedAtWall(t *testing.T) {
	e := newTestEngine(t, I)
	e.Start()
	require.True(t, e.Rotate())
	for e.MoveLeft() {
	}
	// Vertical I sits in mask column 3, flush with the left wall; the next
	// horizontal shape spans columns 0-3 and would stick out.
	before, _ := e.Active()
	assert.False(t, e.Rotate())
	after, _ := e.Active()
	assert.Equal(t, before, after)
}

func TestEngineSoftDropLandsAndLocks(t *testing.T) {
	e := newTestEngine(t, O)
	e.Start()

	for i := 0; i < Height-2; i++ {
		require.True(t, e.SoftDrop())
	}
	p, _ := e.Active()
	assert.Equal(t, 18, p.Y)
	assert.Equal(t, 0, e.Board().Count())

	// Cannot move any further: the piece locks and the next one spawns.
	require.True(t, e.SoftDrop())
	board := e.Board()
	assert.Equal(t, 4, board.Count())
	assert.True(t, board.IsOccupied(4, 19))
	assert.True(t, board.IsOccupied(5, 18))
	assert.Equal(t, PhasePlaying, e.Phase())
	p, _ = e.Active()
	assert.Equal(t, 0, p.Y)
	assert.Equal(t, 1, e.Stats().TotalPieces)
}

func TestEngineHardDrop(t *testing.T) {
	e := newTestEngine(t, I)
	e.Start()
	require.True(t, e.HardDrop())

	board := e.Board()
	for x := 3; x < 7; x++ {
		assert.True(t, board.IsOccupied(x, Height-1), "x=%d", x)
	}
	assert.Equal(t, 4, board.Count())
}

func TestEngineGapFillScores(t *testing.T) {
	e := newTestEngine(t, O)
	e.Start()
	fillRow(&e.board, Height-1, 4, 5)

	e.HardDrop()
	stats := e.Stats()
	assert.Equal(t, 40, stats.Score)
	assert.Equal(t, 1, stats.Lines)
	assert.Equal(t, 1, stats.Level)

	// The O's upper half is what remains, shifted onto the floor.
	board := e.Board()
	assert.Equal(t, 2, board.Count())
	assert.True(t, board.IsOccupied(4, Height-1))
	assert.True(t, board.IsOccupied(5, Height-1))
}

func TestEngineScoreUsesCurrentLevel(t *testing.T) {
	e := newTestEngine(t, O)
	e.Start()
	e.stats.Lines = 19
	e.stats.Level = 2
	fillRow(&e.board, Height-1, 4, 5)
	fillRow(&e.board, Height-2, 4, 5)

	e.HardDrop()
	stats := e.Stats()
	assert.Equal(t, 100*2, stats.Score)
	assert.Equal(t, 21, stats.Lines)
	assert.Equal(t, 3, stats.Level)
	assert.Equal(t, e.Rules().DropInterval(3), e.DropInterval())
}

func TestEngineGameOver(t *testing.T) {
	store := &memStore{}
	e := NewEngine(WithRandomizer(newSequence(O)), WithStatsStore(store))
	e.Start()
	// A pillar under the spawn point: the first O locks in place and the
	// second one has nowhere to go.
	for y := 2; y < Height; y++ {
		e.board.SetOccupied(4, y, Z)
	}

	e.HardDrop()
	require.Equal(t, PhaseGameOver, e.Phase())
	assert.Nil(t, e.ActiveCells())

	saved, saves := store.saved()
	assert.Equal(t, 1, saves)
	assert.Equal(t, 1, saved.TotalGames)
	assert.Equal(t, 1, saved.TotalPieces)

	board := e.Board()
	assert.False(t, e.MoveLeft())
	assert.False(t, e.Rotate())
	assert.False(t, e.SoftDrop())
	assert.False(t, e.HardDrop())
	assert.False(t, e.Pause())
	assert.False(t, e.Resume())
	assert.Equal(t, board, e.Board(), "commands after game over must not touch the board")
}

func TestEngineRestartAfterGameOver(t *testing.T) {
	e := newTestEngine(t, O)
	e.Start()
	e.stats.Score = 500
	for y := 2; y < Height; y++ {
		e.board.SetOccupied(4, y, Z)
	}
	e.HardDrop()
	require.Equal(t, PhaseGameOver, e.Phase())

	require.True(t, e.Start())
	stats := e.Stats()
	assert.Equal(t, PhasePlaying, e.Phase())
	assert.Equal(t, 0, e.Board().Count())
	assert.Equal(t, 0, stats.Score)
	assert.Equal(t, 500, stats.HighScore)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.TotalPieces)
}

func TestEnginePauseResume(t *testing.T) {
	e := newTestEngine(t, T)
	e.Start()
	before, _ := e.Active()

	require.True(t, e.Pause())
	assert.False(t, e.Pause())
	assert.False(t, e.MoveLeft())
	assert.False(t, e.SoftDrop())
	assert.False(t, e.HardDrop())
	after, ok := e.Active()
	assert.True(t, ok, "the piece stays visible while paused")
	assert.Equal(t, before, after)

	require.True(t, e.Resume())
	assert.False(t, e.Resume())
	assert.True(t, e.MoveLeft())
}

func TestEngineGhost(t *testing.T) {
	e := newTestEngine(t, O)
	e.Start()
	e.board.SetOccupied(4, 10, Z)

	ghost := e.GhostCells()
	assert.ElementsMatch(t, []core.Point{pt(4, 8), pt(5, 8), pt(4, 9), pt(5, 9)}, ghost)
}

func TestEngineLoadsStats(t *testing.T) {
	store := &memStore{stats: Stats{HighScore: 1000, TotalGames: 4, TotalPieces: 99}}
	e := NewEngine(WithStatsStore(store))
	assert.Equal(t, 1000, e.Stats().HighScore)

	broken := NewEngine(WithStatsStore(&memStore{loadErr: errBroken}))
	assert.Equal(t, Stats{}, broken.Stats())
}

func TestEngineSaveFailureKeepsPlaying(t *testing.T) {
	store := &memStore{saveErr: errBroken}
	e := NewEngine(WithRandomizer(newSequence(O)), WithStatsStore(store))
	e.Start()
	for y := 2; y < Height; y++ {
		e.board.SetOccupied(4, y, Z)
	}
	e.HardDrop()
	assert.Equal(t, PhaseGameOver, e.Phase())
	assert.True(t, e.Start())
}

// Random play never puts the active piece off the board or on a locked cell.
func TestEngineSafetyUnderRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := NewEngine(WithRandomizer(NewUniformRandomizer(11)))
	e.Start()

	commands := []func() bool{e.MoveLeft, e.MoveRight, e.Rotate, e.SoftDrop, e.HardDrop}
	games := 0
	for i := 0; i < 5000; i++ {
		commands[rng.Intn(len(commands))]()
		if e.Phase() == PhaseGameOver {
			games++
			e.Start()
		}
		board := e.Board()
		if overlaps(&board, e.ActiveCells()) {
			t.Fatalf("step %d: active piece overlaps\n%s", i, board.String())
		}
		for y := range Height {
			if board.RowFull(y) {
				t.Fatalf("step %d: full row %d left on the board", i, y)
			}
		}
	}
	assert.Equal(t, games, e.Stats().TotalGames)
}

func TestSnapshotIsACopy(t *testing.T) {
	e := newTestEngine(t, O)
	e.Start()
	snap := e.Snapshot()
	snap.Board.SetOccupied(0, 0, I)
	snap.Active[0] = pt(-9, -9)

	assert.Equal(t, 0, e.Board().Count())
	assert.NotContains(t, e.ActiveCells(), pt(-9, -9))
	assert.Equal(t, O, snap.ActiveKind)
	assert.Equal(t, PhasePlaying, snap.Phase)
}

// playToGameOver locks pieces on an open board until the stack reaches the top.
func playToGameOver(t *testing.T, e *Engine) {
	t.Helper()
	e.Start()
	for i := 0; i < 100 && e.Phase() == PhasePlaying; i++ {
		e.HardDrop()
	}
	require.Equal(t, PhaseGameOver, e.Phase())
}

func TestEnginesSharingAStoreAccumulate(t *testing.T) {
	cases := []struct {
		name  string
		store func(m *memStore) StatsStore
	}{
		{"updater", func(m *memStore) StatsStore { return m }},
		{"load and save", func(m *memStore) StatsStore { return plainStore{m} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mem := &memStore{stats: Stats{TotalGames: 5, TotalPieces: 100, HighScore: 10}}
			store := tc.store(mem)

			// Both engines load the record before either game ends.
			a := NewEngine(WithRandomizer(newSequence(O)), WithStatsStore(store))
			b := NewEngine(WithRandomizer(newSequence(O)), WithStatsStore(store))
			playToGameOver(t, a)
			playToGameOver(t, b)

			placed := a.placed + b.placed
			got, saves := mem.saved()
			assert.Equal(t, 2, saves)
			assert.Equal(t, 7, got.TotalGames)
			assert.Equal(t, 100+placed, got.TotalPieces)
			assert.Equal(t, got, b.Stats(), "the last engine adopts the merged record")
			assert.Equal(t, 6, a.Stats().TotalGames)
		})
	}
}
