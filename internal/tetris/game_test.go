package tetris

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := New()
	g.ticker = newMockTicker()
	cfg := core.DefaultConfig()
	cfg.Seed = 42
	g.Reset(cfg)
	t.Cleanup(func() { g.Close() })
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestGameRegistered(t *testing.T) {
	require.True(t, registry.Exists(GameID))
	g, err := registry.Create(GameID)
	require.NoError(t, err)
	assert.Equal(t, "Tetris", g.Title())
	require.NoError(t, registry.Release(g))
}

func TestGameResetStartsPlaying(t *testing.T) {
	g := newTestGame(t)
	st := g.State()
	assert.False(t, st.GameOver)
	assert.False(t, st.Paused)
	assert.Equal(t, 1, st.Level)
	assert.Equal(t, PhasePlaying, g.Snapshot().Phase)
}

func TestGameStepMovesPiece(t *testing.T) {
	g := newTestGame(t)
	before := g.Snapshot().Active

	g.Step(frame(core.ActionLeft))
	after := g.Snapshot().Active
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].X-1, after[i].X)
	}

	g.Step(frame(core.ActionDrop))
	assert.Equal(t, 4, g.Snapshot().Board.Count())
}

func TestGamePauseToggle(t *testing.T) {
	g := newTestGame(t)

	res := g.Step(frame(core.ActionPause))
	assert.True(t, res.State.Paused)

	res = g.Step(frame(core.ActionPause))
	assert.False(t, res.State.Paused)
}

func TestGameRestartOnlyAfterGameOver(t *testing.T) {
	g := newTestGame(t)
	g.Step(frame(core.ActionDrop))
	g.Step(frame(core.ActionRestart))
	assert.Equal(t, 4, g.Snapshot().Board.Count(), "restart is ignored while playing")

	for !g.State().GameOver {
		g.Step(frame(core.ActionDrop))
	}
	g.Step(frame(core.ActionRestart))
	assert.False(t, g.State().GameOver)
	assert.Equal(t, 0, g.Snapshot().Board.Count())
	assert.Equal(t, 1, g.Snapshot().Stats.TotalGames)
}

func TestGameResizePauses(t *testing.T) {
	g := newTestGame(t)

	g.Resize(30, 10)
	assert.True(t, g.State().Paused)
	// Resume is refused while the window is too small.
	g.Step(frame(core.ActionPause))
	assert.Equal(t, PhasePaused, g.Snapshot().Phase)

	screen := core.NewScreen(30, 10)
	g.Render(screen)
	assert.Contains(t, screen.String(), "too small")

	g.Resize(80, 24)
	g.Step(frame(core.ActionPause))
	assert.Equal(t, PhasePlaying, g.Snapshot().Phase)
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t)
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	assert.Contains(t, out, "NEXT")
	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, blockGlyph)
	assert.GreaterOrEqual(t, strings.Count(out, blockGlyph), 4)

	g.Step(frame(core.ActionPause))
	g.Render(screen)
	assert.Contains(t, screen.String(), "PAUSED")
}

func TestGameBeforeReset(t *testing.T) {
	g := New()
	assert.Equal(t, core.GameState{}, g.State())
	assert.Equal(t, core.GameState{}, g.Step(frame(core.ActionLeft)).State)
	assert.Nil(t, g.Updates())
	assert.NoError(t, g.Close())
}

func TestGameOptionalInterfaces(t *testing.T) {
	g := newTestGame(t)
	var _ registry.Closer = g
	var _ registry.Resizer = g
	var _ registry.Notifier = g
	assert.Len(t, g.SessionID(), 36)
	assert.Equal(t, "", New().SessionID())
}

func TestGameResetAfterCloseIsIgnored(t *testing.T) {
	g := New()
	g.ticker = newMockTicker()
	require.NoError(t, g.Close())

	g.Reset(core.DefaultConfig())
	assert.Nil(t, g.Updates())
	assert.Equal(t, "", g.SessionID())
	assert.Equal(t, core.GameState{}, g.State())
}

// A disconnect may release the game from another goroutine while the host
// is still resetting it.
func TestGameCloseDuringReset(t *testing.T) {
	for range 20 {
		g := New()
		g.ticker = newMockTicker()

		done := make(chan struct{})
		go func() {
			defer close(done)
			g.Reset(core.DefaultConfig())
		}()
		require.NoError(t, g.Close())
		<-done
		require.NoError(t, g.Close())

		if session, _ := g.current(); session != nil {
			// The session goroutine has exited: its update channel is closed.
			for range session.Updates() {
			}
		}
	}
}
