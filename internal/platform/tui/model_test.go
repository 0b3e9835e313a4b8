package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// stubGame records what the platform asks of it.
type stubGame struct {
	resets  int
	steps   [][]core.Action
	resized [2]int
	closed  int
	state   core.GameState
}

func (g *stubGame) ID() string                  { return "stub" }
func (g *stubGame) Title() string               { return "Stub" }
func (g *stubGame) Reset(core.RuntimeConfig)    { g.resets++ }
func (g *stubGame) State() core.GameState       { return g.state }
func (g *stubGame) SessionID() string           { return "session-1" }
func (g *stubGame) Resize(width, height int)    { g.resized = [2]int{width, height} }
func (g *stubGame) Render(dst *core.Screen)     { dst.DrawText(0, 0, "stub") }
func (g *stubGame) Close() error                { g.closed++; return nil }
func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.steps = append(g.steps, append([]core.Action(nil), in.Actions...))
	return core.StepResult{State: g.state}
}

type fakeScores struct {
	saved []storage.ScoreEntry
	err   error
}

func (f *fakeScores) SaveScore(e storage.ScoreEntry) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.saved = append(f.saved, e)
	return int64(len(f.saved)), nil
}

func newTestModel(game *stubGame, scores ScoreSaver) Model {
	cfg := core.DefaultConfig()
	cfg.Seed = 1
	m := NewModel(game, scores, nil, cfg)
	m.Init()
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model
}

func TestModelForwardsInputOnTick(t *testing.T) {
	game := &stubGame{}
	m := newTestModel(game, nil)
	if game.resets != 1 {
		t.Fatalf("Init should reset the game once, got %d", game.resets)
	}

	m = update(t, m, runeKey("a"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, TickMsg{})
	update(t, m, TickMsg{})

	if len(game.steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(game.steps))
	}
	first := game.steps[0]
	if len(first) != 2 || first[0] != core.ActionLeft || first[1] != core.ActionDrop {
		t.Errorf("first frame = %v, want [Left Drop]", first)
	}
	if len(game.steps[1]) != 0 {
		t.Errorf("input should be cleared after a frame, got %v", game.steps[1])
	}
}

func TestModelSavesScoreOncePerGame(t *testing.T) {
	game := &stubGame{}
	scores := &fakeScores{}
	m := newTestModel(game, scores)

	game.state = core.GameState{Score: 120, Lines: 3, Level: 1, GameOver: true}
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	if len(scores.saved) != 1 {
		t.Fatalf("expected 1 saved score, got %d", len(scores.saved))
	}
	got := scores.saved[0]
	if got.GameID != "stub" || got.Score != 120 || got.Lines != 3 || got.SessionID != "session-1" {
		t.Errorf("unexpected entry %+v", got)
	}

	// A restart arms saving again.
	game.state = core.GameState{Level: 1}
	m = update(t, m, TickMsg{})
	game.state = core.GameState{Score: 40, Level: 1, GameOver: true}
	update(t, m, TickMsg{})
	if len(scores.saved) != 2 {
		t.Errorf("expected a second saved score after restart, got %d", len(scores.saved))
	}
}

func TestModelSkipsZeroScoreAndSurvivesSaveErrors(t *testing.T) {
	game := &stubGame{state: core.GameState{GameOver: true}}
	scores := &fakeScores{}
	m := newTestModel(game, scores)
	m = update(t, m, TickMsg{})
	if len(scores.saved) != 0 {
		t.Error("zero scores should not be recorded")
	}

	failing := &fakeScores{err: errors.New("disk full")}
	game2 := &stubGame{state: core.GameState{Score: 10, GameOver: true}}
	m = newTestModel(game2, failing)
	update(t, m, TickMsg{})
}

func TestModelResizeUsesResizer(t *testing.T) {
	game := &stubGame{}
	m := newTestModel(game, nil)
	update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if game.resized != [2]int{100, 40} {
		t.Errorf("Resize got %v", game.resized)
	}
	if game.resets != 1 {
		t.Errorf("a Resizer must not be reset on resize, resets = %d", game.resets)
	}
}

func TestModelQuitReleasesGame(t *testing.T) {
	game := &stubGame{}
	m := newTestModel(game, nil)
	next, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if game.closed != 1 {
		t.Errorf("game closed %d times, want 1", game.closed)
	}
	if next.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(&stubGame{}, nil)
	if !strings.Contains(m.View(), "stub") {
		t.Errorf("view does not contain the game render: %q", m.View())
	}
}

func TestModelUpdateMsgWithoutNotifier(t *testing.T) {
	m := newTestModel(&stubGame{}, nil)
	_, cmd := m.Update(UpdateMsg{})
	if cmd != nil {
		t.Error("a game without updates needs no wait command")
	}
}
