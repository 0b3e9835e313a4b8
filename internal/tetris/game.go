package tetris

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// GameID is the registry and score-storage identifier.
const GameID = "tetris"

// Minimum screen size: bordered board plus the side panel.
const (
	minScreenW = boardScreenW + 2 + panelW
	minScreenH = boardScreenH + 1
)

// Package-level settings applied to games created by the registry,
// set by the CLI before the game starts.
var (
	configuredRules = DefaultRules()
	statsStore      StatsStore
	gameLogger      *log.Logger
)

// SetRules sets the rules used by newly created games.
func SetRules(r Rules) {
	configuredRules = r
}

// SetStatsStore sets where newly created games persist statistics.
func SetStatsStore(s StatsStore) {
	statsStore = s
}

// SetLogger sets the logger of newly created games.
func SetLogger(l *log.Logger) {
	gameLogger = l
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

// Game adapts a Session to the platform's frame-driven registry.Game
// interface. The drop clock runs inside the session; Step only forwards
// the frame's input as commands.
//
// Close may be called from any goroutine, including while Reset runs.
// The other methods belong to the host's UI goroutine.
type Game struct {
	mu      sync.Mutex // guards session, ctx, cancel and closed
	session *Session
	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
	ticker  Ticker // nil means real time

	screenW  int
	screenH  int
	tooSmall bool
}

// New creates a game. The session is created on the first Reset.
func New() *Game {
	return &Game{}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Tetris"
}

// Reset starts a new game. The session, and with it the persisted totals and
// high score, lives as long as the Game; the seed only applies to the first call.
// A closed Game stays closed.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	session, ctx := g.start(cfg)
	if session == nil {
		return
	}
	session.Do(ctx, CmdStart)
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// start creates and starts the session on first use.
func (g *Game) start(cfg core.RuntimeConfig) (*Session, context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, nil
	}
	if g.session == nil {
		engine := NewEngine(
			WithRules(configuredRules),
			WithRandomizer(NewUniformRandomizer(cfg.Seed)),
			WithStatsStore(statsStore),
			WithLogger(gameLogger),
		)
		opts := []SessionOption{WithSessionLogger(gameLogger)}
		if g.ticker != nil {
			opts = append(opts, WithTicker(g.ticker))
		}
		g.session = NewSession(engine, opts...)
		g.ctx, g.cancel = context.WithCancel(context.Background())
		g.session.Start(g.ctx)
	}
	return g.session, g.ctx
}

// current returns the session, nil before the first Reset.
func (g *Game) current() (*Session, context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session, g.ctx
}

// Resize records the new screen size. A game that no longer fits is paused.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.tooSmall = width < minScreenW || height < minScreenH
	if session, ctx := g.current(); g.tooSmall && session != nil {
		session.Do(ctx, CmdPause)
	}
}

// Step forwards the frame's actions to the session in arrival order.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	session, ctx := g.current()
	if session == nil {
		return core.StepResult{State: g.State()}
	}
	for _, a := range in.Actions {
		if cmd, ok := g.command(session.Snapshot().Phase, a); ok {
			session.Do(ctx, cmd)
		}
	}
	return core.StepResult{State: g.State()}
}

// command maps a platform action to a session command for the current phase.
func (g *Game) command(phase Phase, a core.Action) (Command, bool) {
	switch a {
	case core.ActionLeft:
		return CmdMoveLeft, true
	case core.ActionRight:
		return CmdMoveRight, true
	case core.ActionRotate:
		return CmdRotate, true
	case core.ActionDown:
		return CmdSoftDrop, true
	case core.ActionDrop:
		return CmdHardDrop, true
	case core.ActionPause:
		if phase == PhasePaused {
			if g.tooSmall {
				return 0, false
			}
			return CmdResume, true
		}
		return CmdPause, true
	case core.ActionRestart:
		if phase == PhaseGameOver {
			return CmdStart, true
		}
	}
	return 0, false
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	session, _ := g.current()
	if session == nil {
		return core.GameState{}
	}
	snap := session.Snapshot()
	return core.GameState{
		Score:    snap.Stats.Score,
		Lines:    snap.Stats.Lines,
		Level:    snap.Stats.Level,
		GameOver: snap.Phase == PhaseGameOver,
		Paused:   snap.Phase == PhasePaused || g.tooSmall,
	}
}

// Snapshot returns the latest published engine state.
func (g *Game) Snapshot() Snapshot {
	session, _ := g.current()
	if session == nil {
		return Snapshot{}
	}
	return session.Snapshot()
}

// Updates signals whenever the session handled a command or a tick.
// Nil before the first Reset.
func (g *Game) Updates() <-chan struct{} {
	session, _ := g.current()
	if session == nil {
		return nil
	}
	return session.Updates()
}

// SessionID identifies the session the games are played in, empty before
// the first Reset.
func (g *Game) SessionID() string {
	session, _ := g.current()
	if session == nil {
		return ""
	}
	return session.ID.String()
}

// Close stops the session goroutine. Later calls to Reset do nothing.
func (g *Game) Close() error {
	g.mu.Lock()
	g.closed = true
	session, cancel := g.session, g.cancel
	g.mu.Unlock()

	if session == nil {
		return nil
	}
	err := session.Close()
	cancel()
	return err
}
