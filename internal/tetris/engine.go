package tetris

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Phase is the lifecycle state of a game.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Engine is the game state machine. It owns the board, the active piece, the
// next-piece queue and the statistics.
//
// Engine is not safe for concurrent use: exactly one goroutine may call its
// methods. Session provides that ownership for real-time play.
//
// Every command is accepted; a command that is not allowed in the current
// phase or would collide is a silent no-op and returns false.
type Engine struct {
	rules  Rules
	rng    Randomizer
	store  StatsStore
	logger *log.Logger

	board  Board
	active Piece
	next   Kind
	phase  Phase
	stats  Stats
	placed int // pieces locked in the current game
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules overrides the default scoring and timing rules.
func WithRules(r Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithRandomizer sets the piece randomizer.
func WithRandomizer(r Randomizer) Option {
	return func(e *Engine) { e.rng = r }
}

// WithStatsStore sets where statistics are loaded from and saved to.
func WithStatsStore(s StatsStore) Option {
	return func(e *Engine) { e.store = s }
}

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an idle engine and loads persisted statistics.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules:  DefaultRules(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewUniformRandomizer(0)
	}
	e.stats = loadStats(e.store, e.logger)
	return e
}

// Start begins a new game: empty board, two fresh pieces, score, lines and
// level reset. High score and totals carry over. Works from any phase.
func (e *Engine) Start() bool {
	e.board.Reset()
	e.stats.Score = 0
	e.stats.Lines = 0
	e.stats.Level = e.rules.LevelFor(0)
	e.placed = 0
	e.phase = PhasePlaying

	current := e.rng.Next()
	e.next = e.rng.Next()
	e.logger.Debug("game started", "piece", current, "next", e.next)
	e.spawn(current)
	return true
}

// Reset is an alias of Start.
func (e *Engine) Reset() bool {
	return e.Start()
}

// MoveLeft shifts the active piece one column left if it fits.
func (e *Engine) MoveLeft() bool {
	return e.try(-1, 0, 0)
}

// MoveRight shifts the active piece one column right if it fits.
func (e *Engine) MoveRight() bool {
	return e.try(1, 0, 0)
}

// Rotate turns the active piece a quarter turn clockwise in place.
// There is no kick search: a colliding rotation is simply rejected.
func (e *Engine) Rotate() bool {
	return e.try(0, 0, 1)
}

// SoftDrop moves the active piece down one row. When it cannot move, the
// piece locks, full rows are cleared, scoring is applied and the next piece
// spawns; a spawn that does not fit ends the game.
// This is also the command the drop clock issues.
func (e *Engine) SoftDrop() bool {
	if e.phase != PhasePlaying {
		return false
	}
	if e.try(0, 1, 0) {
		return true
	}
	e.lock()
	return true
}

// HardDrop moves the active piece down as far as it fits and locks it.
func (e *Engine) HardDrop() bool {
	if e.phase != PhasePlaying {
		return false
	}
	for e.try(0, 1, 0) {
	}
	e.lock()
	return true
}

// Pause suspends a running game. Board and piece are untouched.
func (e *Engine) Pause() bool {
	if e.phase != PhasePlaying {
		return false
	}
	e.phase = PhasePaused
	return true
}

// Resume continues a paused game.
func (e *Engine) Resume() bool {
	if e.phase != PhasePaused {
		return false
	}
	e.phase = PhasePlaying
	return true
}

// try applies a move and/or rotation to the active piece if the result fits.
func (e *Engine) try(dx, dy, drot int) bool {
	if e.phase != PhasePlaying {
		return false
	}
	candidate := e.active
	candidate.X += dx
	candidate.Y += dy
	candidate.Rotation = (candidate.Rotation + drot) % 4
	if !fits(&e.board, candidate) {
		return false
	}
	e.active = candidate
	return true
}

// lock merges the active piece into the board and advances to the next piece.
// Cells above the top edge have nowhere to go and are dropped.
func (e *Engine) lock() {
	for _, c := range e.active.Cells() {
		e.board.SetOccupied(c.X, c.Y, e.active.Kind)
	}

	cleared := ClearLines(&e.board)
	before := e.stats.Level
	e.stats = e.rules.ApplyLines(e.stats, cleared)
	e.stats.TotalPieces++
	e.placed++

	e.logger.Debug("piece locked",
		"piece", e.active.Kind,
		"x", e.active.X,
		"y", e.active.Y,
		"cleared", cleared,
		"score", e.stats.Score,
	)
	if e.stats.Level != before {
		e.logger.Info("level up", "level", e.stats.Level, "interval", e.DropInterval())
	}

	current := e.next
	e.next = e.rng.Next()
	e.spawn(current)
}

// spawn places a new piece at the spawn origin, or ends the game if it
// does not fit there.
func (e *Engine) spawn(k Kind) {
	e.active = Piece{Kind: k, X: e.rules.SpawnX, Y: e.rules.SpawnY}
	if !fits(&e.board, e.active) {
		e.gameOver()
	}
}

// gameOver finishes the game and folds it into the persisted statistics.
// The stored record may hold games finished by other engines sharing the
// store; the engine adopts it after saving.
func (e *Engine) gameOver() {
	e.phase = PhaseGameOver
	e.stats.TotalGames++
	if e.stats.Score > e.stats.HighScore {
		e.stats.HighScore = e.stats.Score
	}
	e.logger.Info("game over",
		"score", e.stats.Score,
		"lines", e.stats.Lines,
		"level", e.stats.Level,
		"pieces", e.placed,
	)
	if e.store == nil {
		return
	}
	saved, err := saveGame(e.store, e.stats, e.placed)
	if err != nil {
		e.logger.Error("could not save stats", "error", err)
		return
	}
	e.stats = saved
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Board returns a copy of the locked cells.
func (e *Engine) Board() Board {
	return e.board
}

// Active returns the active piece and whether there is one in play.
func (e *Engine) Active() (Piece, bool) {
	if e.phase != PhasePlaying && e.phase != PhasePaused {
		return Piece{}, false
	}
	return e.active, true
}

// ActiveCells returns the board cells of the active piece, nil when no piece
// is in play.
func (e *Engine) ActiveCells() []core.Point {
	p, ok := e.Active()
	if !ok {
		return nil
	}
	return p.Cells()
}

// GhostCells returns where the active piece would land if dropped now.
func (e *Engine) GhostCells() []core.Point {
	p, ok := e.Active()
	if !ok {
		return nil
	}
	for {
		below := p
		below.Y++
		if !fits(&e.board, below) {
			break
		}
		p = below
	}
	return p.Cells()
}

// Next returns the kind of the queued piece.
func (e *Engine) Next() Kind {
	return e.next
}

// Stats returns the current statistics.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() Rules {
	return e.rules
}

// DropInterval returns the automatic soft-drop period for the current level.
func (e *Engine) DropInterval() time.Duration {
	return e.rules.DropInterval(e.stats.Level)
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Board        Board
	Active       []core.Point
	ActiveKind   Kind
	Ghost        []core.Point
	Next         Kind
	Stats        Stats
	Phase        Phase
	DropInterval time.Duration
}

// Snapshot returns a copy of the engine state that shares nothing with it.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Board:        e.board,
		Active:       e.ActiveCells(),
		Ghost:        e.GhostCells(),
		Next:         e.next,
		Stats:        e.stats,
		Phase:        e.phase,
		DropInterval: e.DropInterval(),
	}
	if p, ok := e.Active(); ok {
		snap.ActiveKind = p.Kind
	}
	return snap
}
