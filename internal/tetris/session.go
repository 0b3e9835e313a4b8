package tetris

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Command is a discrete player command.
type Command int

const (
	CmdStart Command = iota
	CmdPause
	CmdResume
	CmdMoveLeft
	CmdMoveRight
	CmdRotate
	CmdSoftDrop
	CmdHardDrop
)

// String returns the command name used in logs.
func (c Command) String() string {
	switch c {
	case CmdStart:
		return "start"
	case CmdPause:
		return "pause"
	case CmdResume:
		return "resume"
	case CmdMoveLeft:
		return "left"
	case CmdMoveRight:
		return "right"
	case CmdRotate:
		return "rotate"
	case CmdSoftDrop:
		return "soft_drop"
	case CmdHardDrop:
		return "hard_drop"
	default:
		return "unknown"
	}
}

type request struct {
	cmd   Command
	reply chan bool
}

// Session runs an Engine in a single goroutine. Player commands and drop
// clock ticks are both messages to that goroutine, so they never interleave.
// Readers poll Snapshot, which is republished after every message.
type Session struct {
	ID uuid.UUID

	engine *Engine
	clock  *Clock
	logger *log.Logger

	reqs    chan request
	updates chan struct{}
	done    chan struct{}
	stopped chan struct{}

	closeOnce sync.Once
	startOnce sync.Once

	mu   sync.RWMutex
	snap Snapshot
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTicker replaces the real-time ticker driving the drop clock.
func WithTicker(t Ticker) SessionOption {
	return func(s *Session) {
		s.clock = NewClock(t, s.engine.DropInterval)
	}
}

// WithSessionLogger sets the session's logger.
func WithSessionLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession wraps engine. The engine must not be used directly afterwards.
func NewSession(engine *Engine, opts ...SessionOption) *Session {
	s := &Session{
		ID:      uuid.New(),
		engine:  engine,
		logger:  log.New(io.Discard),
		reqs:    make(chan request),
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	s.clock = NewClock(NewTicker(), engine.DropInterval)
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.ID.String())
	s.snap = engine.Snapshot()
	return s
}

// Start launches the session goroutine. It runs until ctx is cancelled or
// Close is called. Calling Start more than once has no effect.
func (s *Session) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.run(ctx)
	})
}

// Close stops the session goroutine and waits for it to exit.
func (s *Session) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	// A session that never started has nothing to wait for.
	s.startOnce.Do(func() { close(s.stopped) })
	<-s.stopped
	return nil
}

// Do applies a command and waits until it has been handled. It reports
// whether the command changed the game; false is also returned when the
// session is closed or ctx ends first.
func (s *Session) Do(ctx context.Context, cmd Command) bool {
	req := request{cmd: cmd, reply: make(chan bool, 1)}
	select {
	case s.reqs <- req:
	case <-s.stopped:
		return false
	case <-ctx.Done():
		return false
	}
	select {
	case changed := <-req.reply:
		return changed
	case <-s.stopped:
		return false
	case <-ctx.Done():
		return false
	}
}

// Snapshot returns the state published after the last handled message.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Updates signals after every handled message. Signals coalesce: a reader
// that falls behind sees one pending signal, never a backlog. The channel is
// closed when the session goroutine exits.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

func (s *Session) run(ctx context.Context) {
	defer close(s.stopped)
	defer close(s.updates)
	defer s.clock.Stop()

	s.logger.Debug("session started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("session cancelled")
			return
		case <-s.done:
			s.logger.Debug("session closed")
			return
		case req := <-s.reqs:
			changed := s.apply(req.cmd)
			s.syncClock()
			s.publish()
			req.reply <- changed
		case <-s.clock.C():
			s.engine.SoftDrop()
			s.clock.Rearm()
			s.syncClock()
			s.publish()
		}
	}
}

// apply runs one command against the engine.
func (s *Session) apply(cmd Command) bool {
	switch cmd {
	case CmdStart:
		// A new game restarts the clock from zero.
		s.clock.Stop()
		return s.engine.Start()
	case CmdPause:
		return s.engine.Pause()
	case CmdResume:
		return s.engine.Resume()
	case CmdMoveLeft:
		return s.engine.MoveLeft()
	case CmdMoveRight:
		return s.engine.MoveRight()
	case CmdRotate:
		return s.engine.Rotate()
	case CmdSoftDrop:
		return s.engine.SoftDrop()
	case CmdHardDrop:
		return s.engine.HardDrop()
	default:
		s.logger.Warn("unknown command", "command", int(cmd))
		return false
	}
}

// syncClock runs the clock exactly while the game is playing.
func (s *Session) syncClock() {
	playing := s.engine.Phase() == PhasePlaying
	switch {
	case playing && !s.clock.Running():
		s.clock.Start()
	case !playing && s.clock.Running():
		s.clock.Stop()
	}
}

func (s *Session) publish() {
	snap := s.engine.Snapshot()
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	select {
	case s.updates <- struct{}{}:
	default:
	}
}
