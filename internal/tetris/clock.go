package tetris

import "time"

// Ticker is the time source of the drop clock. It matches the subset of
// *time.Ticker the clock needs so tests can tick by hand.
type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

// NewTicker returns a stopped real-time Ticker.
func NewTicker() Ticker {
	t := time.NewTicker(time.Hour)
	t.Stop()
	return &wrappedTicker{ticker: t}
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Clock schedules automatic soft drops. The interval is read again every
// time the clock is (re)armed, so a level-up shortens the next wait but never
// the one already running.
//
// A tick that comes due while the previous one is still being handled is
// delivered when the session next receives; missed periods are dropped by the
// ticker, never queued.
type Clock struct {
	ticker   Ticker
	interval func() time.Duration
	running  bool
}

// NewClock creates a stopped clock reading its period from interval.
func NewClock(ticker Ticker, interval func() time.Duration) *Clock {
	return &Clock{ticker: ticker, interval: interval}
}

// Start arms the clock with a full period.
func (c *Clock) Start() {
	c.ticker.Reset(c.interval())
	c.running = true
}

// Stop cancels the pending fire.
func (c *Clock) Stop() {
	if !c.running {
		return
	}
	c.ticker.Stop()
	c.running = false
}

// Rearm schedules the next fire with the current interval. Call it after a
// fire has been handled.
func (c *Clock) Rearm() {
	if c.running {
		c.ticker.Reset(c.interval())
	}
}

// Running reports whether a fire is scheduled.
func (c *Clock) Running() bool {
	return c.running
}

// C returns the fire channel, or nil while stopped so a select never sees a
// stale tick.
func (c *Clock) C() <-chan time.Time {
	if !c.running {
		return nil
	}
	return c.ticker.C()
}
