// Package clock drives scene animation with a fixed-interval tick that
// forwards the measured time step to registered handlers.
package clock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the lifecycle state of a Clock.
type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	// DefaultInterval is the tick period of the 2D scene (~30 fps).
	DefaultInterval = 33 * time.Millisecond
	// DefaultFrameRate is the initial frame rate of the 3D scene.
	DefaultFrameRate = 30
	// FirstTickDelta is the step reported by the first tick after Start.
	FirstTickDelta = 0.033
)

// TickFunc receives the step in seconds since the previous tick.
type TickFunc func(dt float64)

// Clock is a Stopped/Running/Paused state machine around a ticker
// goroutine. Elapsed time is measured in whole milliseconds from the
// moment of Start.
type Clock struct {
	mu sync.Mutex

	name     string
	interval time.Duration
	fps      int
	state    State

	base       time.Time
	lastUpdate int64
	primed     bool
	ticks      uint64

	handlers []TickFunc

	ticker *time.Ticker
	cancel context.CancelFunc
	done   chan struct{}

	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Clock.
type Option func(*Clock)

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.interval = d
			c.fps = 0
		}
	}
}

// WithFrameRate sets the tick period to 1000/fps milliseconds.
func WithFrameRate(fps int) Option {
	return func(c *Clock) {
		if fps > 0 {
			c.interval = frameInterval(fps)
			c.fps = fps
		}
	}
}

// WithTimeSource replaces the wall clock used to measure elapsed time.
func WithTimeSource(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the clock logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Clock) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a stopped clock.
func New(name string, opts ...Option) *Clock {
	c := &Clock{
		name:     name,
		interval: DefaultInterval,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("clock").With(zap.String("clock", name))
	return c
}

// OnTick registers a handler. Handlers run in registration order on the
// ticking goroutine and must not call Stop.
func (c *Clock) OnTick(fn TickFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, fn)
}

// Name returns the clock name.
func (c *Clock) Name() string { return c.name }

// State returns the current state.
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Interval returns the tick period.
func (c *Clock) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// FrameRate returns the rate last set with WithFrameRate or SetFrameRate.
// Clocks built from an interval report the rate that interval implies.
func (c *Clock) FrameRate() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fps > 0 {
		return c.fps
	}
	return int(time.Second / c.interval)
}

// Ticks returns how many ticks have been delivered since creation.
func (c *Clock) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Start moves a stopped clock to Running, resetting the elapsed-time base.
// It does nothing in any other state.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Stopped {
		return
	}

	c.state = Running
	c.base = c.now()
	c.lastUpdate = 0
	c.primed = false

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.ticker = time.NewTicker(c.interval)
	go c.run(ctx, c.ticker, c.done)

	c.logger.Info("started", zap.Duration("interval", c.interval))
}

// Stop halts ticking from any state. When Stop returns no further tick
// will be delivered.
func (c *Clock) Stop() {
	c.mu.Lock()
	if c.state == Stopped {
		c.mu.Unlock()
		return
	}
	c.state = Stopped
	c.cancel()
	done := c.done
	c.mu.Unlock()

	<-done
	c.logger.Info("stopped")
}

// Pause suspends ticking of a running clock.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Running {
		return
	}
	c.state = Paused
	c.ticker.Stop()
	c.logger.Info("paused")
}

// Resume continues a paused clock. The next step is measured from the
// moment of Resume, so the pause does not appear as one long step.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Paused {
		return
	}
	c.state = Running
	c.lastUpdate = c.elapsedLocked()
	c.primed = true
	c.ticker.Reset(c.interval)
	c.logger.Info("resumed")
}

// SetFrameRate changes the tick period to 1000/fps milliseconds. A running
// clock picks up the new period immediately.
func (c *Clock) SetFrameRate(fps int) error {
	if fps <= 0 {
		return fmt.Errorf("clock %s: frame rate must be positive, got %d", c.name, fps)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interval = frameInterval(fps)
	c.fps = fps
	if c.state == Running {
		c.ticker.Reset(c.interval)
	}
	c.logger.Info("frame rate changed", zap.Int("fps", fps), zap.Duration("interval", c.interval))
	return nil
}

// Tick delivers one tick now if the clock is running. The ticker goroutine
// calls it on every period; tests call it directly.
func (c *Clock) Tick() {
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		return
	}

	current := c.elapsedLocked()
	dt := FirstTickDelta
	if c.primed {
		dt = float64(current-c.lastUpdate) / 1000.0
	}
	c.primed = true
	c.lastUpdate = current
	c.ticks++

	handlers := make([]TickFunc, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(dt)
	}
}

func (c *Clock) run(ctx context.Context, ticker *time.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

func (c *Clock) elapsedLocked() int64 {
	return c.now().Sub(c.base).Milliseconds()
}

func frameInterval(fps int) time.Duration {
	ms := 1000 / fps
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}
