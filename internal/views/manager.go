// Package views switches the unit between its 2D and 3D presentations.
// Each view has its own clock; at most one of them ticks at a time.
package views

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/clock"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/datamodel"
	"go.uber.org/zap"
)

// Mode names a view.
type Mode string

const (
	Mode2D Mode = "2d"
	Mode3D Mode = "3d"
)

// ParseMode accepts "2d"/"3d" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Mode2D:
		return Mode2D, nil
	case Mode3D:
		return Mode3D, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// Scene is anything advanced once per tick.
type Scene interface {
	Update(dt float64)
}

// Status describes the active view.
type Status struct {
	Mode          Mode          `json:"mode"`
	State         string        `json:"state"`
	FrameRate     int           `json:"frameRate"`
	Interval      time.Duration `json:"interval"`
	Ticks         uint64        `json:"ticks"`
	SystemRunning bool          `json:"systemRunning"`
}

// Manager owns the 2D and 3D clocks. Every tick steps the model first and
// then the scene of that view.
type Manager struct {
	mu sync.Mutex

	model  datamodel.Simulator
	clocks map[Mode]*clock.Clock
	mode   Mode
	logger *zap.Logger

	interval2D time.Duration
	fps3D      int
	clockOpts  []clock.Option
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager logger. Clocks log under it too.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithInterval2D sets the tick period of the 2D view.
func WithInterval2D(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval2D = d
		}
	}
}

// WithFrameRate3D sets the initial frame rate of the 3D view.
func WithFrameRate3D(fps int) Option {
	return func(m *Manager) {
		if fps > 0 {
			m.fps3D = fps
		}
	}
}

// WithClockOptions applies extra options to both clocks.
func WithClockOptions(opts ...clock.Option) Option {
	return func(m *Manager) {
		m.clockOpts = append(m.clockOpts, opts...)
	}
}

// New wires one clock per view. The 2D view is active.
func New(model datamodel.Simulator, scene2D, scene3D Scene, opts ...Option) *Manager {
	m := &Manager{
		model:      model,
		mode:       Mode2D,
		logger:     zap.NewNop(),
		interval2D: clock.DefaultInterval,
		fps3D:      clock.DefaultFrameRate,
	}
	for _, opt := range opts {
		opt(m)
	}

	base := []clock.Option{clock.WithLogger(m.logger)}
	m.clocks = map[Mode]*clock.Clock{
		Mode2D: clock.New("2d", append(append(base, clock.WithInterval(m.interval2D)), m.clockOpts...)...),
		Mode3D: clock.New("3d", append(append(base, clock.WithFrameRate(m.fps3D)), m.clockOpts...)...),
	}
	m.logger = m.logger.Named("views")

	m.bind(Mode2D, scene2D)
	m.bind(Mode3D, scene3D)
	return m
}

func (m *Manager) bind(mode Mode, scene Scene) {
	m.clocks[mode].OnTick(func(dt float64) {
		m.model.UpdateSimulation(dt)
		if scene != nil {
			scene.Update(dt)
		}
	})
}

// Mode returns the active view.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Clock returns the clock of a view.
func (m *Manager) Clock(mode Mode) *clock.Clock {
	return m.clocks[mode]
}

// SwitchTo makes mode the active view. The other clock is stopped; the new
// one starts only while the system is running. The model is not touched.
func (m *Manager) SwitchTo(mode Mode) error {
	if _, ok := m.clocks[mode]; !ok {
		return fmt.Errorf("switch view: unknown mode %q", mode)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == mode {
		return nil
	}
	prev := m.mode
	m.clocks[prev].Stop()
	m.mode = mode
	if m.model.IsSystemRunning() {
		m.clocks[mode].Start()
	}
	m.logger.Info("view switched", zap.String("from", string(prev)), zap.String("to", string(mode)))
	return nil
}

// Toggle flips between the 2D and 3D views.
func (m *Manager) Toggle() Mode {
	next := Mode3D
	if m.Mode() == Mode3D {
		next = Mode2D
	}
	_ = m.SwitchTo(next)
	return next
}

// Start runs the system and animates the active view.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model.SetSystemRunning(true)
	m.clocks[m.mode].Start()
}

// Stop halts the system and both clocks.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model.SetSystemRunning(false)
	for _, c := range m.clocks {
		c.Stop()
	}
}

// Pause freezes the active view. The system keeps its running state.
func (m *Manager) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clocks[m.mode].Pause()
}

// Resume continues the active view after Pause.
func (m *Manager) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clocks[m.mode].Resume()
}

// SetFrameRate changes the 3D frame rate.
func (m *Manager) SetFrameRate(fps int) error {
	if err := m.clocks[Mode3D].SetFrameRate(fps); err != nil {
		return fmt.Errorf("set frame rate: %w", err)
	}
	return nil
}

// Close stops both clocks without touching the model.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clocks {
		c.Stop()
	}
}

// Status reports the active view and its clock.
func (m *Manager) Status() Status {
	m.mu.Lock()
	mode := m.mode
	m.mu.Unlock()

	c := m.clocks[mode]
	return Status{
		Mode:          mode,
		State:         c.State().String(),
		FrameRate:     c.FrameRate(),
		Interval:      c.Interval(),
		Ticks:         c.Ticks(),
		SystemRunning: m.model.IsSystemRunning(),
	}
}
