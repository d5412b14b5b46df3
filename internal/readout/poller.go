package readout

import (
	"context"
	"sync"
	"time"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/datamodel"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"go.uber.org/zap"
)

// DefaultInterval is the readout refresh period.
const DefaultInterval = 100 * time.Millisecond

// Sink receives every polled snapshot. Sinks run on the poller goroutine
// and must return quickly.
type Sink func(models.Readings)

// Poller samples the model independently of the animation clocks.
type Poller struct {
	model    datamodel.Reader
	interval time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	sinks  map[string]Sink
	order  []string
	latest models.Readings
	polls  uint64
}

// NewPoller creates a poller; interval <= 0 means DefaultInterval.
func NewPoller(model datamodel.Reader, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		model:    model,
		interval: interval,
		logger:   logger.Named("readout"),
		sinks:    make(map[string]Sink),
		latest:   model.Snapshot(),
	}
}

// AddSink registers fn under name, replacing any sink with that name.
func (p *Poller) AddSink(name string, fn Sink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sinks[name]; !ok {
		p.order = append(p.order, name)
	}
	p.sinks[name] = fn
}

// RemoveSink drops the named sink.
func (p *Poller) RemoveSink(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sinks[name]; !ok {
		return
	}
	delete(p.sinks, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Poll takes one snapshot and hands it to every sink in registration order.
func (p *Poller) Poll() models.Readings {
	r := p.model.Snapshot()

	p.mu.Lock()
	p.latest = r
	p.polls++
	sinks := make([]Sink, 0, len(p.order))
	for _, name := range p.order {
		sinks = append(sinks, p.sinks[name])
	}
	p.mu.Unlock()

	for _, fn := range sinks {
		fn(r)
	}
	return r
}

// Latest returns the last polled snapshot.
func (p *Poller) Latest() models.Readings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Readouts formats the last polled snapshot.
func (p *Poller) Readouts() models.Readouts {
	return Format(p.Latest())
}

// Polls counts completed polls.
func (p *Poller) Polls() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.polls
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	p.logger.Info("polling", zap.Duration("interval", p.interval))
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopped")
			return nil
		case <-ticker.C:
			p.Poll()
		}
	}
}
