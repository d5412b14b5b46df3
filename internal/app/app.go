// Package app assembles the simulator runtime shared by the web server,
// the desktop window and the terminal dashboard.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/api"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/config"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/datamodel"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/history"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/layout"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/metrics"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/readout"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/scene2d"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/scene3d"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/views"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Broadcaster fans a topic payload out to remote clients (api.Hub).
type Broadcaster interface {
	Broadcast(topic string, v interface{}) int
}

// App owns one simulated unit and everything that animates or observes it.
// Metrics and History are nil when disabled in the configuration.
type App struct {
	Config  *config.AppConfig
	Logger  *zap.Logger
	Model   *datamodel.Model
	Layout  *layout.Layout
	Scene2D *scene2d.Scene
	Scene3D *scene3d.Scene
	Views   *views.Manager
	Poller  *readout.Poller
	Metrics *metrics.Metrics
	History *history.Store

	mu           sync.RWMutex
	broadcasters []Broadcaster

	stateCh chan struct{}
	subID   string
}

// Option configures New.
type Option func(*options)

type options struct {
	model     *datamodel.Model
	clockOpts []views.Option
	noHistory bool
	noMetrics bool
}

// WithModel uses an existing model instead of creating one.
func WithModel(m *datamodel.Model) Option {
	return func(o *options) { o.model = m }
}

// WithViewOptions passes extra options to the view manager.
func WithViewOptions(opts ...views.Option) Option {
	return func(o *options) { o.clockOpts = append(o.clockOpts, opts...) }
}

// WithoutHistory skips the trend store regardless of configuration.
func WithoutHistory() Option {
	return func(o *options) { o.noHistory = true }
}

// WithoutMetrics skips the Prometheus collectors regardless of configuration.
func WithoutMetrics() Option {
	return func(o *options) { o.noMetrics = true }
}

// New builds the runtime described by cfg. Nothing ticks until Run.
func New(cfg *config.AppConfig, logger *zap.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		stateCh: make(chan struct{}, 1),
	}

	lay, err := loadLayout(cfg.Layout.File)
	if err != nil {
		return nil, err
	}
	a.Layout = lay

	a.Model = o.model
	if a.Model == nil {
		a.Model = datamodel.New(datamodel.WithLogger(logger))
	}
	a.Model.SetCoolingCapacity(cfg.Simulation.CoolingCapacityKW)

	a.Scene2D = scene2d.New(a.Model, lay, scene2d.WithLogger(logger))
	a.Scene3D = scene3d.New(a.Model, scene3d.WithLogger(logger))

	mode, err := views.ParseMode(cfg.Animation.InitialView)
	if err != nil {
		return nil, fmt.Errorf("initial view: %w", err)
	}
	viewOpts := append([]views.Option{
		views.WithLogger(logger),
		views.WithInterval2D(cfg.Interval2D()),
		views.WithFrameRate3D(cfg.Animation.FrameRate3D),
	}, o.clockOpts...)
	a.Views = views.New(a.Model, a.Scene2D, a.Scene3D, viewOpts...)
	if err := a.Views.SwitchTo(mode); err != nil {
		return nil, err
	}

	a.Poller = readout.NewPoller(a.Model, cfg.ReadoutPollInterval(), logger)

	if cfg.Advanced.EnableMetrics && !o.noMetrics {
		a.Metrics = metrics.New()
		a.Poller.AddSink("metrics", a.Metrics.Publish)
		a.Scene2D.OnRepaint(func(models.Frame2D) { a.Metrics.FramePublished(string(views.Mode2D)) })
		a.Scene3D.OnRepaint(func(models.Frame3D) { a.Metrics.FramePublished(string(views.Mode3D)) })
	}

	if cfg.History.Enabled && !o.noHistory {
		store, err := history.Open(history.Options{
			Path:        cfg.History.DatabasePath,
			Threads:     cfg.History.DuckDBThreads,
			MemoryLimit: cfg.History.DuckDBMemory,
			Logger:      logger,
		})
		if err != nil {
			a.Views.Close()
			return nil, err
		}
		a.History = store
		a.Poller.AddSink("history", store.Sampler(cfg.HistorySampleInterval(), cfg.HistoryRetention()))
	}

	// The listener runs inside SetSystemRunning, possibly under the view
	// manager's lock, so it only signals the state loop.
	a.subID = a.Model.Subscribe("app", func(ev datamodel.Event) {
		if ev.Type != datamodel.SystemStateChanged {
			return
		}
		select {
		case a.stateCh <- struct{}{}:
		default:
		}
	})

	return a, nil
}

func loadLayout(path string) (*layout.Layout, error) {
	if path == "" {
		return layout.Default()
	}
	return layout.Parse(path)
}

// Attach forwards readouts, frames and state changes to b.
func (a *App) Attach(b Broadcaster) {
	a.mu.Lock()
	a.broadcasters = append(a.broadcasters, b)
	first := len(a.broadcasters) == 1
	a.mu.Unlock()

	if !first {
		return
	}
	a.Poller.AddSink("broadcast", func(r models.Readings) {
		a.broadcast(api.TopicReadouts, a.stateFrom(r))
	})
	a.Scene2D.OnRepaint(func(f models.Frame2D) { a.broadcast(api.TopicFrame2D, f) })
	a.Scene3D.OnRepaint(func(f models.Frame3D) { a.broadcast(api.TopicFrame3D, f) })
}

func (a *App) broadcast(topic string, v interface{}) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, b := range a.broadcasters {
		b.Broadcast(topic, v)
	}
}

// State is the unit snapshot plus the active view.
func (a *App) State() api.StateResponse {
	return a.stateFrom(a.Model.Snapshot())
}

func (a *App) stateFrom(r models.Readings) api.StateResponse {
	return api.StateResponse{
		Readings: r,
		Readouts: readout.Format(r),
		View:     a.Views.Status(),
	}
}

// Run polls readouts and relays state changes until ctx is done. With
// AutoStart the unit is started first.
func (a *App) Run(ctx context.Context) error {
	if a.Config.Animation.AutoStart {
		a.Views.Start()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Poller.Run(ctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-a.stateCh:
				st := a.State()
				a.Logger.Info("system state changed",
					zap.Bool("running", st.Readings.Running),
					zap.String("view", string(st.View.Mode)))
				a.broadcast(api.TopicState, st)
			}
		}
	})
	return g.Wait()
}

// Close stops the clocks and releases the trend store. The model keeps its
// last state.
func (a *App) Close() error {
	a.Views.Close()
	a.Model.Unsubscribe(a.subID)
	if a.History != nil {
		return a.History.Close()
	}
	return nil
}
