package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/api"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/clock"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/config"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	topics map[string][]interface{}
}

func (r *recorder) Broadcast(topic string, v interface{}) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.topics == nil {
		r.topics = make(map[string][]interface{})
	}
	r.topics[topic] = append(r.topics[topic], v)
	return 1
}

func (r *recorder) count(topic string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.topics[topic])
}

func (r *recorder) last(topic string) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.topics[topic]
	if len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}

// newTestApp keeps the clocks on an hour-long period so frames only come
// from manual ticks.
func newTestApp(t *testing.T, cfg *config.AppConfig, opts ...Option) *App {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	opts = append(opts, WithViewOptions(views.WithClockOptions(clock.WithInterval(time.Hour))))
	a, err := New(cfg, nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNewAppliesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Simulation.CoolingCapacityKW = 24
	cfg.Animation.InitialView = "3D"
	cfg.Animation.FrameRate3D = 20

	a := newTestApp(t, cfg)

	assert.Equal(t, 24, a.Model.CoolingCapacity())
	assert.Equal(t, views.Mode3D, a.Views.Mode())
	assert.NotNil(t, a.Metrics)
	assert.NotNil(t, a.History)
	assert.False(t, a.Model.IsSystemRunning())
}

func TestNewOptionalParts(t *testing.T) {
	a := newTestApp(t, nil, WithoutHistory(), WithoutMetrics())
	assert.Nil(t, a.History)
	assert.Nil(t, a.Metrics)
}

func TestNewRejectsBadInput(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Animation.InitialView = "4d"
	_, err := New(cfg, nil, WithoutHistory())
	assert.Error(t, err)

	cfg = config.DefaultConfig()
	cfg.Layout.File = "/nonexistent/layout.yaml"
	_, err = New(cfg, nil, WithoutHistory())
	assert.Error(t, err)
}

func TestAttachForwardsReadoutsAndFrames(t *testing.T) {
	a := newTestApp(t, nil)
	rec := &recorder{}
	a.Attach(rec)

	a.Poller.Poll()
	require.Equal(t, 1, rec.count(api.TopicReadouts))
	st, ok := rec.last(api.TopicReadouts).(api.StateResponse)
	require.True(t, ok)
	assert.Equal(t, "System Stopped", st.Readouts.Status)
	assert.Equal(t, views.Mode2D, st.View.Mode)

	a.Views.Start()
	a.Views.Clock(views.Mode2D).Tick()
	assert.Equal(t, 1, rec.count(api.TopicFrame2D))
	assert.Zero(t, rec.count(api.TopicFrame3D))

	require.NoError(t, a.Views.SwitchTo(views.Mode3D))
	a.Views.Clock(views.Mode3D).Tick()
	assert.Equal(t, 1, rec.count(api.TopicFrame3D))
}

func TestPollerFeedsHistory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.History.SampleMillis = 1
	a := newTestApp(t, cfg)

	a.Poller.Poll()

	n, err := a.History.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunRelaysStateChanges(t *testing.T) {
	a := newTestApp(t, nil, WithoutHistory())
	rec := &recorder{}
	a.Attach(rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	a.Views.Start()
	require.Eventually(t, func() bool { return rec.count(api.TopicState) >= 1 }, 2*time.Second, 10*time.Millisecond)
	st := rec.last(api.TopicState).(api.StateResponse)
	assert.True(t, st.Readings.Running)
	assert.True(t, st.View.SystemRunning)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunAutoStart(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Animation.AutoStart = true
	a := newTestApp(t, cfg, WithoutHistory())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, a.Run(ctx))
	assert.True(t, a.Model.IsSystemRunning())
	assert.Equal(t, clock.Running, a.Views.Clock(views.Mode2D).State())
}
