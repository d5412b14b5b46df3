package app

import (
	"testing"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/clock"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/datamodel"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/views"
	"github.com/stretchr/testify/assert"
)

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key  string
		want Command
	}{
		{"s", CmdStart},
		{"x", CmdStop},
		{"v", CmdToggleView},
		{"p", CmdPauseResume},
		{"+", CmdCapacityUp},
		{"=", CmdCapacityUp},
		{"-", CmdCapacityDown},
		{"r", CmdResetTrips},
		{"q", CmdQuit},
		{"z", CmdNone},
		{"", CmdNone},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyCommand(tt.key))
		})
	}
}

func TestExecuteLifecycle(t *testing.T) {
	a := newTestApp(t, nil, WithoutHistory(), WithoutMetrics())

	assert.Equal(t, "not running", a.Execute(CmdPauseResume))

	assert.Equal(t, "system started", a.Execute(CmdStart))
	assert.True(t, a.Model.IsSystemRunning())
	assert.Equal(t, clock.Running, a.Views.Clock(views.Mode2D).State())

	assert.Equal(t, "paused", a.Execute(CmdPauseResume))
	assert.Equal(t, clock.Paused, a.Views.Clock(views.Mode2D).State())
	assert.Equal(t, "resumed", a.Execute(CmdPauseResume))

	assert.Equal(t, "view 3d", a.Execute(CmdToggleView))
	assert.Equal(t, clock.Running, a.Views.Clock(views.Mode3D).State())
	assert.Equal(t, clock.Stopped, a.Views.Clock(views.Mode2D).State())

	assert.Equal(t, "system stopped", a.Execute(CmdStop))
	assert.False(t, a.Model.IsSystemRunning())
	assert.Equal(t, clock.Stopped, a.Views.Clock(views.Mode3D).State())
}

func TestExecuteCapacity(t *testing.T) {
	a := newTestApp(t, nil, WithoutHistory(), WithoutMetrics())

	assert.Equal(t, "capacity 35 kW", a.Execute(CmdCapacityUp))
	assert.Equal(t, "capacity 30 kW", a.Execute(CmdCapacityDown))

	a.Model.SetCoolingCapacity(datamodel.MaxCoolingCapacity)
	a.Execute(CmdCapacityUp)
	assert.Equal(t, datamodel.MaxCoolingCapacity, a.Model.CoolingCapacity())

	a.Model.SetCoolingCapacity(datamodel.MinCoolingCapacity)
	a.Execute(CmdCapacityDown)
	assert.Equal(t, datamodel.MinCoolingCapacity, a.Model.CoolingCapacity())
}

func TestExecuteNoop(t *testing.T) {
	a := newTestApp(t, nil, WithoutHistory(), WithoutMetrics())
	assert.Empty(t, a.Execute(CmdNone))
	assert.Empty(t, a.Execute(CmdQuit))
	assert.Equal(t, "trips reset", a.Execute(CmdResetTrips))
}
