package render2d

import (
	"math"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/api"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/app"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUnit struct {
	executed []app.Command
	state    api.StateResponse
}

func (u *fakeUnit) State() api.StateResponse { return u.state }

func (u *fakeUnit) Execute(cmd app.Command) string {
	u.executed = append(u.executed, cmd)
	return "done"
}

type fakeFrames struct{}

func (fakeFrames) Frame() models.Frame2D { return models.Frame2D{} }

func TestPolar(t *testing.T) {
	c := models.Point{X: 10, Y: 10}
	p := polar(c, 5, 0)
	assert.InDelta(t, 15, p.X, 1e-9)
	assert.InDelta(t, 10, p.Y, 1e-9)

	p = polar(c, 5, 90)
	assert.InDelta(t, 10, p.X, 1e-9)
	assert.InDelta(t, 15, p.Y, 1e-9)
}

func TestDashes(t *testing.T) {
	path := []models.Point{{X: 0, Y: 0}, {X: 40, Y: 0}}

	t.Run("no offset", func(t *testing.T) {
		segs := dashes(path, 10, 10, 0)
		require.Len(t, segs, 2)
		assert.InDelta(t, 0, segs[0].From.X, 1e-9)
		assert.InDelta(t, 10, segs[0].To.X, 1e-9)
		assert.InDelta(t, 20, segs[1].From.X, 1e-9)
		assert.InDelta(t, 30, segs[1].To.X, 1e-9)
	})

	t.Run("offset shifts forward", func(t *testing.T) {
		segs := dashes(path, 10, 10, 15)
		require.Len(t, segs, 3)
		assert.InDelta(t, 0, segs[0].From.X, 1e-9)
		assert.InDelta(t, 5, segs[0].To.X, 1e-9)
		assert.InDelta(t, 15, segs[1].From.X, 1e-9)
		assert.InDelta(t, 25, segs[1].To.X, 1e-9)
		assert.InDelta(t, 35, segs[2].From.X, 1e-9)
		assert.InDelta(t, 40, segs[2].To.X, 1e-9)
	})

	t.Run("dash spans a corner", func(t *testing.T) {
		corner := []models.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 20}}
		segs := dashes(corner, 10, 10, 0)
		require.Len(t, segs, 3)
		assert.Equal(t, models.Point{X: 5, Y: 0}, segs[0].To)
		assert.InDelta(t, 5, segs[1].To.Y, 1e-9)
		assert.InDelta(t, 20, segs[2].To.Y, 1e-9)
	})

	t.Run("degenerate", func(t *testing.T) {
		assert.Nil(t, dashes(path[:1], 10, 10, 0))
		assert.Nil(t, dashes(path, 0, 10, 0))
	})
}

func TestDashesTotalLength(t *testing.T) {
	path := []models.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}
	for _, offset := range []float64{0, 3, 17.5, -4} {
		total := 0.0
		for _, s := range dashes(path, 10, 10, offset) {
			total += math.Hypot(s.To.X-s.From.X, s.To.Y-s.From.Y)
		}
		assert.InDelta(t, 100, total, 1e-6, "offset %v", offset)
	}
}

func TestFillHeight(t *testing.T) {
	assert.InDelta(t, 75, fillHeight(100, 75), 1e-9)
	assert.Zero(t, fillHeight(100, -10))
	assert.InDelta(t, 100, fillHeight(100, 250), 1e-9)
}

func TestWithAlpha(t *testing.T) {
	c := withAlpha(models.Color{R: 10, G: 20, B: 30}, 0.5)
	assert.Equal(t, uint8(128), c.A)
	assert.Equal(t, uint8(255), withAlpha(models.Color{}, 2).A)
}

func TestKeyBindingsCoverCommands(t *testing.T) {
	seen := map[app.Command]bool{}
	for _, b := range keyBindings {
		seen[b.cmd] = true
	}
	for _, cmd := range []app.Command{
		app.CmdStart, app.CmdStop, app.CmdToggleView, app.CmdPauseResume,
		app.CmdCapacityUp, app.CmdCapacityDown, app.CmdResetTrips, app.CmdQuit,
	} {
		assert.True(t, seen[cmd], "command %d has no key", cmd)
	}
}

func TestHandle(t *testing.T) {
	unit := &fakeUnit{}
	g := NewGame(unit, fakeFrames{}, 800, 600, nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	require.NoError(t, g.handle(app.CmdStart))
	assert.Equal(t, []app.Command{app.CmdStart}, unit.executed)
	assert.Contains(t, g.panel(unit.state), "> done")

	now = now.Add(statusTTL)
	assert.NotContains(t, g.panel(unit.state), "> done")

	assert.ErrorIs(t, g.handle(app.CmdQuit), ebiten.Termination)
	assert.Len(t, unit.executed, 1)
}

func TestPanel(t *testing.T) {
	unit := &fakeUnit{state: api.StateResponse{
		Readouts: models.Readouts{Status: "System Running", SupplyTemp: "20.0 °C", Channels: []string{"OPEN", "CLOSED"}},
		View:     views.Status{Mode: views.Mode2D, State: "running"},
	}}
	g := NewGame(unit, fakeFrames{}, 800, 600, nil)

	text := g.panel(unit.state)
	assert.Contains(t, text, "System Running  view=2d (running)")
	assert.Contains(t, text, "Supply 20.0 °C")
	assert.Contains(t, text, "Channels OPEN CLOSED")

	w, h := g.Layout(1920, 1080)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}
