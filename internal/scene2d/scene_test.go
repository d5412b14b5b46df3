package scene2d

import (
	"sync"
	"testing"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/datamodel"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/layout"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T) (*Scene, *datamodel.Model) {
	t.Helper()
	l, err := layout.Default()
	require.NoError(t, err)
	m := datamodel.New()
	return New(m, l), m
}

// step mirrors a clock tick: physics first, then the scene.
func step(m *datamodel.Model, s *Scene, dt float64) {
	m.UpdateSimulation(dt)
	s.Update(dt)
}

func TestSceneInventory(t *testing.T) {
	s, _ := newTestScene(t)

	assert.Len(t, s.Pumps(), datamodel.NumPumps)
	assert.Len(t, s.Valves(), datamodel.NumChannels*layout.ValvesPerChannel)
	assert.Len(t, s.HeatExchangers(), 3)
	assert.Len(t, s.Solenoids(), 3)
	assert.Len(t, s.Condensers(), 3)
	assert.Len(t, s.Blowers(), 3)
	assert.Len(t, s.CoolantPipes(), 5)
	assert.Len(t, s.ChannelPipes(), 12)
	assert.Len(t, s.RefrigerantPipes(), 9)
	assert.Len(t, s.Components(), 2+2+12+12+26)

	assert.Equal(t, models.Point{X: 240, Y: 500}, s.Pumps()[1].Position())
	assert.Equal(t, models.Point{X: 600, Y: 250}, s.Valves()[11].Position())
	assert.Equal(t, models.Point{X: 570, Y: 500}, s.HeatExchangers()[1].Position())
	assert.Equal(t, models.Point{X: 800, Y: 600}, s.Blowers()[2].Position())
}

func TestSceneFollowsModel(t *testing.T) {
	s, m := newTestScene(t)
	m.SetSystemRunning(true)
	step(m, s, 0.033)

	assert.True(t, s.Pumps()[0].Running())
	assert.Equal(t, 25.0, s.Pumps()[0].FlowRate())
	assert.False(t, s.Pumps()[1].Running())
	assert.Equal(t, 0.0, s.Pumps()[1].FlowRate())

	assert.True(t, s.Heater().Active())
	assert.Equal(t, 15.0, s.Heater().Power())
	assert.Equal(t, m.SupplyTemp(), s.Tank().Temperature())

	for i, v := range s.Valves() {
		assert.Equal(t, i/3 < 2, v.Open(), "valve %d", i)
	}
	for i, p := range s.ChannelPipes() {
		assert.Equal(t, i/3 < 2, p.Flowing(), "channel pipe %d", i)
	}
	for i, p := range s.RefrigerantPipes() {
		assert.Equal(t, i/3 == 0, p.Flowing(), "refrigerant pipe %d", i)
	}
	for _, p := range s.CoolantPipes() {
		assert.True(t, p.Flowing())
	}

	assert.True(t, s.Solenoids()[0].Energized())
	assert.True(t, s.Solenoids()[0].Open())
	assert.True(t, s.Blowers()[0].Running())
	assert.Equal(t, BlowerRunningSpeed, s.Blowers()[0].Speed())
	assert.Equal(t, 0.0, s.Blowers()[1].Speed())
	assert.True(t, s.Condensers()[0].Active())
	assert.Equal(t, m.CondenserTemp(0), s.Condensers()[0].Temperature())
	assert.Equal(t, m.ReturnTemp(), s.HeatExchangers()[0].HotSideTemp())
	assert.Equal(t, m.PHETemp(0), s.HeatExchangers()[0].ColdSideTemp())

	m.SetSystemRunning(false)
	step(m, s, 0.033)
	assert.False(t, s.Heater().Active())
	assert.Equal(t, 0.0, s.Heater().Power())
	for _, p := range s.CoolantPipes() {
		assert.False(t, p.Flowing())
	}
	assert.True(t, s.Solenoids()[0].Energized(), "solenoids survive a stop")
}

func TestSceneValvesOpenOverTicks(t *testing.T) {
	s, m := newTestScene(t)
	m.SetSystemRunning(true)

	for i := 0; i < 30; i++ {
		step(m, s, 0.033)
	}
	for i, v := range s.Valves() {
		if i/3 < 2 {
			assert.Equal(t, 1.0, v.Position(), "valve %d", i)
		} else {
			assert.Equal(t, 0.0, v.Position(), "valve %d", i)
		}
		assert.False(t, v.Active())
	}
}

func TestSceneDoesNotMutateModel(t *testing.T) {
	s, m := newTestScene(t)
	m.SetSystemRunning(true)
	m.UpdateSimulation(0.5)
	before := m.Snapshot()

	for i := 0; i < 20; i++ {
		s.Update(0.033)
	}

	after := m.Snapshot()
	after.Timestamp = before.Timestamp
	assert.Equal(t, before, after)
}

func TestSceneRepaint(t *testing.T) {
	s, m := newTestScene(t)
	var frames []models.Frame2D
	s.OnRepaint(func(f models.Frame2D) { frames = append(frames, f) })

	m.SetSystemRunning(true)
	step(m, s, 0.033)
	step(m, s, 0.033)

	require.Len(t, frames, 2)
	assert.Equal(t, uint64(1), frames[0].Seq)
	assert.Equal(t, uint64(2), frames[1].Seq)
	assert.True(t, frames[1].Running)
	assert.Equal(t, frames[1], s.Frame())
	assert.Len(t, frames[1].Components, len(s.Components()))
	assert.Equal(t, "Liquid Cooling Unit (LCU) - RSCU A C01", frames[1].Title)

	var status string
	for _, l := range frames[1].Labels {
		if l.Position == (models.Point{X: 1070, Y: 55}) {
			status = l.Text
		}
	}
	assert.Equal(t, "RUNNING", status)
}

func TestInitialFrameReflectsModel(t *testing.T) {
	s, _ := newTestScene(t)
	f := s.Frame()
	assert.Equal(t, uint64(0), f.Seq)
	assert.False(t, f.Running)
	for _, c := range f.Components {
		if c.Kind == models.KindTank {
			assert.Equal(t, 75.0, c.Level)
		}
	}
}

func TestInspectWhileUpdating(t *testing.T) {
	s, m := newTestScene(t)
	m.SetSystemRunning(true)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			step(m, s, 0.01)
		}
	}()

	for i := 0; i < 200; i++ {
		s.Inspect(func() {
			for _, p := range s.Pumps() {
				rot := p.Rotation()
				assert.True(t, rot >= 0 && rot < 360, "rotation %v", rot)
			}
			for _, v := range s.Valves() {
				pos := v.Position()
				assert.True(t, pos >= 0 && pos <= 1, "position %v", pos)
			}
		})
	}
	wg.Wait()

	s.Inspect(func() {
		assert.True(t, s.Pumps()[0].Running())
	})
}
