package scene3d

import (
	"testing"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/datamodel"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTestScene(t *testing.T) (*Scene, *datamodel.Model) {
	t.Helper()
	m := datamodel.New(datamodel.WithTimeSource(testutil.NewManualClock().Now))
	return New(m), m
}

func count(s *Scene, prefix string) int {
	n := 0
	for _, r := range s.Roots() {
		r.Walk(func(e *Entity) {
			if len(e.ID) >= len(prefix) && e.ID[:len(prefix)] == prefix {
				n++
			}
		})
	}
	return n
}

func TestSceneInventory(t *testing.T) {
	s, _ := newTestScene(t)

	assert.Len(t, s.Roots(), 37)
	assert.Len(t, s.Pipes(), 16)
	assert.Len(t, s.pumps, 2)
	assert.Len(t, s.valves, 4)
	assert.Len(t, s.blowers, 3)

	assert.Equal(t, 5, count(s, "condenser-1/fin-"))
	assert.Equal(t, 6, count(s, "blower-3/blade-"))
	assert.Equal(t, 2, count(s, "pump-1"))

	fin := s.Find("condenser-2/fin-3")
	require.NotNil(t, fin)
	assert.Equal(t, r3.Vec{}, fin.Position)
	assert.Equal(t, r3.Vec{X: 0.1, Y: 5, Z: 3.5}, fin.Extent)

	blower := s.Find("blower-2")
	require.NotNil(t, blower)
	assert.Equal(t, r3.Vec{X: 20, Y: 3, Z: 1}, blower.Position)

	tank := s.Find("tank")
	require.NotNil(t, tank)
	assertVec(t, r3.Vec{Z: 1}, RotateVec(tank.Rotation(), yAxis))

	assert.Nil(t, s.Find("missing"))
}

func TestSceneCameraAndLights(t *testing.T) {
	s, _ := newTestScene(t)
	f := s.Frame()

	assert.Equal(t, models.Vec3{X: 0, Y: 20, Z: 40}, f.Camera.Position)
	assert.Equal(t, 45.0, f.Camera.FieldOfView)
	assert.InDelta(t, 16.0/9.0, f.Camera.AspectRatio, 1e-9)
	assert.Equal(t, 0.1, f.Camera.NearPlane)
	assert.Equal(t, 1000.0, f.Camera.FarPlane)

	require.Len(t, f.Lights, 2)
	assert.Equal(t, 1.0, f.Lights[0].Intensity)
	assert.Equal(t, 0.5, f.Lights[1].Intensity)
}

func TestSceneSpinsOnlyWhileRunning(t *testing.T) {
	s, m := newTestScene(t)

	s.Update(1)
	assert.Equal(t, 0.0, s.PumpSpin(0))
	assert.Equal(t, 0.0, s.BlowerSpin(0))

	m.SetSystemRunning(true)
	s.Update(0.5)
	assert.InDelta(t, 90, s.PumpSpin(0), 1e-9)
	assert.Equal(t, 0.0, s.PumpSpin(1))
	assert.InDelta(t, 180, s.BlowerSpin(0), 1e-9)
	assert.Equal(t, 0.0, s.BlowerSpin(1))

	s.Update(0.75)
	assert.InDelta(t, 225, s.PumpSpin(0), 1e-9)
	assert.InDelta(t, 90, s.BlowerSpin(0), 1e-9)

	// Stopping freezes the spin where it is.
	m.SetSystemRunning(false)
	s.Update(1)
	assert.InDelta(t, 225, s.PumpSpin(0), 1e-9)
	assert.InDelta(t, 90, s.BlowerSpin(0), 1e-9)
	assert.InDelta(t, 225, s.Find("pump-1").Spin, 1e-9)

	assert.Equal(t, 0.0, s.PumpSpin(-1))
	assert.Equal(t, 0.0, s.BlowerSpin(9))
}

func TestSceneMaterialsFollowModel(t *testing.T) {
	s, m := newTestScene(t)
	heater := s.Find("heater").Material
	handle := s.Find("valve-1/handle").Material
	closed := s.Find("valve-3/handle").Material

	assert.Equal(t, heaterColor, heater.Diffuse())

	m.SetSystemRunning(true)
	s.Update(0.1)
	assert.True(t, heater.Target())
	assert.InDelta(t, 0.3, heater.Blend(), 1e-9)
	assert.True(t, handle.Target())
	assert.False(t, closed.Target())

	s.Update(1)
	assert.Equal(t, heaterHot, heater.Diffuse())
	assert.Equal(t, handleOpen, handle.Diffuse())
	assert.Equal(t, handleColor, closed.Diffuse())

	m.SetSystemRunning(false)
	s.Update(0.1)
	assert.False(t, heater.Target())
	assert.InDelta(t, 0.7, heater.Blend(), 1e-9)
}

func TestSceneDoesNotWriteModel(t *testing.T) {
	s, m := newTestScene(t)
	m.SetSystemRunning(true)
	before := m.Snapshot()

	for i := 0; i < 10; i++ {
		s.Update(0.033)
	}
	assert.Equal(t, before, m.Snapshot())
}

func TestSceneRepaint(t *testing.T) {
	s, m := newTestScene(t)
	var frames []models.Frame3D
	s.OnRepaint(func(f models.Frame3D) { frames = append(frames, f) })

	m.SetSystemRunning(true)
	m.UpdateSimulation(0.5)
	s.Update(0.5)
	s.Update(0.5)

	require.Len(t, frames, 2)
	assert.Equal(t, uint64(1), frames[0].Seq)
	assert.Equal(t, uint64(2), frames[1].Seq)
	assert.True(t, frames[1].Running)
	assert.Equal(t, m.SimulationTime(), frames[1].SimTime)
	assert.Len(t, frames[1].Entities, 37)
	assert.Equal(t, s.Frame().Seq, frames[1].Seq)

	var pump models.Entity3D
	for _, e := range frames[1].Entities {
		if e.ID == "pump-1" {
			pump = e
		}
	}
	assert.True(t, pump.Active)
	require.Len(t, pump.Children, 1)
	assert.Equal(t, models.ShapeSphere, pump.Children[0].Shape)
}
