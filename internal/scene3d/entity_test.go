package scene3d

import (
	"testing"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertVec(t *testing.T, want, got r3.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-9, "z")
}

func TestPipeTransform(t *testing.T) {
	tests := []struct {
		name       string
		start, end r3.Vec
		length     float64
	}{
		{"along -z", r3.Vec{X: -15}, r3.Vec{X: -15, Z: -6}, 6},
		{"along +x", r3.Vec{X: -15, Y: 1.5, Z: -6}, r3.Vec{X: -9, Y: 1.5, Z: -6}, 6},
		{"diagonal", r3.Vec{X: -9, Y: 1.5, Z: -6}, r3.Vec{X: -10, Y: 2, Z: 5}, r3.Norm(r3.Vec{X: -1, Y: 0.5, Z: 11})},
		{"parallel", r3.Vec{}, r3.Vec{Y: 4}, 4},
		{"antiparallel", r3.Vec{Y: 5}, r3.Vec{}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			center, length, rot := PipeTransform(tt.start, tt.end)
			assert.InDelta(t, tt.length, length, 1e-9)
			assertVec(t, r3.Scale(0.5, r3.Add(tt.start, tt.end)), center)

			dir := r3.Unit(r3.Sub(tt.end, tt.start))
			assertVec(t, dir, RotateVec(rot, yAxis))
			assert.InDelta(t, 1, quat.Abs(rot), 1e-9)
		})
	}
}

func TestPipeTransformDegenerate(t *testing.T) {
	_, length, rot := PipeTransform(r3.Vec{X: 1}, r3.Vec{X: 1})
	assert.Equal(t, 0.0, length)
	assert.Equal(t, identity, rot)

	_, _, rot = PipeTransform(r3.Vec{}, r3.Vec{Y: 3})
	assert.Equal(t, identity, rot)
}

func TestMaterialBlend(t *testing.T) {
	m := NewMaterial(models.RGB(0, 0, 0), models.RGB(200, 100, 0))
	assert.Equal(t, models.RGB(0, 0, 0), m.Diffuse())

	m.SetActive(true)
	m.Advance(0.1)
	assert.InDelta(t, 0.3, m.Blend(), 1e-9)

	m.Advance(1)
	assert.Equal(t, 1.0, m.Blend())
	assert.Equal(t, models.RGB(200, 100, 0), m.Diffuse())
	assert.Equal(t, m.Diffuse().Darker(120), m.Ambient())

	m.SetActive(false)
	m.Advance(0.2)
	assert.InDelta(t, 0.4, m.Blend(), 1e-9)
	m.Advance(5)
	assert.Equal(t, 0.0, m.Blend())
}

func TestEntityRotationComposesSpin(t *testing.T) {
	e := Cylinder("e", "E", r3.Vec{}, 1, 1, nil)
	e.Orientation = axisAngle(xAxis, 90)
	assertVec(t, r3.Vec{Z: 1}, RotateVec(e.Rotation(), yAxis))

	e.SpinAxis = yAxis
	e.Spin = 90
	// Spin about the local axis leaves the cylinder axis in place.
	assertVec(t, r3.Vec{Z: 1}, RotateVec(e.Rotation(), yAxis))
	assertVec(t, r3.Vec{Y: -1}, RotateVec(e.Rotation(), zAxis))
}
