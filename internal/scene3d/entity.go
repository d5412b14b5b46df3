// Package scene3d keeps a 3D entity graph of the unit in step with the data
// model. Geometry is built once; each tick only spins rotating equipment
// and blends material colors.
package scene3d

import (
	"math"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// MaterialBlendRate is how fast a material moves between its inactive and
// active colors, in blend units per second.
const MaterialBlendRate = 3.0

// axisEpsilon is the smallest rotation axis length treated as a real axis.
const axisEpsilon = 0.001

var (
	xAxis = r3.Vec{X: 1}
	yAxis = r3.Vec{Y: 1}
	zAxis = r3.Vec{Z: 1}

	identity = quat.Number{Real: 1}
)

// Material is a diffuse color that blends between two states.
type Material struct {
	Inactive models.Color
	Active   models.Color

	blend  float64
	target float64
}

// NewMaterial creates a material resting in its inactive color.
func NewMaterial(inactive, active models.Color) *Material {
	return &Material{Inactive: inactive, Active: active}
}

// StaticMaterial never changes color.
func StaticMaterial(c models.Color) *Material {
	return NewMaterial(c, c)
}

// SetActive sets the color the material blends toward.
func (m *Material) SetActive(on bool) {
	m.target = 0
	if on {
		m.target = 1
	}
}

// Target reports whether the material is heading to its active color.
func (m *Material) Target() bool { return m.target == 1 }

// Blend is the current position between inactive (0) and active (1).
func (m *Material) Blend() float64 { return m.blend }

// Advance moves the blend toward the target.
func (m *Material) Advance(dt float64) {
	step := MaterialBlendRate * dt
	if m.blend < m.target {
		m.blend = math.Min(m.blend+step, m.target)
	} else if m.blend > m.target {
		m.blend = math.Max(m.blend-step, m.target)
	}
}

// Diffuse is the current color.
func (m *Material) Diffuse() models.Color {
	return models.Lerp(m.Inactive, m.Active, m.blend)
}

// Ambient is the diffuse color darkened for ambient lighting.
func (m *Material) Ambient() models.Color {
	return m.Diffuse().Darker(120)
}

// Entity is a node of the scene graph. Position and orientation are
// relative to the parent.
type Entity struct {
	ID    string
	Name  string
	Shape models.Shape

	Position    r3.Vec
	Orientation quat.Number

	// Spin is an extra rotation in degrees about SpinAxis, applied after
	// Orientation.
	Spin     float64
	SpinAxis r3.Vec

	Extent r3.Vec
	Radius float64
	Length float64

	Material *Material
	Children []*Entity
}

func newEntity(id, name string, shape models.Shape, pos r3.Vec, mat *Material) *Entity {
	return &Entity{
		ID:          id,
		Name:        name,
		Shape:       shape,
		Position:    pos,
		Orientation: identity,
		Material:    mat,
	}
}

// Cylinder creates a Y-aligned cylinder.
func Cylinder(id, name string, pos r3.Vec, radius, length float64, mat *Material) *Entity {
	e := newEntity(id, name, models.ShapeCylinder, pos, mat)
	e.Radius = radius
	e.Length = length
	return e
}

// Box creates a box with the given extents.
func Box(id, name string, pos, extent r3.Vec, mat *Material) *Entity {
	e := newEntity(id, name, models.ShapeBox, pos, mat)
	e.Extent = extent
	return e
}

// Sphere creates a sphere.
func Sphere(id, name string, pos r3.Vec, radius float64, mat *Material) *Entity {
	e := newEntity(id, name, models.ShapeSphere, pos, mat)
	e.Radius = radius
	return e
}

// Group creates an entity with no mesh that only carries children.
func Group(id, name string) *Entity {
	return newEntity(id, name, models.ShapeNone, r3.Vec{}, nil)
}

// Add appends children and returns e.
func (e *Entity) Add(children ...*Entity) *Entity {
	e.Children = append(e.Children, children...)
	return e
}

// Rotation is the full local rotation: orientation followed by spin.
func (e *Entity) Rotation() quat.Number {
	if e.Spin == 0 {
		return e.Orientation
	}
	return quat.Mul(e.Orientation, axisAngle(e.SpinAxis, e.Spin))
}

// Walk visits e and its descendants depth first.
func (e *Entity) Walk(fn func(*Entity)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

func (e *Entity) describe() models.Entity3D {
	out := models.Entity3D{
		ID:       e.ID,
		Name:     e.Name,
		Shape:    e.Shape,
		Position: vec(e.Position),
		Rotation: toQuat(e.Rotation()),
		Extent:   vec(e.Extent),
		Radius:   e.Radius,
		Length:   e.Length,
	}
	if e.Material != nil {
		out.Diffuse = e.Material.Diffuse()
		out.Ambient = e.Material.Ambient()
		out.Active = e.Material.Target()
	}
	if len(e.Children) > 0 {
		out.Children = make([]models.Entity3D, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.describe()
		}
	}
	return out
}

// axisAngle returns the rotation of deg degrees about axis.
func axisAngle(axis r3.Vec, deg float64) quat.Number {
	if deg == 0 || r3.Norm(axis) == 0 {
		return identity
	}
	return quat.Number(r3.NewRotation(deg*math.Pi/180, r3.Unit(axis)))
}

// PipeTransform places a Y-aligned cylinder between start and end. It
// returns the midpoint, the segment length and the rotation taking +Y onto
// the segment direction.
func PipeTransform(start, end r3.Vec) (center r3.Vec, length float64, rot quat.Number) {
	center = r3.Scale(0.5, r3.Add(start, end))
	dir := r3.Sub(end, start)
	length = r3.Norm(dir)
	rot = identity
	if length == 0 {
		return center, length, rot
	}
	dir = r3.Scale(1/length, dir)

	cos := math.Max(-1, math.Min(1, r3.Dot(yAxis, dir)))
	axis := r3.Cross(yAxis, dir)
	switch {
	case r3.Norm(axis) > axisEpsilon:
		rot = quat.Number(r3.NewRotation(math.Acos(cos), r3.Unit(axis)))
	case cos < 0:
		rot = axisAngle(xAxis, 180)
	}
	return center, length, rot
}

// RotateVec applies q to v.
func RotateVec(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

func vec(v r3.Vec) models.Vec3 {
	return models.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

func toQuat(q quat.Number) models.Quat {
	return models.Quat{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag}
}
