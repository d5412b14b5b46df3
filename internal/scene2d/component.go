// Package scene2d keeps a 2D schematic of the unit in step with the data
// model and describes it frame by frame for painter-style renderers.
package scene2d

import (
	"math"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
)

// BasePhaseRate is the phase speed of every active component, rad/s.
const BasePhaseRate = 2.0

// Component is one drawable unit of the schematic.
type Component interface {
	Name() string
	Kind() models.ComponentKind
	// Advance moves the component's animation forward by dt seconds.
	Advance(dt float64)
	// Visual describes the component as of the last Advance.
	Visual() models.Visual2D
}

// base carries the state every component shares.
type base struct {
	name   string
	kind   models.ComponentKind
	pos    models.Point
	bounds models.Rect
	active bool
	phase  float64
}

func newBase(name string, kind models.ComponentKind, pos models.Point, bounds models.Rect) base {
	return base{name: name, kind: kind, pos: pos, bounds: bounds}
}

func (b *base) Name() string               { return b.name }
func (b *base) Kind() models.ComponentKind { return b.kind }
func (b *base) Position() models.Point     { return b.pos }
func (b *base) Bounds() models.Rect        { return b.bounds }
func (b *base) Active() bool               { return b.active }
func (b *base) Phase() float64             { return b.phase }

func (b *base) SetPosition(p models.Point) { b.pos = p }

// advancePhase runs after a component's own update.
func (b *base) advancePhase(dt float64) {
	if b.active {
		b.phase = wrapRadians(b.phase + dt*BasePhaseRate)
	}
}

func (b *base) visual() models.Visual2D {
	return models.Visual2D{
		Name:     b.name,
		Kind:     b.kind,
		Position: b.pos,
		Bounds:   b.bounds,
		Active:   b.active,
		Phase:    b.phase,
	}
}

func wrapRadians(a float64) float64 {
	return wrap(a, 2*math.Pi)
}

func wrapDegrees(a float64) float64 {
	return wrap(a, 360)
}

// wrap maps a into [0, period).
func wrap(a, period float64) float64 {
	a = math.Mod(a, period)
	if a < 0 {
		a += period
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
