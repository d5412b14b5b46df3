package scene2d

import (
	"math"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
)

const (
	// PipeFlowSpeed is the dash travel speed of a flowing pipe, units/s.
	PipeFlowSpeed = 50.0
	// DashLength is the period of the dash pattern.
	DashLength = 20.0

	defaultPipeWidth = 8.0
)

// Pipe is a polyline carrying coolant or refrigerant.
type Pipe struct {
	base
	path    []models.Point
	fluid   models.Color
	width   float64
	flowing bool
	forward bool
	offset  float64
}

// NewPipe creates an idle pipe along path. Points are scene coordinates.
func NewPipe(name string, path []models.Point, fluid models.Color, width float64) *Pipe {
	if width <= 0 {
		width = defaultPipeWidth
	}
	p := &Pipe{
		base:    newBase(name, models.KindPipe, models.Point{}, models.Rect{}),
		path:    append([]models.Point(nil), path...),
		fluid:   fluid,
		width:   width,
		forward: true,
	}
	p.bounds = pathBounds(p.path, width+5)
	return p
}

// SetFlowing starts or stops the dash animation; a flowing pipe is active.
func (p *Pipe) SetFlowing(on bool) {
	p.flowing = on
	p.active = on
}

// SetForward reverses the dash direction when false.
func (p *Pipe) SetForward(forward bool) { p.forward = forward }

func (p *Pipe) Flowing() bool        { return p.flowing }
func (p *Pipe) Forward() bool        { return p.forward }
func (p *Pipe) FlowOffset() float64  { return p.offset }
func (p *Pipe) Fluid() models.Color  { return p.fluid }
func (p *Pipe) Path() []models.Point { return append([]models.Point(nil), p.path...) }

func (p *Pipe) Advance(dt float64) {
	if p.flowing {
		step := PipeFlowSpeed * dt
		if !p.forward {
			step = -step
		}
		p.offset = wrap(p.offset+step, DashLength)
	}
	p.advancePhase(dt)
}

func (p *Pipe) Visual() models.Visual2D {
	v := p.visual()
	v.Path = p.Path()
	v.Width = p.width
	v.FlowOffset = p.offset
	v.Forward = p.forward
	v.Flowing = p.flowing
	v.Color = models.Grey
	if p.flowing {
		v.Color = p.fluid.Lighter(150)
	}
	v.Accent = p.fluid.Darker(120)
	return v
}

func pathBounds(path []models.Point, margin float64) models.Rect {
	if len(path) == 0 {
		return models.Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range path {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return models.Rect{
		X:      minX - margin,
		Y:      minY - margin,
		Width:  maxX - minX + 2*margin,
		Height: maxY - minY + 2*margin,
	}
}
