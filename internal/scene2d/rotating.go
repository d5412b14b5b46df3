package scene2d

import (
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
)

const (
	// PumpRotationSpeed is the impeller speed of a running pump, deg/s.
	PumpRotationSpeed = 360.0
	pumpPhaseRate     = 5.0

	blowerMinSpeed = 180.0
	blowerMaxExtra = 720.0
)

var (
	pumpRunningColor = models.RGB(50, 150, 50)
	pumpIdleColor    = models.RGB(150, 150, 150)
	statusOnColor    = models.RGB(0, 255, 0)
	statusOffColor   = models.RGB(255, 0, 0)

	bladeRunningColor = models.RGB(100, 150, 200)
	bladeIdleColor    = models.RGB(120, 120, 120)
	housingColor      = models.RGB(150, 150, 170)
)

// Pump is a coolant pump with a spinning impeller.
type Pump struct {
	base
	running  bool
	flowRate float64
	rotation float64
}

// NewPump creates a stopped pump.
func NewPump(name string, pos models.Point) *Pump {
	return &Pump{base: newBase(name, models.KindPump, pos, models.Rect{X: -25, Y: -25, Width: 50, Height: 50})}
}

// SetRunning switches the pump; a running pump is active.
func (p *Pump) SetRunning(running bool) {
	p.running = running
	p.active = running
}

func (p *Pump) SetFlowRate(lpm float64) { p.flowRate = lpm }
func (p *Pump) Running() bool           { return p.running }
func (p *Pump) FlowRate() float64       { return p.flowRate }

// Rotation is the impeller angle in degrees, in [0,360).
func (p *Pump) Rotation() float64 { return p.rotation }

func (p *Pump) Advance(dt float64) {
	if p.running {
		p.rotation = wrapDegrees(p.rotation + dt*PumpRotationSpeed)
		p.phase = wrapRadians(p.phase + dt*pumpPhaseRate)
	}
	p.advancePhase(dt)
}

func (p *Pump) Visual() models.Visual2D {
	v := p.visual()
	v.Rotation = p.rotation
	v.FlowRate = p.flowRate
	v.Color = pumpIdleColor
	v.Accent = statusOffColor
	if p.running {
		v.Speed = PumpRotationSpeed
		v.Color = pumpRunningColor
		v.Accent = statusOnColor
	}
	return v
}

// Blower is a condenser fan whose speed scales its rotation rate.
type Blower struct {
	base
	running  bool
	speed    float64
	rotation float64
}

// NewBlower creates a stopped blower.
func NewBlower(name string, pos models.Point) *Blower {
	return &Blower{base: newBase(name, models.KindBlower, pos, models.Rect{X: -25, Y: -25, Width: 50, Height: 50})}
}

// SetRunning switches the blower; a running blower is active.
func (b *Blower) SetRunning(running bool) {
	b.running = running
	b.active = running
}

// SetSpeed sets the fan speed in percent, clamped to [0,100].
func (b *Blower) SetSpeed(percent float64) { b.speed = clamp(percent, 0, 100) }

func (b *Blower) Running() bool     { return b.running }
func (b *Blower) Speed() float64    { return b.speed }
func (b *Blower) Rotation() float64 { return b.rotation }

// RotationSpeed is the blade speed in deg/s for the current fan speed.
func (b *Blower) RotationSpeed() float64 {
	return blowerMinSpeed + b.speed/100*blowerMaxExtra
}

func (b *Blower) Advance(dt float64) {
	if b.running {
		b.rotation = wrapDegrees(b.rotation + dt*b.RotationSpeed())
	}
	b.advancePhase(dt)
}

func (b *Blower) Visual() models.Visual2D {
	v := b.visual()
	v.Rotation = b.rotation
	v.Speed = b.speed
	v.Color = housingColor
	v.Accent = bladeIdleColor
	if b.running {
		v.Accent = bladeRunningColor
	}
	return v
}
