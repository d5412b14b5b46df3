package scene2d

import (
	"math"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
)

// ValveType selects the position indicator drawn inside a valve.
type ValveType string

const (
	BallValve  ValveType = "ball"
	GateValve  ValveType = "gate"
	CheckValve ValveType = "check"
)

const (
	// ValveTravelRate is the opening change per second.
	ValveTravelRate = 2.0
	// ValveSnapTolerance is the distance at which a moving valve settles.
	ValveSnapTolerance = 0.01

	solenoidPulseRate = 4.0
)

var (
	openBodyColor   = models.RGB(100, 200, 100)
	closedBodyColor = models.RGB(200, 100, 100)
	coilIdleColor   = models.RGB(150, 150, 150)
)

// Valve is a channel valve that travels smoothly between closed (0) and
// open (1). It is active only while travelling.
type Valve struct {
	base
	valveType ValveType
	open      bool
	position  float64
	target    float64
}

// NewValve creates a closed valve. An empty type means a ball valve.
func NewValve(name string, t ValveType, pos models.Point) *Valve {
	if t == "" {
		t = BallValve
	}
	return &Valve{
		base:      newBase(name, models.KindValve, pos, models.Rect{X: -20, Y: -20, Width: 40, Height: 40}),
		valveType: t,
	}
}

// SetOpen sets the travel target. The valve becomes active when it has
// somewhere to travel.
func (v *Valve) SetOpen(open bool) {
	v.open = open
	v.target = 0
	if open {
		v.target = 1
	}
	if v.position != v.target {
		v.active = true
	}
}

// SetPosition jumps the valve to an opening in [0,1].
func (v *Valve) SetPosition(p float64) { v.position = clamp(p, 0, 1) }

func (v *Valve) Open() bool        { return v.open }
func (v *Valve) Position() float64 { return v.position }
func (v *Valve) Target() float64   { return v.target }
func (v *Valve) Type() ValveType   { return v.valveType }

func (v *Valve) Advance(dt float64) {
	if math.Abs(v.position-v.target) > ValveSnapTolerance {
		step := dt * ValveTravelRate
		if v.position < v.target {
			v.position = math.Min(v.position+step, v.target)
		} else {
			v.position = math.Max(v.position-step, v.target)
		}
	} else {
		v.position = v.target
		v.active = false
	}
	v.advancePhase(dt)
}

func (v *Valve) Visual() models.Visual2D {
	out := v.visual()
	out.Open = v.open
	out.ValveType = string(v.valveType)
	out.Opening = v.position
	switch v.valveType {
	case GateValve:
		out.Indicator = -10 + v.position*20
	case CheckValve:
		out.Indicator = 0
	default:
		out.Indicator = v.position * 90
	}
	out.Color = closedBodyColor
	out.Accent = statusOffColor
	if v.open {
		out.Color = openBodyColor
		out.Accent = statusOnColor
	}
	return out
}

// SolenoidValve is a refrigerant valve with a pulsing coil while energized.
type SolenoidValve struct {
	base
	open      bool
	energized bool
	pulse     float64
}

// NewSolenoidValve creates a closed, de-energized valve.
func NewSolenoidValve(name string, pos models.Point) *SolenoidValve {
	return &SolenoidValve{base: newBase(name, models.KindSolenoidValve, pos, models.Rect{X: -15, Y: -25, Width: 30, Height: 50})}
}

func (s *SolenoidValve) SetOpen(open bool) { s.open = open }

// SetEnergized drives the coil; an energized valve is active.
func (s *SolenoidValve) SetEnergized(on bool) {
	s.energized = on
	s.active = on
}

func (s *SolenoidValve) Open() bool      { return s.open }
func (s *SolenoidValve) Energized() bool { return s.energized }

// Intensity is the coil brightness in [0.4,1.0].
func (s *SolenoidValve) Intensity() float64 {
	return 0.7 + 0.3*math.Sin(s.pulse)
}

func (s *SolenoidValve) Advance(dt float64) {
	if s.energized {
		s.pulse = wrapRadians(s.pulse + dt*solenoidPulseRate)
	}
	s.advancePhase(dt)
}

func (s *SolenoidValve) Visual() models.Visual2D {
	v := s.visual()
	v.Open = s.open
	v.Color = closedBodyColor
	if s.open {
		v.Color = openBodyColor
	}
	v.Accent = coilIdleColor
	if s.energized {
		i := s.Intensity()
		v.Intensity = i
		v.Accent = models.RGB(int(255*i), int(200*i), 0)
	}
	return v
}
