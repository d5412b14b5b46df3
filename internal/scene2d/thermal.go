package scene2d

import (
	"math"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
)

// Tank liquid color bands by coolant temperature, °C.
const (
	TankColdBelow   = 20.0
	TankNormalBelow = 30.0
)

var (
	tankColdColor   = models.RGB(100, 150, 255)
	tankNormalColor = models.RGB(100, 200, 200)
	tankHotColor    = models.RGB(255, 150, 100)
	tankShellColor  = models.RGB(180, 200, 220)

	heaterCoilOn  = models.RGB(255, 150, 0)
	heaterCoilOff = models.RGB(100, 100, 100)
	heaterGlow    = models.RGB(255, 100, 0)

	condenserOn   = models.RGB(200, 150, 100)
	condenserOff  = models.RGB(180, 180, 180)
	condenserFins = models.RGB(100, 100, 150)

	pheHotColor  = models.RGB(255, 150, 100)
	pheColdColor = models.RGB(100, 150, 255)
)

// Tank is the coolant reservoir.
type Tank struct {
	base
	level       float64
	temperature float64
}

// NewTank creates a tank at the default fill.
func NewTank(name string, pos models.Point) *Tank {
	return &Tank{
		base:        newBase(name, models.KindTank, pos, models.Rect{X: -40, Y: -60, Width: 80, Height: 120}),
		level:       75,
		temperature: 25,
	}
}

// SetLevel sets the fill in percent, clamped to [0,100].
func (t *Tank) SetLevel(percent float64) { t.level = clamp(percent, 0, 100) }

func (t *Tank) SetTemperature(c float64) { t.temperature = c }
func (t *Tank) Level() float64           { return t.level }
func (t *Tank) Temperature() float64     { return t.temperature }

// LiquidColor maps the coolant temperature to a band color.
func (t *Tank) LiquidColor() models.Color {
	switch {
	case t.temperature < TankColdBelow:
		return tankColdColor
	case t.temperature < TankNormalBelow:
		return tankNormalColor
	default:
		return tankHotColor
	}
}

func (t *Tank) Advance(dt float64) { t.advancePhase(dt) }

func (t *Tank) Visual() models.Visual2D {
	v := t.visual()
	v.Level = t.level
	v.Temperature = t.temperature
	v.Color = t.LiquidColor()
	v.Accent = tankShellColor
	return v
}

// Heater is the electric load heater with a glowing coil.
type Heater struct {
	base
	power float64
	glow  float64
}

// NewHeater creates an inactive heater.
func NewHeater(name string, pos models.Point) *Heater {
	return &Heater{base: newBase(name, models.KindHeater, pos, models.Rect{X: -30, Y: -30, Width: 60, Height: 60})}
}

func (h *Heater) SetActive(on bool)      { h.active = on }
func (h *Heater) SetPower(kw float64)    { h.power = kw }
func (h *Heater) Power() float64         { return h.power }
func (h *Heater) GlowIntensity() float64 { return h.glow }

func (h *Heater) Advance(dt float64) {
	if h.active {
		h.glow = 0.5 + 0.5*math.Sin(h.phase*3)
	} else {
		h.glow = 0
	}
	h.advancePhase(dt)
}

func (h *Heater) Visual() models.Visual2D {
	v := h.visual()
	v.Power = h.power
	v.Glow = h.glow
	v.Color = heaterCoilOff
	v.Accent = heaterGlow.Scale(h.glow)
	if h.active {
		v.Color = heaterCoilOn
	}
	return v
}

// Condenser rejects refrigerant heat to air.
type Condenser struct {
	base
	temperature float64
}

// NewCondenser creates an inactive condenser.
func NewCondenser(name string, pos models.Point) *Condenser {
	return &Condenser{
		base:        newBase(name, models.KindCondenser, pos, models.Rect{X: -30, Y: -40, Width: 60, Height: 80}),
		temperature: 35,
	}
}

func (c *Condenser) SetActive(on bool)        { c.active = on }
func (c *Condenser) SetTemperature(t float64) { c.temperature = t }
func (c *Condenser) Temperature() float64     { return c.temperature }

func (c *Condenser) Advance(dt float64) { c.advancePhase(dt) }

func (c *Condenser) Visual() models.Visual2D {
	v := c.visual()
	v.Temperature = c.temperature
	v.Color = condenserOff
	if c.active {
		v.Color = condenserOn
	}
	v.Accent = condenserFins
	return v
}

// HeatExchanger is the plate heat exchanger between coolant and refrigerant.
type HeatExchanger struct {
	base
	hot  float64
	cold float64
}

// NewHeatExchanger creates an inactive exchanger.
func NewHeatExchanger(name string, pos models.Point) *HeatExchanger {
	return &HeatExchanger{
		base: newBase(name, models.KindHeatExchanger, pos, models.Rect{X: -25, Y: -35, Width: 50, Height: 70}),
		hot:  30,
		cold: 28,
	}
}

func (h *HeatExchanger) SetActive(on bool)         { h.active = on }
func (h *HeatExchanger) SetHotSideTemp(t float64)  { h.hot = t }
func (h *HeatExchanger) SetColdSideTemp(t float64) { h.cold = t }
func (h *HeatExchanger) HotSideTemp() float64      { return h.hot }
func (h *HeatExchanger) ColdSideTemp() float64     { return h.cold }

func (h *HeatExchanger) Advance(dt float64) { h.advancePhase(dt) }

func (h *HeatExchanger) Visual() models.Visual2D {
	v := h.visual()
	v.HotTemp = h.hot
	v.ColdTemp = h.cold
	v.Color = models.Grey
	v.Accent = models.Grey
	if h.active {
		v.Color = pheHotColor
		v.Accent = pheColdColor
	}
	return v
}
