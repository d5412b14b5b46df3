package scene2d

import (
	"fmt"
	"sync"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/datamodel"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/layout"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"go.uber.org/zap"
)

// BlowerRunningSpeed is the fan speed the scene applies to running blowers.
const BlowerRunningSpeed = 75.0

// RepaintFunc receives every frame the scene publishes.
type RepaintFunc func(models.Frame2D)

// Scene owns the drawables of the schematic. On each Update it advances
// every drawable, pulls the current state from the model and publishes a
// frame. It never writes to the model.
type Scene struct {
	mu sync.Mutex

	model  datamodel.Reader
	layout *layout.Layout
	logger *zap.Logger

	tank       *Tank
	heater     *Heater
	pumps      []*Pump
	valves     []*Valve
	exchangers []*HeatExchanger
	solenoids  []*SolenoidValve
	condensers []*Condenser
	blowers    []*Blower

	coolantPipes     []*Pipe
	channelPipes     []*Pipe
	refrigerantPipes []*Pipe

	all    []Component
	labels []models.Label

	seq       uint64
	frame     models.Frame2D
	listeners []RepaintFunc
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the scene logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds the schematic from a validated layout and syncs it once with
// the model.
func New(model datamodel.Reader, l *layout.Layout, opts ...Option) *Scene {
	s := &Scene{
		model:  model,
		layout: l,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("scene2d")

	s.buildCoolant()
	s.buildChannels()
	s.buildRefrigerant()
	s.buildPipes()
	s.buildLabels()

	snap := model.Snapshot()
	s.sync(snap)
	s.frame = s.describe(snap)

	s.logger.Debug("scene built", zap.Int("components", len(s.all)))
	return s
}

func (s *Scene) add(c Component) {
	s.all = append(s.all, c)
}

func (s *Scene) buildCoolant() {
	s.tank = NewTank("tank", s.layout.Tank.Point())
	s.add(s.tank)

	s.heater = NewHeater("heater", s.layout.Heater.Point())
	s.add(s.heater)

	for i, pos := range s.layout.Pumps {
		p := NewPump(fmt.Sprintf("pump-%d", i+1), pos.Point())
		s.pumps = append(s.pumps, p)
		s.add(p)
	}
}

func (s *Scene) buildChannels() {
	rows := s.layout.Channels
	for ch := 0; ch < datamodel.NumChannels; ch++ {
		y := s.layout.ChannelY(ch)
		for v, dx := range rows.ValveOffsets {
			valve := NewValve(fmt.Sprintf("ch%d-valve-%d", ch+1, v+1), ValveType(rows.ValveType), models.Point{X: rows.StartX + dx, Y: y})
			s.valves = append(s.valves, valve)
			s.add(valve)
		}
	}
}

func (s *Scene) buildRefrigerant() {
	rows := s.layout.Refrigerant
	for i := 0; i < datamodel.NumCompressors; i++ {
		y := s.layout.LoopY(i)
		n := i + 1

		phe := NewHeatExchanger(fmt.Sprintf("phe-%d", n), models.Point{X: rows.StartX + rows.PHEOffset, Y: y})
		s.exchangers = append(s.exchangers, phe)
		s.add(phe)

		sv := NewSolenoidValve(fmt.Sprintf("sv-%d", n), models.Point{X: rows.StartX + rows.SolenoidOffset, Y: y})
		s.solenoids = append(s.solenoids, sv)
		s.add(sv)

		cond := NewCondenser(fmt.Sprintf("condenser-%d", n), models.Point{X: rows.StartX + rows.CondenserOffset, Y: y})
		s.condensers = append(s.condensers, cond)
		s.add(cond)

		blower := NewBlower(fmt.Sprintf("blower-%d", n), models.Point{X: rows.StartX + rows.BlowerOffset, Y: y})
		s.blowers = append(s.blowers, blower)
		s.add(blower)
	}
}

func (s *Scene) buildPipes() {
	width := s.layout.PipeWidth

	for _, spec := range s.layout.CoolantPipes {
		path := make([]models.Point, len(spec.Path))
		for i, p := range spec.Path {
			path[i] = p.Point()
		}
		w := spec.Width
		if w <= 0 {
			w = width
		}
		pipe := NewPipe(spec.Name, path, models.Color(spec.Color), w)
		s.coolantPipes = append(s.coolantPipes, pipe)
		s.add(pipe)
	}

	for ch := 0; ch < datamodel.NumChannels; ch++ {
		y := s.layout.ChannelY(ch)
		for _, seg := range s.layout.ChannelPipes {
			pipe := NewPipe(fmt.Sprintf("ch%d-%s", ch+1, seg.Name), segment(seg, y), models.Color(seg.Color), width)
			s.channelPipes = append(s.channelPipes, pipe)
			s.add(pipe)
		}
	}

	for i := 0; i < datamodel.NumCompressors; i++ {
		y := s.layout.LoopY(i)
		for _, seg := range s.layout.RefrigerantPipes {
			pipe := NewPipe(fmt.Sprintf("loop%d-%s", i+1, seg.Name), segment(seg, y), models.Color(seg.Color), width)
			s.refrigerantPipes = append(s.refrigerantPipes, pipe)
			s.add(pipe)
		}
	}
}

func segment(seg layout.SegmentSpec, y float64) []models.Point {
	return []models.Point{{X: seg.FromX, Y: y}, {X: seg.ToX, Y: y}}
}

func (s *Scene) buildLabels() {
	for _, l := range s.layout.Labels {
		s.labels = append(s.labels, models.Label{
			Text:     l.Text,
			Position: models.Point{X: l.X, Y: l.Y},
			Size:     l.Size,
			Bold:     l.Bold,
		})
	}
	for ch := 0; ch < datamodel.NumChannels; ch++ {
		s.labels = append(s.labels, models.Label{
			Text:     fmt.Sprintf("CH %d", ch+1),
			Position: models.Point{X: s.layout.Channels.StartX - 50, Y: s.layout.ChannelY(ch) - 10},
			Size:     8,
			Bold:     true,
		})
	}
	for i := 0; i < datamodel.NumCompressors; i++ {
		s.labels = append(s.labels, models.Label{
			Text:     fmt.Sprintf("Loop %d", i+1),
			Position: models.Point{X: s.layout.Refrigerant.StartX - 120, Y: s.layout.LoopY(i) - 15},
			Size:     7,
		})
	}
}

// OnRepaint registers a frame listener. Listeners run on the ticking
// goroutine and must not block.
func (s *Scene) OnRepaint(fn RepaintFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Update advances the scene by dt seconds and publishes a new frame.
func (s *Scene) Update(dt float64) {
	snap := s.model.Snapshot()

	s.mu.Lock()
	for _, c := range s.all {
		c.Advance(dt)
	}
	s.sync(snap)
	s.seq++
	frame := s.describe(snap)
	s.frame = frame
	listeners := make([]RepaintFunc, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(frame)
	}
}

// sync pushes model state into the drawables.
func (s *Scene) sync(r models.Readings) {
	for i, p := range s.pumps {
		running := i < len(r.Pumps) && r.Pumps[i]
		p.SetRunning(running)
		if running {
			p.SetFlowRate(r.FlowRate / 2)
		} else {
			p.SetFlowRate(0)
		}
	}

	s.heater.SetActive(r.Running)
	if r.Running {
		s.heater.SetPower(r.HeaterPower)
	} else {
		s.heater.SetPower(0)
	}

	s.tank.SetLevel(r.TankLevel)
	s.tank.SetTemperature(r.SupplyTemp)

	for i, v := range s.valves {
		v.SetOpen(channelOpen(r, i/layout.ValvesPerChannel))
	}

	for i := range s.exchangers {
		active := i < len(r.Compressors) && r.Compressors[i]
		s.exchangers[i].SetActive(active)
		s.exchangers[i].SetHotSideTemp(r.ReturnTemp)
		if i < len(r.PHETemps) {
			s.exchangers[i].SetColdSideTemp(r.PHETemps[i])
		}
	}
	for i, sv := range s.solenoids {
		open := i < len(r.Solenoids) && r.Solenoids[i]
		sv.SetOpen(open)
		sv.SetEnergized(open)
	}
	for i, c := range s.condensers {
		c.SetActive(i < len(r.Compressors) && r.Compressors[i])
		if i < len(r.CondenserTemps) {
			c.SetTemperature(r.CondenserTemps[i])
		}
	}
	for i, b := range s.blowers {
		running := i < len(r.Blowers) && r.Blowers[i]
		b.SetRunning(running)
		if running {
			b.SetSpeed(BlowerRunningSpeed)
		} else {
			b.SetSpeed(0)
		}
	}

	for _, p := range s.coolantPipes {
		p.SetFlowing(r.Running)
	}
	for i, p := range s.channelPipes {
		p.SetFlowing(r.Running && channelOpen(r, i/layout.PipesPerRow))
	}
	for i, p := range s.refrigerantPipes {
		loop := i / layout.PipesPerRow
		p.SetFlowing(loop < len(r.Compressors) && r.Compressors[loop])
	}
}

func channelOpen(r models.Readings, ch int) bool {
	return ch >= 0 && ch < len(r.Channels) && r.Channels[ch].Open
}

func (s *Scene) describe(r models.Readings) models.Frame2D {
	visuals := make([]models.Visual2D, len(s.all))
	for i, c := range s.all {
		visuals[i] = c.Visual()
	}

	status := "READY"
	if r.Running {
		status = "RUNNING"
	}
	labels := make([]models.Label, 0, len(s.labels)+1)
	labels = append(labels, s.labels...)
	labels = append(labels, models.Label{Text: status, Position: models.Point{X: 1070, Y: 55}, Size: 8})

	return models.Frame2D{
		Seq:        s.seq,
		SimTime:    r.SimTime,
		Running:    r.Running,
		Width:      s.layout.Width,
		Height:     s.layout.Height,
		Title:      s.layout.Title,
		Labels:     labels,
		Components: visuals,
	}
}

// Frame returns the most recently published frame.
func (s *Scene) Frame() models.Frame2D {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Components returns the drawables in paint order.
func (s *Scene) Components() []Component {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Component(nil), s.all...)
}

// Inspect runs fn with the scene locked. Update cannot advance the
// drawables while fn runs, so fn may read them through the accessors below.
// fn must not call Update, Frame or Components.
func (s *Scene) Inspect(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// The accessors below return the live drawables. While a clock is ticking
// the scene, read them only inside Inspect.

func (s *Scene) Pumps() []*Pump                   { return s.pumps }
func (s *Scene) Valves() []*Valve                 { return s.valves }
func (s *Scene) Blowers() []*Blower               { return s.blowers }
func (s *Scene) Solenoids() []*SolenoidValve      { return s.solenoids }
func (s *Scene) Heater() *Heater                  { return s.heater }
func (s *Scene) Tank() *Tank                      { return s.tank }
func (s *Scene) CoolantPipes() []*Pipe            { return s.coolantPipes }
func (s *Scene) ChannelPipes() []*Pipe            { return s.channelPipes }
func (s *Scene) RefrigerantPipes() []*Pipe        { return s.refrigerantPipes }
func (s *Scene) Condensers() []*Condenser         { return s.condensers }
func (s *Scene) HeatExchangers() []*HeatExchanger { return s.exchangers }
