package scene3d

import (
	"fmt"
	"math"
	"sync"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/datamodel"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// PumpSpinRate is the impeller spin of a running pump in degrees per second.
	PumpSpinRate = 180.0
	// BlowerSpinRate is the fan spin of a running blower in degrees per second.
	BlowerSpinRate = 360.0
)

// Colors of the equipment at rest.
var (
	floorColor       = models.RGB(180, 180, 180)
	coolantColor     = models.RGB(100, 150, 200)
	heaterColor      = models.RGB(200, 50, 50)
	pumpColor        = models.RGB(80, 120, 160)
	impellerColor    = models.RGB(150, 150, 150)
	valveColor       = models.RGB(120, 120, 120)
	handleColor      = models.RGB(200, 100, 50)
	pheColor         = models.RGB(180, 180, 180)
	solenoidColor    = models.RGB(100, 100, 150)
	condenserColor   = models.RGB(160, 160, 160)
	finColor         = models.RGB(140, 140, 140)
	housingColor     = models.RGB(80, 80, 120)
	bladeColor       = models.RGB(120, 120, 120)
	refrigerantColor = models.RGB(200, 100, 100)
	lightColor       = models.RGB(255, 255, 255)
)

// Colors the equipment blends to while working.
var (
	heaterHot     = models.RGB(255, 90, 30)
	pumpRunning   = models.RGB(50, 150, 50)
	handleOpen    = models.RGB(100, 200, 100)
	solenoidLive  = models.RGB(255, 200, 0)
	condenserWarm = models.RGB(255, 150, 100)
)

// RepaintFunc receives every frame the scene publishes.
type RepaintFunc func(models.Frame3D)

// binding ties a material to the model state that activates it.
type binding struct {
	mat    *Material
	active func(models.Readings) bool
}

// Scene owns the 3D entity graph. It reads the model and never writes it.
type Scene struct {
	mu sync.Mutex

	model  datamodel.Reader
	logger *zap.Logger

	roots    []*Entity
	pumps    []*Entity
	blowers  []*Entity
	valves   []*Entity
	pipes    []*Entity
	bindings []binding

	pumpSpin   [datamodel.NumPumps]float64
	blowerSpin [datamodel.NumBlowers]float64

	camera models.Camera
	lights []models.Light

	seq       uint64
	frame     models.Frame3D
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

// New builds the entity graph and syncs it once with the model.
func New(model datamodel.Reader, opts ...Option) *Scene {
	s := &Scene{
		model:  model,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("scene3d")

	s.buildEnvironment()
	s.buildCoolant()
	s.buildChannels()
	s.buildRefrigerant()
	s.buildPipes()

	snap := model.Snapshot()
	s.sync(snap, 0)
	s.frame = s.describe(snap)

	count := 0
	for _, r := range s.roots {
		r.Walk(func(*Entity) { count++ })
	}
	s.logger.Debug("scene built", zap.Int("entities", count), zap.Int("pipes", len(s.pipes)))
	return s
}

func (s *Scene) add(e *Entity) *Entity {
	s.roots = append(s.roots, e)
	return e
}

func (s *Scene) bind(mat *Material, active func(models.Readings) bool) *Material {
	s.bindings = append(s.bindings, binding{mat: mat, active: active})
	return mat
}

func (s *Scene) buildEnvironment() {
	s.add(Box("floor", "Floor", r3.Vec{Y: -1}, r3.Vec{X: 60, Y: 0.5, Z: 40}, StaticMaterial(floorColor)))

	s.camera = models.Camera{
		Position:    models.Vec3{X: 0, Y: 20, Z: 40},
		ViewCenter:  models.Vec3{},
		Up:          models.Vec3{Y: 1},
		FieldOfView: 45,
		AspectRatio: 16.0 / 9.0,
		NearPlane:   0.1,
		FarPlane:    1000,
	}
	s.lights = []models.Light{
		{Position: models.Vec3{X: 0, Y: 30, Z: 20}, Intensity: 1.0, Color: lightColor},
		{Position: models.Vec3{X: -20, Y: 15, Z: -10}, Intensity: 0.5, Color: lightColor},
	}
}

func (s *Scene) buildCoolant() {
	tank := Cylinder("tank", "Tank", r3.Vec{X: -15, Y: 5}, 3, 10,
		s.bind(NewMaterial(coolantColor, coolantColor.Lighter(130)), running))
	tank.Orientation = axisAngle(xAxis, 90)
	s.add(tank)

	s.add(Box("heater", "Heater", r3.Vec{X: -15, Y: 0.5}, r3.Vec{X: 4, Y: 1, Z: 4},
		s.bind(NewMaterial(heaterColor, heaterHot), running)))

	for i := 0; i < datamodel.NumPumps; i++ {
		i := i
		id := fmt.Sprintf("pump-%d", i+1)
		pump := Cylinder(id, fmt.Sprintf("Pump %d", i+1), r3.Vec{X: -15 + 6*float64(i), Y: 1.5, Z: -6}, 1.5, 3,
			s.bind(NewMaterial(pumpColor, pumpRunning), func(r models.Readings) bool {
				return r.Running && flag(r.Pumps, i)
			}))
		pump.SpinAxis = zAxis
		pump.Add(Sphere(id+"/impeller", "Impeller", r3.Vec{}, 1, StaticMaterial(impellerColor)))
		s.pumps = append(s.pumps, s.add(pump))
	}
}

func (s *Scene) buildChannels() {
	for i := 0; i < datamodel.NumChannels; i++ {
		i := i
		id := fmt.Sprintf("valve-%d", i+1)
		valve := Cylinder(id, fmt.Sprintf("CH %d Valve", i+1), r3.Vec{X: -10 + 5*float64(i), Y: 2, Z: 5}, 0.8, 2,
			StaticMaterial(valveColor))
		valve.Add(Sphere(id+"/handle", "Handle", r3.Vec{Y: 1.5}, 0.5,
			s.bind(NewMaterial(handleColor, handleOpen), func(r models.Readings) bool {
				return channelOpen(r, i)
			})))
		s.valves = append(s.valves, s.add(valve))
	}
}

func (s *Scene) buildRefrigerant() {
	for i := 0; i < datamodel.NumCompressors; i++ {
		i := i
		n := i + 1
		z := loopZ(i)
		compressor := func(r models.Readings) bool { return flag(r.Compressors, i) }

		s.add(Box(fmt.Sprintf("phe-%d", n), fmt.Sprintf("PHE %d", n), r3.Vec{X: 5, Y: 3, Z: z}, r3.Vec{X: 3, Y: 4, Z: 2},
			s.bind(NewMaterial(pheColor, pheColor.Lighter(115)), compressor)))

		s.add(Cylinder(fmt.Sprintf("sv-%d", n), fmt.Sprintf("SV %d", n), r3.Vec{X: 10, Y: 3, Z: z}, 0.5, 1.5,
			s.bind(NewMaterial(solenoidColor, solenoidLive), func(r models.Readings) bool {
				return flag(r.Solenoids, i)
			})))

		condID := fmt.Sprintf("condenser-%d", n)
		cond := Box(condID, fmt.Sprintf("Condenser %d", n), r3.Vec{X: 15, Y: 3, Z: z}, r3.Vec{X: 4, Y: 5, Z: 3},
			s.bind(NewMaterial(condenserColor, condenserWarm), compressor))
		fins := StaticMaterial(finColor)
		for j := 0; j < 5; j++ {
			cond.Add(Box(fmt.Sprintf("%s/fin-%d", condID, j+1), "Fin", r3.Vec{X: -2 + float64(j)}, r3.Vec{X: 0.1, Y: 5, Z: 3.5}, fins))
		}
		s.add(cond)

		blowerID := fmt.Sprintf("blower-%d", n)
		housing := Cylinder(blowerID, fmt.Sprintf("Blower %d", n), r3.Vec{X: 20, Y: 3, Z: z}, 1.5, 2,
			s.bind(NewMaterial(housingColor, housingColor.Lighter(140)), func(r models.Readings) bool {
				return r.Running && flag(r.Blowers, i)
			}))
		housing.SpinAxis = yAxis
		blades := StaticMaterial(bladeColor)
		for b := 0; b < 6; b++ {
			blade := Box(fmt.Sprintf("%s/blade-%d", blowerID, b+1), "Blade", r3.Vec{}, r3.Vec{X: 1.5, Y: 0.2, Z: 0.3}, blades)
			blade.Orientation = axisAngle(zAxis, 60*float64(b))
			housing.Add(blade)
		}
		s.blowers = append(s.blowers, s.add(housing))
	}
}

func (s *Scene) buildPipes() {
	flowing := func(r models.Readings) bool { return r.Running }

	coolant := [][2]r3.Vec{
		{{X: -15, Y: 0, Z: 0}, {X: -15, Y: 0, Z: -6}},
		{{X: -15, Y: 1.5, Z: -6}, {X: -9, Y: 1.5, Z: -6}},
		{{X: -9, Y: 1.5, Z: -6}, {X: -10, Y: 2, Z: 5}},
	}
	mat := s.bind(NewMaterial(coolantColor, coolantColor.Lighter(150)), flowing)
	for i, seg := range coolant {
		s.addPipe(fmt.Sprintf("coolant-%d", i+1), seg[0], seg[1], 0.4, mat)
	}

	for i := 0; i < datamodel.NumChannels; i++ {
		i := i
		x := -10 + 5*float64(i)
		m := s.bind(NewMaterial(coolantColor, coolantColor.Lighter(150)), func(r models.Readings) bool {
			return r.Running && channelOpen(r, i)
		})
		s.addPipe(fmt.Sprintf("channel-%d", i+1), r3.Vec{X: x, Y: 2, Z: 5}, r3.Vec{X: x, Y: 2, Z: 10}, 0.3, m)
	}

	for i := 0; i < datamodel.NumCompressors; i++ {
		i := i
		z := loopZ(i)
		m := s.bind(NewMaterial(refrigerantColor, refrigerantColor.Lighter(150)), func(r models.Readings) bool {
			return flag(r.Compressors, i)
		})
		stops := []float64{5, 10, 15, 20}
		for j := 0; j+1 < len(stops); j++ {
			s.addPipe(fmt.Sprintf("loop%d-%d", i+1, j+1), r3.Vec{X: stops[j], Y: 3, Z: z}, r3.Vec{X: stops[j+1], Y: 3, Z: z}, 0.25, m)
		}
	}
}

func (s *Scene) addPipe(id string, start, end r3.Vec, radius float64, mat *Material) {
	center, length, rot := PipeTransform(start, end)
	pipe := Cylinder(id, "Pipe", center, radius, length, mat)
	pipe.Orientation = rot
	s.pipes = append(s.pipes, s.add(pipe))
}

func loopZ(i int) float64 { return -5 + 6*float64(i) }

func flag(v []bool, i int) bool { return i >= 0 && i < len(v) && v[i] }

func running(r models.Readings) bool { return r.Running }

func channelOpen(r models.Readings, ch int) bool {
	return ch >= 0 && ch < len(r.Channels) && r.Channels[ch].Open
}

// OnRepaint registers a frame listener. Listeners run on the ticking
// goroutine and must not block.
func (s *Scene) OnRepaint(fn RepaintFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Update advances spins and materials by dt seconds and publishes a frame.
func (s *Scene) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	snap := s.model.Snapshot()

	s.mu.Lock()
	s.sync(snap, dt)
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

func (s *Scene) sync(r models.Readings, dt float64) {
	for i, pump := range s.pumps {
		if r.Running && flag(r.Pumps, i) {
			s.pumpSpin[i] = wrapDegrees(s.pumpSpin[i] + PumpSpinRate*dt)
		}
		pump.Spin = s.pumpSpin[i]
	}
	for i, blower := range s.blowers {
		if r.Running && flag(r.Blowers, i) {
			s.blowerSpin[i] = wrapDegrees(s.blowerSpin[i] + BlowerSpinRate*dt)
		}
		blower.Spin = s.blowerSpin[i]
	}
	for _, b := range s.bindings {
		b.mat.SetActive(b.active(r))
		b.mat.Advance(dt)
	}
}

func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func (s *Scene) describe(r models.Readings) models.Frame3D {
	entities := make([]models.Entity3D, len(s.roots))
	for i, e := range s.roots {
		entities[i] = e.describe()
	}
	return models.Frame3D{
		Seq:      s.seq,
		SimTime:  r.SimTime,
		Running:  r.Running,
		Camera:   s.camera,
		Lights:   append([]models.Light(nil), s.lights...),
		Entities: entities,
	}
}

// Frame returns the most recently published frame.
func (s *Scene) Frame() models.Frame3D {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// PumpSpin is the accumulated impeller angle of pump i in degrees.
func (s *Scene) PumpSpin(i int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.pumpSpin) {
		return 0
	}
	return s.pumpSpin[i]
}

// BlowerSpin is the accumulated fan angle of blower i in degrees.
func (s *Scene) BlowerSpin(i int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.blowerSpin) {
		return 0
	}
	return s.blowerSpin[i]
}

// Find returns the entity with the given ID, or nil.
func (s *Scene) Find(id string) *Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *Entity
	for _, r := range s.roots {
		r.Walk(func(e *Entity) {
			if found == nil && e.ID == id {
				found = e
			}
		})
	}
	return found
}

// Pipes returns the pipe entities in build order.
func (s *Scene) Pipes() []*Entity { return s.pipes }

// Roots returns the top level entities.
func (s *Scene) Roots() []*Entity { return s.roots }
