// Package datamodel holds the equipment registry of the liquid-cooling unit
// and the toy physics step that animates its sensor values.
package datamodel

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Equipment counts are fixed for the unit.
const (
	NumChannels    = 4
	NumPumps       = 2
	NumSolenoids   = 3
	NumCompressors = 3
	NumBlowers     = 3
	NumCondensers  = 3
	NumPHEs        = 3
)

// Capacity limits applied by SetCoolingCapacity.
const (
	MinCoolingCapacity = 0
	MaxCoolingCapacity = 100
)

// Default attribute values of a freshly created unit.
const (
	DefaultSupplyTemp      = 25.0
	DefaultReturnTemp      = 30.0
	DefaultSystemPressure  = 2.5
	DefaultReturnPressure  = 2.0
	DefaultTankLevel       = 75.0
	DefaultCoolingCapacity = 30
	DefaultCondenserTemp   = 35.0
	DefaultPHETemp         = 28.0
)

// Model is the single source of truth for the simulated unit. All methods
// are safe for concurrent use; writers are serialized by one lock and
// subscribers are notified after the lock is released.
type Model struct {
	mu sync.RWMutex

	running bool

	supplyTemp     float64
	returnTemp     float64
	systemPressure float64
	returnPressure float64
	flowRate       float64
	tankLevel      float64
	heaterPower    float64

	channelOpen [NumChannels]bool
	channelFlow [NumChannels]float64
	pumps       [NumPumps]bool
	solenoids   [NumSolenoids]bool
	compressors [NumCompressors]bool
	blowers     [NumBlowers]bool
	condenser   [NumCondensers]float64
	phe         [NumPHEs]float64

	coolingCapacity int
	simTime         float64

	subs   subscribers
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used for state transitions.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTimeSource overrides the wall clock used to stamp snapshots.
func WithTimeSource(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a model populated with the unit defaults.
func New(opts ...Option) *Model {
	m := &Model{
		supplyTemp:      DefaultSupplyTemp,
		returnTemp:      DefaultReturnTemp,
		systemPressure:  DefaultSystemPressure,
		returnPressure:  DefaultReturnPressure,
		tankLevel:       DefaultTankLevel,
		coolingCapacity: DefaultCoolingCapacity,
		now:             time.Now,
		logger:          zap.NewNop(),
	}
	for i := range m.condenser {
		m.condenser[i] = DefaultCondenserTemp
	}
	for i := range m.phe {
		m.phe[i] = DefaultPHETemp
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("datamodel")
	return m
}

// IsSystemRunning reports whether the unit is running.
func (m *Model) IsSystemRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *Model) SupplyTemp() float64     { return m.readFloat(&m.supplyTemp) }
func (m *Model) ReturnTemp() float64     { return m.readFloat(&m.returnTemp) }
func (m *Model) SystemPressure() float64 { return m.readFloat(&m.systemPressure) }
func (m *Model) ReturnPressure() float64 { return m.readFloat(&m.returnPressure) }
func (m *Model) FlowRate() float64       { return m.readFloat(&m.flowRate) }
func (m *Model) TankLevel() float64      { return m.readFloat(&m.tankLevel) }
func (m *Model) HeaterPower() float64    { return m.readFloat(&m.heaterPower) }
func (m *Model) SimulationTime() float64 { return m.readFloat(&m.simTime) }

// CoolingCapacity returns the configured capacity in kW.
func (m *Model) CoolingCapacity() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.coolingCapacity
}

func (m *Model) SetSupplyTemp(v float64)     { m.writeFloat(&m.supplyTemp, v) }
func (m *Model) SetReturnTemp(v float64)     { m.writeFloat(&m.returnTemp, v) }
func (m *Model) SetSystemPressure(v float64) { m.writeFloat(&m.systemPressure, v) }
func (m *Model) SetReturnPressure(v float64) { m.writeFloat(&m.returnPressure, v) }
func (m *Model) SetFlowRate(v float64)       { m.writeFloat(&m.flowRate, v) }
func (m *Model) SetHeaterPower(v float64)    { m.writeFloat(&m.heaterPower, v) }

// SetTankLevel stores the level clamped to [0,100] percent.
func (m *Model) SetTankLevel(v float64) {
	m.writeFloat(&m.tankLevel, clamp(v, 0, 100))
}

// SetCoolingCapacity stores the capacity clamped to the supported range.
func (m *Model) SetCoolingCapacity(kw int) {
	clamped := kw
	if clamped < MinCoolingCapacity {
		clamped = MinCoolingCapacity
	}
	if clamped > MaxCoolingCapacity {
		clamped = MaxCoolingCapacity
	}
	if clamped != kw {
		m.logger.Debug("cooling capacity clamped", zap.Int("requested", kw), zap.Int("applied", clamped))
	}
	m.mu.Lock()
	m.coolingCapacity = clamped
	m.mu.Unlock()
	m.notify(Event{Type: DataChanged})
}

// ResetAllTrips clears equipment trips. Trip logic is not modelled, so it
// only notifies subscribers.
func (m *Model) ResetAllTrips() {
	m.logger.Info("trips reset")
	m.notify(Event{Type: DataChanged})
}

func (m *Model) ChannelOpen(i int) bool        { return readBool(m, m.channelOpen[:], i) }
func (m *Model) ChannelFlowRate(i int) float64 { return readFloatAt(m, m.channelFlow[:], i) }
func (m *Model) PumpRunning(i int) bool        { return readBool(m, m.pumps[:], i) }
func (m *Model) SolenoidOpen(i int) bool       { return readBool(m, m.solenoids[:], i) }
func (m *Model) CompressorRunning(i int) bool  { return readBool(m, m.compressors[:], i) }
func (m *Model) BlowerRunning(i int) bool      { return readBool(m, m.blowers[:], i) }
func (m *Model) CondenserTemp(i int) float64   { return readFloatAt(m, m.condenser[:], i) }
func (m *Model) PHETemp(i int) float64         { return readFloatAt(m, m.phe[:], i) }

// SolenoidEnergized is the same flag as SolenoidOpen; the coil state and the
// valve position are not modelled separately.
func (m *Model) SolenoidEnergized(i int) bool { return m.SolenoidOpen(i) }

func (m *Model) SetChannelOpen(i int, v bool)        { writeAt(m, m.channelOpen[:], i, v) }
func (m *Model) SetChannelFlowRate(i int, v float64) { writeAt(m, m.channelFlow[:], i, v) }
func (m *Model) SetPumpRunning(i int, v bool)        { writeAt(m, m.pumps[:], i, v) }
func (m *Model) SetSolenoidOpen(i int, v bool)       { writeAt(m, m.solenoids[:], i, v) }
func (m *Model) SetCompressorRunning(i int, v bool)  { writeAt(m, m.compressors[:], i, v) }
func (m *Model) SetBlowerRunning(i int, v bool)      { writeAt(m, m.blowers[:], i, v) }
func (m *Model) SetCondenserTemp(i int, v float64)   { writeAt(m, m.condenser[:], i, v) }
func (m *Model) SetPHETemp(i int, v float64)         { writeAt(m, m.phe[:], i, v) }

func (m *Model) readFloat(p *float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *p
}

func (m *Model) writeFloat(p *float64, v float64) {
	m.mu.Lock()
	*p = v
	m.mu.Unlock()
	m.notify(Event{Type: DataChanged})
}

func readBool(m *Model, s []bool, i int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(s) {
		return false
	}
	return s[i]
}

func readFloatAt(m *Model, s []float64, i int) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// writeAt ignores out-of-range indices without notifying.
func writeAt[T any](m *Model, s []T, i int, v T) {
	m.mu.Lock()
	if i < 0 || i >= len(s) {
		m.mu.Unlock()
		return
	}
	s[i] = v
	m.mu.Unlock()
	m.notify(Event{Type: DataChanged})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
