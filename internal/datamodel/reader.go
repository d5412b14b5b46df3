package datamodel

import "github.com/shridharbhandiwad/RSCU-Animation/internal/models"

// Reader is the read-only view of the model handed to renderers.
type Reader interface {
	IsSystemRunning() bool
	SupplyTemp() float64
	ReturnTemp() float64
	SystemPressure() float64
	ReturnPressure() float64
	FlowRate() float64
	TankLevel() float64
	HeaterPower() float64
	CoolingCapacity() int
	ChannelOpen(i int) bool
	ChannelFlowRate(i int) float64
	PumpRunning(i int) bool
	SolenoidOpen(i int) bool
	CompressorRunning(i int) bool
	BlowerRunning(i int) bool
	CondenserTemp(i int) float64
	PHETemp(i int) float64
	SimulationTime() float64
	Snapshot() models.Readings
}

// Simulator is the slice of the model driven by animation clocks and
// operator commands.
type Simulator interface {
	IsSystemRunning() bool
	SetSystemRunning(running bool)
	UpdateSimulation(dt float64)
}

var (
	_ Reader    = (*Model)(nil)
	_ Simulator = (*Model)(nil)
)

// Snapshot copies every attribute under one read lock.
func (m *Model) Snapshot() models.Readings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r := models.Readings{
		Timestamp:       m.now(),
		SimTime:         m.simTime,
		Running:         m.running,
		SupplyTemp:      m.supplyTemp,
		ReturnTemp:      m.returnTemp,
		SystemPressure:  m.systemPressure,
		ReturnPressure:  m.returnPressure,
		FlowRate:        m.flowRate,
		TankLevel:       m.tankLevel,
		HeaterPower:     m.heaterPower,
		CoolingCapacity: m.coolingCapacity,
		Channels:        make([]models.ChannelReading, NumChannels),
		Pumps:           append([]bool(nil), m.pumps[:]...),
		Solenoids:       append([]bool(nil), m.solenoids[:]...),
		Compressors:     append([]bool(nil), m.compressors[:]...),
		Blowers:         append([]bool(nil), m.blowers[:]...),
		CondenserTemps:  append([]float64(nil), m.condenser[:]...),
		PHETemps:        append([]float64(nil), m.phe[:]...),
	}
	for i := range r.Channels {
		r.Channels[i] = models.ChannelReading{Open: m.channelOpen[i], FlowRate: m.channelFlow[i]}
	}
	return r
}
