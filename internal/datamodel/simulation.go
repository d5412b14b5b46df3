package datamodel

import (
	"math"

	"go.uber.org/zap"
)

// Physics constants of the toy model.
const (
	PumpFlowRate       = 50.0 // lpm per running pump
	IdleTemp           = 25.0
	HeaterLoadFraction = 0.5
	ReturnPressureRate = 0.8
)

// SetSystemRunning starts or stops the unit. Nothing happens when the flag
// already has the requested value.
//
// Starting applies the start recipe: pump 0, channels 0 and 1, compressor 0,
// blower 0 and solenoid 0 are switched on. Stopping switches off every pump,
// channel, compressor and blower; solenoids and refrigerant temperatures
// keep their last values.
func (m *Model) SetSystemRunning(running bool) {
	m.mu.Lock()
	if m.running == running {
		m.mu.Unlock()
		return
	}
	m.running = running

	writes := 0
	if running {
		m.pumps[0] = true
		m.channelOpen[0] = true
		m.channelOpen[1] = true
		m.compressors[0] = true
		m.blowers[0] = true
		m.solenoids[0] = true
		writes = 6
	} else {
		for i := range m.pumps {
			m.pumps[i] = false
		}
		for i := range m.channelOpen {
			m.channelOpen[i] = false
		}
		for i := range m.compressors {
			m.compressors[i] = false
		}
		for i := range m.blowers {
			m.blowers[i] = false
		}
		writes = NumPumps + NumChannels + NumCompressors + NumBlowers
	}
	simTime := m.simTime
	m.mu.Unlock()

	if running {
		m.logger.Info("system started", zap.Float64("simTime", simTime))
	} else {
		m.logger.Info("system stopped", zap.Float64("simTime", simTime))
	}

	for i := 0; i < writes; i++ {
		m.notify(Event{Type: DataChanged})
	}
	m.notify(Event{Type: SystemStateChanged, Running: running})
	m.notify(Event{Type: DataChanged})
}

// UpdateSimulation advances the toy physics by dt seconds. It is a no-op
// while the unit is stopped. Negative or NaN steps are treated as zero.
func (m *Model) UpdateSimulation(dt float64) {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	m.simTime += dt
	t := m.simTime

	m.stepCoolant(t)
	m.stepRefrigerant(t)
	m.stepChannels(t)
	m.mu.Unlock()

	m.notify(Event{Type: DataChanged})
}

func (m *Model) stepCoolant(t float64) {
	running := 0
	for _, on := range m.pumps {
		if on {
			running++
		}
	}
	m.flowRate = PumpFlowRate * float64(running)

	if m.flowRate > 0 {
		m.supplyTemp = 20.0 + 3.0*math.Sin(t*0.5)
		m.returnTemp = m.supplyTemp + 5.0 + 2.0*math.Sin(t*0.3)
		m.systemPressure = 2.5 + 0.3*math.Sin(t*0.7)
	} else {
		m.supplyTemp = IdleTemp
		m.returnTemp = IdleTemp
		m.systemPressure = 0
	}
	m.returnPressure = m.systemPressure * ReturnPressureRate

	if m.running {
		m.heaterPower = float64(m.coolingCapacity) * HeaterLoadFraction
	} else {
		m.heaterPower = 0
	}
}

func (m *Model) stepRefrigerant(t float64) {
	for i := 0; i < NumCompressors; i++ {
		if m.compressors[i] {
			phase := float64(i)
			m.condenser[i] = 35.0 + 5.0*math.Sin(t*0.4+phase)
			m.phe[i] = 15.0 + 3.0*math.Sin(t*0.6+phase)
		} else {
			m.condenser[i] = IdleTemp
			m.phe[i] = IdleTemp
		}
	}
}

// stepChannels splits the loop flow evenly across open channels with a
// small per-channel ripple.
func (m *Model) stepChannels(t float64) {
	open := 0
	for _, o := range m.channelOpen {
		if o {
			open++
		}
	}
	for i := range m.channelFlow {
		if open == 0 || !m.channelOpen[i] {
			m.channelFlow[i] = 0
			continue
		}
		m.channelFlow[i] = m.flowRate / float64(open) * (0.9 + 0.1*math.Sin(t+float64(i)))
	}
}
