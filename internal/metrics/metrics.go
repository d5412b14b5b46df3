// Package metrics exposes the unit readings as Prometheus gauges.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	running         prometheus.Gauge
	simTime         prometheus.Gauge
	temperature     *prometheus.GaugeVec
	pressure        *prometheus.GaugeVec
	flowRate        prometheus.Gauge
	tankLevel       prometheus.Gauge
	heaterPower     prometheus.Gauge
	coolingCapacity prometheus.Gauge
	channelOpen     *prometheus.GaugeVec
	channelFlow     *prometheus.GaugeVec
	equipment       *prometheus.GaugeVec
	condenserTemp   *prometheus.GaugeVec
	pheTemp         *prometheus.GaugeVec
	frames          *prometheus.CounterVec
	wsClients       prometheus.Gauge
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lcu_system_running",
			Help: "1 while the unit is running.",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lcu_simulation_time_seconds",
			Help: "Accumulated simulation time.",
		}),
		temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lcu_coolant_temperature_celsius",
			Help: "Coolant temperature by side (supply, return).",
		}, []string{"side"}),
		pressure: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lcu_coolant_pressure_bar",
			Help: "Coolant pressure by side (system, return).",
		}, []string{"side"}),
		flowRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lcu_flow_rate_lpm",
			Help: "Total coolant flow.",
		}),
		tankLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lcu_tank_level_percent",
			Help: "Coolant tank level.",
		}),
		heaterPower: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lcu_heater_power_kw",
			Help: "Heater load.",
		}),
		coolingCapacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lcu_cooling_capacity_kw",
			Help: "Configured cooling capacity.",
		}),
		channelOpen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lcu_channel_open",
			Help: "1 while a cooling channel is open.",
		}, []string{"channel"}),
		channelFlow: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lcu_channel_flow_lpm",
			Help: "Flow through each cooling channel.",
		}, []string{"channel"}),
		equipment: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lcu_equipment_on",
			Help: "1 while a pump, solenoid, compressor or blower is on.",
		}, []string{"kind", "index"}),
		condenserTemp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lcu_condenser_temperature_celsius",
			Help: "Condenser temperature per refrigerant loop.",
		}, []string{"loop"}),
		pheTemp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lcu_phe_temperature_celsius",
			Help: "Plate heat exchanger temperature per refrigerant loop.",
		}, []string{"loop"}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lcu_frames_total",
			Help: "Scene frames published by view.",
		}, []string{"view"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lcu_websocket_clients",
			Help: "Connected websocket clients.",
		}),
	}

	m.registry.MustRegister(
		m.running, m.simTime,
		m.temperature, m.pressure,
		m.flowRate, m.tankLevel, m.heaterPower, m.coolingCapacity,
		m.channelOpen, m.channelFlow, m.equipment,
		m.condenserTemp, m.pheTemp,
		m.frames, m.wsClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Publish copies a snapshot into the gauges.
func (m *Metrics) Publish(r models.Readings) {
	m.running.Set(boolValue(r.Running))
	m.simTime.Set(r.SimTime)
	m.temperature.WithLabelValues("supply").Set(r.SupplyTemp)
	m.temperature.WithLabelValues("return").Set(r.ReturnTemp)
	m.pressure.WithLabelValues("system").Set(r.SystemPressure)
	m.pressure.WithLabelValues("return").Set(r.ReturnPressure)
	m.flowRate.Set(r.FlowRate)
	m.tankLevel.Set(r.TankLevel)
	m.heaterPower.Set(r.HeaterPower)
	m.coolingCapacity.Set(float64(r.CoolingCapacity))

	for i, ch := range r.Channels {
		label := index(i)
		m.channelOpen.WithLabelValues(label).Set(boolValue(ch.Open))
		m.channelFlow.WithLabelValues(label).Set(ch.FlowRate)
	}
	m.setEquipment("pump", r.Pumps)
	m.setEquipment("solenoid", r.Solenoids)
	m.setEquipment("compressor", r.Compressors)
	m.setEquipment("blower", r.Blowers)
	for i, v := range r.CondenserTemps {
		m.condenserTemp.WithLabelValues(index(i)).Set(v)
	}
	for i, v := range r.PHETemps {
		m.pheTemp.WithLabelValues(index(i)).Set(v)
	}
}

func (m *Metrics) setEquipment(kind string, states []bool) {
	for i, on := range states {
		m.equipment.WithLabelValues(kind, index(i)).Set(boolValue(on))
	}
}

// FramePublished counts one frame of the given view ("2d" or "3d").
func (m *Metrics) FramePublished(view string) {
	m.frames.WithLabelValues(view).Inc()
}

// ClientConnected and ClientDisconnected track websocket clients.
func (m *Metrics) ClientConnected()    { m.wsClients.Inc() }
func (m *Metrics) ClientDisconnected() { m.wsClients.Dec() }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// index labels are 1-based to match equipment names.
func index(i int) string { return strconv.Itoa(i + 1) }

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
