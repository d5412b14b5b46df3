// Package readout turns model readings into operator labels and polls the
// model on a fixed cadence for every attached display.
package readout

import (
	"fmt"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
)

func Temperature(c float64) string { return fmt.Sprintf("%.1f °C", c) }
func Pressure(bar float64) string  { return fmt.Sprintf("%.2f Bar", bar) }
func Flow(lpm float64) string      { return fmt.Sprintf("%.1f lpm", lpm) }
func Percent(p float64) string     { return fmt.Sprintf("%.0f %%", p) }
func Power(kw float64) string      { return fmt.Sprintf("%.1f kW", kw) }

// Status is the headline of the control panel.
func Status(running bool) string {
	if running {
		return "System Running"
	}
	return "System Stopped"
}

func ChannelState(open bool) string { return pick(open, "OPEN", "CLOSED") }
func PumpState(on bool) string      { return pick(on, "ON", "OFF") }
func CompressorState(on bool) string {
	return pick(on, "Running", "Idle")
}

func pick(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

// Format builds every label for one snapshot.
func Format(r models.Readings) models.Readouts {
	out := models.Readouts{
		Timestamp:       r.Timestamp,
		Status:          Status(r.Running),
		SupplyTemp:      Temperature(r.SupplyTemp),
		ReturnTemp:      Temperature(r.ReturnTemp),
		SystemPressure:  Pressure(r.SystemPressure),
		ReturnPressure:  Pressure(r.ReturnPressure),
		FlowRate:        Flow(r.FlowRate),
		TankLevel:       Percent(r.TankLevel),
		HeaterPower:     Power(r.HeaterPower),
		CoolingCapacity: fmt.Sprintf("%d kW", r.CoolingCapacity),
		Channels:        make([]string, len(r.Channels)),
		ChannelFlows:    make([]string, len(r.Channels)),
		Pumps:           mapBools(r.Pumps, PumpState),
		Solenoids:       mapBools(r.Solenoids, ChannelState),
		Compressors:     mapBools(r.Compressors, CompressorState),
		Blowers:         mapBools(r.Blowers, PumpState),
		CondenserTemps:  mapFloats(r.CondenserTemps, Temperature),
		PHETemps:        mapFloats(r.PHETemps, Temperature),
	}
	for i, ch := range r.Channels {
		out.Channels[i] = ChannelState(ch.Open)
		out.ChannelFlows[i] = Flow(ch.FlowRate)
	}
	return out
}

func mapBools(v []bool, f func(bool) string) []string {
	out := make([]string, len(v))
	for i, b := range v {
		out[i] = f(b)
	}
	return out
}

func mapFloats(v []float64, f func(float64) string) []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = f(x)
	}
	return out
}
