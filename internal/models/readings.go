package models

import "time"

// ChannelReading is the state of one cooling channel.
type ChannelReading struct {
	Open     bool    `json:"open" msgpack:"open"`
	FlowRate float64 `json:"flowRate" msgpack:"flowRate"`
}

// Readings is a consistent copy of every data model attribute taken under
// a single lock acquisition.
type Readings struct {
	Timestamp       time.Time        `json:"timestamp" msgpack:"timestamp"`
	SimTime         float64          `json:"simTime" msgpack:"simTime"`
	Running         bool             `json:"running" msgpack:"running"`
	SupplyTemp      float64          `json:"supplyTemp" msgpack:"supplyTemp"`
	ReturnTemp      float64          `json:"returnTemp" msgpack:"returnTemp"`
	SystemPressure  float64          `json:"systemPressure" msgpack:"systemPressure"`
	ReturnPressure  float64          `json:"returnPressure" msgpack:"returnPressure"`
	FlowRate        float64          `json:"flowRate" msgpack:"flowRate"`
	TankLevel       float64          `json:"tankLevel" msgpack:"tankLevel"`
	HeaterPower     float64          `json:"heaterPower" msgpack:"heaterPower"`
	CoolingCapacity int              `json:"coolingCapacity" msgpack:"coolingCapacity"`
	Channels        []ChannelReading `json:"channels" msgpack:"channels"`
	Pumps           []bool           `json:"pumps" msgpack:"pumps"`
	Solenoids       []bool           `json:"solenoids" msgpack:"solenoids"`
	Compressors     []bool           `json:"compressors" msgpack:"compressors"`
	Blowers         []bool           `json:"blowers" msgpack:"blowers"`
	CondenserTemps  []float64        `json:"condenserTemps" msgpack:"condenserTemps"`
	PHETemps        []float64        `json:"pheTemps" msgpack:"pheTemps"`
}

// Readouts holds the operator-facing labels derived from Readings.
type Readouts struct {
	Timestamp       time.Time `json:"timestamp" msgpack:"timestamp"`
	Status          string    `json:"status" msgpack:"status"`
	SupplyTemp      string    `json:"supplyTemp" msgpack:"supplyTemp"`
	ReturnTemp      string    `json:"returnTemp" msgpack:"returnTemp"`
	SystemPressure  string    `json:"systemPressure" msgpack:"systemPressure"`
	ReturnPressure  string    `json:"returnPressure" msgpack:"returnPressure"`
	FlowRate        string    `json:"flowRate" msgpack:"flowRate"`
	TankLevel       string    `json:"tankLevel" msgpack:"tankLevel"`
	HeaterPower     string    `json:"heaterPower" msgpack:"heaterPower"`
	CoolingCapacity string    `json:"coolingCapacity" msgpack:"coolingCapacity"`
	Channels        []string  `json:"channels" msgpack:"channels"`
	ChannelFlows    []string  `json:"channelFlows" msgpack:"channelFlows"`
	Pumps           []string  `json:"pumps" msgpack:"pumps"`
	Solenoids       []string  `json:"solenoids" msgpack:"solenoids"`
	Compressors     []string  `json:"compressors" msgpack:"compressors"`
	Blowers         []string  `json:"blowers" msgpack:"blowers"`
	CondenserTemps  []string  `json:"condenserTemps" msgpack:"condenserTemps"`
	PHETemps        []string  `json:"pheTemps" msgpack:"pheTemps"`
}

// TrendPoint is one row of the readout history.
type TrendPoint struct {
	Timestamp      time.Time `json:"timestamp" msgpack:"timestamp"`
	SimTime        float64   `json:"simTime" msgpack:"simTime"`
	Running        bool      `json:"running" msgpack:"running"`
	SupplyTemp     float64   `json:"supplyTemp" msgpack:"supplyTemp"`
	ReturnTemp     float64   `json:"returnTemp" msgpack:"returnTemp"`
	SystemPressure float64   `json:"systemPressure" msgpack:"systemPressure"`
	ReturnPressure float64   `json:"returnPressure" msgpack:"returnPressure"`
	FlowRate       float64   `json:"flowRate" msgpack:"flowRate"`
	HeaterPower    float64   `json:"heaterPower" msgpack:"heaterPower"`
}
