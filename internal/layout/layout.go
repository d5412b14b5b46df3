// Package layout loads the 2D scene layout of the unit from YAML.
package layout

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/datamodel"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed default_layout.yaml
var defaultLayout []byte

// ValvesPerChannel is the number of drawn valves on each channel row.
const ValvesPerChannel = 3

// PipesPerRow is the number of pipe segments on each channel or loop row.
const PipesPerRow = 3

// Layout positions every drawable of the 2D scene.
type Layout struct {
	Title  string  `yaml:"title"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	Tank   Position   `yaml:"tank"`
	Heater Position   `yaml:"heater"`
	Pumps  []Position `yaml:"pumps"`

	Channels    ChannelRows `yaml:"channels"`
	Refrigerant LoopRows    `yaml:"refrigerant"`

	PipeWidth        float64       `yaml:"pipe_width"`
	CoolantPipes     []PipeSpec    `yaml:"coolant_pipes"`
	ChannelPipes     []SegmentSpec `yaml:"channel_pipes"`
	RefrigerantPipes []SegmentSpec `yaml:"refrigerant_pipes"`

	Labels []LabelSpec `yaml:"labels"`
}

// Position is a scene coordinate.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Point converts to the model type.
func (p Position) Point() models.Point {
	return models.Point{X: p.X, Y: p.Y}
}

// ChannelRows places the valve rows of the cooling channels.
type ChannelRows struct {
	StartX       float64   `yaml:"start_x"`
	StartY       float64   `yaml:"start_y"`
	Spacing      float64   `yaml:"spacing"`
	ValveType    string    `yaml:"valve_type"`
	ValveOffsets []float64 `yaml:"valve_offsets"`
}

// LoopRows places the refrigerant loop rows.
type LoopRows struct {
	StartX          float64 `yaml:"start_x"`
	StartY          float64 `yaml:"start_y"`
	Spacing         float64 `yaml:"spacing"`
	PHEOffset       float64 `yaml:"phe_offset"`
	SolenoidOffset  float64 `yaml:"solenoid_offset"`
	CondenserOffset float64 `yaml:"condenser_offset"`
	BlowerOffset    float64 `yaml:"blower_offset"`
}

// PipeSpec is a free-form pipe path.
type PipeSpec struct {
	Name  string     `yaml:"name"`
	Color HexColor   `yaml:"color"`
	Width float64    `yaml:"width,omitempty"`
	Path  []Position `yaml:"path"`
}

// SegmentSpec is a horizontal pipe repeated on every row.
type SegmentSpec struct {
	Name  string   `yaml:"name"`
	Color HexColor `yaml:"color"`
	FromX float64  `yaml:"from_x"`
	ToX   float64  `yaml:"to_x"`
}

// LabelSpec is static text.
type LabelSpec struct {
	Text string  `yaml:"text"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Size int     `yaml:"size"`
	Bold bool    `yaml:"bold"`
}

// HexColor reads "#rrggbb" strings.
type HexColor models.Color

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *HexColor) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	col, err := models.ParseHex(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = HexColor(col)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c HexColor) MarshalYAML() (interface{}, error) {
	return models.Color(c).Hex(), nil
}

// ChannelY is the row height of channel i.
func (l *Layout) ChannelY(i int) float64 {
	return l.Channels.StartY + float64(i)*l.Channels.Spacing
}

// LoopY is the row height of refrigerant loop i.
func (l *Layout) LoopY(i int) float64 {
	return l.Refrigerant.StartY + float64(i)*l.Refrigerant.Spacing
}

// Default returns the built-in layout.
func Default() (*Layout, error) {
	return ParseReader(bytes.NewReader(defaultLayout))
}

// Parse reads and validates a layout file.
func Parse(path string) (*Layout, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout: %w", err)
	}
	defer file.Close()

	l, err := ParseReader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// ParseReader decodes and validates a layout. Unknown keys are rejected.
func ParseReader(r io.Reader) (*Layout, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var l Layout
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks that the layout can host the fixed equipment counts.
func (l *Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("invalid layout: scene size must be positive, got %gx%g", l.Width, l.Height)
	}
	if len(l.Pumps) != datamodel.NumPumps {
		return fmt.Errorf("invalid layout: want %d pumps, got %d", datamodel.NumPumps, len(l.Pumps))
	}
	if len(l.Channels.ValveOffsets) != ValvesPerChannel {
		return fmt.Errorf("invalid layout: want %d valve offsets, got %d", ValvesPerChannel, len(l.Channels.ValveOffsets))
	}
	switch l.Channels.ValveType {
	case "", "ball", "gate", "check":
	default:
		return fmt.Errorf("invalid layout: unknown valve type %q", l.Channels.ValveType)
	}
	if l.Channels.Spacing <= 0 || l.Refrigerant.Spacing <= 0 {
		return fmt.Errorf("invalid layout: row spacing must be positive")
	}
	if len(l.ChannelPipes) != PipesPerRow {
		return fmt.Errorf("invalid layout: want %d channel pipes, got %d", PipesPerRow, len(l.ChannelPipes))
	}
	if len(l.RefrigerantPipes) != PipesPerRow {
		return fmt.Errorf("invalid layout: want %d refrigerant pipes, got %d", PipesPerRow, len(l.RefrigerantPipes))
	}
	for _, p := range l.CoolantPipes {
		if len(p.Path) < 2 {
			return fmt.Errorf("invalid layout: pipe %q needs at least 2 points", p.Name)
		}
	}
	return nil
}
