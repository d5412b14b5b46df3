package history

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = errors.New("no trend points")

// Chart size bounds in points.
const (
	DefaultChartWidth  = 640
	DefaultChartHeight = 360
	MaxChartSize       = 2000
)

var (
	supplyColor = color.RGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0xff}
	returnColor = color.RGBA{R: 0xff, G: 0x45, B: 0x00, A: 0xff}
)

// RenderChart draws supply and return temperature against seconds since the
// first point and returns PNG bytes. Sizes outside (0, MaxChartSize] fall
// back to the defaults.
func RenderChart(points []models.TrendPoint, width, height float64) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}
	if width <= 0 || width > MaxChartSize {
		width = DefaultChartWidth
	}
	if height <= 0 || height > MaxChartSize {
		height = DefaultChartHeight
	}

	p := plot.New()
	p.Title.Text = "Coolant temperature"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "°C"
	p.Add(plotter.NewGrid())

	start := points[0].Timestamp
	supply := make(plotter.XYs, len(points))
	ret := make(plotter.XYs, len(points))
	for i, pt := range points {
		x := pt.Timestamp.Sub(start).Seconds()
		supply[i] = plotter.XY{X: x, Y: pt.SupplyTemp}
		ret[i] = plotter.XY{X: x, Y: pt.ReturnTemp}
	}

	for _, series := range []struct {
		name  string
		xys   plotter.XYs
		color color.Color
	}{
		{"Supply", supply, supplyColor},
		{"Return", ret, returnColor},
	} {
		line, err := plotter.NewLine(series.xys)
		if err != nil {
			return nil, fmt.Errorf("chart %s: %w", series.name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = series.color
		p.Add(line)
		p.Legend.Add(series.name, line)
	}
	p.Legend.Top = true

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Points(width), vg.Points(height)),
		vgimg.UseDPI(96),
	)
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
