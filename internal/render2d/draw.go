// Package render2d paints 2D scene frames into an ebiten window.
package render2d

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
)

var (
	background = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	tankShell  = color.RGBA{0xd8, 0xdd, 0xe3, 0xff}
	bladeColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	dashColor  = color.NRGBA{0xff, 0xff, 0xff, 0x99}
	handleDark = color.RGBA{0x22, 0x22, 0x22, 0xff}
)

// Flow dash pattern along flowing pipes.
const (
	dashLength = 10.0
	dashGap    = 10.0
)

func toRGBA(c models.Color) color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 0xff}
}

func withAlpha(c models.Color, a float64) color.NRGBA {
	return color.NRGBA{c.R, c.G, c.B, uint8(math.Round(clamp01(a) * 255))}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// polar returns the point at radius r and angle deg (clockwise, screen
// coordinates) from c.
func polar(c models.Point, r, deg float64) models.Point {
	rad := deg * math.Pi / 180
	return models.Point{X: c.X + r*math.Cos(rad), Y: c.Y + r*math.Sin(rad)}
}

// segment is a straight piece of a polyline.
type segment struct {
	From, To models.Point
}

// dashes cuts path into dashes of length dash separated by gap, shifted
// forward along the path by offset.
func dashes(path []models.Point, dash, gap, offset float64) []segment {
	period := dash + gap
	if len(path) < 2 || dash <= 0 || period <= 0 {
		return nil
	}

	cum := make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		cum[i] = cum[i-1] + math.Hypot(path[i].X-path[i-1].X, path[i].Y-path[i-1].Y)
	}
	total := cum[len(cum)-1]

	at := func(i int, d float64) models.Point {
		a, b := path[i-1], path[i]
		t := (d - cum[i-1]) / (cum[i] - cum[i-1])
		return models.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
	}

	// First dash starts in (-period, 0].
	start := math.Mod(offset, period)
	if start > 0 {
		start -= period
	}

	var out []segment
	for s := start; s < total; s += period {
		from, to := math.Max(s, 0), math.Min(s+dash, total)
		for i := 1; i < len(path); i++ {
			lo, hi := math.Max(from, cum[i-1]), math.Min(to, cum[i])
			if hi > lo {
				out = append(out, segment{From: at(i, lo), To: at(i, hi)})
			}
		}
	}
	return out
}

// fillHeight is the liquid height of a tank of the given height at level
// percent.
func fillHeight(height, level float64) float64 {
	return height * clamp01(level/100)
}

func drawFrame(screen *ebiten.Image, f models.Frame2D) {
	screen.Fill(background)
	for _, v := range f.Components {
		if v.Kind == models.KindPipe {
			drawPipe(screen, v)
		}
	}
	for _, v := range f.Components {
		if v.Kind != models.KindPipe {
			drawComponent(screen, v)
		}
	}
	for _, l := range f.Labels {
		ebitenutil.DebugPrintAt(screen, l.Text, int(l.Position.X), int(l.Position.Y)-12)
	}
}

func drawPipe(screen *ebiten.Image, v models.Visual2D) {
	col := toRGBA(v.Color)
	w := float32(v.Width)
	for i := 1; i < len(v.Path); i++ {
		a, b := v.Path[i-1], v.Path[i]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), w, col, true)
	}
	// Round the joints.
	for _, p := range v.Path {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), w/2, col, true)
	}
	if !v.Flowing {
		return
	}
	dw := float32(math.Max(2, v.Width/3))
	for _, s := range dashes(v.Path, dashLength, dashGap, v.FlowOffset) {
		vector.StrokeLine(screen, float32(s.From.X), float32(s.From.Y), float32(s.To.X), float32(s.To.Y), dw, dashColor, true)
	}
}

func drawComponent(screen *ebiten.Image, v models.Visual2D) {
	p, b := v.Position, v.Bounds
	switch v.Kind {
	case models.KindPump:
		drawRotor(screen, v, 3, 25)
	case models.KindBlower:
		drawRotor(screen, v, 4, 22)
	case models.KindTank:
		drawBox(screen, v, tankShell)
		h := fillHeight(b.Height, v.Level)
		vector.DrawFilledRect(screen, float32(p.X+b.X), float32(p.Y+b.Y+b.Height-h), float32(b.Width), float32(h), withAlpha(v.Color, 0.85), true)
	case models.KindHeater:
		drawBox(screen, v, toRGBA(v.Color))
		if v.Glow > 0 {
			glow := withAlpha(models.Color{R: 255, G: 120}, 0.5*v.Glow)
			vector.DrawFilledRect(screen, float32(p.X+b.X-4), float32(p.Y+b.Y-4), float32(b.Width+8), float32(b.Height+8), glow, true)
		}
	case models.KindValve:
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), 10, toRGBA(v.Color), true)
		from, to := polar(p, 8, v.Indicator+180), polar(p, 8, v.Indicator)
		if v.ValveType == "gate" {
			from = models.Point{X: p.X - 8, Y: p.Y + v.Indicator}
			to = models.Point{X: p.X + 8, Y: p.Y + v.Indicator}
		}
		vector.StrokeLine(screen, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), 3, handleDark, true)
		vector.StrokeCircle(screen, float32(p.X), float32(p.Y), 10, 2, toRGBA(v.Accent), true)
	case models.KindSolenoidValve:
		drawBox(screen, v, toRGBA(v.Color))
		if v.Active {
			vector.DrawFilledRect(screen, float32(p.X-6), float32(p.Y+b.Y-10), 12, 8, withAlpha(models.Color{R: 255, G: 200}, v.Intensity), true)
		}
	default:
		drawBox(screen, v, toRGBA(v.Color))
	}
}

func drawBox(screen *ebiten.Image, v models.Visual2D, fill color.Color) {
	p, b := v.Position, v.Bounds
	vector.DrawFilledRect(screen, float32(p.X+b.X), float32(p.Y+b.Y), float32(b.Width), float32(b.Height), fill, true)
	vector.StrokeRect(screen, float32(p.X+b.X), float32(p.Y+b.Y), float32(b.Width), float32(b.Height), 2, toRGBA(v.Accent), true)
}

func drawRotor(screen *ebiten.Image, v models.Visual2D, blades int, r float64) {
	p := v.Position
	vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(r), toRGBA(v.Color), true)
	vector.StrokeCircle(screen, float32(p.X), float32(p.Y), float32(r), 2, toRGBA(v.Accent), true)
	for i := 0; i < blades; i++ {
		tip := polar(p, r*0.8, v.Rotation+float64(i)*360/float64(blades))
		vector.StrokeLine(screen, float32(p.X), float32(p.Y), float32(tip.X), float32(tip.Y), 2, bladeColor, true)
	}
}
