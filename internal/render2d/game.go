package render2d

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/api"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/app"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/views"
	"go.uber.org/zap"
)

// Unit is what the window reads and drives (*app.App).
type Unit interface {
	State() api.StateResponse
	Execute(cmd app.Command) string
}

// FrameSource yields the latest 2D frame (*scene2d.Scene).
type FrameSource interface {
	Frame() models.Frame2D
}

// statusTTL is how long a command result stays on screen.
const statusTTL = 3 * time.Second

var keyBindings = []struct {
	keys []ebiten.Key
	cmd  app.Command
}{
	{[]ebiten.Key{ebiten.KeyS}, app.CmdStart},
	{[]ebiten.Key{ebiten.KeyX}, app.CmdStop},
	{[]ebiten.Key{ebiten.KeyV}, app.CmdToggleView},
	{[]ebiten.Key{ebiten.KeyP}, app.CmdPauseResume},
	{[]ebiten.Key{ebiten.KeyEqual, ebiten.KeyNumpadAdd}, app.CmdCapacityUp},
	{[]ebiten.Key{ebiten.KeyMinus, ebiten.KeyNumpadSubtract}, app.CmdCapacityDown},
	{[]ebiten.Key{ebiten.KeyR}, app.CmdResetTrips},
	{[]ebiten.Key{ebiten.KeyQ, ebiten.KeyEscape}, app.CmdQuit},
}

// Game implements ebiten.Game over a running unit.
type Game struct {
	unit   Unit
	frames FrameSource
	width  int
	height int
	logger *zap.Logger

	status   string
	statusAt time.Time
	now      func() time.Time
}

// NewGame sizes the logical screen to the scene; ebiten scales it to the
// window.
func NewGame(unit Unit, frames FrameSource, width, height int, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		unit:   unit,
		frames: frames,
		width:  width,
		height: height,
		logger: logger.Named("desktop"),
		now:    time.Now,
	}
}

// Update handles keys. It returns ebiten.Termination on quit.
func (g *Game) Update() error {
	for _, b := range keyBindings {
		for _, k := range b.keys {
			if inpututil.IsKeyJustPressed(k) {
				if err := g.handle(b.cmd); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

func (g *Game) handle(cmd app.Command) error {
	if cmd == app.CmdQuit {
		g.logger.Info("quit requested")
		return ebiten.Termination
	}
	if msg := g.unit.Execute(cmd); msg != "" {
		g.status = msg
		g.statusAt = g.now()
		g.logger.Debug("command", zap.String("result", msg))
	}
	return nil
}

// Draw paints the latest frame and the readout panel.
func (g *Game) Draw(screen *ebiten.Image) {
	drawFrame(screen, g.frames.Frame())

	st := g.unit.State()
	ebitenutil.DebugPrintAt(screen, g.panel(st), 8, g.height-120)
	if st.View.Mode == views.Mode3D {
		ebitenutil.DebugPrintAt(screen, "3D view active: the 2D scene is frozen (press v)", 8, 8)
	}
}

func (g *Game) panel(st api.StateResponse) string {
	r := st.Readouts
	lines := []string{
		fmt.Sprintf("%s  view=%s (%s)", r.Status, st.View.Mode, st.View.State),
		fmt.Sprintf("Supply %s  Return %s  Flow %s", r.SupplyTemp, r.ReturnTemp, r.FlowRate),
		fmt.Sprintf("Pressure %s / %s  Tank %s", r.SystemPressure, r.ReturnPressure, r.TankLevel),
		fmt.Sprintf("Heater %s  Capacity %s", r.HeaterPower, r.CoolingCapacity),
		fmt.Sprintf("Channels %s", strings.Join(r.Channels, " ")),
	}
	if g.status != "" && g.now().Sub(g.statusAt) < statusTTL {
		lines = append(lines, "> "+g.status)
	}
	lines = append(lines, "s start  x stop  v view  p pause  +/- capacity  r reset  q quit")
	return strings.Join(lines, "\n")
}

// Layout returns the scene size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
