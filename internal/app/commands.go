package app

import (
	"fmt"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/clock"
)

// Command is an operator action shared by the keyboard shells.
type Command int

const (
	CmdNone Command = iota
	CmdStart
	CmdStop
	CmdToggleView
	CmdPauseResume
	CmdCapacityUp
	CmdCapacityDown
	CmdResetTrips
	CmdQuit
)

// CapacityStep is the kW change of one capacity key press.
const CapacityStep = 5

var keyCommands = map[string]Command{
	"s": CmdStart,
	"x": CmdStop,
	"v": CmdToggleView,
	"p": CmdPauseResume,
	"+": CmdCapacityUp,
	"=": CmdCapacityUp,
	"-": CmdCapacityDown,
	"r": CmdResetTrips,
	"q": CmdQuit,
}

// KeyCommand maps a key name to its command.
func KeyCommand(key string) Command {
	return keyCommands[key]
}

// Execute performs cmd and returns a status line for the shell. CmdQuit
// and CmdNone do nothing here.
func (a *App) Execute(cmd Command) string {
	switch cmd {
	case CmdStart:
		a.Views.Start()
		return "system started"
	case CmdStop:
		a.Views.Stop()
		return "system stopped"
	case CmdToggleView:
		return fmt.Sprintf("view %s", a.Views.Toggle())
	case CmdPauseResume:
		c := a.Views.Clock(a.Views.Mode())
		switch c.State() {
		case clock.Running:
			a.Views.Pause()
			return "paused"
		case clock.Paused:
			a.Views.Resume()
			return "resumed"
		}
		return "not running"
	case CmdCapacityUp, CmdCapacityDown:
		step := CapacityStep
		if cmd == CmdCapacityDown {
			step = -step
		}
		a.Model.SetCoolingCapacity(a.Model.CoolingCapacity() + step)
		return fmt.Sprintf("capacity %d kW", a.Model.CoolingCapacity())
	case CmdResetTrips:
		a.Model.ResetAllTrips()
		return "trips reset"
	}
	return ""
}
