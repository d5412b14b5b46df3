// Package tui is a terminal dashboard for the simulated unit.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/api"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/app"
)

const (
	// RefreshInterval matches the readout poll period.
	RefreshInterval = 100 * time.Millisecond
	// HistorySize is the number of samples kept for the trend graph.
	HistorySize = 120
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// Unit is what the dashboard reads and drives (*app.App).
type Unit interface {
	State() api.StateResponse
	Execute(cmd app.Command) string
}

// TickMsg refreshes the dashboard.
type TickMsg time.Time

// Model is the bubbletea model of the dashboard.
type Model struct {
	unit   Unit
	title  string
	state  api.StateResponse
	supply []float64
	ret    []float64
	status string
	width  int
}

// NewModel creates a dashboard over unit.
func NewModel(unit Unit, title string) Model {
	return Model{
		unit:   unit,
		title:  title,
		state:  unit.State(),
		supply: make([]float64, 0, HistorySize),
		ret:    make([]float64, 0, HistorySize),
	}
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles keys and refresh ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		cmd := app.KeyCommand(key)
		switch cmd {
		case app.CmdNone:
		case app.CmdQuit:
			return m, tea.Quit
		default:
			m.status = m.unit.Execute(cmd)
			m.state = m.unit.State()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case TickMsg:
		m.refresh()
		return m, tick()
	}
	return m, nil
}

func (m *Model) refresh() {
	m.state = m.unit.State()
	m.supply = pushSample(m.supply, m.state.Readings.SupplyTemp)
	m.ret = pushSample(m.ret, m.state.Readings.ReturnTemp)
}

// pushSample appends v and keeps the newest HistorySize samples.
func pushSample(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > HistorySize {
		s = append(s[:0], s[len(s)-HistorySize:]...)
	}
	return s
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(m.readoutPane()),
		paneStyle.Render(m.equipmentPane()),
		paneStyle.Render(m.viewPane()),
	)
	b.WriteString(panes + "\n")
	b.WriteString(m.graph() + "\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render("> "+m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("s start  x stop  v view  p pause/resume  +/- capacity  r reset trips  q quit"))
	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func (m Model) readoutPane() string {
	r := m.state.Readouts
	var b strings.Builder
	b.WriteString(headerStyle.Render("Coolant") + "\n")
	b.WriteString(row("Status", r.Status))
	b.WriteString(row("Supply", r.SupplyTemp))
	b.WriteString(row("Return", r.ReturnTemp))
	b.WriteString(row("Pressure", r.SystemPressure))
	b.WriteString(row("Return press.", r.ReturnPressure))
	b.WriteString(row("Flow", r.FlowRate))
	b.WriteString(row("Tank level", r.TankLevel))
	b.WriteString(row("Heater", r.HeaterPower))
	b.WriteString(row("Capacity", r.CoolingCapacity))
	return b.String()
}

func (m Model) equipmentPane() string {
	r := m.state.Readings
	ro := m.state.Readouts
	var b strings.Builder
	b.WriteString(headerStyle.Render("Equipment") + "\n")
	b.WriteString(labelStyle.Render("Pumps") + lamps(r.Pumps) + "\n")
	open := make([]bool, len(r.Channels))
	for i, ch := range r.Channels {
		open[i] = ch.Open
	}
	b.WriteString(labelStyle.Render("Channels") + lamps(open) + "\n")
	b.WriteString(labelStyle.Render("Compressors") + lamps(r.Compressors) + "\n")
	b.WriteString(labelStyle.Render("Blowers") + lamps(r.Blowers) + "\n")
	b.WriteString(labelStyle.Render("Solenoids") + lamps(r.Solenoids) + "\n")
	for i := range ro.CondenserTemps {
		pheTemp := ""
		if i < len(ro.PHETemps) {
			pheTemp = ro.PHETemps[i]
		}
		b.WriteString(row(fmt.Sprintf("Loop %d", i+1), fmt.Sprintf("cond %s  phe %s", ro.CondenserTemps[i], pheTemp)))
	}
	return b.String()
}

func (m Model) viewPane() string {
	v := m.state.View
	var b strings.Builder
	b.WriteString(headerStyle.Render("View") + "\n")
	b.WriteString(row("Mode", strings.ToUpper(string(v.Mode))))
	b.WriteString(row("Clock", v.State))
	b.WriteString(row("Frame rate", fmt.Sprintf("%d fps", v.FrameRate)))
	b.WriteString(row("Ticks", fmt.Sprintf("%d", v.Ticks)))
	b.WriteString(row("Sim time", fmt.Sprintf("%.1f s", m.state.Readings.SimTime)))
	return b.String()
}

// lamps renders one indicator per unit, numbered from 1.
func lamps(states []bool) string {
	parts := make([]string, len(states))
	for i, on := range states {
		label := fmt.Sprintf("%d", i+1)
		if on {
			parts[i] = onStyle.Render("●" + label)
		} else {
			parts[i] = offStyle.Render("○" + label)
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) graph() string {
	if len(m.supply) < 2 {
		return graphStyle.Render("collecting temperature trend...")
	}
	width := HistorySize / 2
	if m.width > 20 && m.width-20 < width {
		width = m.width - 20
	}
	chart := asciigraph.PlotMany([][]float64{m.supply, m.ret},
		asciigraph.Height(8),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.Caption("Supply / Return °C"))
	return graphStyle.Render(chart)
}

// Run shows the dashboard until the user quits.
func Run(unit Unit, title string) error {
	p := tea.NewProgram(NewModel(unit, title), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
