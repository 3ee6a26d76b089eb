package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-galaxy/internal/galaxy"
	"github.com/litescript/ls-galaxy/internal/state"
)

// Styles for the control panel
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	modifiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E84A27"))
)

// PanelWidth is the width of the control panel in cells.
const PanelWidth = 34

// Hue rotation per key press for the colour rows, in degrees.
const (
	hueStep       = 10.0
	hueStepCoarse = 60.0
	coarseFactor  = 10.0
	countFactor   = 1.25
)

// nudges is how far one key press moves each numeric field. Values are
// snapped to the field's step afterwards.
var nudges = map[galaxy.Field]float64{
	galaxy.FieldSize:            0.001,
	galaxy.FieldRadius:          0.1,
	galaxy.FieldBranches:        1,
	galaxy.FieldSpin:            0.01,
	galaxy.FieldRandomness:      0.01,
	galaxy.FieldRandomnessPower: 0.1,
}

// panelRow is one editable row: a numeric field or a colour.
type panelRow int

const (
	rowInside panelRow = panelRow(galaxy.FieldRandomnessPower) + 1 + iota
	rowOutside
	rowCount
)

// CommitMsg asks the root model to regenerate the galaxy from Params.
type CommitMsg struct {
	Params galaxy.Parameters
}

// ControlPanelModel edits the working copy of the galaxy parameters held
// by the state manager.
type ControlPanelModel struct {
	width  int
	height int
	cursor panelRow

	state    *state.Manager
	snapshot state.Snapshot
}

// NewControlPanelModel creates a control panel editing mgr's working copy.
func NewControlPanelModel(mgr *state.Manager) ControlPanelModel {
	return ControlPanelModel{
		state:    mgr,
		snapshot: mgr.Snapshot(),
	}
}

// SetSize updates the panel size.
func (m ControlPanelModel) SetSize(width, height int) ControlPanelModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData refreshes the panel from a state snapshot.
func (m ControlPanelModel) UpdateData(snapshot state.Snapshot) ControlPanelModel {
	m.snapshot = snapshot
	return m
}

// Cursor returns the selected row index.
func (m ControlPanelModel) Cursor() int {
	return int(m.cursor)
}

// Update handles panel keys.
func (m ControlPanelModel) Update(msg tea.Msg) (ControlPanelModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	var cmd tea.Cmd
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < rowCount-1 {
			m.cursor++
		}
	case "left":
		m.adjust(-1, false)
	case "right":
		m.adjust(1, false)
	case "shift+left":
		m.adjust(-1, true)
	case "shift+right":
		m.adjust(1, true)
	case "x":
		m.state.Edit(func(p galaxy.Parameters) galaxy.Parameters {
			p.ScaleJitter = !p.ScaleJitter
			return p
		})
	case "p":
		m.state.SetWorking(galaxy.DefaultParameters())
	case "esc":
		m.state.Revert()
	case "enter":
		p := m.state.Working()
		cmd = func() tea.Msg {
			return CommitMsg{Params: p}
		}
	default:
		return m, nil
	}

	m.snapshot = m.state.Snapshot()
	return m, cmd
}

// adjust moves the selected row one step in dir.
func (m ControlPanelModel) adjust(dir float64, coarse bool) {
	row := m.cursor
	m.state.Edit(func(p galaxy.Parameters) galaxy.Parameters {
		switch row {
		case rowInside, rowOutside:
			deg := hueStep
			if coarse {
				deg = hueStepCoarse
			}
			if row == rowInside {
				p.InsideColor = p.InsideColor.RotateHue(dir * deg)
			} else {
				p.OutsideColor = p.OutsideColor.RotateHue(dir * deg)
			}
			return p
		}

		f := galaxy.Fields[row]
		v := p.Get(f)
		if f == galaxy.FieldCount {
			factor := countFactor
			if coarse {
				factor = 2
			}
			next := v * math.Pow(factor, dir)
			// Always move by at least one point.
			if math.Abs(next-v) < 1 {
				next = v + dir
			}
			return p.With(f, next)
		}

		step := nudges[f]
		if coarse {
			step *= coarseFactor
		}
		return p.With(f, v+dir*step)
	})
}

// View renders the panel.
func (m ControlPanelModel) View() string {
	var b strings.Builder
	working := m.snapshot.Working
	committed := m.snapshot.Committed

	b.WriteString(titleStyle.Render("Galaxy"))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-14s %13s", "PARAMETER", "VALUE")))
	b.WriteString("\n")

	for i := panelRow(0); i < rowCount; i++ {
		label, value, changed := m.row(i, working, committed)
		marker := " "
		if changed {
			marker = "*"
		}
		line := fmt.Sprintf("%-15s%13s %s", label, value, marker)

		style := rowStyle
		if changed {
			style = modifiedStyle
		}
		if i == m.cursor {
			style = selectedRowStyle
		}

		swatch := ""
		switch i {
		case rowInside:
			swatch = colorSwatch(working.InsideColor)
		case rowOutside:
			swatch = colorSwatch(working.OutsideColor)
		}
		b.WriteString(style.Render(line) + swatch)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("jitter: " + galaxy.JitterMode(working)))
	b.WriteString("\n")
	if m.snapshot.Dirty {
		b.WriteString(modifiedStyle.Render("modified · enter to apply"))
	} else {
		b.WriteString(dimStyle.Render("up to date"))
	}
	b.WriteString("\n\n")

	b.WriteString(RenderEventLog(m.snapshot.Events, 4))

	return b.String()
}

// row returns the label and formatted working value of a row, and whether
// it differs from the committed value.
func (m ControlPanelModel) row(i panelRow, working, committed galaxy.Parameters) (string, string, bool) {
	switch i {
	case rowInside:
		return "insideColor", working.InsideColor.Hex(), working.InsideColor.Hex() != committed.InsideColor.Hex()
	case rowOutside:
		return "outsideColor", working.OutsideColor.Hex(), working.OutsideColor.Hex() != committed.OutsideColor.Hex()
	}
	f := galaxy.Fields[i]
	return f.String(), formatField(f, working.Get(f)), working.Get(f) != committed.Get(f)
}

func formatField(f galaxy.Field, v float64) string {
	switch f {
	case galaxy.FieldCount:
		return formatCount(int(v))
	case galaxy.FieldBranches:
		return fmt.Sprintf("%d", int(v))
	case galaxy.FieldRadius:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	if n < 0 {
		return "-" + formatCount(-n)
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

func colorSwatch(c galaxy.Color) string {
	return " " + lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("■")
}
