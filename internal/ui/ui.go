// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-galaxy/internal/galaxy"
	"github.com/litescript/ls-galaxy/internal/logging"
	"github.com/litescript/ls-galaxy/internal/scene"
	"github.com/litescript/ls-galaxy/internal/state"
	"github.com/litescript/ls-galaxy/internal/version"
)

// FrameInterval is the render loop period (about 30 fps).
const FrameInterval = 33 * time.Millisecond

// Header and footer heights in lines.
const (
	headerLines = 2
	footerLines = 2
)

// Msg types for Bubble Tea
type (
	// FrameTickMsg drives the render loop.
	FrameTickMsg time.Time
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state  *state.Manager
	scene  *scene.Scene
	binder *scene.Binder
	logger *logging.Logger

	// UI state
	width    int
	height   int
	ready    bool
	animTick int // frame counter for the spinner

	// Sub-models
	galaxyView GalaxyViewModel
	panel      ControlPanelModel

	snapshot state.Snapshot
}

// New creates a new root UI model. The galaxy is generated from the state
// manager's working copy when the program starts.
func New(stateMgr *state.Manager, sc *scene.Scene, binder *scene.Binder, logger *logging.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	return Model{
		state:      stateMgr,
		scene:      sc,
		binder:     binder,
		logger:     logger.Named("ui"),
		galaxyView: NewGalaxyViewModel(sc),
		panel:      NewControlPanelModel(stateMgr),
		snapshot:   stateMgr.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	p := m.state.Working()
	return tea.Batch(
		frameTickCmd(),
		func() tea.Msg { return CommitMsg{Params: p} },
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		cmds = append(cmds, cmd)
		m.galaxyView, cmd = m.galaxyView.Update(msg)
		cmds = append(cmds, cmd)
		m.snapshot = m.state.Snapshot()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentHeight := max(msg.Height-headerLines-footerLines, 1)
		viewWidth := max(msg.Width-PanelWidth-1, 1)
		m.galaxyView = m.galaxyView.SetSize(viewWidth, contentHeight)
		m.panel = m.panel.SetSize(PanelWidth, contentHeight)

	case FrameTickMsg:
		cmds = append(cmds, frameTickCmd())
		m.animTick++
		m.galaxyView = m.galaxyView.Tick()

	case CommitMsg:
		m.regenerate(msg.Params)
	}

	return m, tea.Batch(cmds...)
}

// regenerate rebuilds the galaxy and records the outcome. On failure the
// previous galaxy stays attached and the error is shown in the footer.
func (m *Model) regenerate(p galaxy.Parameters) {
	start := time.Now()
	err := m.binder.Regenerate(p)
	elapsed := time.Since(start)

	m.state.RecordRegeneration(p, elapsed, err)
	if err != nil {
		m.logger.Warn("regenerate failed: %v", err)
	} else {
		m.state.SetSummary(summarize(m.binder.Current()))
		m.logger.Info("regenerated %d points in %s", p.Count, elapsed.Round(time.Millisecond))
	}

	m.snapshot = m.state.Snapshot()
	m.panel = m.panel.UpdateData(m.snapshot)
	m.galaxyView = m.galaxyView.Invalidate()
}

// summarize computes shape statistics from the buffers of an attached
// cloud.
func summarize(p *scene.Points) galaxy.Summary {
	if p == nil || p.Geometry == nil {
		return galaxy.Summary{}
	}
	pos, _ := p.Geometry.Attribute(scene.AttrPosition)
	col, _ := p.Geometry.Attribute(scene.AttrColor)
	pc := &galaxy.PointCloud{Positions: pos.Data, Colors: col.Data}
	if pc.Validate() != nil {
		return galaxy.Summary{}
	}
	return galaxy.Summarize(pc)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.galaxyView.View(),
		" ",
		lipgloss.NewStyle().Width(PanelWidth).Render(m.panel.View()),
	)
	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return "\n" + m.renderLogo()
}

func (m Model) renderLogo() string {
	title := "  ✦ L S - G A L A X Y ✦"
	p := m.snapshot.Committed

	var b strings.Builder
	runes := []rune(title)
	for col, r := range runes {
		color := gradientColor(col, len(runes), p.InsideColor, p.OutsideColor)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Procedural spiral galaxy · v%s", version.Version)))
	return b.String()
}

// gradientColor returns a hex color for a position in the title gradient,
// running from the galaxy's inside colour to its outside colour.
func gradientColor(col, width int, from, to galaxy.Color) string {
	if width <= 1 {
		return from.Hex()
	}
	xRatio := float64(col) / float64(width-1)

	// Brighten both ends so dark galaxy colours stay readable.
	c := from.Lerp(to, xRatio)
	white := galaxy.Color{R: 1, G: 1, B: 1}
	return c.Lerp(white, 0.25).Hex()
}

func (m Model) renderFooter() string {
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[(m.animTick/3)%len(spinnerFrames)]

	snap := m.snapshot
	var status string
	if snap.LastError != nil {
		status = errorStyle.Render("ERROR: " + snap.LastError.Error())
	} else if snap.Regenerations > 0 {
		drawn := 0
		if f := m.galaxyView.Frame(); f != nil {
			drawn = f.Points
		}
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" %s points · %s in view · %s · jitter: %s",
			formatCount(snap.Summary.Points),
			formatCount(drawn),
			snap.LastDuration.Round(time.Millisecond),
			galaxy.JitterMode(snap.Committed)))
		status += "  " + RenderSpreadBar(snap.Committed, snap.Summary)
	} else {
		status = accentStyle.Render(spinner) + " " + dimStyle.Render("Generating...")
	}

	help := dimStyle.Render("↑↓: select | ←/→: adjust | enter: apply | esc: revert | x: jitter | p: defaults | wasd: orbit | +/-: zoom | space: spin | r: reset | q: quit")

	return "  " + status + "\n  " + help
}

func frameTickCmd() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return FrameTickMsg(t)
	})
}
