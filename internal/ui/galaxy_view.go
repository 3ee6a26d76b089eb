package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-galaxy/internal/render"
	"github.com/litescript/ls-galaxy/internal/scene"
)

const (
	// Orbit step per key press, in radians.
	orbitStep = 0.25

	// Dolly factors per key press.
	dollyIn  = 0.8
	dollyOut = 1.25
)

// GalaxyViewModel renders the scene through an orbiting camera.
type GalaxyViewModel struct {
	width  int
	height int

	scene    *scene.Scene
	renderer *render.Renderer
	camera   *render.Camera
	controls *render.Controls

	// Plain disables truecolor styling.
	Plain bool

	frame   *render.Frame
	content string
	dirty   bool
}

// NewGalaxyViewModel creates a viewport onto sc.
func NewGalaxyViewModel(sc *scene.Scene) GalaxyViewModel {
	r := render.NewRenderer(1, 1)
	cam := render.NewCamera(r.Aspect())
	return GalaxyViewModel{
		scene:    sc,
		renderer: r,
		camera:   cam,
		controls: render.NewControls(cam),
		dirty:    true,
	}
}

// SetSize resizes the viewport and refreshes the camera aspect.
func (m GalaxyViewModel) SetSize(width, height int) GalaxyViewModel {
	m.width = max(width, 1)
	m.height = max(height, 1)
	m.renderer.SetSize(m.width, m.height)
	m.camera.SetAspect(m.renderer.Aspect())
	m.dirty = true
	return m
}

// Invalidate forces a re-render on the next Tick.
func (m GalaxyViewModel) Invalidate() GalaxyViewModel {
	m.dirty = true
	return m
}

// Camera returns the viewport camera.
func (m GalaxyViewModel) Camera() *render.Camera {
	return m.camera
}

// Controls returns the orbit controls.
func (m GalaxyViewModel) Controls() *render.Controls {
	return m.controls
}

// Frame returns the last rendered frame, or nil before the first render.
func (m GalaxyViewModel) Frame() *render.Frame {
	return m.frame
}

// Tick advances camera damping by one frame and re-renders if anything
// changed.
func (m GalaxyViewModel) Tick() GalaxyViewModel {
	moved := m.controls.Update()
	if moved || m.dirty || m.frame == nil {
		m = m.render()
	}
	return m
}

func (m GalaxyViewModel) render() GalaxyViewModel {
	m.frame = m.renderer.Render(m.scene.Objects(), m.camera)
	if m.Plain {
		m.content = m.frame.String()
	} else {
		m.content = m.frame.Styled()
	}
	m.dirty = false
	return m
}

// Update handles camera keys.
func (m GalaxyViewModel) Update(msg tea.Msg) (GalaxyViewModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "a":
		m.controls.Rotate(-orbitStep, 0)
	case "d":
		m.controls.Rotate(orbitStep, 0)
	case "w":
		m.controls.Rotate(0, -orbitStep)
	case "s":
		m.controls.Rotate(0, orbitStep)
	case "+", "=":
		m.controls.Dolly(dollyIn)
	case "-", "_":
		m.controls.Dolly(dollyOut)
	case "r":
		m.controls.Reset()
		m.dirty = true
	case " ", "space":
		m.controls.AutoRotate = !m.controls.AutoRotate
	}
	return m, nil
}

// View renders the viewport.
func (m GalaxyViewModel) View() string {
	if m.content == "" {
		blank := strings.Repeat(" ", m.width)
		lines := make([]string, m.height)
		for i := range lines {
			lines[i] = blank
		}
		return strings.Join(lines, "\n")
	}
	return m.content
}
