package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-galaxy/internal/scene"
)

const (
	// A terminal cell is roughly twice as tall as it is wide; treat it as
	// cellW x cellH virtual pixels.
	cellW = 8
	cellH = 16

	// DefaultExposure maps accumulated light to brightness.
	DefaultExposure = 3.0
)

// glyphRamp orders glyphs from dim to bright.
var glyphRamp = []rune{' ', '·', '∙', ':', '+', '*', '✦', '#', '@'}

// Cell is one rendered terminal cell.
type Cell struct {
	R, G, B float64 // tone-mapped color in [0, 1]
	Hits    int     // points that landed in the cell
	Glyph   rune
}

// Frame is a rendered grid of cells.
type Frame struct {
	Width  int
	Height int
	Cells  []Cell
	Points int // points drawn (inside the view)
}

// At returns the cell at column x, row y.
func (f *Frame) At(x, y int) Cell {
	return f.Cells[y*f.Width+x]
}

// Lit returns the number of non-blank cells.
func (f *Frame) Lit() int {
	n := 0
	for _, c := range f.Cells {
		if c.Glyph != ' ' {
			n++
		}
	}
	return n
}

// Renderer rasterizes point clouds into a Frame.
type Renderer struct {
	width    int
	height   int
	Exposure float64

	// scratch accumulation buffers, reused across frames
	accum []accumCell
}

type accumCell struct {
	r, g, b float64
	depth   float64
	hits    int
}

// NewRenderer returns a renderer for a width x height cell viewport.
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{Exposure: DefaultExposure}
	r.SetSize(width, height)
	return r
}

// SetSize resizes the viewport. Non-positive sizes become 1.
func (r *Renderer) SetSize(width, height int) {
	r.width = max(width, 1)
	r.height = max(height, 1)
	r.accum = make([]accumCell, r.width*r.height)
}

// Size returns the viewport in cells.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Aspect returns the viewport's width/height in virtual pixels, suitable
// for Camera.SetAspect.
func (r *Renderer) Aspect() float64 {
	return float64(r.width*cellW) / float64(r.height*cellH)
}

// Render draws every object through cam.
func (r *Renderer) Render(objects []*scene.Points, cam *Camera) *Frame {
	for i := range r.accum {
		r.accum[i] = accumCell{depth: math.Inf(1)}
	}

	drawn := 0
	for _, obj := range objects {
		drawn += r.drawPoints(obj, cam)
	}

	frame := &Frame{
		Width:  r.width,
		Height: r.height,
		Cells:  make([]Cell, len(r.accum)),
		Points: drawn,
	}
	for i, a := range r.accum {
		frame.Cells[i] = r.toneMap(a)
	}
	return frame
}

func (r *Renderer) drawPoints(obj *scene.Points, cam *Camera) int {
	if obj == nil || obj.Geometry == nil || obj.Material == nil {
		return 0
	}
	pos, ok := obj.Geometry.Attribute(scene.AttrPosition)
	if !ok {
		return 0
	}
	col, hasColor := obj.Geometry.Attribute(scene.AttrColor)
	useColor := obj.Material.VertexColors && hasColor && col.Count() == pos.Count()
	mat := obj.Material

	pixelsH := float64(r.height * cellH)
	cellArea := float64(cellW * cellH)

	drawn := 0
	n := pos.Count()
	for i := 0; i < n; i++ {
		i3 := i * 3
		p := Vec3{X: float64(pos.Data[i3]), Y: float64(pos.Data[i3+1]), Z: float64(pos.Data[i3+2])}
		nx, ny, depth, visible := cam.Project(p)
		if !visible || nx < -1 || nx >= 1 || ny <= -1 || ny > 1 {
			continue
		}
		sx := int((nx + 1) / 2 * float64(r.width))
		sy := int((1 - ny) / 2 * float64(r.height))
		if sx < 0 || sx >= r.width || sy < 0 || sy >= r.height {
			continue
		}

		// Point size in virtual pixels; a point always covers at least one.
		size := mat.Size
		if mat.SizeAttenuation {
			size *= pixelsH / 2 / depth
		}
		coverage := math.Max(1, size*size) / cellArea

		cr, cg, cb := 1.0, 1.0, 1.0
		if useColor {
			cr, cg, cb = float64(col.Data[i3]), float64(col.Data[i3+1]), float64(col.Data[i3+2])
		}

		a := &r.accum[sy*r.width+sx]
		switch {
		case mat.Blending == scene.BlendAdditive:
			a.r += cr * coverage
			a.g += cg * coverage
			a.b += cb * coverage
		case !mat.DepthWrite || depth < a.depth:
			a.r, a.g, a.b = cr, cg, cb
		}
		if mat.DepthWrite && depth < a.depth {
			a.depth = depth
		}
		a.hits++
		drawn++
	}
	return drawn
}

// toneMap compresses accumulated light into [0, 1] and picks a glyph by
// brightness.
func (r *Renderer) toneMap(a accumCell) Cell {
	if a.hits == 0 {
		return Cell{Glyph: ' '}
	}
	expose := func(v float64) float64 {
		return 1 - math.Exp(-r.Exposure*v)
	}
	c := Cell{R: expose(a.r), G: expose(a.g), B: expose(a.b), Hits: a.hits}

	lum := math.Max(c.R, math.Max(c.G, c.B))
	idx := int(math.Ceil(lum * float64(len(glyphRamp)-1)))
	if idx < 1 {
		idx = 1
	}
	if idx >= len(glyphRamp) {
		idx = len(glyphRamp) - 1
	}
	c.Glyph = glyphRamp[idx]
	return c
}

// String renders the frame as plain glyphs, one line per row.
func (f *Frame) String() string {
	var b strings.Builder
	b.Grow(f.Width*f.Height + f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			b.WriteRune(f.At(x, y).Glyph)
		}
		if y < f.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Styled renders the frame with truecolor foregrounds. Cell colors are
// brightened so the dimmest visible cell is still readable.
func (f *Frame) Styled() string {
	var b strings.Builder
	styles := make(map[string]lipgloss.Style)

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y)
			if c.Glyph == ' ' {
				b.WriteByte(' ')
				continue
			}
			hex := cellHex(c)
			style, ok := styles[hex]
			if !ok {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
				styles[hex] = style
			}
			b.WriteString(style.Render(string(c.Glyph)))
		}
		if y < f.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cellHex(c Cell) string {
	peak := math.Max(c.R, math.Max(c.G, c.B))
	if peak <= 0 {
		return "#000000"
	}
	// Glyph density carries brightness; color carries hue.
	scale := (0.45 + 0.55*peak) / peak
	to8 := func(v float64) int {
		return int(math.Round(clamp(v*scale, 0, 1) * 255))
	}
	return fmt.Sprintf("#%02X%02X%02X", to8(c.R), to8(c.G), to8(c.B))
}
