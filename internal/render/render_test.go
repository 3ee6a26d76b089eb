package render

import (
	"math"
	"strings"
	"testing"

	"github.com/litescript/ls-galaxy/internal/galaxy"
	"github.com/litescript/ls-galaxy/internal/scene"
)

func pointsAt(t *testing.T, positions, colors []float32, size float64) *scene.Points {
	t.Helper()
	geo := scene.NewGeometry()
	if err := geo.SetAttribute(scene.AttrPosition, positions, 3); err != nil {
		t.Fatalf("SetAttribute position: %v", err)
	}
	if colors != nil {
		if err := geo.SetAttribute(scene.AttrColor, colors, 3); err != nil {
			t.Fatalf("SetAttribute color: %v", err)
		}
	}
	return &scene.Points{Geometry: geo, Material: scene.NewPointsMaterial(size, colors != nil)}
}

// litCell returns the single lit cell of a frame.
func litCell(t *testing.T, f *Frame) (int, int, Cell) {
	t.Helper()
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if c := f.At(x, y); c.Glyph != ' ' {
				return x, y, c
			}
		}
	}
	t.Fatal("no lit cell")
	return 0, 0, Cell{}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}
	if got := x.Cross(y); got != (Vec3{Z: 1}) {
		t.Errorf("x × y = %+v, want z", got)
	}
	if got := x.Dot(y); got != 0 {
		t.Errorf("x · y = %v, want 0", got)
	}
}

func TestCameraDefaultLooksAtOrigin(t *testing.T) {
	cam := NewCamera(1)

	pos := cam.Position()
	if math.Abs(pos.X-3) > 1e-9 || math.Abs(pos.Y-3) > 1e-9 || math.Abs(pos.Z-3) > 1e-9 {
		t.Errorf("Position() = %+v, want (3,3,3)", pos)
	}

	x, y, depth, ok := cam.Project(Vec3{})
	if !ok {
		t.Fatal("origin not visible")
	}
	if math.Abs(x) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("origin projects to (%v, %v), want centre", x, y)
	}
	if math.Abs(depth-math.Sqrt(27)) > 1e-9 {
		t.Errorf("depth = %v, want %v", depth, math.Sqrt(27))
	}
}

func TestCameraProjectClipsNearFar(t *testing.T) {
	cam := NewCamera(1)
	cam.SetPosition(Vec3{Z: 5})

	if _, _, _, ok := cam.Project(Vec3{Z: 10}); ok {
		t.Error("point behind camera should not be visible")
	}
	if _, _, _, ok := cam.Project(Vec3{Z: -200}); ok {
		t.Error("point beyond far plane should not be visible")
	}
	// Right of the target appears right on screen, above appears up.
	x, y, _, ok := cam.Project(Vec3{X: 1, Y: 1})
	if !ok || x <= 0 || y <= 0 {
		t.Errorf("Project(+x,+y) = (%v, %v, ok=%v), want upper right", x, y, ok)
	}
}

func TestCameraAspect(t *testing.T) {
	cam := NewCamera(1)
	cam.SetPosition(Vec3{Z: 5})

	x1, _, _, _ := cam.Project(Vec3{X: 1})
	cam.SetAspect(2)
	x2, _, _, _ := cam.Project(Vec3{X: 1})
	if math.Abs(x2-x1/2) > 1e-9 {
		t.Errorf("after doubling aspect x = %v, want %v", x2, x1/2)
	}

	cam.SetAspect(0)
	cam.SetAspect(math.NaN())
	if cam.Aspect != 2 {
		t.Errorf("invalid aspect changed camera: %v", cam.Aspect)
	}
}

func TestControlsDampedRotationConverges(t *testing.T) {
	cam := NewCamera(1)
	ctl := NewControls(cam)
	start := cam.Azimuth

	ctl.Rotate(0.5, 0)
	frames := 0
	for ctl.Update() {
		frames++
		if frames > 1000 {
			t.Fatal("damping never settled")
		}
	}

	if frames < 2 {
		t.Errorf("damped rotation finished in %d frames, want several", frames)
	}
	if got := cam.Azimuth - start; math.Abs(got-0.5) > 0.01 {
		t.Errorf("total rotation = %v, want ~0.5", got)
	}
	if !ctl.Settled() {
		t.Error("controls not settled after Update returned false")
	}
}

func TestControlsUndamped(t *testing.T) {
	cam := NewCamera(1)
	ctl := NewControls(cam)
	ctl.EnableDamping = false

	d0 := cam.Distance
	ctl.Dolly(0.5)
	if math.Abs(cam.Distance-d0/2) > 1e-9 {
		t.Errorf("Distance = %v, want %v", cam.Distance, d0/2)
	}

	ctl.Rotate(0, 10)
	if cam.Polar > math.Pi || cam.Polar <= 0 {
		t.Errorf("Polar = %v, want clamped inside (0, π)", cam.Polar)
	}

	ctl.Dolly(1e6)
	if cam.Distance != MaxDistance {
		t.Errorf("Distance = %v, want clamped to %v", cam.Distance, MaxDistance)
	}
	ctl.Dolly(0)
	if cam.Distance != MaxDistance {
		t.Error("Dolly(0) should be ignored")
	}
}

func TestControlsAutoRotateAndReset(t *testing.T) {
	cam := NewCamera(1)
	ctl := NewControls(cam)
	home := cam.Position()

	ctl.AutoRotate = true
	for i := 0; i < 10; i++ {
		if !ctl.Update() {
			t.Fatal("auto-rotate should move the camera every frame")
		}
	}
	if cam.Position() == home {
		t.Error("camera did not move")
	}

	ctl.AutoRotate = false
	ctl.Reset()
	p := cam.Position()
	if p.Sub(home).Norm() > 1e-9 {
		t.Errorf("Position after Reset = %+v, want %+v", p, home)
	}
}

func TestRendererEmptyCloud(t *testing.T) {
	r := NewRenderer(40, 20)
	cam := NewCamera(r.Aspect())

	frame := r.Render([]*scene.Points{pointsAt(t, []float32{}, []float32{}, 0.01)}, cam)
	if frame.Lit() != 0 || frame.Points != 0 {
		t.Errorf("empty cloud lit %d cells, drew %d points", frame.Lit(), frame.Points)
	}
	if strings.TrimSpace(frame.String()) != "" {
		t.Error("empty frame should render blank")
	}
}

func TestRendererOriginLandsInCentre(t *testing.T) {
	r := NewRenderer(40, 20)
	cam := NewCamera(r.Aspect())

	obj := pointsAt(t, []float32{0, 0, 0}, []float32{1, 0, 0}, 0.01)
	frame := r.Render([]*scene.Points{obj}, cam)

	if frame.Points != 1 || frame.Lit() != 1 {
		t.Fatalf("drew %d points, lit %d cells; want 1/1", frame.Points, frame.Lit())
	}
	x, y, c := litCell(t, frame)
	if abs(x-20) > 1 || abs(y-10) > 1 {
		t.Errorf("point landed at (%d, %d), want near (20, 10)", x, y)
	}
	if c.Hits != 1 {
		t.Errorf("Hits = %d, want 1", c.Hits)
	}
	if c.R <= 0 || c.G != 0 || c.B != 0 {
		t.Errorf("centre cell color = (%v,%v,%v), want red", c.R, c.G, c.B)
	}
}

func TestRendererAdditiveBlending(t *testing.T) {
	r := NewRenderer(40, 20)
	cam := NewCamera(r.Aspect())

	_, _, one := litCell(t, r.Render([]*scene.Points{pointsAt(t, []float32{0, 0, 0}, []float32{0, 0, 1}, 0.01)}, cam))

	many := make([]float32, 3*50)
	cols := make([]float32, 3*50)
	for i := 0; i < 50; i++ {
		cols[i*3+2] = 1
	}
	_, _, stacked := litCell(t, r.Render([]*scene.Points{pointsAt(t, many, cols, 0.01)}, cam))

	if stacked.B <= one.B {
		t.Errorf("50 stacked points B = %v, single point B = %v; want brighter", stacked.B, one.B)
	}
	if stacked.B > 1 {
		t.Errorf("tone-mapped channel = %v, want <= 1", stacked.B)
	}
	if stacked.Hits != 50 {
		t.Errorf("Hits = %d, want 50", stacked.Hits)
	}
}

func TestRendererSkipsDisposedGeometry(t *testing.T) {
	r := NewRenderer(20, 10)
	cam := NewCamera(r.Aspect())

	obj := pointsAt(t, []float32{0, 0, 0}, nil, 0.01)
	obj.Geometry.Dispose()
	if frame := r.Render([]*scene.Points{obj, nil}, cam); frame.Points != 0 {
		t.Errorf("drew %d points from disposed geometry", frame.Points)
	}
}

func TestRendererGalaxyFrame(t *testing.T) {
	s := scene.New()
	b := scene.NewBinder(s, galaxy.NewSource(1), nil)
	p := galaxy.DefaultParameters()
	p.Count = 20000
	if err := b.Regenerate(p); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	r := NewRenderer(80, 30)
	cam := NewCamera(r.Aspect())
	frame := r.Render(s.Objects(), cam)

	if frame.Points < p.Count/2 {
		t.Errorf("drew %d of %d points, want most of the galaxy in view", frame.Points, p.Count)
	}
	if frame.Lit() < 100 {
		t.Errorf("lit %d cells, want a visible galaxy", frame.Lit())
	}

	lines := strings.Split(frame.String(), "\n")
	if len(lines) != 30 {
		t.Errorf("String() has %d lines, want 30", len(lines))
	}
	if styled := frame.Styled(); !strings.Contains(styled, "✦") && !strings.Contains(styled, "@") && !strings.Contains(styled, "#") {
		t.Error("styled frame has no bright glyphs")
	}
}

func TestRendererSetSize(t *testing.T) {
	r := NewRenderer(0, -3)
	if w, h := r.Size(); w != 1 || h != 1 {
		t.Errorf("Size() = %d,%d; want 1,1", w, h)
	}
	r.SetSize(100, 25)
	if got, want := r.Aspect(), 100.0*cellW/(25*cellH); got != want {
		t.Errorf("Aspect() = %v, want %v", got, want)
	}
}
