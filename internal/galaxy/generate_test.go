package galaxy

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
)

// fixedSource returns the same draw every time.
type fixedSource float64

func (s fixedSource) Float64() float64 { return float64(s) }

// seqSource replays draws in order, wrapping around.
type seqSource struct {
	draws []float64
	n     int
}

func (s *seqSource) Float64() float64 {
	v := s.draws[s.n%len(s.draws)]
	s.n++
	return v
}

func TestGenerate_SinglePointScenario(t *testing.T) {
	p := Parameters{
		Count:           1,
		Radius:          5,
		Branches:        1,
		Spin:            0,
		Randomness:      0,
		RandomnessPower: 1,
		InsideColor:     MustParseHex("#ff0000"),
		OutsideColor:    MustParseHex("#0000ff"),
	}

	pc, err := Generate(p, fixedSource(0.5))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantPos := []float32{3.0, 0.5, 0.5}
	wantCol := []float32{0.5, 0, 0.5}
	for i := range wantPos {
		if math.Abs(float64(pc.Positions[i]-wantPos[i])) > 1e-6 {
			t.Errorf("position[%d] = %v, want %v", i, pc.Positions[i], wantPos[i])
		}
		if math.Abs(float64(pc.Colors[i]-wantCol[i])) > 1e-6 {
			t.Errorf("color[%d] = %v, want %v", i, pc.Colors[i], wantCol[i])
		}
	}
}

func TestGenerate_DrawOrderAndNegativeSign(t *testing.T) {
	p := Parameters{
		Count:           1,
		Radius:          2,
		Branches:        1,
		RandomnessPower: 1,
	}
	// radius, then (magnitude, sign) for x, y, z
	src := &seqSource{draws: []float64{0.5, 0.25, 0.1, 0.5, 0.9, 0.75, 0.2}}

	pc, err := Generate(p, src)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if src.n != 7 {
		t.Errorf("draws = %d, want 7", src.n)
	}

	want := []float32{1 - 0.25, 0.5, -0.75}
	for i, w := range want {
		if math.Abs(float64(pc.Positions[i]-w)) > 1e-6 {
			t.Errorf("position[%d] = %v, want %v", i, pc.Positions[i], w)
		}
	}
}

func TestGenerate_BufferLengths(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"empty", 0},
		{"one", 1},
		{"hundred", 100},
		{"many", 12345},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			p.Count = tt.count
			pc, err := Generate(p, NewSource(1))
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(pc.Positions) != tt.count*3 {
				t.Errorf("len(Positions) = %d, want %d", len(pc.Positions), tt.count*3)
			}
			if len(pc.Colors) != tt.count*3 {
				t.Errorf("len(Colors) = %d, want %d", len(pc.Colors), tt.count*3)
			}
			if pc.Len() != tt.count {
				t.Errorf("Len() = %d, want %d", pc.Len(), tt.count)
			}
			if err := pc.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestGenerate_EmptyBuffersNotNil(t *testing.T) {
	p := DefaultParameters()
	p.Count = 0
	pc, err := Generate(p, NewSource(1))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if pc.Positions == nil || pc.Colors == nil {
		t.Error("expected non-nil empty buffers")
	}
}

func TestGenerate_ColorsAreConvexCombination(t *testing.T) {
	p := DefaultParameters()
	p.Count = 5000
	p.InsideColor = MustParseHex("#ff6030")
	p.OutsideColor = MustParseHex("#1b3984")

	pc, err := Generate(p, NewSource(42))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	in := [3]float64{p.InsideColor.R, p.InsideColor.G, p.InsideColor.B}
	out := [3]float64{p.OutsideColor.R, p.OutsideColor.G, p.OutsideColor.B}
	const eps = 1e-6

	for i := 0; i < pc.Len(); i++ {
		_, _, _, c := pc.Point(i)
		for k := 0; k < 3; k++ {
			lo := math.Min(in[k], out[k]) - eps
			hi := math.Max(in[k], out[k]) + eps
			v := float64(c[k])
			if v < lo || v > hi {
				t.Fatalf("point %d channel %d = %v, outside [%v, %v]", i, k, v, lo, hi)
			}
		}
	}
}

func TestGenerate_ZeroRadius(t *testing.T) {
	p := DefaultParameters()
	p.Count = 200
	p.Radius = 0
	p.RandomnessPower = 1

	pc, err := Generate(p, NewSource(7))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for i := 0; i < pc.Len(); i++ {
		x, y, z, c := pc.Point(i)
		for k, ch := range []float64{p.InsideColor.R, p.InsideColor.G, p.InsideColor.B} {
			if math.Abs(float64(c[k])-ch) > 1e-6 {
				t.Fatalf("point %d color = %v, want inside color", i, c)
			}
		}
		// Only jitter remains: every axis within [-1, 1].
		for _, v := range []float32{x, y, z} {
			if v < -1 || v > 1 {
				t.Fatalf("point %d = (%v, %v, %v), want within unit jitter", i, x, y, z)
			}
		}
	}
}

func TestGenerate_ArmMembershipCyclesWithIndex(t *testing.T) {
	p := Parameters{
		Count:           8,
		Radius:          4,
		Branches:        4,
		RandomnessPower: 1,
	}
	// Radius draw 0.5 (r=2), jitter magnitude 0 on every axis.
	src := &seqSource{draws: []float64{0.5, 0, 0.9, 0, 0.9, 0, 0.9}}

	pc, err := Generate(p, src)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for i := 0; i < pc.Len(); i++ {
		x, _, z, _ := pc.Point(i)
		angle := float64(i%4) / 4 * 2 * math.Pi
		wantX, wantZ := 2*math.Cos(angle), 2*math.Sin(angle)
		if math.Abs(float64(x)-wantX) > 1e-5 || math.Abs(float64(z)-wantZ) > 1e-5 {
			t.Errorf("point %d = (%v, %v), want (%v, %v)", i, x, z, wantX, wantZ)
		}
	}
}

func TestGenerate_SpinTwistsWithRadius(t *testing.T) {
	p := Parameters{
		Count:           1,
		Radius:          2,
		Branches:        1,
		Spin:            math.Pi / 2,
		RandomnessPower: 1,
	}
	// r = 1, so the twist is a quarter turn.
	src := &seqSource{draws: []float64{0.5, 0, 0.9, 0, 0.9, 0, 0.9}}

	pc, err := Generate(p, src)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	x, _, z, _ := pc.Point(0)
	if math.Abs(float64(x)) > 1e-6 || math.Abs(float64(z)-1) > 1e-6 {
		t.Errorf("point = (%v, %v), want (0, 1)", x, z)
	}
}

func TestGenerate_ScaleJitter(t *testing.T) {
	p := Parameters{
		Count:           1,
		Radius:          5,
		Branches:        1,
		Randomness:      0.2,
		RandomnessPower: 1,
	}

	unscaled, err := Generate(p, fixedSource(0.5))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := unscaled.Positions[1]; math.Abs(float64(got)-0.5) > 1e-6 {
		t.Errorf("unscaled y = %v, want 0.5", got)
	}

	p.ScaleJitter = true
	scaled, err := Generate(p, fixedSource(0.5))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := scaled.Positions[1]; math.Abs(float64(got)-0.1) > 1e-6 {
		t.Errorf("scaled y = %v, want 0.1", got)
	}
}

func TestGenerate_MinimalPresetIsSingleArm(t *testing.T) {
	p := MinimalParameters()
	p.Count = 500

	pc, err := Generate(p, NewSource(3))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := 0; i < pc.Len(); i++ {
		_, _, _, c := pc.Point(i)
		if c != [3]float32{1, 1, 1} {
			t.Fatalf("point %d color = %v, want white", i, c)
		}
	}
}

func TestGenerate_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Parameters)
		want   error
	}{
		{"negative count", func(p *Parameters) { p.Count = -1 }, ErrInvalidCount},
		{"count above max", func(p *Parameters) { p.Count = MaxCount + 1 }, ErrInvalidCount},
		{"count overflows buffer length", func(p *Parameters) { p.Count = math.MaxInt/3 + 1 }, ErrInvalidCount},
		{"zero branches", func(p *Parameters) { p.Branches = 0 }, ErrInvalidBranches},
		{"negative branches", func(p *Parameters) { p.Branches = -3 }, ErrInvalidBranches},
		{"negative radius", func(p *Parameters) { p.Radius = -1 }, ErrInvalidRadius},
		{"nan radius", func(p *Parameters) { p.Radius = math.NaN() }, ErrInvalidRadius},
		{"negative power", func(p *Parameters) { p.RandomnessPower = -0.5 }, ErrInvalidPower},
		{"negative size", func(p *Parameters) { p.Size = -0.1 }, ErrInvalidSize},
		{"negative randomness", func(p *Parameters) { p.Randomness = -1 }, ErrInvalidJitter},
		{"nan spin", func(p *Parameters) { p.Spin = math.NaN() }, ErrInvalidSpin},
		{"infinite spin", func(p *Parameters) { p.Spin = math.Inf(-1) }, ErrInvalidSpin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			pc, err := Generate(p, NewSource(1))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if pc != nil {
				t.Error("expected nil point cloud on error")
			}
		})
	}
}

func TestJitter_PowerZeroIsUnitMagnitude(t *testing.T) {
	src := NewSource(11)
	const n = 20000

	var positive int
	for i := 0; i < n; i++ {
		v := Jitter(src, 0)
		if math.Abs(v) != 1 {
			t.Fatalf("Jitter(power=0) = %v, want ±1", v)
		}
		if v > 0 {
			positive++
		}
	}

	frac := float64(positive) / n
	if frac < 0.47 || frac > 0.53 {
		t.Errorf("positive fraction = %.3f, want ~0.5", frac)
	}
}

func TestJitter_PowerOneIsUniform(t *testing.T) {
	src := NewSource(12)
	const n = 50000

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = Jitter(src, 1)
	}

	// Uniform on [-1, 1]: mean 0, variance 1/3.
	if mean := stat.Mean(xs, nil); math.Abs(mean) > 0.02 {
		t.Errorf("mean = %.4f, want ~0", mean)
	}
	if v := stat.Variance(xs, nil); math.Abs(v-1.0/3) > 0.02 {
		t.Errorf("variance = %.4f, want ~0.333", v)
	}
	if q := Median(xs); math.Abs(q) > 0.03 {
		t.Errorf("median = %.4f, want ~0", q)
	}
}

func TestJitter_HigherPowerConcentrates(t *testing.T) {
	const n = 20000

	medianAbs := func(power float64) float64 {
		src := NewSource(13)
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = math.Abs(Jitter(src, power))
		}
		return Median(xs)
	}

	m1 := medianAbs(1)
	m8 := medianAbs(8)
	if m8 >= m1/10 {
		t.Errorf("median |jitter|: power 8 = %.4f, power 1 = %.4f; want markedly smaller", m8, m1)
	}
	if math.Abs(m1-0.5) > 0.03 {
		t.Errorf("median |jitter| at power 1 = %.4f, want ~0.5", m1)
	}
}

func TestPointCloudValidate(t *testing.T) {
	tests := []struct {
		name    string
		pc      *PointCloud
		wantErr bool
	}{
		{"nil", nil, true},
		{"empty", &PointCloud{Positions: []float32{}, Colors: []float32{}}, false},
		{"ok", &PointCloud{Positions: make([]float32, 6), Colors: make([]float32, 6)}, false},
		{"ragged positions", &PointCloud{Positions: make([]float32, 5), Colors: make([]float32, 5)}, true},
		{"short colors", &PointCloud{Positions: make([]float32, 6), Colors: make([]float32, 3)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrBufferMismatch) {
				t.Errorf("err = %v, want ErrBufferMismatch", err)
			}
		})
	}
}
