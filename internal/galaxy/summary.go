package galaxy

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the shape and color of a point cloud.
type Summary struct {
	Points int

	Min [3]float64
	Max [3]float64

	// Planar radius is the distance from the spin axis (x/z plane).
	MeanRadius   float64
	MedianRadius float64

	// Thickness is the absolute vertical offset.
	MeanThickness   float64
	MedianThickness float64

	MeanColor Color
}

// Summarize computes a Summary. An empty cloud yields a zero Summary.
func Summarize(pc *PointCloud) Summary {
	n := pc.Len()
	if n == 0 {
		return Summary{}
	}

	axes := [3][]float64{make([]float64, n), make([]float64, n), make([]float64, n)}
	chans := [3][]float64{make([]float64, n), make([]float64, n), make([]float64, n)}
	radii := make([]float64, n)
	thick := make([]float64, n)

	for i := 0; i < n; i++ {
		x, y, z, c := pc.Point(i)
		axes[0][i], axes[1][i], axes[2][i] = float64(x), float64(y), float64(z)
		for k := 0; k < 3; k++ {
			chans[k][i] = float64(c[k])
		}
		radii[i] = math.Hypot(float64(x), float64(z))
		thick[i] = math.Abs(float64(y))
	}

	s := Summary{Points: n}
	for k := 0; k < 3; k++ {
		s.Min[k] = floats.Min(axes[k])
		s.Max[k] = floats.Max(axes[k])
	}
	s.MeanRadius = stat.Mean(radii, nil)
	s.MedianRadius = Median(radii)
	s.MeanThickness = stat.Mean(thick, nil)
	s.MedianThickness = Median(thick)
	s.MeanColor = Color{
		R: stat.Mean(chans[0], nil),
		G: stat.Mean(chans[1], nil),
		B: stat.Mean(chans[2], nil),
	}
	return s
}

// Median returns the empirical median of xs. xs is sorted in place.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sort.Float64s(xs)
	return stat.Quantile(0.5, stat.Empirical, xs, nil)
}

// WriteSummary prints a parameter and shape table.
func WriteSummary(w io.Writer, p Parameters, s Summary) {
	fmt.Fprintln(w, "Galaxy Summary")
	fmt.Fprintln(w, strings.Repeat("─", 48))

	row := func(label, format string, args ...interface{}) {
		fmt.Fprintf(w, "%-22s %s\n", label, fmt.Sprintf(format, args...))
	}
	row("Points", "%d", s.Points)
	row("Branches", "%d", p.Branches)
	row("Spin", "%.3f", p.Spin)
	row("Radius", "%.2f", p.Radius)
	row("Randomness", "%.3f (power %.3f, %s)", p.Randomness, p.RandomnessPower, JitterMode(p))
	row("Colors", "%s → %s", p.InsideColor.Hex(), p.OutsideColor.Hex())

	if s.Points == 0 {
		fmt.Fprintln(w, "No points")
		return
	}

	fmt.Fprintln(w, strings.Repeat("─", 48))
	row("Bounds X", "[%.3f, %.3f]", s.Min[0], s.Max[0])
	row("Bounds Y", "[%.3f, %.3f]", s.Min[1], s.Max[1])
	row("Bounds Z", "[%.3f, %.3f]", s.Min[2], s.Max[2])
	row("Radius mean/median", "%.3f / %.3f", s.MeanRadius, s.MedianRadius)
	row("Thickness mean/median", "%.3f / %.3f", s.MeanThickness, s.MedianThickness)
	row("Mean color", "%s", s.MeanColor.Hex())
}

// JitterMode names how Randomness enters the jitter term.
func JitterMode(p Parameters) string {
	if p.ScaleJitter {
		return "scaled"
	}
	return "unscaled"
}
