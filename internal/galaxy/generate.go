package galaxy

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// ErrBufferMismatch is returned when a point cloud's buffers do not hold
// exactly three components per point.
var ErrBufferMismatch = errors.New("galaxy: position/color buffer length mismatch")

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded source. A zero seed uses the current time.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// PointCloud holds interleaved per-point positions (x,y,z) and colors (r,g,b).
// A PointCloud is never modified after Generate returns it.
type PointCloud struct {
	Positions []float32
	Colors    []float32
}

// Len returns the number of points.
func (pc *PointCloud) Len() int {
	if pc == nil {
		return 0
	}
	return len(pc.Positions) / 3
}

// Validate checks that both buffers hold three components per point.
func (pc *PointCloud) Validate() error {
	if pc == nil {
		return fmt.Errorf("%w: nil point cloud", ErrBufferMismatch)
	}
	if len(pc.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position components", ErrBufferMismatch, len(pc.Positions))
	}
	if len(pc.Colors) != len(pc.Positions) {
		return fmt.Errorf("%w: %d positions, %d colors", ErrBufferMismatch, len(pc.Positions), len(pc.Colors))
	}
	return nil
}

// Point returns the position and color of point i.
func (pc *PointCloud) Point(i int) (x, y, z float32, c [3]float32) {
	i3 := i * 3
	c = [3]float32{pc.Colors[i3], pc.Colors[i3+1], pc.Colors[i3+2]}
	return pc.Positions[i3], pc.Positions[i3+1], pc.Positions[i3+2], c
}

// Jitter draws one axis offset: a uniform sample raised to power, with a
// random sign. Two draws are taken from src, magnitude first.
//
// Raising to a power >= 1 concentrates offsets near zero; power 0 gives a
// uniform +/-1.
func Jitter(src Source, power float64) float64 {
	mag := math.Pow(src.Float64(), power)
	if src.Float64() < 0.5 {
		return -mag
	}
	return mag
}

// Generate computes a spiral galaxy point cloud.
//
// Each point gets a uniform radius in [0, Radius), an arm chosen by index
// (i mod Branches), a twist of Spin radians per unit radius, and power-law
// jitter on every axis. Vertical thickness comes only from jitter. Colors
// interpolate from InsideColor at the centre to OutsideColor at Radius.
func Generate(p Parameters, src Source) (*PointCloud, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = NewSource(0)
	}

	pc := &PointCloud{
		Positions: make([]float32, p.Count*3),
		Colors:    make([]float32, p.Count*3),
	}

	scale := 1.0
	if p.ScaleJitter {
		scale = p.Randomness
	}

	for i := 0; i < p.Count; i++ {
		i3 := i * 3

		radius := src.Float64() * p.Radius
		branchAngle := float64(i%p.Branches) / float64(p.Branches) * 2 * math.Pi
		spinAngle := p.Spin * radius

		ox := Jitter(src, p.RandomnessPower) * scale
		oy := Jitter(src, p.RandomnessPower) * scale
		oz := Jitter(src, p.RandomnessPower) * scale

		angle := branchAngle + spinAngle
		pc.Positions[i3] = float32(math.Cos(angle)*radius + ox)
		pc.Positions[i3+1] = float32(oy)
		pc.Positions[i3+2] = float32(math.Sin(angle)*radius + oz)

		var t float64
		if p.Radius > 0 {
			t = radius / p.Radius
		}
		c := p.InsideColor.Lerp(p.OutsideColor, t)
		pc.Colors[i3] = float32(c.R)
		pc.Colors[i3+1] = float32(c.G)
		pc.Colors[i3+2] = float32(c.B)
	}

	return pc, nil
}
