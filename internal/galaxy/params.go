// Package galaxy generates spiral galaxy point clouds.
package galaxy

import (
	"errors"
	"fmt"
	"math"
)

// Parameter validation errors.
var (
	ErrInvalidCount    = errors.New("galaxy: count must be between 0 and 10000000")
	ErrInvalidBranches = errors.New("galaxy: branches must be >= 1")
	ErrInvalidRadius   = errors.New("galaxy: radius must be a finite value >= 0")
	ErrInvalidPower    = errors.New("galaxy: randomness power must be a finite value >= 0")
	ErrInvalidSize     = errors.New("galaxy: size must be a finite value >= 0")
	ErrInvalidJitter   = errors.New("galaxy: randomness must be a finite value >= 0")
	ErrInvalidSpin     = errors.New("galaxy: spin must be finite")
)

// MaxCount is the largest point count Generate accepts.
const MaxCount = 10_000_000

// Parameters describes one galaxy. It is a plain value: callers own
// their working copy and hand a snapshot to Generate on every commit.
type Parameters struct {
	Count           int
	Size            float64
	Radius          float64
	Branches        int
	Spin            float64
	Randomness      float64
	RandomnessPower float64
	InsideColor     Color
	OutsideColor    Color

	// ScaleJitter multiplies the per-axis jitter by Randomness. When false
	// Randomness is carried but does not affect positions.
	ScaleJitter bool
}

// DefaultParameters returns the full spiral preset.
func DefaultParameters() Parameters {
	return Parameters{
		Count:           100000,
		Size:            0.01,
		Radius:          5,
		Branches:        3,
		Spin:            1,
		Randomness:      0.2,
		RandomnessPower: 3,
		InsideColor:     MustParseHex("#ff6030"),
		OutsideColor:    MustParseHex("#1b3984"),
	}
}

// MinimalParameters returns the single-arm, untwisted, uniformly white preset.
func MinimalParameters() Parameters {
	white := MustParseHex("#ffffff")
	return Parameters{
		Count:           10000,
		Size:            0.01,
		Radius:          5,
		Branches:        1,
		Spin:            0,
		Randomness:      0,
		RandomnessPower: 1,
		InsideColor:     white,
		OutsideColor:    white,
	}
}

// Validate reports the first parameter that Generate cannot accept.
func (p Parameters) Validate() error {
	switch {
	case p.Count < 0 || p.Count > MaxCount:
		return fmt.Errorf("%w (got %d)", ErrInvalidCount, p.Count)
	case p.Branches < 1:
		return fmt.Errorf("%w (got %d)", ErrInvalidBranches, p.Branches)
	case !finiteNonNegative(p.Radius):
		return fmt.Errorf("%w (got %v)", ErrInvalidRadius, p.Radius)
	case !finiteNonNegative(p.RandomnessPower):
		return fmt.Errorf("%w (got %v)", ErrInvalidPower, p.RandomnessPower)
	case !finiteNonNegative(p.Size):
		return fmt.Errorf("%w (got %v)", ErrInvalidSize, p.Size)
	case !finiteNonNegative(p.Randomness):
		return fmt.Errorf("%w (got %v)", ErrInvalidJitter, p.Randomness)
	case math.IsNaN(p.Spin) || math.IsInf(p.Spin, 0):
		return fmt.Errorf("%w (got %v)", ErrInvalidSpin, p.Spin)
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Field identifies a tunable numeric parameter.
type Field int

const (
	FieldCount Field = iota
	FieldSize
	FieldRadius
	FieldBranches
	FieldSpin
	FieldRandomness
	FieldRandomnessPower
)

// Fields lists the numeric parameters in panel order.
var Fields = []Field{
	FieldCount,
	FieldSize,
	FieldRadius,
	FieldBranches,
	FieldSpin,
	FieldRandomness,
	FieldRandomnessPower,
}

// Range is the declared editing range of a numeric parameter.
type Range struct {
	Name string
	Min  float64
	Max  float64
	Step float64
}

// Ranges holds the editing range of every numeric parameter.
var Ranges = map[Field]Range{
	FieldCount:           {Name: "count", Min: 100, Max: 1_000_000, Step: 1},
	FieldSize:            {Name: "size", Min: 0, Max: 0.5, Step: 0.001},
	FieldRadius:          {Name: "radius", Min: 0.01, Max: 20, Step: 0.01},
	FieldBranches:        {Name: "branches", Min: 2, Max: 20, Step: 1},
	FieldSpin:            {Name: "spin", Min: -5, Max: 5, Step: 0.001},
	FieldRandomness:      {Name: "randomness", Min: 0, Max: 10, Step: 0.001},
	FieldRandomnessPower: {Name: "randomnessPower", Min: 0, Max: 10, Step: 0.001},
}

func (f Field) String() string {
	if r, ok := Ranges[f]; ok {
		return r.Name
	}
	return "unknown"
}

// Clamp snaps v onto the step grid and into [Min, Max].
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	if r.Step > 0 {
		v = r.Min + math.Round((v-r.Min)/r.Step)*r.Step
	}
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Get returns the value of a numeric field.
func (p Parameters) Get(f Field) float64 {
	switch f {
	case FieldCount:
		return float64(p.Count)
	case FieldSize:
		return p.Size
	case FieldRadius:
		return p.Radius
	case FieldBranches:
		return float64(p.Branches)
	case FieldSpin:
		return p.Spin
	case FieldRandomness:
		return p.Randomness
	case FieldRandomnessPower:
		return p.RandomnessPower
	default:
		return 0
	}
}

// With returns a copy of p with field f set to v, clamped to its range.
func (p Parameters) With(f Field, v float64) Parameters {
	r, ok := Ranges[f]
	if !ok {
		return p
	}
	v = r.Clamp(v)
	switch f {
	case FieldCount:
		p.Count = int(math.Round(v))
	case FieldSize:
		p.Size = v
	case FieldRadius:
		p.Radius = v
	case FieldBranches:
		p.Branches = int(math.Round(v))
	case FieldSpin:
		p.Spin = v
	case FieldRandomness:
		p.Randomness = v
	case FieldRandomnessPower:
		p.RandomnessPower = v
	}
	return p
}

// Clamp returns a copy of p with every numeric field inside its editing range.
func (p Parameters) Clamp() Parameters {
	for _, f := range Fields {
		p = p.With(f, p.Get(f))
	}
	return p
}
