package render

import "math"

// Orbit limits.
const (
	MinDistance = 0.5
	MaxDistance = 60.0

	polarEpsilon = 1e-3
	restEpsilon  = 1e-5
)

// Controls orbits a camera around its target. With damping enabled, input
// adds velocity that Update bleeds off a little every frame.
type Controls struct {
	cam *Camera

	EnableDamping   bool
	DampingFactor   float64 // fraction of velocity lost per Update
	AutoRotate      bool
	AutoRotateSpeed float64 // radians per Update

	velAzimuth float64
	velPolar   float64
	velDolly   float64 // log-distance per Update

	home Vec3
}

// NewControls returns damped orbit controls for cam.
func NewControls(cam *Camera) *Controls {
	return &Controls{
		cam:             cam,
		EnableDamping:   true,
		DampingFactor:   0.1,
		AutoRotateSpeed: 0.01,
		home:            cam.Position(),
	}
}

// Rotate orbits by the given angles in radians.
func (c *Controls) Rotate(dAzimuth, dPolar float64) {
	if c.EnableDamping {
		c.velAzimuth += dAzimuth * c.DampingFactor
		c.velPolar += dPolar * c.DampingFactor
		return
	}
	c.apply(dAzimuth, dPolar, 0)
}

// Dolly scales the camera distance by factor (< 1 moves closer).
func (c *Controls) Dolly(factor float64) {
	if factor <= 0 {
		return
	}
	d := math.Log(factor)
	if c.EnableDamping {
		c.velDolly += d * c.DampingFactor
		return
	}
	c.apply(0, 0, d)
}

// Update advances the controls by one frame and reports whether the
// camera moved.
func (c *Controls) Update() bool {
	dAz, dPolar, dDolly := c.velAzimuth, c.velPolar, c.velDolly
	if c.AutoRotate {
		dAz += c.AutoRotateSpeed
	}

	moved := math.Abs(dAz) > restEpsilon || math.Abs(dPolar) > restEpsilon || math.Abs(dDolly) > restEpsilon
	if moved {
		c.apply(dAz, dPolar, dDolly)
	}

	if c.EnableDamping {
		keep := 1 - c.DampingFactor
		c.velAzimuth *= keep
		c.velPolar *= keep
		c.velDolly *= keep
		if c.Settled() {
			c.velAzimuth, c.velPolar, c.velDolly = 0, 0, 0
		}
	}
	return moved
}

// Settled reports whether no damped motion remains.
func (c *Controls) Settled() bool {
	return math.Abs(c.velAzimuth) <= restEpsilon &&
		math.Abs(c.velPolar) <= restEpsilon &&
		math.Abs(c.velDolly) <= restEpsilon
}

// Reset stops all motion and returns the camera to where it started.
func (c *Controls) Reset() {
	c.velAzimuth, c.velPolar, c.velDolly = 0, 0, 0
	c.cam.Target = Vec3{}
	c.cam.SetPosition(c.home)
}

func (c *Controls) apply(dAz, dPolar, dDolly float64) {
	cam := c.cam
	cam.Azimuth = math.Mod(cam.Azimuth+dAz, 2*math.Pi)
	cam.Polar = clamp(cam.Polar+dPolar, polarEpsilon, math.Pi-polarEpsilon)
	cam.Distance = clamp(cam.Distance*math.Exp(dDolly), MinDistance, MaxDistance)
	cam.UpdateView()
}
