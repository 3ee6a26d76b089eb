package render

import "math"

// Camera defaults.
const (
	DefaultFOV  = 75.0
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// DefaultPosition is where a new camera sits, looking at the origin.
var DefaultPosition = Vec3{X: 3, Y: 3, Z: 3}

var worldUp = Vec3{Y: 1}

// Camera is a perspective camera placed on a sphere around Target.
// Azimuth is measured in the x/z plane from +z toward +x; Polar from +y.
type Camera struct {
	FOV    float64 // vertical field of view in degrees
	Aspect float64 // width / height
	Near   float64
	Far    float64

	Target   Vec3
	Azimuth  float64
	Polar    float64
	Distance float64

	focal float64 // 1 / tan(FOV/2), refreshed by UpdateProjection

	// view basis, refreshed by UpdateView
	position Vec3
	forward  Vec3
	right    Vec3
	up       Vec3
}

// NewCamera returns a camera at DefaultPosition looking at the origin.
func NewCamera(aspect float64) *Camera {
	c := &Camera{
		FOV:    DefaultFOV,
		Aspect: aspect,
		Near:   DefaultNear,
		Far:    DefaultFar,
	}
	c.SetPosition(DefaultPosition)
	c.UpdateProjection()
	return c
}

// SetPosition places the camera at p, keeping the current target.
func (c *Camera) SetPosition(p Vec3) {
	rel := p.Sub(c.Target)
	c.Distance = rel.Norm()
	if c.Distance == 0 {
		c.Distance = DefaultNear
		rel = Vec3{Z: c.Distance}
	}
	c.Azimuth = math.Atan2(rel.X, rel.Z)
	c.Polar = math.Acos(clamp(rel.Y/c.Distance, -1, 1))
	c.UpdateView()
}

// SetAspect sets width/height and refreshes the projection.
func (c *Camera) SetAspect(aspect float64) {
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		return
	}
	c.Aspect = aspect
	c.UpdateProjection()
}

// UpdateProjection recomputes projection terms after FOV or Aspect change.
func (c *Camera) UpdateProjection() {
	c.focal = 1 / math.Tan(c.FOV*math.Pi/360)
}

// UpdateView recomputes the view basis from the orbit state.
func (c *Camera) UpdateView() {
	sinP := math.Sin(c.Polar)
	offset := Vec3{
		X: c.Distance * sinP * math.Sin(c.Azimuth),
		Y: c.Distance * math.Cos(c.Polar),
		Z: c.Distance * sinP * math.Cos(c.Azimuth),
	}
	c.position = c.Target.Add(offset)
	c.forward = c.Target.Sub(c.position).Normalized()
	c.right = c.forward.Cross(worldUp).Normalized()
	if c.right == (Vec3{}) {
		// Looking straight up or down; pick any horizontal right vector.
		c.right = Vec3{X: math.Cos(c.Azimuth), Z: -math.Sin(c.Azimuth)}
	}
	c.up = c.right.Cross(c.forward)
}

// Position returns the camera's world position.
func (c *Camera) Position() Vec3 {
	return c.position
}

// Focal returns 1 / tan(FOV/2).
func (c *Camera) Focal() float64 {
	return c.focal
}

// Project maps a world point to normalized device coordinates in [-1, 1]
// and view depth. ok is false for points outside the near/far range.
func (c *Camera) Project(p Vec3) (x, y, depth float64, ok bool) {
	rel := p.Sub(c.position)
	depth = rel.Dot(c.forward)
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}
	x = rel.Dot(c.right) * c.focal / (depth * c.Aspect)
	y = rel.Dot(c.up) * c.focal / depth
	return x, y, depth, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
