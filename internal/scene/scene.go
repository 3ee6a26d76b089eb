// Package scene holds renderable point clouds and the binder that swaps the
// displayed galaxy when its parameters change.
package scene

import (
	"fmt"
	"sync"

	"github.com/litescript/ls-galaxy/internal/galaxy"
)

// Attribute names used by point geometries.
const (
	AttrPosition = "position"
	AttrColor    = "color"
)

// Attribute is a flat buffer read ItemSize components at a time.
type Attribute struct {
	Data     []float32
	ItemSize int
}

// Count returns the number of items in the attribute.
func (a Attribute) Count() int {
	if a.ItemSize <= 0 {
		return 0
	}
	return len(a.Data) / a.ItemSize
}

// Geometry owns vertex attribute buffers until it is disposed.
type Geometry struct {
	mu       sync.RWMutex
	attrs    map[string]Attribute
	releases int
}

// NewGeometry returns an empty geometry.
func NewGeometry() *Geometry {
	return &Geometry{attrs: make(map[string]Attribute)}
}

// SetAttribute installs a buffer. The buffer length must be a multiple of
// itemSize.
func (g *Geometry) SetAttribute(name string, data []float32, itemSize int) error {
	if itemSize <= 0 || len(data)%itemSize != 0 {
		return fmt.Errorf("%w: attribute %q has %d components for item size %d",
			galaxy.ErrBufferMismatch, name, len(data), itemSize)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.releases > 0 {
		return fmt.Errorf("set attribute %q: %w", name, ErrDisposed)
	}
	g.attrs[name] = Attribute{Data: data, ItemSize: itemSize}
	return nil
}

// Attribute returns a named attribute.
func (g *Geometry) Attribute(name string) (Attribute, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a, ok := g.attrs[name]
	return a, ok
}

// Dispose releases the attribute buffers. Later calls do nothing.
func (g *Geometry) Dispose() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.releases > 0 {
		return
	}
	g.attrs = nil
	g.releases++
}

// Disposed reports whether the buffers have been released.
func (g *Geometry) Disposed() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.releases > 0
}

// Releases returns how many times the buffers were actually released.
func (g *Geometry) Releases() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.releases
}

// Blending selects how overlapping points combine.
type Blending int

const (
	BlendNormal Blending = iota
	BlendAdditive
)

func (b Blending) String() string {
	switch b {
	case BlendNormal:
		return "normal"
	case BlendAdditive:
		return "additive"
	default:
		return "unknown"
	}
}

// Material describes how a point cloud is drawn.
type Material struct {
	Size            float64
	SizeAttenuation bool
	DepthWrite      bool
	Blending        Blending
	VertexColors    bool

	mu       sync.Mutex
	releases int
}

// NewPointsMaterial returns a glow material: additive, no depth writes,
// size-attenuated.
func NewPointsMaterial(size float64, vertexColors bool) *Material {
	return &Material{
		Size:            size,
		SizeAttenuation: true,
		DepthWrite:      false,
		Blending:        BlendAdditive,
		VertexColors:    vertexColors,
	}
}

// Dispose releases the material. Later calls do nothing.
func (m *Material) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.releases == 0 {
		m.releases++
	}
}

// Releases returns how many times the material was actually released.
func (m *Material) Releases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases
}

// Points is a renderable point cloud.
type Points struct {
	Name     string
	Geometry *Geometry
	Material *Material
}

// Len returns the number of points in the position attribute.
func (p *Points) Len() int {
	if p == nil || p.Geometry == nil {
		return 0
	}
	a, ok := p.Geometry.Attribute(AttrPosition)
	if !ok {
		return 0
	}
	return a.Count()
}

// Graph is the scene graph the binder attaches point clouds to.
type Graph interface {
	Attach(p *Points)
	Detach(p *Points)
}

// Swapper is implemented by graphs that can replace one object with another
// without exposing the intermediate state.
type Swapper interface {
	Swap(old, next *Points)
}

// Scene is a thread-safe Graph. Render loops read it with Objects.
type Scene struct {
	mu      sync.RWMutex
	objects []*Points
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Attach adds p to the scene. Attaching an object twice is a no-op.
func (s *Scene) Attach(p *Points) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachLocked(p)
}

// Detach removes p from the scene.
func (s *Scene) Detach(p *Points) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detachLocked(p)
}

// Swap detaches old and attaches next under one lock.
func (s *Scene) Swap(old, next *Points) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old != nil {
		s.detachLocked(old)
	}
	if next != nil {
		s.attachLocked(next)
	}
}

func (s *Scene) attachLocked(p *Points) {
	for _, o := range s.objects {
		if o == p {
			return
		}
	}
	s.objects = append(s.objects, p)
}

func (s *Scene) detachLocked(p *Points) {
	for i, o := range s.objects {
		if o == p {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

// Objects returns a copy of the attached objects.
func (s *Scene) Objects() []*Points {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Points, len(s.objects))
	copy(out, s.objects)
	return out
}

// Current returns the most recently attached object, or nil.
func (s *Scene) Current() *Points {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.objects) == 0 {
		return nil
	}
	return s.objects[len(s.objects)-1]
}

// Len returns the number of attached objects.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
