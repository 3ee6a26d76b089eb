package scene

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/litescript/ls-galaxy/internal/galaxy"
	"github.com/litescript/ls-galaxy/internal/logging"
)

// Binder errors.
var (
	ErrRegenerating = errors.New("scene: regeneration already in progress")
	ErrDisposed     = errors.New("scene: resource already disposed")
)

// GalaxyName is the name given to the galaxy point cloud in the scene.
const GalaxyName = "galaxy"

// Binder owns the displayed galaxy. Regenerate builds a fresh point cloud
// and swaps it in, releasing the previous one.
type Binder struct {
	graph  Graph
	src    galaxy.Source
	logger *logging.Logger

	// generate is galaxy.Generate outside tests.
	generate func(galaxy.Parameters, galaxy.Source) (*galaxy.PointCloud, error)

	busy atomic.Bool

	mu      sync.RWMutex
	current *Points
}

// NewBinder creates a binder that attaches galaxies to graph.
func NewBinder(graph Graph, src galaxy.Source, logger *logging.Logger) *Binder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Binder{
		graph:    graph,
		src:      src,
		logger:   logger,
		generate: galaxy.Generate,
	}
}

// Regenerate replaces the displayed galaxy with one generated from p.
//
// The new geometry and material are fully built before the old galaxy is
// touched; on any error the scene is left as it was. Calls must not
// overlap: a call made while another is running returns ErrRegenerating.
func (b *Binder) Regenerate(p galaxy.Parameters) error {
	if !b.busy.CompareAndSwap(false, true) {
		return ErrRegenerating
	}
	defer b.busy.Store(false)

	start := time.Now()

	pc, err := b.generate(p, b.src)
	if err != nil {
		b.logger.Warn("Generate failed: %v", err)
		return fmt.Errorf("generate galaxy: %w", err)
	}

	next, err := build(p, pc)
	if err != nil {
		b.logger.Error("Build failed: %v", err)
		return fmt.Errorf("build galaxy: %w", err)
	}

	b.mu.Lock()
	old := b.current
	if sw, ok := b.graph.(Swapper); ok {
		sw.Swap(old, next)
	} else {
		if old != nil {
			b.graph.Detach(old)
		}
		b.graph.Attach(next)
	}
	b.current = next
	b.mu.Unlock()

	release(old)

	b.logger.Debug("Regenerated %d points in %v", pc.Len(), time.Since(start).Round(time.Microsecond))
	return nil
}

// Current returns the displayed galaxy, or nil before the first Regenerate.
func (b *Binder) Current() *Points {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Dispose detaches and releases the displayed galaxy.
func (b *Binder) Dispose() {
	b.mu.Lock()
	old := b.current
	b.current = nil
	if old != nil {
		b.graph.Detach(old)
	}
	b.mu.Unlock()

	release(old)
}

// build turns a point cloud into scene resources.
func build(p galaxy.Parameters, pc *galaxy.PointCloud) (*Points, error) {
	if err := pc.Validate(); err != nil {
		return nil, err
	}
	if len(pc.Positions) != p.Count*3 {
		return nil, fmt.Errorf("%w: %d position components for %d points",
			galaxy.ErrBufferMismatch, len(pc.Positions), p.Count)
	}

	geo := NewGeometry()
	if err := geo.SetAttribute(AttrPosition, pc.Positions, 3); err != nil {
		return nil, err
	}
	if err := geo.SetAttribute(AttrColor, pc.Colors, 3); err != nil {
		return nil, err
	}

	return &Points{
		Name:     GalaxyName,
		Geometry: geo,
		Material: NewPointsMaterial(p.Size, true),
	}, nil
}

func release(p *Points) {
	if p == nil {
		return
	}
	if p.Geometry != nil {
		p.Geometry.Dispose()
	}
	if p.Material != nil {
		p.Material.Dispose()
	}
}
