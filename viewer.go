package advisory

import (
	"image"
	"sync/atomic"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
)

// Viewer owns the visualization of one classifier at a time. Every call to
// Update supersedes whatever computation is in flight: stale generations
// notice at their next checkpoint and abandon silently, latest wins, nothing
// is queued. Readers (a UI thread, typically) poll Progress and the tree
// snapshot without ever blocking on the background build.
type Viewer struct {
	current atomic.Pointer[generation]
}

func NewViewer() *Viewer {
	return &Viewer{}
}

// generation is one complete attempt to build the tree for a configuration
// snapshot. Counters live on the generation itself, so installing a fresh
// generation resets them and a stale worker can never touch the live ones.
type generation struct {
	id       uuid.UUID
	conf     ViewerConfig
	classify Classifier
	viewer   *Viewer

	root       atomic.Pointer[Node]
	baseDone   atomic.Uint64
	extraDone  atomic.Uint64
	level      atomic.Int32
	baseTarget uint64
}

// stale reports whether g has been superseded. Checked before every
// classifier batch and before every publication; comparison-and-abandon,
// not preemption, so a superseded generation may finish the cell currently
// in flight but never mutates shared state again.
func (g *generation) stale() bool {
	return g.viewer.current.Load() != g
}

// Update installs conf and classify as the live visualization and starts a
// background build for it, superseding any in-flight generation. The
// configuration is normalized first (depths clamped, ranges ordered).
// Returns the new generation's id.
func (v *Viewer) Update(conf ViewerConfig, classify Classifier) uuid.UUID {
	conf = conf.normalized()
	g := &generation{
		id:         uuid.New(),
		conf:       conf,
		classify:   classify,
		viewer:     v,
		baseTarget: 1 << (2 * conf.MinDepth),
	}
	v.current.Store(g)
	generationsStarted.Inc()
	logs.WithTag("generation", g.id.String()).
		WithTag("min_depth", conf.MinDepth).
		WithTag("max_depth", conf.MaxDepth).
		Debug("starting generation")

	go g.run()
	return g.id
}

// Progress returns a snapshot of the live generation's counters. Safe to
// call at any time, including mid-computation.
func (v *Viewer) Progress() Progress {
	g := v.current.Load()
	if g == nil {
		return Progress{}
	}
	return Progress{
		Generation: g.id,
		BaseDone:   g.baseDone.Load(),
		BaseTarget: g.baseTarget,
		ExtraDone:  g.extraDone.Load(),
		Level:      int(g.level.Load()),
		MaxDepth:   g.conf.MaxDepth,
	}
}

// Config returns the (normalized) configuration of the live generation.
func (v *Viewer) Config() ViewerConfig {
	g := v.current.Load()
	if g == nil {
		return ViewerConfig{}
	}
	return g.conf
}

// Tree returns the live generation's root, or nil if it has not published
// one yet. The returned subtree only ever grows more detailed; nodes in it
// are never mutated in place apart from atomic child publication, so it is
// safe to walk concurrently with the build.
func (v *Viewer) Tree() *Node {
	g := v.current.Load()
	if g == nil {
		return nil
	}
	return g.root.Load()
}

// Polygons runs the polygon sink over the current tree snapshot.
func (v *Viewer) Polygons() []CellRect {
	g := v.current.Load()
	if g == nil {
		return nil
	}
	return Polygons(g.root.Load(), g.conf)
}

// RenderTexture runs the raster sink over the current tree snapshot.
func (v *Viewer) RenderTexture() *image.RGBA {
	g := v.current.Load()
	if g == nil {
		return nil
	}
	return RenderTexture(g.root.Load(), g.conf)
}
