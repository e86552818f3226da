package advisory

import (
	"image/color"

	"github.com/google/uuid"
)

// Classifier maps a point of the 2D input plane to a discrete advisory
// category. It must be deterministic and callable from multiple goroutines
// at once; the engine invokes it redundantly (cell centers and corners) and
// relies on it returning the same category for the same point every time.
// A classifier that can fail internally must map failures to a sentinel
// category instead of reporting an error.
type Classifier func(x, y float32) uint8

// Range is an inclusive interval on one input axis.
type Range struct {
	Min, Max float32
}

// MaxDepthLimit is the hard refinement ceiling. 2^14 is also the largest
// edge length the raster sink will allocate.
const MaxDepthLimit = 14

// ViewerConfig describes one visualization request. It is read-only for the
// duration of a generation.
type ViewerConfig struct {
	// Colors maps a category to its display color. The table may be sparse;
	// categories without an entry render transparent.
	Colors map[uint8]color.RGBA

	// The rectangle of the input plane to sample.
	XRange, YRange Range

	// MinDepth levels are built unconditionally, giving a uniform base grid
	// of 4^MinDepth cells. MaxDepth is the refinement ceiling.
	MinDepth, MaxDepth int
}

// normalized clamps malformed depth settings into a usable configuration
// instead of letting the engine panic or hang on them.
func (c ViewerConfig) normalized() ViewerConfig {
	if c.MaxDepth < 0 {
		c.MaxDepth = 0
	}
	if c.MaxDepth > MaxDepthLimit {
		c.MaxDepth = MaxDepthLimit
	}
	if c.MinDepth < 0 {
		c.MinDepth = 0
	}
	if c.MinDepth > c.MaxDepth {
		c.MinDepth = c.MaxDepth
	}
	if c.XRange.Min > c.XRange.Max {
		c.XRange.Min, c.XRange.Max = c.XRange.Max, c.XRange.Min
	}
	if c.YRange.Min > c.YRange.Max {
		c.YRange.Min, c.YRange.Max = c.YRange.Max, c.YRange.Min
	}
	return c
}

// TextureSize is the edge length of the raster sink output for this
// configuration. Cell footprints halve on every subdivision, so a square of
// 2^MaxDepth pixels addresses every leaf exactly.
func (c ViewerConfig) TextureSize() int {
	return 1 << c.normalized().MaxDepth
}

// Progress is a momentarily-consistent snapshot of a generation's state.
// Counters are monotonic within one generation and reset to zero whenever a
// new generation starts.
type Progress struct {
	// Generation identifies the computation the counters belong to.
	Generation uuid.UUID

	// BaseDone counts cells evaluated in the mandatory base grid,
	// BaseTarget is the 4^MinDepth total.
	BaseDone, BaseTarget uint64

	// ExtraDone counts cells evaluated beyond the base grid.
	ExtraDone uint64

	// Level is the number of fully published refinement levels.
	Level, MaxDepth int
}

// Done reports whether the generation has published every level.
func (p Progress) Done() bool {
	return p.Generation != uuid.Nil && p.Level >= p.MaxDepth
}

// CellRect is one leaf cell emitted by the polygon sink, in input-space
// coordinates.
type CellRect struct {
	X0, Y0, X1, Y1 float32
	Category       uint8
	Color          color.RGBA
}
