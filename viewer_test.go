package advisory

import (
	"fmt"
	"image/color"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
)

func stairConfig(minDepth, maxDepth int) ViewerConfig {
	conf := unitConfig(minDepth, maxDepth)
	conf.Colors = map[uint8]color.RGBA{0: red, 1: green}
	return conf
}

// waitDone polls until the live generation has published every level.
func waitDone(t *testing.T, v *Viewer) Progress {
	t.Helper()
	var p Progress
	require.Eventually(t, func() bool {
		p = v.Progress()
		return p.Done()
	}, 5*time.Second, time.Millisecond)
	return p
}

func TestViewerStairStep(t *testing.T) {
	v := NewViewer()
	id := v.Update(stairConfig(2, 4), stair)

	p := waitDone(t, v)
	require.Equal(t, id, p.Generation)
	require.Equal(t, uint64(16), p.BaseTarget)
	require.Equal(t, uint64(16), p.BaseDone)
	require.Equal(t, 4, p.Level)

	// Both halves are uniform, so the base grid collapses back to the four
	// root quadrants and the adaptive phase finds nothing to split.
	rects := v.Polygons()
	require.Len(t, rects, 4)
	for _, r := range rects {
		if r.X1 <= 0.5 {
			require.Equal(t, uint8(0), r.Category)
			require.Equal(t, red, r.Color)
		} else {
			require.Equal(t, uint8(1), r.Category)
			require.Equal(t, green, r.Color)
		}
	}

	// The texture splits into a red left half and a green right half.
	img := v.RenderTexture()
	require.Equal(t, 16, img.Rect.Dx())
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			want := red
			if x >= 8 {
				want = green
			}
			require.Equal(t, want, img.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestViewerAdaptiveRefinement(t *testing.T) {
	diagonal := func(x, y float32) uint8 {
		if x+y < 0.7 {
			return 0
		}
		return 1
	}

	v := NewViewer()
	v.Update(stairConfig(1, 5), diagonal)
	p := waitDone(t, v)

	// The boundary does not fall on the base grid, so the adaptive phase
	// must have split cells. Splits always publish four children at once.
	require.NotZero(t, p.ExtraDone)
	require.Zero(t, p.ExtraDone%4)

	// Every leaf carries the classification of its own center, and the leaf
	// footprints tile the texture exactly.
	var area int
	v.Tree().walkLeaves(func(n *Node) {
		x0, y0, x1, y1 := n.Bounds()
		require.Equal(t, diagonal((x0+x1)/2, (y0+y1)/2), n.Category())
		area += n.PixelRect().Dx() * n.PixelRect().Dy()
	})
	require.Equal(t, 32*32, area)
}

func TestViewerDegenerateDepths(t *testing.T) {
	var evals atomic.Int64
	counting := func(x, y float32) uint8 {
		evals.Add(1)
		return 0
	}

	v := NewViewer()
	v.Update(stairConfig(0, 0), counting)
	p := waitDone(t, v)

	// A zero-depth view is a single cell: one classification, no corner
	// probes, no splits.
	require.Equal(t, int64(1), evals.Load())
	require.Equal(t, uint64(1), p.BaseTarget)
	require.Equal(t, uint64(1), p.BaseDone)
	require.Zero(t, p.ExtraDone)
	require.Len(t, v.Polygons(), 1)
}

func TestViewerLatestUpdateWins(t *testing.T) {
	v := NewViewer()

	colors := map[uint8]color.RGBA{}
	for i := 0; i < 32; i++ {
		colors[uint8(i)] = color.RGBA{R: uint8(i), A: 255}
	}
	conf := unitConfig(3, 5)
	conf.Colors = colors

	var last uuid.UUID
	for i := 0; i < 32; i++ {
		category := uint8(i)
		last = v.Update(conf, func(x, y float32) uint8 { return category })
	}

	p := waitDone(t, v)
	require.Equal(t, last, p.Generation)

	// Only the last generation's classifications are visible; superseded
	// generations never mix their cells in.
	for _, r := range v.Polygons() {
		require.Equal(t, uint8(31), r.Category, "stale generation leaked into the tree")
	}
}

func TestViewerProgressIsMonotonic(t *testing.T) {
	slow := func(x, y float32) uint8 {
		time.Sleep(20 * time.Microsecond)
		if x+y < 0.7 {
			return 0
		}
		return 1
	}

	v := NewViewer()
	id := v.Update(stairConfig(2, 5), slow)

	prev := v.Progress()
	for !prev.Done() {
		p := v.Progress()
		require.Equal(t, id, p.Generation)
		require.GreaterOrEqual(t, p.BaseDone, prev.BaseDone)
		require.GreaterOrEqual(t, p.ExtraDone, prev.ExtraDone)
		require.GreaterOrEqual(t, p.Level, prev.Level)
		require.Equal(t, prev.BaseTarget, p.BaseTarget) // set once per generation
		prev = p
	}
}

func TestViewerNormalizesConfig(t *testing.T) {
	conf := ViewerConfig{
		Colors:   map[uint8]color.RGBA{0: red},
		XRange:   Range{Min: 1, Max: 0},
		YRange:   Range{Min: 0.5, Max: -0.5},
		MinDepth: 9,
		MaxDepth: 2,
	}

	v := NewViewer()
	v.Update(conf, func(x, y float32) uint8 { return 0 })
	waitDone(t, v)

	got := v.Config()
	require.Equal(t, Range{Min: 0, Max: 1}, got.XRange)
	require.Equal(t, Range{Min: -0.5, Max: 0.5}, got.YRange)
	require.Equal(t, 2, got.MinDepth)
	require.Equal(t, 2, got.MaxDepth)
}

func TestTextureSizeClampsDepth(t *testing.T) {
	for _, tc := range []struct {
		maxDepth int
		size     int
	}{
		{maxDepth: -3, size: 1},
		{maxDepth: 0, size: 1},
		{maxDepth: 4, size: 16},
		{maxDepth: 99, size: 1 << MaxDepthLimit},
	} {
		t.Run(fmt.Sprint(tc.maxDepth), func(t *testing.T) {
			conf := ViewerConfig{MaxDepth: tc.maxDepth}
			require.Equal(t, tc.size, conf.TextureSize())
		})
	}
}
