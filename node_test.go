package advisory

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func unitConfig(minDepth, maxDepth int) ViewerConfig {
	return ViewerConfig{
		XRange:   Range{Min: 0, Max: 1},
		YRange:   Range{Min: 0, Max: 1},
		MinDepth: minDepth,
		MaxDepth: maxDepth,
	}
}

// stair classifies the left half of the unit square as 0, the rest as 1.
func stair(x, y float32) uint8 {
	if x < 0.5 {
		return 0
	}
	return 1
}

func TestGenChildrenPartitionsCell(t *testing.T) {
	root := newRoot(unitConfig(0, 3))
	root.genValue(stair)
	root.genChildren(stair)

	children := root.Children()
	require.NotNil(t, children)

	// Order is bottom-left, top-left, top-right, bottom-right.
	bl, tl, tr, br := children[0], children[1], children[2], children[3]

	x0, y0, x1, y1 := bl.Bounds()
	require.Equal(t, [4]float32{0, 0, 0.5, 0.5}, [4]float32{x0, y0, x1, y1})
	x0, y0, x1, y1 = tl.Bounds()
	require.Equal(t, [4]float32{0, 0.5, 0.5, 1}, [4]float32{x0, y0, x1, y1})
	x0, y0, x1, y1 = tr.Bounds()
	require.Equal(t, [4]float32{0.5, 0.5, 1, 1}, [4]float32{x0, y0, x1, y1})
	x0, y0, x1, y1 = br.Bounds()
	require.Equal(t, [4]float32{0.5, 0, 1, 0.5}, [4]float32{x0, y0, x1, y1})

	// Input y grows upward, pixel y downward: the bottom quadrants take the
	// lower half of the pixel rectangle.
	require.Equal(t, image.Rect(0, 4, 4, 8), bl.PixelRect())
	require.Equal(t, image.Rect(0, 0, 4, 4), tl.PixelRect())
	require.Equal(t, image.Rect(4, 0, 8, 4), tr.PixelRect())
	require.Equal(t, image.Rect(4, 4, 8, 8), br.PixelRect())

	// Every child was evaluated at its own center.
	require.Equal(t, uint8(0), bl.Category())
	require.Equal(t, uint8(0), tl.Category())
	require.Equal(t, uint8(1), tr.Category())
	require.Equal(t, uint8(1), br.Category())
}

func TestCornersAreIdentical(t *testing.T) {
	uniform := &Node{x0: 0, y0: 0, x1: 0.4, y1: 0.4}
	uniform.genValue(stair)
	require.True(t, uniform.cornersAreIdentical(stair))

	straddling := &Node{x0: 0.4, y0: 0, x1: 0.6, y1: 0.4}
	straddling.genValue(stair)
	require.False(t, straddling.cornersAreIdentical(stair))
}

func TestSimplifyCollapsesUniformSubtree(t *testing.T) {
	constant := func(x, y float32) uint8 { return 3 }

	root := newRoot(unitConfig(0, 2))
	root.genValue(constant)
	root.genChildren(constant)
	for _, c := range root.Children() {
		c.genChildren(constant)
	}

	root.simplify()
	require.Nil(t, root.Children())

	// Collapsing is idempotent.
	root.simplify()
	require.Nil(t, root.Children())
}

func TestSimplifyKeepsMixedSubtree(t *testing.T) {
	root := newRoot(unitConfig(0, 2))
	root.genValue(stair)
	root.genChildren(stair)

	root.simplify()
	require.NotNil(t, root.Children())
}

func TestLevelNodesSkipsUnbuiltBranches(t *testing.T) {
	root := newRoot(unitConfig(0, 3))
	root.genValue(stair)
	root.genChildren(stair)
	// Subdivide only one child.
	root.Children()[2].genChildren(stair)

	require.Len(t, root.levelNodes(0), 1)
	require.Len(t, root.levelNodes(1), 4)
	require.Len(t, root.levelNodes(2), 4)
	require.Empty(t, root.levelNodes(3))
}

func TestWalkLeavesVisitsEveryLeaf(t *testing.T) {
	root := newRoot(unitConfig(0, 3))
	root.genValue(stair)
	root.genChildren(stair)
	root.Children()[0].genChildren(stair)

	var leaves int
	root.walkLeaves(func(*Node) { leaves++ })
	require.Equal(t, 7, leaves)
}
