package advisory

import (
	"image"
	"sync/atomic"
)

// CategoryUnset marks a node whose center has not been sampled yet.
const CategoryUnset uint8 = 255

// Node is one cell of the sampling quadtree. Its category is written once,
// before the node becomes reachable from a published subtree; the children
// array is published atomically as a unit, so concurrent readers observe
// either no children or four fully evaluated ones.
type Node struct {
	value uint8

	// Inclusive cell bounds in input-space coordinates.
	x0, y0, x1, y1 float32

	// Pixel footprint in the 2^MaxDepth raster. Power-of-two sized, halved
	// on every subdivision.
	px image.Rectangle

	children atomic.Pointer[[4]*Node]
}

func newRoot(conf ViewerConfig) *Node {
	size := conf.TextureSize()
	return &Node{
		value: CategoryUnset,
		x0:    conf.XRange.Min,
		y0:    conf.YRange.Min,
		x1:    conf.XRange.Max,
		y1:    conf.YRange.Max,
		px:    image.Rect(0, 0, size, size),
	}
}

// Category is the classification sampled at the cell's center.
func (n *Node) Category() uint8 { return n.value }

// Bounds returns the cell rectangle in input-space coordinates.
func (n *Node) Bounds() (x0, y0, x1, y1 float32) {
	return n.x0, n.y0, n.x1, n.y1
}

// PixelRect is the cell's footprint in the raster sink.
func (n *Node) PixelRect() image.Rectangle { return n.px }

// Children returns the current child array, or nil for a leaf.
func (n *Node) Children() *[4]*Node { return n.children.Load() }

// genValue samples the classifier at the cell midpoint. This is the only
// way an existing node acquires its category.
func (n *Node) genValue(classify Classifier) {
	classifierEvals.Inc()
	n.value = classify((n.x0+n.x1)/2, (n.y0+n.y1)/2)
}

// genChildren splits the cell into four quadrants at the axis midpoints,
// evaluates each quadrant's center and publishes all four children in one
// atomic store. Order is bottom-left, top-left, top-right, bottom-right.
// Pixel rows grow downward while input y grows upward, so the bottom
// quadrants take the lower half of the pixel rectangle.
func (n *Node) genChildren(classify Classifier) {
	mx := (n.x0 + n.x1) / 2
	my := (n.y0 + n.y1) / 2
	pmx := (n.px.Min.X + n.px.Max.X) / 2
	pmy := (n.px.Min.Y + n.px.Max.Y) / 2

	quads := [4]*Node{
		{value: CategoryUnset, x0: n.x0, y0: n.y0, x1: mx, y1: my,
			px: image.Rect(n.px.Min.X, pmy, pmx, n.px.Max.Y)}, // bottom-left
		{value: CategoryUnset, x0: n.x0, y0: my, x1: mx, y1: n.y1,
			px: image.Rect(n.px.Min.X, n.px.Min.Y, pmx, pmy)}, // top-left
		{value: CategoryUnset, x0: mx, y0: my, x1: n.x1, y1: n.y1,
			px: image.Rect(pmx, n.px.Min.Y, n.px.Max.X, pmy)}, // top-right
		{value: CategoryUnset, x0: mx, y0: n.y0, x1: n.x1, y1: my,
			px: image.Rect(pmx, pmy, n.px.Max.X, n.px.Max.Y)}, // bottom-right
	}
	for _, c := range quads {
		c.genValue(classify)
	}
	n.children.Store(&quads)
}

// cornersAreIdentical probes the classifier at the four cell corners and
// reports whether all of them agree with the stored center category. A cheap
// four-sample convergence check before paying for a full subdivision; note
// it is a sampling heuristic, structure finer than the cell (a thin diagonal
// boundary, say) can evade it.
func (n *Node) cornersAreIdentical(classify Classifier) bool {
	classifierEvals.Add(4)
	return classify(n.x0, n.y0) == n.value &&
		classify(n.x0, n.y1) == n.value &&
		classify(n.x1, n.y1) == n.value &&
		classify(n.x1, n.y0) == n.value
}

// simplify collapses the node back into a leaf when the whole subtree below
// it shares one category. Purely structural: the represented value does not
// change, only the memory and render cost of flat regions.
func (n *Node) simplify() {
	if n.selfAndDescendantsAre(n.value) {
		n.children.Store(nil)
	}
}

func (n *Node) selfAndDescendantsAre(v uint8) bool {
	if n.value != v {
		return false
	}
	if children := n.children.Load(); children != nil {
		for _, c := range children {
			if !c.selfAndDescendantsAre(v) {
				return false
			}
		}
	}
	return true
}

// levelNodes collects every node exactly level edges below n (0 is n
// itself). Branches that have not been built that deep contribute nothing.
func (n *Node) levelNodes(level int) []*Node {
	if level == 0 {
		return []*Node{n}
	}
	children := n.children.Load()
	if children == nil {
		return nil
	}
	var nodes []*Node
	for _, c := range children {
		nodes = append(nodes, c.levelNodes(level-1)...)
	}
	return nodes
}

// walkLeaves calls fn for every leaf reachable from n in the current
// snapshot.
func (n *Node) walkLeaves(fn func(*Node)) {
	if children := n.children.Load(); children != nil {
		for _, c := range children {
			c.walkLeaves(fn)
		}
		return
	}
	fn(n)
}
