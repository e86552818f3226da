package advisory

import (
	"image"
	"image/draw"
)

// Both sinks derive their output purely from the tree snapshot they are
// given, hold no incremental state and are safe to re-run after every
// refinement level.

// Polygons walks the tree and emits one filled rectangle per leaf, colored
// through the configured table. Categories without a color entry are
// skipped; during interactive editing the palette is allowed to lag behind
// the classifier.
func Polygons(root *Node, conf ViewerConfig) []CellRect {
	if root == nil {
		return nil
	}
	var rects []CellRect
	root.walkLeaves(func(n *Node) {
		c, ok := conf.Colors[n.value]
		if !ok {
			return
		}
		rects = append(rects, CellRect{
			X0: n.x0, Y0: n.y0, X1: n.x1, Y1: n.y1,
			Category: n.value,
			Color:    c,
		})
	})
	return rects
}

// RenderTexture paints the tree into a fresh 2^MaxDepth square RGBA buffer,
// one uniform blit per leaf. Unmapped categories stay transparent.
func RenderTexture(root *Node, conf ViewerConfig) *image.RGBA {
	size := conf.TextureSize()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	BlitTexture(img, root, conf)
	return img
}

// BlitTexture repaints root's leaves onto an existing buffer, for callers
// that reuse one texture across refinement levels. Idempotent: repainting
// the same snapshot changes nothing.
func BlitTexture(img *image.RGBA, root *Node, conf ViewerConfig) {
	if root == nil {
		return
	}
	root.walkLeaves(func(n *Node) {
		c, ok := conf.Colors[n.value]
		if !ok {
			return
		}
		draw.Draw(img, n.px, image.NewUniform(c), image.Point{}, draw.Src)
	})
}
