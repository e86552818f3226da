//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/opencas/advisoryviewer/wire"
)

// view maps input-space coordinates onto the canvas. The y axis is flipped:
// input y grows upward, canvas y grows downward.
var view struct {
	xMin, xMax float32
	yMin, yMax float32
	size       int
}

func setView(xMin, xMax, yMin, yMax float32) {
	view.xMin, view.xMax = xMin, xMax
	view.yMin, view.yMax = yMin, yMax
}

func initCanvas(size int, color string) {
	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", "myCanvas")

	canvas.Set("width", size)
	canvas.Set("height", size)
	view.size = size

	ctx := canvas.Call("getContext", "2d")
	ctx.Set("fillStyle", color)
	ctx.Call("fillRect", 0, 0, size, size)
}

// drawRects paints one full leaf batch. The batch covers the whole view, so
// no clearing is needed between batches.
func drawRects(rects []wire.Rect) {
	document := js.Global().Get("document")
	canvas := document.Call("getElementById", "myCanvas")
	ctx := canvas.Call("getContext", "2d")

	sx := float32(view.size) / (view.xMax - view.xMin)
	sy := float32(view.size) / (view.yMax - view.yMin)

	for _, r := range rects {
		px := (r.X0 - view.xMin) * sx
		py := (view.yMax - r.Y1) * sy
		pw := (r.X1 - r.X0) * sx
		ph := (r.Y1 - r.Y0) * sy

		ctx.Set("fillStyle", r.Color)
		ctx.Call("fillRect", px, py, pw, ph)
	}
}

// drawTexture replaces the canvas with a full-resolution RGBA snapshot.
func drawTexture(size int, pix []byte) {
	document := js.Global().Get("document")
	canvas := document.Call("getElementById", "myCanvas")
	ctx := canvas.Call("getContext", "2d")

	// Copy the Go pixel bytes into a JS TypedArray, wrap it in ImageData
	// and put it on the canvas in one call.
	jsData := js.Global().Get("Uint8ClampedArray").New(len(pix))
	js.CopyBytesToJS(jsData, pix)

	imageData := js.Global().Get("ImageData").New(jsData, size, size)
	ctx.Call("putImageData", imageData, 0, 0)
}
