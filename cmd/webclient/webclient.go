// webclient is the WASM web client for the advisory viewer. It connects to
// the server, lets the user pick a viewable advisory function and paints the
// refinement as it streams in: leaf rectangles per completed level, then the
// final compressed texture.

//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"syscall/js"

	"github.com/klauspost/compress/zstd"

	"github.com/opencas/advisoryviewer/wire"
)

// event is one websocket delivery, either a JSON text frame or a binary
// texture frame.
type event struct {
	text   []byte
	binary []byte
}

type client struct {
	ws     js.Value
	dec    *zstd.Decoder
	events chan event

	catalog []wire.Viewable
	viewee  string
}

func main() {
	logScreenf("Starting advisory viewer client...")

	dec, err := zstd.NewReader(nil)
	if err != nil {
		logFatalf("Failed to create texture decoder: %v", err)
	}

	// Determine server address for the WebSocket connection.
	loc := js.Global().Get("window").Get("location")
	host := loc.Get("host").String()
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	websocketURL := proto + "://" + host + "/ws"

	logScreenf("Connecting to %s...", websocketURL)
	ws := js.Global().Get("WebSocket").New(websocketURL)
	ws.Set("binaryType", "arraybuffer")

	c := &client{ws: ws, dec: dec, events: make(chan event, 64)}

	ws.Set("onmessage", js.FuncOf(func(this js.Value, args []js.Value) any {
		data := args[0].Get("data")
		if data.Type() == js.TypeString {
			c.events <- event{text: []byte(data.String())}
			return nil
		}
		buf := js.Global().Get("Uint8Array").New(data)
		frame := make([]byte, buf.Get("length").Int())
		js.CopyBytesToGo(frame, buf)
		c.events <- event{binary: frame}
		return nil
	}))
	ws.Set("onclose", js.FuncOf(func(this js.Value, args []js.Value) any {
		logScreenf("Connection closed.")
		return nil
	}))

	c.bindControls()

	for ev := range c.events {
		if ev.binary != nil {
			c.handleTexture(ev.binary)
			continue
		}
		var msg wire.Msg
		if err := json.Unmarshal(ev.text, &msg); err != nil {
			logScreenf("Bad message from server: %v", err)
			continue
		}
		c.handleMsg(msg)
	}
}

func (c *client) handleMsg(msg wire.Msg) {
	switch msg.Type {
	case wire.TypeCatalog:
		c.catalog = msg.Catalog
		populateVieweeSelect(msg.Catalog)
		logScreenf("Catalog received: %d viewable functions.", len(msg.Catalog))

	case wire.TypeGeneration:
		initCanvas(msg.TextureSize, "#202020")
		setView(msg.XMin, msg.XMax, msg.YMin, msg.YMax)
		hudSet("generation", msg.Generation[:8])
		logScreenf("New generation %s, texture %dx%d.", msg.Generation[:8], msg.TextureSize, msg.TextureSize)

	case wire.TypeProgress:
		p := msg.Progress
		hudSet("level", fmt.Sprintf("%d / %d", p.Level, p.MaxDepth))
		hudSet("baseCells", fmt.Sprintf("%d / %d", p.BaseDone, p.BaseTarget))
		hudSet("extraCells", fmt.Sprint(p.ExtraDone))
		if p.Done {
			hudSet("status", "done")
		} else {
			hudSet("status", "refining")
		}

	case wire.TypeRects:
		drawRects(msg.Rects)
		hudSet("rects", fmt.Sprint(len(msg.Rects)))

	case wire.TypeError:
		logScreenf("Server rejected update: %s", msg.Error)

	default:
		logScreenf("Unknown message type %q.", msg.Type)
	}
}

// handleTexture replaces the canvas content with the final texture snapshot.
func (c *client) handleTexture(frame []byte) {
	size, pix, err := wire.DecodeTextureFrame(c.dec, frame)
	if err != nil {
		logScreenf("Bad texture frame: %v", err)
		return
	}
	drawTexture(size, pix)
	logScreenf("Texture frame painted (%d bytes compressed).", len(frame))
}

// bindControls wires the viewee and previous-advisory selectors to update
// messages. Changing either restarts the refinement server-side.
func (c *client) bindControls() {
	doc := js.Global().Get("document")
	onChange := js.FuncOf(func(this js.Value, args []js.Value) any {
		c.sendUpdate()
		return nil
	})
	doc.Call("getElementById", "viewee").Set("onchange", onChange)
	doc.Call("getElementById", "pra").Set("onchange", onChange)
}

func (c *client) sendUpdate() {
	doc := js.Global().Get("document")
	viewee := doc.Call("getElementById", "viewee").Get("value").String()
	pra := doc.Call("getElementById", "pra").Get("value").Int()

	if viewee != c.viewee {
		c.viewee = viewee
		populatePraSelect(c.catalog, viewee)
		pra = 0
	}

	u := wire.Update{Viewee: viewee, Pra: uint8(pra)}
	raw, err := json.Marshal(u)
	if err != nil {
		logFatalf("Failed to encode update: %v", err)
	}
	c.ws.Call("send", string(raw))
}

// populateVieweeSelect fills the viewee selector from the catalog and the
// previous-advisory selector from the first entry.
func populateVieweeSelect(catalog []wire.Viewable) {
	doc := js.Global().Get("document")
	sel := doc.Call("getElementById", "viewee")
	sel.Set("innerHTML", "")
	for _, v := range catalog {
		opt := doc.Call("createElement", "option")
		opt.Set("value", v.Key)
		opt.Set("textContent", v.Key)
		sel.Call("appendChild", opt)
	}
	if len(catalog) > 0 {
		populatePraSelect(catalog, catalog[0].Key)
	}
}

func populatePraSelect(catalog []wire.Viewable, viewee string) {
	doc := js.Global().Get("document")
	sel := doc.Call("getElementById", "pra")
	sel.Set("innerHTML", "")
	for _, v := range catalog {
		if v.Key != viewee {
			continue
		}
		for i, out := range v.Outputs {
			opt := doc.Call("createElement", "option")
			opt.Set("value", fmt.Sprint(i))
			opt.Set("textContent", out.Name)
			sel.Call("appendChild", opt)
		}
	}
}

func hudSet(id, value string) {
	js.Global().Get("document").Call("getElementById", id).Set("textContent", value)
}

// logScreenf appends a formatted message to the log element in the DOM.
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	doc := js.Global().Get("document")
	logElem := doc.Call("getElementById", "log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}
