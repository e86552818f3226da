// Package wire defines the messages exchanged between the viewer server and
// its web clients: JSON text frames for catalog, configuration and progress
// updates plus leaf-rectangle batches, and one binary frame type carrying a
// zstd-compressed texture snapshot.
package wire

import (
	"encoding/binary"
	"fmt"
	"image/color"

	"github.com/klauspost/compress/zstd"

	advisory "github.com/opencas/advisoryviewer"
	"github.com/opencas/advisoryviewer/cas"
)

// Message types sent by the server.
const (
	TypeCatalog    = "catalog"
	TypeGeneration = "generation"
	TypeProgress   = "progress"
	TypeRects      = "rects"
	TypeError      = "error"
)

// Update is sent by a client to change what is being visualized. Zero-value
// axis and depth fields mean "catalog default".
type Update struct {
	Viewee   string    `json:"viewee"`
	XAxis    *int      `json:"xAxis,omitempty"`
	YAxis    *int      `json:"yAxis,omitempty"`
	Pra      uint8     `json:"pra"`
	Values   []float32 `json:"values,omitempty"`
	MinDepth *int      `json:"minDepth,omitempty"`
	MaxDepth *int      `json:"maxDepth,omitempty"`
}

// Msg is the server-to-client JSON envelope.
type Msg struct {
	Type string `json:"type"`

	// TypeCatalog
	Catalog []Viewable `json:"catalog,omitempty"`

	// TypeGeneration, TypeProgress, TypeRects
	Generation string `json:"generation,omitempty"`

	// TypeGeneration: the normalized view the generation renders.
	XMin        float32 `json:"xMin,omitempty"`
	XMax        float32 `json:"xMax,omitempty"`
	YMin        float32 `json:"yMin,omitempty"`
	YMax        float32 `json:"yMax,omitempty"`
	TextureSize int     `json:"textureSize,omitempty"`

	// TypeProgress
	Progress *Progress `json:"progress,omitempty"`

	// TypeRects: full re-emission of the current leaves.
	Rects []Rect `json:"rects,omitempty"`

	// TypeError
	Error string `json:"error,omitempty"`
}

// Viewable is the client-facing description of one catalog entry.
type Viewable struct {
	Key      string    `json:"key"`
	Inputs   []Input   `json:"inputs"`
	Outputs  []Output  `json:"outputs"`
	XAxis    int       `json:"xAxis"`
	YAxis    int       `json:"yAxis"`
	Values   []float32 `json:"values"`
	MinDepth int       `json:"minDepth"`
	MaxDepth int       `json:"maxDepth"`
}

type Input struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Min         float32 `json:"min"`
	Max         float32 `json:"max"`
}

type Output struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type Progress struct {
	BaseDone   uint64 `json:"baseDone"`
	BaseTarget uint64 `json:"baseTarget"`
	ExtraDone  uint64 `json:"extraDone"`
	Level      int    `json:"level"`
	MaxDepth   int    `json:"maxDepth"`
	Done       bool   `json:"done"`
}

type Rect struct {
	X0    float32 `json:"x0"`
	Y0    float32 `json:"y0"`
	X1    float32 `json:"x1"`
	Y1    float32 `json:"y1"`
	Color string  `json:"color"`
}

// HexColor renders c as #rrggbbaa, the form canvas contexts accept.
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// FromVisualizable converts a catalog entry for transport.
func FromVisualizable(v cas.Visualizable) Viewable {
	w := Viewable{
		Key:      v.Key.String(),
		XAxis:    v.XAxis,
		YAxis:    v.YAxis,
		Values:   v.Values,
		MinDepth: v.MinDepth,
		MaxDepth: v.MaxDepth,
	}
	for _, in := range v.Inputs {
		w.Inputs = append(w.Inputs, Input{
			Name:        in.Name,
			Description: in.Description,
			Unit:        in.Unit,
			Min:         in.Range.Min,
			Max:         in.Range.Max,
		})
	}
	for _, out := range v.Outputs {
		w.Outputs = append(w.Outputs, Output{
			Name:        out.Name,
			Description: out.Description,
			Color:       HexColor(out.Color),
		})
	}
	return w
}

// FromCells converts polygon sink output for transport.
func FromCells(cells []advisory.CellRect) []Rect {
	rects := make([]Rect, 0, len(cells))
	for _, c := range cells {
		rects = append(rects, Rect{
			X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1,
			Color: HexColor(c.Color),
		})
	}
	return rects
}

// Binary texture frames: a 8-byte header (magic + square edge length)
// followed by the zstd-compressed raw RGBA pixels.
var textureMagic = [4]byte{'A', 'V', 'T', 'X'}

const textureHeaderLen = 8

// EncodeTextureFrame compresses pix (RGBA, size*size*4 bytes) into a binary
// frame.
func EncodeTextureFrame(enc *zstd.Encoder, size int, pix []byte) ([]byte, error) {
	if len(pix) != size*size*4 {
		return nil, fmt.Errorf("texture frame: have %d pixel bytes, want %d", len(pix), size*size*4)
	}
	frame := make([]byte, textureHeaderLen, textureHeaderLen+len(pix)/4)
	copy(frame, textureMagic[:])
	binary.BigEndian.PutUint32(frame[4:], uint32(size))
	return enc.EncodeAll(pix, frame), nil
}

// DecodeTextureFrame reverses EncodeTextureFrame, returning the edge length
// and the raw RGBA pixels.
func DecodeTextureFrame(dec *zstd.Decoder, frame []byte) (int, []byte, error) {
	if len(frame) < textureHeaderLen || [4]byte(frame[:4]) != textureMagic {
		return 0, nil, fmt.Errorf("texture frame: bad header")
	}
	size := int(binary.BigEndian.Uint32(frame[4:8]))
	pix, err := dec.DecodeAll(frame[textureHeaderLen:], make([]byte, 0, size*size*4))
	if err != nil {
		return 0, nil, fmt.Errorf("texture frame: decompressing pixels: %w", err)
	}
	if len(pix) != size*size*4 {
		return 0, nil, fmt.Errorf("texture frame: have %d pixel bytes, want %d", len(pix), size*size*4)
	}
	return size, pix, nil
}
