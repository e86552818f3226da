package cas

import (
	"fmt"
	"image/color"

	advisory "github.com/opencas/advisoryviewer"
)

// VisualizableKey selects one of the viewable advisory functions. The set
// is closed and small, so dispatch is a switch rather than an interface.
type VisualizableKey uint8

const (
	HCasCartesian VisualizableKey = iota
	VCasVertical
)

func (k VisualizableKey) String() string {
	switch k {
	case HCasCartesian:
		return "hcas"
	case VCasVertical:
		return "vcas"
	}
	return "?"
}

func ParseVisualizableKey(s string) (VisualizableKey, error) {
	switch s {
	case "hcas":
		return HCasCartesian, nil
	case "vcas":
		return VCasVertical, nil
	}
	return 0, fmt.Errorf("unknown visualizable %q", s)
}

// Keys lists every viewable advisory function.
func Keys() []VisualizableKey {
	return []VisualizableKey{HCasCartesian, VCasVertical}
}

// Input describes one network input: its display metadata, allowed range
// and the value it is pinned to while not mapped to a plot axis.
type Input struct {
	Name        string
	Description string
	Unit        string
	Range       advisory.Range
}

// Output describes one advisory category and its display color.
type Output struct {
	Name        string
	Description string
	Color       color.RGBA
}

// Visualizable is one viewable advisory function together with its current
// plot settings: which inputs span the two axes, the pinned values of the
// remaining inputs, the previous advisory and the refinement depths.
type Visualizable struct {
	Key          VisualizableKey
	Inputs       []Input
	Outputs      []Output
	XAxis, YAxis int
	Pra          uint8
	Values       []float32
	MinDepth     int
	MaxDepth     int
}

// NewVisualizable returns the catalog entry for key with its default
// settings.
func NewVisualizable(key VisualizableKey) Visualizable {
	switch key {
	case VCasVertical:
		return Visualizable{
			Key: key,
			Inputs: []Input{
				{Name: "τ", Description: "time until horizontal separation loss", Unit: "s",
					Range: advisory.Range{Min: 0, Max: 40}},
				{Name: "Δ altitude", Description: "intruder altitude above ownship", Unit: "ft",
					Range: advisory.Range{Min: -8e3, Max: 8e3}},
				{Name: "own roc", Description: "ownship rate of climb", Unit: "fps",
					Range: advisory.Range{Min: -100, Max: 100}},
				{Name: "intruder roc", Description: "intruder rate of climb", Unit: "fps",
					Range: advisory.Range{Min: -100, Max: 100}},
			},
			Outputs: []Output{
				{Name: "COC", Description: "clear of conflict", Color: color.RGBA{13, 13, 13, 13}},
				{Name: "DNC", Description: "do not climb", Color: color.RGBA{240, 230, 140, 255}},
				{Name: "DND", Description: "do not descend", Color: color.RGBA{220, 220, 220, 255}},
				{Name: "DES1500", Description: "descend 1500 ft/min", Color: color.RGBA{255, 255, 224, 255}},
				{Name: "CL1500", Description: "climb 1500 ft/min", Color: color.RGBA{173, 216, 230, 255}},
				{Name: "SDES1500", Description: "strengthen descent to 1500 ft/min", Color: color.RGBA{255, 255, 0, 255}},
				{Name: "SCL1500", Description: "strengthen climb to 1500 ft/min", Color: color.RGBA{0, 0, 255, 255}},
				{Name: "SDES2500", Description: "strengthen descent to 2500 ft/min", Color: color.RGBA{165, 42, 42, 255}},
				{Name: "SCL2500", Description: "strengthen climb to 2500 ft/min", Color: color.RGBA{0, 0, 139, 255}},
			},
			XAxis:    0,
			YAxis:    1,
			Values:   []float32{10, 0, 0, 0},
			MinDepth: 5,
			MaxDepth: 10,
		}
	default: // HCasCartesian
		return Visualizable{
			Key: HCasCartesian,
			Inputs: []Input{
				{Name: "τ", Description: "estimated time to impact", Unit: "s",
					Range: advisory.Range{Min: 0, Max: 60}},
				{Name: "x", Description: "forward distance to intruder", Unit: "ft",
					Range: advisory.Range{Min: 0, Max: 56e3}},
				{Name: "y", Description: "left distance to intruder", Unit: "ft",
					Range: advisory.Range{Min: -23e3, Max: 23e3}},
				{Name: "ψ", Description: "relative intruder bearing, positive points left", Unit: "rad",
					Range: advisory.Range{Min: -3.1415927, Max: 3.1415927}},
			},
			Outputs: []Output{
				{Name: "COC", Description: "clear of conflict", Color: color.RGBA{13, 13, 13, 13}},
				{Name: "WL", Description: "weak left", Color: color.RGBA{255, 128, 128, 255}},
				{Name: "WR", Description: "weak right", Color: color.RGBA{144, 238, 144, 255}},
				{Name: "SL", Description: "strong left", Color: color.RGBA{255, 0, 0, 255}},
				{Name: "SR", Description: "strong right", Color: color.RGBA{0, 255, 0, 255}},
			},
			XAxis:    1,
			YAxis:    2,
			Values:   []float32{10, 0, 0, 0.1},
			MinDepth: 5,
			MaxDepth: 10,
		}
	}
}

// Validate checks plot settings against the catalog schema.
func (v *Visualizable) Validate() error {
	if len(v.Values) != len(v.Inputs) {
		return fmt.Errorf("%s: have %d input values, want %d", v.Key, len(v.Values), len(v.Inputs))
	}
	if v.XAxis < 0 || v.XAxis >= len(v.Inputs) || v.YAxis < 0 || v.YAxis >= len(v.Inputs) {
		return fmt.Errorf("%s: axis selectors out of range", v.Key)
	}
	if v.XAxis == v.YAxis {
		return fmt.Errorf("%s: x and y axis map to the same input", v.Key)
	}
	if int(v.Pra) >= len(v.Outputs) {
		return fmt.Errorf("%s: previous advisory %d out of range", v.Key, v.Pra)
	}
	return nil
}

// ViewerConfig derives the engine configuration for the current plot
// settings: axis ranges from the selected inputs, the palette from the
// output table.
func (v *Visualizable) ViewerConfig() advisory.ViewerConfig {
	colors := make(map[uint8]color.RGBA, len(v.Outputs))
	for i, out := range v.Outputs {
		colors[uint8(i)] = out.Color
	}
	return advisory.ViewerConfig{
		Colors:   colors,
		XRange:   v.Inputs[v.XAxis].Range,
		YRange:   v.Inputs[v.YAxis].Range,
		MinDepth: v.MinDepth,
		MaxDepth: v.MaxDepth,
	}
}

// Classifier builds the advisory classifier for the current plot settings.
// The closure is pure and safe for concurrent use: every invocation works
// on its own input vector and its own evaluation state.
func (v *Visualizable) Classifier(hcas *HNetTable, vcas *VNetTable) advisory.Classifier {
	values := make([]float32, len(v.Values))
	copy(values, v.Values)
	xAxis, yAxis, pra := v.XAxis, v.YAxis, v.Pra

	switch v.Key {
	case VCasVertical:
		return func(x, y float32) uint8 {
			in := [vcasInputs]float32{values[0], values[1], values[2], values[3]}
			in[xAxis] = x
			in[yAxis] = y
			vc := VCas{LastAdvisory: VAdvisory(pra), Networks: vcas}
			adv, _ := vc.Process(in[1], in[2], in[3], in[0])
			return uint8(adv)
		}
	default: // HCasCartesian
		return func(x, y float32) uint8 {
			in := [4]float32{values[0], values[1], values[2], values[3]}
			in[xAxis] = x
			in[yAxis] = y
			hc := HCas{LastAdvisory: HAdvisory(pra), Networks: hcas}
			adv, _ := hc.ProcessCartesian(in[0], in[1], in[2], in[3])
			return uint8(adv)
		}
	}
}
