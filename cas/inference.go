// Package cas implements the airborne collision-avoidance advisory
// functions shown by the viewer: small fixed-topology feed-forward networks
// mapping continuous sensor inputs to a discrete advisory, selected from a
// table by the previously issued advisory (and, horizontally, a tau bucket).
package cas

import "fmt"

// Layer is one dense layer: a weight matrix of output-neuron rows and a
// bias vector of the same length.
type Layer struct {
	Weights [][]float32 `yaml:"weights"`
	Biases  []float32   `yaml:"biases"`
}

func (l Layer) apply(in []float32, relu bool) []float32 {
	out := make([]float32, len(l.Weights))
	for i, row := range l.Weights {
		acc := l.Biases[i]
		for j, w := range row {
			acc += w * in[j]
		}
		if relu && acc < 0 {
			acc = 0
		}
		out[i] = acc
	}
	return out
}

// Network is a trained advisory network plus the normalization constants
// from its nnet header. Inputs are clamped to [MinInput, MaxInput], shifted
// by MeanInput and scaled by RangeInput before the ReLU chain; outputs are
// denormalized with MeanOutput/RangeOutput.
type Network struct {
	Layers      []Layer   `yaml:"layers"`
	MinInput    []float32 `yaml:"min_input"`
	MaxInput    []float32 `yaml:"max_input"`
	MeanInput   []float32 `yaml:"mean_input"`
	RangeInput  []float32 `yaml:"range_input"`
	MeanOutput  float32   `yaml:"mean_output"`
	RangeOutput float32   `yaml:"range_output"`
}

// Eval runs the network on one input vector. len(in) must equal the
// network's input width.
func (n *Network) Eval(in []float32) []float32 {
	acc := make([]float32, len(in))
	for i, v := range in {
		if v < n.MinInput[i] {
			v = n.MinInput[i]
		}
		if v > n.MaxInput[i] {
			v = n.MaxInput[i]
		}
		acc[i] = (v - n.MeanInput[i]) / n.RangeInput[i]
	}

	last := len(n.Layers) - 1
	for i, layer := range n.Layers {
		acc = layer.apply(acc, i != last)
	}

	for i := range acc {
		acc[i] = acc[i]*n.RangeOutput + n.MeanOutput
	}
	return acc
}

// validate checks that the layer dimensions chain up and match the expected
// input and output widths.
func (n *Network) validate(inputs, outputs int) error {
	if len(n.Layers) == 0 {
		return fmt.Errorf("network has no layers")
	}
	if len(n.MinInput) != inputs || len(n.MaxInput) != inputs ||
		len(n.MeanInput) != inputs || len(n.RangeInput) != inputs {
		return fmt.Errorf("normalization vectors must have %d entries", inputs)
	}
	width := inputs
	for i, layer := range n.Layers {
		if len(layer.Weights) == 0 || len(layer.Weights) != len(layer.Biases) {
			return fmt.Errorf("layer %d: weight rows and biases mismatch", i)
		}
		for _, row := range layer.Weights {
			if len(row) != width {
				return fmt.Errorf("layer %d: expected rows of width %d, got %d", i, width, len(row))
			}
		}
		width = len(layer.Weights)
	}
	if width != outputs {
		return fmt.Errorf("final layer has %d outputs, expected %d", width, outputs)
	}
	return nil
}

// argmax returns the index of the largest value and the value itself. Ties
// go to the lowest index.
func argmax(v []float32) (int, float32) {
	best, bestVal := 0, v[0]
	for i, x := range v[1:] {
		if x > bestVal {
			best, bestVal = i+1, x
		}
	}
	return best, bestVal
}
