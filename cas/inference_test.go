package cas

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func exampleNetwork() *Network {
	layer := Layer{
		Weights: [][]float32{{2, 3}, {1, 2}},
		Biases:  []float32{5, 3},
	}
	return &Network{
		Layers:      []Layer{layer, layer, layer, layer},
		MinInput:    []float32{-2, -2.5},
		MaxInput:    []float32{2, 2.5},
		MeanInput:   []float32{0, 0},
		RangeInput:  []float32{4, 5},
		MeanOutput:  1.5,
		RangeOutput: 5,
	}
}

func TestBasicInferenceExample(t *testing.T) {
	out := exampleNetwork().Eval([]float32{1.3, 2.3})
	require.Len(t, out, 2)
	require.InDelta(t, 2345.525, out[0], 0.01)
	require.InDelta(t, 1355.6001, out[1], 0.01)
}

func TestEvalClampsInputs(t *testing.T) {
	nnet := exampleNetwork()
	clamped := nnet.Eval([]float32{10, -10})
	atBounds := nnet.Eval([]float32{2, -2.5})
	require.Equal(t, atBounds, clamped)
}

func TestValidateRejectsBadDimensions(t *testing.T) {
	require.NoError(t, exampleNetwork().validate(2, 2))

	empty := exampleNetwork()
	empty.Layers = nil
	require.Error(t, empty.validate(2, 2))

	badNorm := exampleNetwork()
	badNorm.MinInput = []float32{0}
	require.Error(t, badNorm.validate(2, 2))

	badRow := exampleNetwork()
	badRow.Layers[1].Weights[0] = []float32{1, 2, 3}
	require.Error(t, badRow.validate(2, 2))

	badBiases := exampleNetwork()
	badBiases.Layers[0].Biases = []float32{1}
	require.Error(t, badBiases.validate(2, 2))

	require.Error(t, exampleNetwork().validate(2, 5))
}

func TestArgmaxTiesGoToLowestIndex(t *testing.T) {
	i, v := argmax([]float32{1, 3, 3, 2})
	require.Equal(t, 1, i)
	require.Equal(t, float32(3), v)
}
