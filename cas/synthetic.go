package cas

import "math"

// Synthetic network tables stand in for trained weights so the viewer runs
// out of the box and tests do not depend on weight files. The networks are
// hand-built to produce plausible advisory geometry: strong advisories in a
// narrow cone ahead of ownship, weak ones in a wider band, clear of
// conflict everywhere else, sided by the intruder's lateral position.

// SyntheticHCas builds a horizontal table. All tau buckets share the same
// geometry except that clear-of-conflict grows more attractive as time to
// impact increases.
func SyntheticHCas() *HNetTable {
	table := &HNetTable{}
	for pra := 0; pra < NumHAdvisories; pra++ {
		for bucket := 0; bucket < NumTauBuckets; bucket++ {
			table[pra][bucket] = syntheticHNet(0.4 + 0.15*float32(bucket))
		}
	}
	return table
}

// syntheticHNet maps normalized inputs through one ReLU layer:
//
//	p = relu(yn)  left side, m = relu(-yn)  right side
//	t = relu(1 - 2*xn)  threat, positive inside half the forward range
//
// cocBias sets how strongly clear-of-conflict competes.
func syntheticHNet(cocBias float32) *Network {
	return &Network{
		Layers: []Layer{
			{
				Weights: [][]float32{
					{0, 1, 0},  // p
					{0, -1, 0}, // m
					{-2, 0, 0}, // t (bias 1)
				},
				Biases: []float32{0, 0, 1},
			},
			{
				Weights: [][]float32{
					{0, 0, 0},        // COC
					{1, -4, 1.6},     // WL
					{-4, 1, 1.6},     // WR
					{1.2, -4, 4},     // SL
					{-4, 1.2, 4},     // SR
				},
				Biases: []float32{cocBias, -0.7, -0.7, -2.6, -2.6},
			},
		},
		MinInput:    []float32{0, -23e3, -math.Pi},
		MaxInput:    []float32{56e3, 23e3, math.Pi},
		MeanInput:   []float32{0, 0, 0},
		RangeInput:  []float32{56e3, 23e3, math.Pi},
		MeanOutput:  0,
		RangeOutput: 1,
	}
}

// SyntheticVCas builds a vertical table. A non-clear previous advisory
// lowers the clear-of-conflict bias slightly, giving the table a little
// hysteresis like the trained networks have.
func SyntheticVCas() *VNetTable {
	table := &VNetTable{}
	for pra := 0; pra < NumVAdvisories; pra++ {
		cocBias := float32(0.4)
		if VAdvisory(pra) != VClearOfConflict {
			cocBias = 0.3
		}
		table[pra] = syntheticVNet(cocBias)
	}
	return table
}

// syntheticVNet layers descend/climb advisories of increasing strength
// along shrinking time to horizontal separation loss, sided by whether the
// intruder is above or below.
func syntheticVNet(cocBias float32) *Network {
	return &Network{
		Layers: []Layer{
			{
				Weights: [][]float32{
					{1, 0, 0, 0},  // a: intruder above
					{-1, 0, 0, 0}, // b: intruder below
					{0, 0, 0, -2}, // t: urgency (bias 1)
				},
				Biases: []float32{0, 0, 1},
			},
			{
				Weights: [][]float32{
					{0, 0, 0},      // COC
					{1, -4, 1.6},   // DNC
					{-4, 1, 1.6},   // DND
					{1.2, -4, 4},   // DES1500
					{-4, 1.2, 4},   // CL1500
					{1.3, -4, 5},   // SDES1500
					{-4, 1.3, 5},   // SCL1500
					{1.4, -4, 6},   // SDES2500
					{-4, 1.4, 6},   // SCL2500
				},
				Biases: []float32{cocBias, -0.7, -0.7, -2.6, -2.6, -3.6, -3.6, -4.7, -4.7},
			},
		},
		MinInput:    []float32{-8e3, -100, -100, 0},
		MaxInput:    []float32{8e3, 100, 100, 40},
		MeanInput:   []float32{0, 0, 0, 0},
		RangeInput:  []float32{8e3, 100, 100, 40},
		MeanOutput:  0,
		RangeOutput: 1,
	}
}
