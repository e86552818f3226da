package cas

import "math"

// HAdvisory is a horizontal resolution advisory.
type HAdvisory uint8

const (
	HClearOfConflict HAdvisory = iota
	HWeakLeft
	HWeakRight
	HStrongLeft
	HStrongRight

	NumHAdvisories = 5
)

func (a HAdvisory) String() string {
	switch a {
	case HClearOfConflict:
		return "COC"
	case HWeakLeft:
		return "WL"
	case HWeakRight:
		return "WR"
	case HStrongLeft:
		return "SL"
	case HStrongRight:
		return "SR"
	}
	return "?"
}

// NumTauBuckets is the number of time-to-impact ranges the horizontal
// networks were trained for.
const NumTauBuckets = 8

// HNetTable holds one network per previous advisory and tau bucket.
type HNetTable [NumHAdvisories][NumTauBuckets]*Network

// tauIndex maps a time to impact in seconds onto its trained bucket.
// Boundaries follow the published network splits.
func tauIndex(tau float32) int {
	switch {
	case tau >= 0.0 && tau < 5.0:
		return 0
	case tau >= 5.0 && tau < 10.0:
		return 1
	case tau >= 10.0 && tau < 15.0:
		return 2
	case tau >= 15.5 && tau < 20.0:
		return 3
	case tau >= 20.0 && tau < 30.0:
		return 4
	case tau >= 30.0 && tau < 40.0:
		return 5
	case tau >= 40.0 && tau < 60.0:
		return 6
	default:
		return 7
	}
}

// HCas evaluates the horizontal advisory networks. LastAdvisory selects the
// network row; it is updated by every evaluation.
type HCas struct {
	LastAdvisory HAdvisory
	Networks     *HNetTable
}

// ProcessCartesian issues an advisory for an intruder at the given forward
// and left distance (feet), with relative bearing psi (radians) and time to
// impact tau (seconds). Returns the advisory and its network score.
func (h *HCas) ProcessCartesian(tau, forward, left, psi float32) (HAdvisory, float32) {
	nnet := h.Networks[h.LastAdvisory][tauIndex(tau)]
	out := nnet.Eval([]float32{forward, left, psi})
	best, score := argmax(out)
	h.LastAdvisory = HAdvisory(best)
	return h.LastAdvisory, score
}

// ProcessPolar is ProcessCartesian for an intruder given by range (feet)
// and bearing theta (radians, counterclockwise from own heading).
func (h *HCas) ProcessPolar(tau, rng, theta, psi float32) (HAdvisory, float32) {
	sin, cos := math.Sincos(float64(theta))
	return h.ProcessCartesian(tau, rng*float32(cos), rng*float32(sin), psi)
}
