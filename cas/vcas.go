package cas

// VAdvisory is a vertical resolution advisory.
type VAdvisory uint8

const (
	VClearOfConflict VAdvisory = iota
	VDoNotClimb
	VDoNotDescend
	VDescend1500
	VClimb1500
	VStrengthenDescend1500
	VStrengthenClimb1500
	VStrengthenDescend2500
	VStrengthenClimb2500

	NumVAdvisories = 9
)

func (a VAdvisory) String() string {
	switch a {
	case VClearOfConflict:
		return "COC"
	case VDoNotClimb:
		return "DNC"
	case VDoNotDescend:
		return "DND"
	case VDescend1500:
		return "DES1500"
	case VClimb1500:
		return "CL1500"
	case VStrengthenDescend1500:
		return "SDES1500"
	case VStrengthenClimb1500:
		return "SCL1500"
	case VStrengthenDescend2500:
		return "SDES2500"
	case VStrengthenClimb2500:
		return "SCL2500"
	}
	return "?"
}

// VNetTable holds one vertical network per previous advisory.
type VNetTable [NumVAdvisories]*Network

// VCas evaluates the vertical advisory networks. LastAdvisory selects the
// network; it is updated by every evaluation.
type VCas struct {
	LastAdvisory VAdvisory
	Networks     *VNetTable
}

// Process issues an advisory for an intruder height feet above ownship,
// given both rates of climb (feet per minute) and the time until horizontal
// separation loss tau (seconds).
func (v *VCas) Process(height, ownROC, intruderROC, tau float32) (VAdvisory, float32) {
	nnet := v.Networks[v.LastAdvisory]
	out := nnet.Eval([]float32{height, ownROC, intruderROC, tau})
	best, score := argmax(out)
	v.LastAdvisory = VAdvisory(best)
	return v.LastAdvisory, score
}
