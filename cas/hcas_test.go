package cas

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTauIndex(t *testing.T) {
	for _, tc := range []struct {
		tau    float32
		bucket int
	}{
		{tau: 0, bucket: 0},
		{tau: 4.9, bucket: 0},
		{tau: 5, bucket: 1},
		{tau: 12, bucket: 2},
		{tau: 14.99, bucket: 2},
		// The trained buckets leave a hole between 15 and 15.5 that falls
		// through to the catch-all.
		{tau: 15.2, bucket: 7},
		{tau: 15.5, bucket: 3},
		{tau: 19.9, bucket: 3},
		{tau: 25, bucket: 4},
		{tau: 35, bucket: 5},
		{tau: 50, bucket: 6},
		{tau: 60, bucket: 7},
		{tau: 1e4, bucket: 7},
		{tau: -1, bucket: 7},
	} {
		require.Equal(t, tc.bucket, tauIndex(tc.tau), "tau %v", tc.tau)
	}
}

func TestHCasSyntheticAdvisories(t *testing.T) {
	table := SyntheticHCas()

	for _, tc := range []struct {
		name               string
		tau, forward, left float32
		want               HAdvisory
	}{
		{name: "far ahead is clear", tau: 15, forward: 40000, left: 0, want: HClearOfConflict},
		{name: "mid range is clear", tau: 20, forward: 20000, left: 0, want: HClearOfConflict},
		{name: "close on the left turns strongly", tau: 10, forward: 2000, left: 3000, want: HStrongLeft},
		{name: "nearing on the left turns weakly", tau: 2, forward: 8000, left: 6000, want: HWeakLeft},
		{name: "nearing on the right turns weakly", tau: 2, forward: 8000, left: -6000, want: HWeakRight},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := HCas{LastAdvisory: HClearOfConflict, Networks: table}
			got, _ := h.ProcessCartesian(tc.tau, tc.forward, tc.left, 0.1)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.want, h.LastAdvisory)
		})
	}
}

func TestHCasPolarMatchesCartesian(t *testing.T) {
	table := SyntheticHCas()

	// 10000 ft at 36.87°: forward 8000, left 6000.
	polar := HCas{Networks: table}
	gotPolar, _ := polar.ProcessPolar(2, 10000, 0.6435011, 0.1)

	cartesian := HCas{Networks: table}
	gotCartesian, _ := cartesian.ProcessCartesian(2, 8000, 6000, 0.1)

	require.Equal(t, gotCartesian, gotPolar)
}
