package cas

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeWeights(t *testing.T, file weightsFile) string {
	t.Helper()
	raw, err := yaml.Marshal(file)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "weights.yml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func fullWeightsFile() weightsFile {
	file := weightsFile{
		HCas: map[string]*Network{},
		VCas: map[string]*Network{},
	}
	hcas, vcas := SyntheticHCas(), SyntheticVCas()
	for pra := 0; pra < NumHAdvisories; pra++ {
		for tau := 0; tau < NumTauBuckets; tau++ {
			file.HCas[fmt.Sprintf("%d/%d", pra, tau)] = hcas[pra][tau]
		}
	}
	for pra := 0; pra < NumVAdvisories; pra++ {
		file.VCas[fmt.Sprint(pra)] = vcas[pra]
	}
	return file
}

func TestLoadTablesRoundTrip(t *testing.T) {
	path := writeWeights(t, fullWeightsFile())

	hcas, vcas, err := LoadTables(path)
	require.NoError(t, err)
	require.NotNil(t, hcas)
	require.NotNil(t, vcas)

	// The loaded networks behave like the ones that were written.
	in := []float32{8000, 6000, 0.1}
	want := SyntheticHCas()[1][3].Eval(in)
	require.Equal(t, want, hcas[1][3].Eval(in))

	in = []float32{2000, 0, 0, 10}
	wantV := SyntheticVCas()[2].Eval(in)
	require.Equal(t, wantV, vcas[2].Eval(in))
}

func TestLoadTablesAllowsAbsentSections(t *testing.T) {
	file := fullWeightsFile()
	file.HCas = nil
	path := writeWeights(t, file)

	hcas, vcas, err := LoadTables(path)
	require.NoError(t, err)
	require.Nil(t, hcas)
	require.NotNil(t, vcas)
}

func TestLoadTablesRejectsIncompleteTables(t *testing.T) {
	file := fullWeightsFile()
	delete(file.HCas, "2/5")
	path := writeWeights(t, file)

	_, _, err := LoadTables(path)
	require.ErrorContains(t, err, "missing network 2/5")
}

func TestLoadTablesRejectsBadKeys(t *testing.T) {
	for _, key := range []string{"nonsense", "9/0", "0/8", "-1/0"} {
		t.Run(key, func(t *testing.T) {
			file := fullWeightsFile()
			file.HCas[key] = file.HCas["0/0"]
			path := writeWeights(t, file)

			_, _, err := LoadTables(path)
			require.Error(t, err)
		})
	}
}

func TestLoadTablesRejectsBadDimensions(t *testing.T) {
	file := fullWeightsFile()
	file.VCas["4"] = exampleNetwork() // two inputs, two outputs
	path := writeWeights(t, file)

	_, _, err := LoadTables(path)
	require.ErrorContains(t, err, `vcas network "4"`)
}

func TestLoadTablesRejectsMissingFile(t *testing.T) {
	_, _, err := LoadTables(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoadTablesRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yml")
	require.NoError(t, os.WriteFile(path, []byte("hcas: ["), 0o644))

	_, _, err := LoadTables(path)
	require.Error(t, err)
}
