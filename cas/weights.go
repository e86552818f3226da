package cas

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Network tables are loaded from a YAML file at startup. This replaces the
// original build-time generation of network constants from .nnet files;
// the schema mirrors Network field for field.
//
//	hcas:
//	  "1/3":        # previous advisory / tau bucket
//	    layers: [{weights: [[...]], biases: [...]}, ...]
//	    min_input: [...]
//	    ...
//	vcas:
//	  "2":          # previous advisory
//	    ...
type weightsFile struct {
	HCas map[string]*Network `yaml:"hcas"`
	VCas map[string]*Network `yaml:"vcas"`
}

const (
	hcasInputs = 3
	vcasInputs = 4
)

// LoadTables reads both network tables from path. A table whose section is
// absent is returned nil; a section that is present must be complete and
// dimensionally consistent.
func LoadTables(path string) (*HNetTable, *VNetTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading weights file: %w", err)
	}

	var file weightsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, nil, fmt.Errorf("parsing weights file: %w", err)
	}

	var hcas *HNetTable
	if len(file.HCas) != 0 {
		hcas = &HNetTable{}
		for key, nnet := range file.HCas {
			var pra, tau int
			if _, err := fmt.Sscanf(key, "%d/%d", &pra, &tau); err != nil {
				return nil, nil, fmt.Errorf("hcas key %q: want \"pra/tau\": %w", key, err)
			}
			if pra < 0 || pra >= NumHAdvisories || tau < 0 || tau >= NumTauBuckets {
				return nil, nil, fmt.Errorf("hcas key %q out of range", key)
			}
			if err := nnet.validate(hcasInputs, NumHAdvisories); err != nil {
				return nil, nil, fmt.Errorf("hcas network %q: %w", key, err)
			}
			hcas[pra][tau] = nnet
		}
		for pra := range hcas {
			for tau, nnet := range hcas[pra] {
				if nnet == nil {
					return nil, nil, fmt.Errorf("hcas table is missing network %d/%d", pra, tau)
				}
			}
		}
	}

	var vcas *VNetTable
	if len(file.VCas) != 0 {
		vcas = &VNetTable{}
		for key, nnet := range file.VCas {
			var pra int
			if _, err := fmt.Sscanf(key, "%d", &pra); err != nil {
				return nil, nil, fmt.Errorf("vcas key %q: want \"pra\": %w", key, err)
			}
			if pra < 0 || pra >= NumVAdvisories {
				return nil, nil, fmt.Errorf("vcas key %q out of range", key)
			}
			if err := nnet.validate(vcasInputs, NumVAdvisories); err != nil {
				return nil, nil, fmt.Errorf("vcas network %q: %w", key, err)
			}
			vcas[pra] = nnet
		}
		for pra, nnet := range vcas {
			if nnet == nil {
				return nil, nil, fmt.Errorf("vcas table is missing network %d", pra)
			}
		}
	}

	return hcas, vcas, nil
}
