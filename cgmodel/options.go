package cgmodel

import (
	"fmt"
	"os"
	"strings"

	odem "github.com/arrow50311/godem"
	"gopkg.in/yaml.v3"
)

// FittingOptions are the settings for one re-parametrization run, normally
// read from a small YAML file. Bead and pair indexes in the file are
// 1-based, like in the model files.
type FittingOptions struct {
	// DataType names the experimental data the fit targets, "md" for plain
	// distance data or "fret" for FRET efficiencies.
	DataType string `yaml:"data_type"`
	// TFit is the temperature (K) the trajectories were sampled at. Zero
	// leaves the energies unscaled.
	TFit float64 `yaml:"t_fit"`
	// Nonlinear forces the nonlinear machinery even on all-linear models.
	Nonlinear bool `yaml:"nonlinear"`
	// Params lists the pairs whose depths the fit may move. Empty means all.
	Params []int `yaml:"params"`
	// FRETPairs lists the bead pairs carrying the dyes.
	FRETPairs [][]int `yaml:"fret_pairs"`
	// FRETR0 is the Förster radius of the dye pair, in nm.
	FRETR0 float64 `yaml:"fret_r0"`
}

// DefaultFittingOptions returns options for a plain distance fit at 300 K
// with all parameters free.
func DefaultFittingOptions() *FittingOptions {
	O := new(FittingOptions)
	O.DataType = "md"
	O.TFit = 300
	O.FRETR0 = 5.0
	return O
}

// ReadFittingOptions reads a YAML options file. Settings missing from the
// file keep their default values, unknown settings are ignored.
func ReadFittingOptions(name string) (*FittingOptions, error) {
	O := DefaultFittingOptions()
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, O); err != nil {
		return nil, fmt.Errorf("Couldn't read the options file %s: %w", name, err)
	}
	if err := O.check(); err != nil {
		return nil, fmt.Errorf("Bad value in the options file %s: %w", name, err)
	}
	return O, nil
}

func (O *FittingOptions) check() error {
	if O.TFit < 0 {
		return fmt.Errorf("fitting temperature can't be negative: %4.2f", O.TFit)
	}
	if O.FRETR0 <= 0 {
		return fmt.Errorf("Förster radius must be positive: %4.2f", O.FRETR0)
	}
	for i, v := range O.Params {
		if v < 1 {
			return fmt.Errorf("pair indexes are 1-based in the options file, params has %d at position %d", v, i+1)
		}
	}
	for i, v := range O.FRETPairs {
		if len(v) != 2 {
			return fmt.Errorf("FRET pair %d should have exactly 2 beads, has %d", i+1, len(v))
		}
		if v[0] < 1 || v[1] < 1 {
			return fmt.Errorf("bead indexes are 1-based in the options file, FRET pair %d has (%d,%d)", i+1, v[0], v[1])
		}
	}
	return nil
}

// FRET reports whether the fit targets FRET efficiencies rather than plain
// distance data.
func (O *FittingOptions) FRET() bool {
	return strings.EqualFold(O.DataType, "fret")
}

// AdapterOptions translates the file-level settings into the Options the
// parent package's adapters take. Indexes switch from the files' 1-based
// convention to 0-based.
func (O *FittingOptions) AdapterOptions() *odem.Options {
	ret := odem.DefaultOptions()
	if O.TFit > 0 {
		ret.Beta(1 / (odem.GasConstantKJMol * O.TFit))
	}
	if len(O.Params) > 0 {
		p := make([]int, len(O.Params))
		for i, v := range O.Params {
			p[i] = v - 1
		}
		ret.Params(p)
	}
	if len(O.FRETPairs) > 0 {
		fp := make([][2]int, len(O.FRETPairs))
		for i, v := range O.FRETPairs {
			fp[i] = [2]int{v[0] - 1, v[1] - 1}
		}
		ret.FRETPairs(fp)
	}
	return ret
}

// Load reads a model file and, if given, a YAML options file, and applies to
// the model whatever settings concern it. No options file, or an empty name,
// just yields the defaults.
func Load(modelfile string, optsfile ...string) (*Model, *FittingOptions, error) {
	M, err := ReadModelFile(modelfile)
	if err != nil {
		return nil, nil, err
	}
	O := DefaultFittingOptions()
	if len(optsfile) > 0 && optsfile[0] != "" {
		O, err = ReadFittingOptions(optsfile[0])
		if err != nil {
			return nil, nil, err
		}
	}
	if O.Nonlinear {
		M.ForceNonlinear()
	}
	return M, O, nil
}
