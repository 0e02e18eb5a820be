// Package config loads and validates the YAML configuration that drives
// the minotaur CLI. Validation is fail-fast: a configuration that passes
// Validate never aborts a run halfway through.
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Config is the root configuration document.
type Config struct {
	Program     Program     `json:"program"`
	Solver      Solver      `json:"solver"`
	Constraints Constraints `json:"constraints"`
	Cycle       Cycle       `json:"cycle"`
	Optimize    *Optimize   `json:"optimize,omitempty"`
	Sweep       *Sweep      `json:"sweep,omitempty"`
}

// Program identifies the producing program, as a guard against feeding the
// CLI a file meant for something else.
type Program struct {
	Name    string `json:"name"`
	Module  string `json:"module"`
	Version string `json:"version"`
}

// Solver holds the cycle solver's iteration settings.
type Solver struct {
	MaxIter int     `json:"maxIter"`
	Tol     float64 `json:"tol"`
	Damping float64 `json:"damping"`
}

// Constraints holds the cycle operating limits.
type Constraints struct {
	T4Max float64 `json:"t4Max"`
}

// Cycle holds the flight condition and component efficiencies. BPR and OPR
// are optional because optimization and sweep modes search over them.
type Cycle struct {
	Mach    float64  `json:"mach"`
	AltKm   float64  `json:"altKm"`
	BPR     *float64 `json:"bpr,omitempty"`
	OPR     *float64 `json:"opr,omitempty"`
	EtaComp float64  `json:"etaComp"`
	EtaTurb float64  `json:"etaTurb"`
	EtaNozz float64  `json:"etaNozz"`
	FuelK   float64  `json:"fuelK"`
}

// Optimize parameterizes the NSGA-II run. Zero-valued fields fall back to
// the optimizer defaults.
type Optimize struct {
	PopSize       int          `json:"popSize,omitempty"`
	Generations   int          `json:"generations,omitempty"`
	CrossoverProb float64      `json:"crossoverProb,omitempty"`
	MutationProb  float64      `json:"mutationProb,omitempty"`
	EtaC          float64      `json:"etaC,omitempty"`
	EtaM          float64      `json:"etaM,omitempty"`
	Seed          uint64       `json:"seed,omitempty"`
	Bounds        [][2]float64 `json:"bounds,omitempty"`
}

// Sweep parameterizes the bpr x opr grid sweep.
type Sweep struct {
	BPRMin float64 `json:"bprMin"`
	BPRMax float64 `json:"bprMax"`
	BPRN   int     `json:"bprN"`
	OPRMin float64 `json:"oprMin"`
	OPRMax float64 `json:"oprMax"`
	OPRN   int     `json:"oprN"`
}

// Load reads, parses and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	if c.Solver.MaxIter <= 0 || c.Solver.MaxIter > 10000 {
		return fmt.Errorf("solver.maxIter must be in [1, 10000], got %d", c.Solver.MaxIter)
	}
	if c.Solver.Tol <= 0 {
		return fmt.Errorf("solver.tol must be positive, got %g", c.Solver.Tol)
	}
	if c.Solver.Damping <= 0 || c.Solver.Damping > 1 {
		return fmt.Errorf("solver.damping must be in (0, 1], got %g", c.Solver.Damping)
	}
	if c.Constraints.T4Max <= 0 {
		return fmt.Errorf("constraints.t4Max must be positive, got %g", c.Constraints.T4Max)
	}
	if c.Cycle.Mach < 0 || c.Cycle.Mach > 0.95 {
		return fmt.Errorf("cycle.mach must be in [0, 0.95], got %g", c.Cycle.Mach)
	}
	if c.Cycle.AltKm < 0 || c.Cycle.AltKm > 20 {
		return fmt.Errorf("cycle.altKm must be in [0, 20], got %g", c.Cycle.AltKm)
	}
	etas := []struct {
		name  string
		value float64
	}{
		{"cycle.etaComp", c.Cycle.EtaComp},
		{"cycle.etaTurb", c.Cycle.EtaTurb},
		{"cycle.etaNozz", c.Cycle.EtaNozz},
	}
	for _, eta := range etas {
		if eta.value < 0 || eta.value > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %g", eta.name, eta.value)
		}
	}

	if s := c.Sweep; s != nil {
		if s.BPRN < 1 || s.OPRN < 1 {
			return fmt.Errorf("sweep.bprN and sweep.oprN must be >= 1")
		}
		if s.BPRMin > s.BPRMax {
			return fmt.Errorf("sweep.bprMin must be <= sweep.bprMax")
		}
		if s.OPRMin > s.OPRMax {
			return fmt.Errorf("sweep.oprMin must be <= sweep.oprMax")
		}
	}

	if o := c.Optimize; o != nil {
		if o.PopSize < 0 {
			return fmt.Errorf("optimize.popSize must be positive, got %d", o.PopSize)
		}
		if o.Generations < 0 {
			return fmt.Errorf("optimize.generations must be non-negative, got %d", o.Generations)
		}
		for i, b := range o.Bounds {
			if b[0] > b[1] {
				return fmt.Errorf("optimize.bounds[%d]: lower bound %g exceeds upper bound %g", i, b[0], b[1])
			}
		}
	}

	return nil
}
