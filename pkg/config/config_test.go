package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `program:
  name: MINOTAUR
  module: cycle
  version: "1.1.0"
solver:
  maxIter: 200
  tol: 1.0e-10
  damping: 0.5
constraints:
  t4Max: 1400.0
cycle:
  mach: 0.65
  altKm: 8.0
  etaComp: 0.82
  etaTurb: 0.86
  etaNozz: 0.95
  fuelK: 1.0
sweep:
  bprMin: 0.2
  bprMax: 1.5
  bprN: 10
  oprMin: 4.0
  oprMax: 16.0
  oprN: 10
`

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "MINOTAUR", cfg.Program.Name)
	assert.Equal(t, 200, cfg.Solver.MaxIter)
	assert.Equal(t, 1400.0, cfg.Constraints.T4Max)
	assert.Equal(t, 0.65, cfg.Cycle.Mach)
	require.NotNil(t, cfg.Sweep)
	assert.Equal(t, 10, cfg.Sweep.BPRN)
	assert.Nil(t, cfg.Optimize)
	assert.Nil(t, cfg.Cycle.BPR, "bpr is optional and was not set")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, validYAML+"bogus: true\n"))
	assert.Error(t, err, "strict parsing must reject unknown keys")
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero maxIter", func(c *Config) { c.Solver.MaxIter = 0 }},
		{"maxIter too large", func(c *Config) { c.Solver.MaxIter = 10001 }},
		{"zero tol", func(c *Config) { c.Solver.Tol = 0 }},
		{"damping above 1", func(c *Config) { c.Solver.Damping = 1.5 }},
		{"zero t4Max", func(c *Config) { c.Constraints.T4Max = 0 }},
		{"mach too high", func(c *Config) { c.Cycle.Mach = 1.2 }},
		{"negative altitude", func(c *Config) { c.Cycle.AltKm = -1 }},
		{"etaComp above 1", func(c *Config) { c.Cycle.EtaComp = 1.5 }},
		{"zero sweep bins", func(c *Config) { c.Sweep.BPRN = 0 }},
		{"inverted sweep range", func(c *Config) { c.Sweep.OPRMin = 20; c.Sweep.OPRMax = 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validYAML))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateEtaErrorsStable(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	// With two efficiencies out of range the first declared one must be
	// reported, on every run.
	cfg.Cycle.EtaTurb = 1.5
	cfg.Cycle.EtaNozz = -0.1
	for i := 0; i < 10; i++ {
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle.etaTurb")
	}
}

func TestValidateOptimizeBounds(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.Optimize = &Optimize{Bounds: [][2]float64{{0.2, 1.5}, {16.0, 4.0}}}
	assert.Error(t, cfg.Validate(), "inverted optimize bound must be rejected")

	cfg.Optimize.Bounds = [][2]float64{{0.2, 1.5}, {4.0, 16.0}}
	assert.NoError(t, cfg.Validate())
}
