package cycle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensitivityShape(t *testing.T) {
	res, err := Sensitivity(defaultInput(), 1e-3)
	require.NoError(t, err)

	require.Len(t, res.Jacobian, len(SensitivityParams))
	for i, row := range res.Jacobian {
		require.Len(t, row, len(SensitivityOutputs), "row %d", i)
		for j, d := range row {
			assert.False(t, math.IsNaN(d), "jacobian[%d][%d] is NaN", i, j)
		}
	}

	for _, p := range SensitivityParams {
		assert.Contains(t, res.StepSizes, p)
		assert.Contains(t, res.BaseValues, p)
	}
	for _, o := range SensitivityOutputs {
		assert.Contains(t, res.BaseValues, o)
	}
}

func TestSensitivityStepSizes(t *testing.T) {
	in := defaultInput()
	res, err := Sensitivity(in, 1e-3)
	require.NoError(t, err)

	assert.InDelta(t, in.BPR*1e-3, res.StepSizes["bpr"], 1e-15)
	assert.InDelta(t, in.OPR*1e-3, res.StepSizes["opr"], 1e-15)
	// Altitude near sea level would give a degenerate relative step.
	low := in
	low.AltKm = 0.1
	resLow, err := Sensitivity(low, 1e-3)
	require.NoError(t, err)
	assert.InDelta(t, 1e-3, resLow.StepSizes["alt_km"], 1e-15)
}

func TestSensitivitySigns(t *testing.T) {
	res, err := Sensitivity(defaultInput(), 1e-3)
	require.NoError(t, err)

	// A more efficient compressor needs less work for the same pressure
	// ratio, so compressor exit and therefore combustor exit run cooler.
	etaCompRow := res.Jacobian[2]
	assert.Negative(t, etaCompRow[2], "dT4/dEtaComp")

	// Raising OPR heats the compressor exit, which heats the combustor exit.
	oprRow := res.Jacobian[1]
	assert.Positive(t, oprRow[2], "dT4/dOPR")
}

func TestSensitivityDeterministic(t *testing.T) {
	first, err := Sensitivity(defaultInput(), 1e-3)
	require.NoError(t, err)
	second, err := Sensitivity(defaultInput(), 1e-3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSensitivityRejectsBadInputs(t *testing.T) {
	_, err := Sensitivity(defaultInput(), 0)
	assert.Error(t, err, "non-positive step")

	in := defaultInput()
	in.MaxIter = 1
	_, err = Sensitivity(in, 1e-3)
	assert.Error(t, err, "non-converging base point")

	in = defaultInput()
	in.T4Max = 100
	_, err = Sensitivity(in, 1e-3)
	assert.Error(t, err, "constraint-violating base point is not a clean baseline")
}
