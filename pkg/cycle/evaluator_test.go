package cycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalVector() []float64 {
	x := make([]float64, NumVars)
	x[VarBPR] = 0.6
	x[VarOPR] = 8.0
	x[VarEtaComp] = 0.82
	x[VarEtaTurb] = 0.86
	return x
}

func TestEvaluatorFeasiblePoint(t *testing.T) {
	e := NewEvaluator(defaultInput())
	eval := e.Evaluate(evalVector())

	require.Equal(t, StatusOK, eval.Status)
	require.Len(t, eval.Objectives, 2)
	assert.Greater(t, eval.Objectives[0], 0.0, "TSFC objective")
	assert.Less(t, eval.Objectives[1], 0.0, "thrust is negated for minimization")
	assert.Zero(t, eval.Violation)

	require.Len(t, eval.Outputs, 2)
	assert.Greater(t, eval.Outputs[0], 1000.0, "T4 output")
}

func TestEvaluatorConstraintViolation(t *testing.T) {
	base := defaultInput()
	base.T4Max = 600.0
	e := NewEvaluator(base)

	eval := e.Evaluate(evalVector())
	assert.Equal(t, StatusConstraintViol, eval.Status)
	assert.Greater(t, eval.Violation, 0.0, "violation is the T4 excess")
	// The objectives remain the real cycle values, not penalties.
	assert.Less(t, eval.Objectives[0], 1e6)
	assert.Greater(t, eval.Objectives[1], -1e6)
}

func TestEvaluatorPenalizesFailedSolves(t *testing.T) {
	base := defaultInput()
	base.FuelK = 0 // every solve fails regardless of the decision vector
	e := NewEvaluator(base)

	eval := e.Evaluate(evalVector())
	assert.Equal(t, StatusNonphysical, eval.Status)
	assert.Equal(t, []float64{1e6, 1e6}, eval.Objectives)
	assert.Equal(t, 1.0, eval.Violation)
}

func TestEvaluatorOverridesDecisionVariables(t *testing.T) {
	base := defaultInput()
	base.BPR = 99.0 // base value must be ignored in favor of the vector
	e := NewEvaluator(base)

	low := evalVector()
	high := evalVector()
	high[VarOPR] = 14.0

	evalLow := e.Evaluate(low)
	evalHigh := e.Evaluate(high)
	assert.NotEqual(t, evalLow.Objectives, evalHigh.Objectives,
		"different decision vectors must reach the solver")
}

func TestDefaultBounds(t *testing.T) {
	bounds := DefaultBounds()
	require.Len(t, bounds, NumVars)
	for i, b := range bounds {
		assert.Less(t, b.L, b.H, "bound %d", i)
	}
	assert.Equal(t, 0.2, bounds[VarBPR].L)
	assert.Equal(t, 16.0, bounds[VarOPR].H)
}
