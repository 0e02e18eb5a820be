package cycle

import (
	"github.com/cstnsystems/minotaur/pkg/multiobjective/framework"
)

// Decision vector layout for cycle optimization.
const (
	VarBPR = iota
	VarOPR
	VarEtaComp
	VarEtaTurb
	NumVars
)

// DefaultBounds returns the standard design-space box for cycle
// optimization: bypass ratio, overall pressure ratio, compressor and
// turbine efficiencies.
func DefaultBounds() []framework.Bounds {
	return []framework.Bounds{
		{L: 0.2, H: 1.5},
		{L: 4.0, H: 16.0},
		{L: 0.75, H: 0.90},
		{L: 0.80, H: 0.92},
	}
}

// Evaluator adapts the cycle solver to the optimizer's evaluator contract.
// The bi-objective trade-off is minimize TSFC versus maximize thrust,
// encoded as minimizing negated thrust. The turbine inlet temperature
// limit becomes the constraint violation.
type Evaluator struct {
	base Input
}

// NewEvaluator builds an evaluator around a base design point. The four
// decision variables override the corresponding base fields per call;
// everything else (flight condition, solver settings, T4 limit) is fixed.
func NewEvaluator(base Input) *Evaluator {
	return &Evaluator{base: base}
}

func (e *Evaluator) Evaluate(x []float64) framework.Evaluation {
	in := e.base
	in.BPR = x[VarBPR]
	in.OPR = x[VarOPR]
	in.EtaComp = x[VarEtaComp]
	in.EtaTurb = x[VarEtaTurb]

	out := Solve(in)

	switch out.Status {
	case StatusOK, StatusConstraintViol:
		cv := 0.0
		if in.T4Max > 0 && out.T4 > in.T4Max {
			cv = out.T4 - in.T4Max
		}
		return framework.Evaluation{
			Objectives: []float64{out.TSFC, -out.Thrust},
			Violation:  cv,
			Status:     out.Status,
			Outputs:    []float64{out.T4, float64(out.Iterations)},
		}
	default:
		// Non-converged or non-physical points are ordinary poor-quality
		// results, never out-of-band errors.
		return framework.Evaluation{
			Objectives: []float64{1e6, 1e6},
			Violation:  1.0,
			Status:     out.Status,
			Outputs:    []float64{out.T4, float64(out.Iterations)},
		}
	}
}
