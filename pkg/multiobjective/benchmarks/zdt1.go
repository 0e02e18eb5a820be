package benchmarks

import (
	"math"

	"github.com/cstnsystems/minotaur/pkg/multiobjective/framework"
)

const (
	Name = "ZDT1"
)

// ZDT1 is a benchmark function used to test the correctness
// of multi-objective algorithms. For more details, check the article below:
// https://datacrayon.com/practical-evolutionary-algorithms/synthetic-objective-functions-and-zdt1/
type ZDT1 struct {
	numVars int
}

func NewZDT1(numVars int) *ZDT1 {
	return &ZDT1{
		numVars,
	}
}

func (p *ZDT1) Name() string {
	return Name
}

// Evaluate implements framework.Evaluator. The problem is unconstrained,
// so the violation is always zero.
func (p *ZDT1) Evaluate(x []float64) framework.Evaluation {
	f1 := x[0]
	g := 1.0
	for i := 1; i < len(x); i++ {
		g += 9.0 * x[i] / float64(len(x)-1)
	}
	f2 := g * (1.0 - math.Sqrt(x[0]/g))

	return framework.Evaluation{
		Objectives: []float64{f1, f2},
		Violation:  0,
		Status:     0,
	}
}

func (p *ZDT1) Bounds() []framework.Bounds {
	b := make([]framework.Bounds, p.numVars)
	for i := 0; i < p.numVars; i++ {
		b[i] = framework.Bounds{
			L: 0.0,
			H: 1.0,
		}
	}
	return b
}

// TrueParetoFront generates numPoints points on the true Pareto front for ZDT1
func (p *ZDT1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i := 0; i < numPoints; i++ {
		x := float64(i) / float64(numPoints-1)
		points[i] = framework.ObjectiveSpacePoint{
			x, 1.0 - math.Sqrt(x),
		}
	}
	return points
}
