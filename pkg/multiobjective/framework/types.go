package framework

// Individual represents one evaluated point in the decision space.
//
// X, F, CV, Status and Outputs are written once per evaluation and then
// treated as immutable; Rank and Distance are recomputed from scratch by
// non-dominated sorting and crowding distance every generation.
type Individual struct {
	// X holds the decision variables, one per configured dimension.
	X []float64
	// F holds the objective values. All objectives are minimized.
	F []float64
	// CV is the aggregate constraint violation. Zero means feasible.
	CV float64
	// Status is the evaluator's status code, carried through untouched.
	Status int
	// Outputs holds diagnostic values from the evaluator. The algorithm
	// never reads them.
	Outputs []float64

	// Rank is the non-dominated front index. Lower is better.
	Rank int
	// Distance is the crowding distance within the individual's front.
	Distance float64
}

// Clone returns a deep copy. Pools hold conceptually independent copies
// during a generation, so individuals are copied by value, never aliased.
func (ind Individual) Clone() Individual {
	out := ind
	out.X = append([]float64(nil), ind.X...)
	out.F = append([]float64(nil), ind.F...)
	out.Outputs = append([]float64(nil), ind.Outputs...)
	return out
}

// Bounds is the closed interval constraining one decision variable.
type Bounds struct {
	L float64
	H float64
}

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

// Evaluation is the result of evaluating one decision vector.
type Evaluation struct {
	// Objectives are the values to minimize.
	Objectives []float64
	// Violation is the aggregate constraint violation, >= 0.
	Violation float64
	// Status is an opaque evaluator status code.
	Status int
	// Outputs are diagnostic values, not used by the algorithm.
	Outputs []float64
}

// Evaluator maps a decision vector to objective values. Implementations
// must be deterministic given the same decision vector and must always
// return a value; failed evaluations are reported as poor-quality results
// through Violation and Status, never as out-of-band errors.
type Evaluator interface {
	Evaluate(x []float64) Evaluation
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(x []float64) Evaluation

func (f EvaluatorFunc) Evaluate(x []float64) Evaluation {
	return f(x)
}
