package algorithms

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-logr/logr"

	"github.com/cstnsystems/minotaur/pkg/multiobjective/framework"
)

const (
	Name = "NSGA-II"
)

// unranked marks individuals that non-dominated sorting has not seen yet.
const unranked = math.MaxInt

// NSGA2Config holds configuration parameters for NSGA-II.
// The configuration is immutable once the optimizer is constructed.
type NSGA2Config struct {
	// PopSize is the population size N. Even sizes pair cleanly in
	// crossover; odd sizes work, the surplus child of the last pair is
	// discarded.
	PopSize int
	// Generations is the number of generational steps G.
	Generations int
	// CrossoverProb is the per-pair SBX probability, in [0, 1].
	CrossoverProb float64
	// MutationProb is the per-gene polynomial mutation probability, in [0, 1].
	MutationProb float64
	// EtaC is the SBX distribution index, > 0.
	EtaC float64
	// EtaM is the polynomial mutation distribution index, > 0.
	EtaM float64
	// Bounds constrain each decision variable; its length fixes the
	// decision space dimensionality.
	Bounds []framework.Bounds
	// Seed initializes the deterministic generator. Equal seeds and equal
	// evaluators reproduce runs bit for bit.
	Seed uint64
	// Logger receives progress output. The zero value discards it.
	Logger logr.Logger
}

// DefaultConfig returns the standard parameterization: SBX and mutation
// distribution indices of 20, crossover probability 0.9, mutation
// probability 0.1.
func DefaultConfig() NSGA2Config {
	return NSGA2Config{
		PopSize:       100,
		Generations:   50,
		CrossoverProb: 0.9,
		MutationProb:  0.1,
		EtaC:          20.0,
		EtaM:          20.0,
		Seed:          42,
	}
}

// Validate reports the first precondition violation. There is no meaningful
// recovery from any of these, so construction fails before a single
// generation runs.
func (c *NSGA2Config) Validate() error {
	if c.PopSize <= 0 {
		return fmt.Errorf("population size must be positive, got %d", c.PopSize)
	}
	if c.Generations < 0 {
		return fmt.Errorf("generation count must be non-negative, got %d", c.Generations)
	}
	if c.CrossoverProb < 0 || c.CrossoverProb > 1 {
		return fmt.Errorf("crossover probability must be in [0, 1], got %g", c.CrossoverProb)
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		return fmt.Errorf("mutation probability must be in [0, 1], got %g", c.MutationProb)
	}
	if c.EtaC <= 0 {
		return fmt.Errorf("crossover distribution index must be positive, got %g", c.EtaC)
	}
	if c.EtaM <= 0 {
		return fmt.Errorf("mutation distribution index must be positive, got %g", c.EtaM)
	}
	if len(c.Bounds) == 0 {
		return fmt.Errorf("bounds must not be empty")
	}
	for i, b := range c.Bounds {
		if b.L > b.H {
			return fmt.Errorf("bounds[%d]: lower bound %g exceeds upper bound %g", i, b.L, b.H)
		}
	}
	return nil
}

// ParetoFront is the result of an optimization run.
type ParetoFront struct {
	// Solutions is the rank-0 subset of the terminal population.
	Solutions []framework.Individual
	// Generation is the number of generational steps actually executed.
	Generation int
	// Evaluations is the total number of evaluator calls.
	Evaluations int
}

// NSGA2 implements the elitist non-dominated sorting genetic algorithm.
// Each instance owns its generator state, so independent instances run
// deterministically side by side in one process.
type NSGA2 struct {
	config     NSGA2Config
	population []framework.Individual
	rngState   uint64
	log        logr.Logger
	evals      int
}

// NewNSGA2 creates a new optimizer instance from a validated configuration.
func NewNSGA2(config NSGA2Config) (*NSGA2, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid NSGA-II config: %w", err)
	}
	return &NSGA2{
		config:   config,
		rngState: config.Seed,
		log:      config.Logger,
	}, nil
}

// rand advances the multiplicative-additive recurrence and maps the high
// bits to [0, 1). This is the only entropy source in the optimizer; every
// downstream draw consumes it in one strict global order.
func (n *NSGA2) rand() float64 {
	n.rngState = n.rngState*6364136223846793005 + 1442695040888963407
	return float64(n.rngState>>33) / float64(1<<31)
}

// randInt returns an integer in [0, m).
func (n *NSGA2) randInt(m int) int {
	return int(n.rand() * float64(m))
}

// initialize builds the first generation by stratified sampling: each
// dimension's range is split into PopSize bins, a Fisher-Yates shuffle
// assigns one bin per individual, and one uniform draw places the gene
// inside its bin. Marginal coverage per dimension is exact; joint coverage
// is not guaranteed.
func (n *NSGA2) initialize() {
	popSize := n.config.PopSize
	d := len(n.config.Bounds)

	strata := make([][]int, d)
	for j := range strata {
		strata[j] = make([]int, popSize)
		for i := range strata[j] {
			strata[j][i] = i
		}
	}
	for _, dim := range strata {
		for i := popSize - 1; i >= 1; i-- {
			k := n.randInt(i + 1)
			dim[i], dim[k] = dim[k], dim[i]
		}
	}

	n.population = make([]framework.Individual, 0, popSize)
	for i := 0; i < popSize; i++ {
		x := make([]float64, d)
		for j := 0; j < d; j++ {
			b := n.config.Bounds[j]
			u := (float64(strata[j][i]) + n.rand()) / float64(popSize)
			x[j] = b.L + u*(b.H-b.L)
		}
		n.population = append(n.population, framework.Individual{
			X:        x,
			CV:       0,
			Status:   -1,
			Rank:     unranked,
			Distance: 0,
		})
	}
}

// evaluate runs the evaluator for one individual and stores the result.
// NaN objectives or violations would make sort comparisons undefined, so
// they are sanitized to +Inf at this boundary; the individual then loses
// every comparison, which is the worst outcome it can have anyway.
func (n *NSGA2) evaluate(ind *framework.Individual, evaluator framework.Evaluator) {
	res := evaluator.Evaluate(ind.X)
	n.evals++

	f := append([]float64(nil), res.Objectives...)
	sanitized := false
	for i, v := range f {
		if math.IsNaN(v) {
			f[i] = math.Inf(1)
			sanitized = true
		}
	}
	cv := res.Violation
	if math.IsNaN(cv) {
		cv = math.Inf(1)
		sanitized = true
	}
	if sanitized {
		n.log.V(1).Info("sanitized NaN evaluation result", "x", ind.X, "status", res.Status)
	}

	ind.F = f
	ind.CV = cv
	ind.Status = res.Status
	ind.Outputs = append([]float64(nil), res.Outputs...)
}

// CrowdingDistance calculates crowding distance for the individuals of one
// front, given as population indices. Fronts of two or fewer members get
// infinite distance; otherwise the extremes of every objective get infinity
// and interior members accumulate the normalized span of their neighbors.
// A degenerate objective range below 1e-10 is replaced by 1.0 to keep the
// division bounded.
func CrowdingDistance(population []framework.Individual, front []int) {
	if len(front) <= 2 {
		for _, i := range front {
			population[i].Distance = math.Inf(1)
		}
		return
	}

	for _, i := range front {
		population[i].Distance = 0
	}

	numObjectives := len(population[front[0]].F)
	idx := append([]int(nil), front...)

	for m := 0; m < numObjectives; m++ {
		sort.SliceStable(idx, func(a, b int) bool {
			return population[idx[a]].F[m] < population[idx[b]].F[m]
		})

		first := idx[0]
		last := idx[len(idx)-1]
		population[first].Distance = math.Inf(1)
		population[last].Distance = math.Inf(1)

		objectiveRange := population[last].F[m] - population[first].F[m]
		if math.Abs(objectiveRange) <= 1e-10 {
			objectiveRange = 1.0
		}

		for i := 1; i < len(idx)-1; i++ {
			population[idx[i]].Distance +=
				(population[idx[i+1]].F[m] - population[idx[i-1]].F[m]) / objectiveRange
		}
	}
}

// tournamentSelect draws two population indices with replacement and
// returns the better one: lower rank wins, then larger crowding distance;
// remaining ties go to the second draw.
func (n *NSGA2) tournamentSelect() int {
	a := n.randInt(len(n.population))
	b := n.randInt(len(n.population))

	indA := &n.population[a]
	indB := &n.population[b]
	switch {
	case indA.Rank < indB.Rank:
		return a
	case indB.Rank < indA.Rank:
		return b
	case indA.Distance > indB.Distance:
		return a
	default:
		return b
	}
}

// sbxCrossover performs simulated binary crossover on two parent vectors.
// One draw decides whether the pair recombines at all; each gene then
// recombines with probability one half. Effectively equal genes are left
// untouched. Children are clamped to the configured bounds.
func (n *NSGA2) sbxCrossover(p1, p2 []float64) ([]float64, []float64) {
	c1 := append([]float64(nil), p1...)
	c2 := append([]float64(nil), p2...)

	if n.rand() > n.config.CrossoverProb {
		return c1, c2
	}

	for i := range c1 {
		if n.rand() > 0.5 {
			continue
		}

		b := n.config.Bounds[i]
		y1 := math.Min(p1[i], p2[i])
		y2 := math.Max(p1[i], p2[i])

		if math.Abs(y2-y1) < 1e-10 {
			continue
		}

		beta := 1.0 + 2.0*(y1-b.L)/(y2-y1)
		alpha := 2.0 - math.Pow(beta, -(n.config.EtaC+1.0))
		u := n.rand()
		var betaq float64
		if u <= 1.0/alpha {
			betaq = math.Pow(u*alpha, 1.0/(n.config.EtaC+1.0))
		} else {
			betaq = math.Pow(1.0/(2.0-u*alpha), 1.0/(n.config.EtaC+1.0))
		}

		c1[i] = 0.5 * ((y1 + y2) - betaq*(y2-y1))
		c2[i] = 0.5 * ((y1 + y2) + betaq*(y2-y1))

		c1[i] = math.Max(b.L, math.Min(b.H, c1[i]))
		c2[i] = math.Max(b.L, math.Min(b.H, c2[i]))
	}

	return c1, c2
}

// polynomialMutation perturbs each gene with probability MutationProb,
// using the two-branch polynomial formula parameterized by EtaM. Genes are
// clamped to their bounds afterwards.
func (n *NSGA2) polynomialMutation(x []float64) {
	for i := range x {
		if n.rand() > n.config.MutationProb {
			continue
		}

		b := n.config.Bounds[i]
		y := x[i]
		delta1 := (y - b.L) / (b.H - b.L)
		delta2 := (b.H - y) / (b.H - b.L)

		u := n.rand()
		var deltaq float64
		if u < 0.5 {
			xy := 1.0 - delta1
			val := 2.0*u + (1.0-2.0*u)*math.Pow(xy, n.config.EtaM+1.0)
			deltaq = math.Pow(val, 1.0/(n.config.EtaM+1.0)) - 1.0
		} else {
			xy := 1.0 - delta2
			val := 2.0*(1.0-u) + 2.0*(u-0.5)*math.Pow(xy, n.config.EtaM+1.0)
			deltaq = 1.0 - math.Pow(val, 1.0/(n.config.EtaM+1.0))
		}

		x[i] = y + deltaq*(b.H-b.L)
		x[i] = math.Max(b.L, math.Min(b.H, x[i]))
	}
}

// createOffspring derives exactly PopSize evaluated children from the
// current population. The surplus child of the last pair of an odd-sized
// population still consumes its mutation draws before being discarded, so
// the generator sequence does not depend on how the loop ends.
func (n *NSGA2) createOffspring(evaluator framework.Evaluator) []framework.Individual {
	popSize := n.config.PopSize
	offspring := make([]framework.Individual, 0, popSize)

	for len(offspring) < popSize {
		p1 := n.population[n.tournamentSelect()].X
		p2 := n.population[n.tournamentSelect()].X

		c1, c2 := n.sbxCrossover(p1, p2)
		n.polynomialMutation(c1)
		n.polynomialMutation(c2)

		ind1 := framework.Individual{X: c1, Status: -1, Rank: unranked}
		n.evaluate(&ind1, evaluator)
		offspring = append(offspring, ind1)

		if len(offspring) < popSize {
			ind2 := framework.Individual{X: c2, Status: -1, Rank: unranked}
			n.evaluate(&ind2, evaluator)
			offspring = append(offspring, ind2)
		}
	}

	return offspring
}

// environmentalSelection merges parents and offspring into a 2N pool,
// re-ranks it from scratch, and keeps the best N by (rank, crowding
// distance). Sorting an index list keeps the pool itself in stable storage.
func (n *NSGA2) environmentalSelection(offspring []framework.Individual) {
	pool := append(n.population, offspring...)

	fronts := framework.NonDominatedSort(pool)
	for _, front := range fronts {
		CrowdingDistance(pool, front)
	}

	indices := make([]int, len(pool))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		if pool[indices[a]].Rank != pool[indices[b]].Rank {
			return pool[indices[a]].Rank < pool[indices[b]].Rank
		}
		return pool[indices[a]].Distance > pool[indices[b]].Distance
	})

	next := make([]framework.Individual, 0, n.config.PopSize)
	for _, i := range indices[:n.config.PopSize] {
		next = append(next, pool[i])
	}
	n.population = next
}

// Run executes the optimization and returns the terminal rank-0 front.
// The evaluator is called once per individual, in population order; no
// generation is skipped or reordered.
func (n *NSGA2) Run(evaluator framework.Evaluator) *ParetoFront {
	n.log.Info("starting optimization",
		"algorithm", Name,
		"popSize", n.config.PopSize,
		"generations", n.config.Generations,
		"dimensions", len(n.config.Bounds),
		"seed", n.config.Seed)

	n.initialize()
	for i := range n.population {
		n.evaluate(&n.population[i], evaluator)
	}
	fronts := framework.NonDominatedSort(n.population)
	for _, front := range fronts {
		CrowdingDistance(n.population, front)
	}

	for gen := 0; gen < n.config.Generations; gen++ {
		offspring := n.createOffspring(evaluator)
		n.environmentalSelection(offspring)

		if (gen+1)%10 == 0 || gen == n.config.Generations-1 {
			n.log.V(1).Info("generation complete",
				"generation", gen+1,
				"frontSize", n.frontSize(),
				"evaluations", n.evals)
		}
	}

	var solutions []framework.Individual
	for i := range n.population {
		if n.population[i].Rank == 0 {
			solutions = append(solutions, n.population[i].Clone())
		}
	}

	n.log.Info("optimization complete",
		"frontSize", len(solutions),
		"evaluations", n.evals)

	return &ParetoFront{
		Solutions:   solutions,
		Generation:  n.config.Generations,
		Evaluations: n.evals,
	}
}

// Population returns the current working population. Intended for
// inspection and tests.
func (n *NSGA2) Population() []framework.Individual {
	return n.population
}

func (n *NSGA2) frontSize() int {
	count := 0
	for i := range n.population {
		if n.population[i].Rank == 0 {
			count++
		}
	}
	return count
}
