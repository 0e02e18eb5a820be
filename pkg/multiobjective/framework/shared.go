package framework

// Dominates checks if individual a dominates individual b.
//
// Constraint violation is compared first: a lower violation dominates
// outright, so feasibility acts as a lexicographically prior objective.
// At equal violation the usual Pareto comparison applies.
func Dominates(a, b Individual) bool {
	if a.CV < b.CV {
		return true
	}
	if a.CV > b.CV {
		return false
	}

	better := false
	for i := 0; i < len(a.F); i++ {
		if a.F[i] > b.F[i] {
			return false
		}
		if a.F[i] < b.F[i] {
			better = true
		}
	}
	return better
}

// NonDominatedSort performs fast non-dominated sorting on the population.
// It assigns every individual's Rank in place and returns the fronts as
// lists of population indices: fronts[0] is the non-dominated set, fronts[1]
// the set dominated only by fronts[0], and so on. The index representation
// avoids copying individuals between pools.
func NonDominatedSort(population []Individual) [][]int {
	n := len(population)
	if n == 0 {
		return nil
	}

	dominated := make([][]int, n)
	domCount := make([]int, n)

	// Calculate domination for each pair
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if Dominates(population[i], population[j]) {
				dominated[i] = append(dominated[i], j)
				domCount[j]++
			} else if Dominates(population[j], population[i]) {
				dominated[j] = append(dominated[j], i)
				domCount[i]++
			}
		}
	}

	// Find first front
	var fronts [][]int
	var currentFront []int
	for i := 0; i < n; i++ {
		if domCount[i] == 0 {
			population[i].Rank = 0
			currentFront = append(currentFront, i)
		}
	}
	fronts = append(fronts, currentFront)

	// Find subsequent fronts
	frontIndex := 0
	for len(currentFront) > 0 {
		var nextFront []int
		for _, idx := range currentFront {
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					population[dominatedIdx].Rank = frontIndex + 1
					nextFront = append(nextFront, dominatedIdx)
				}
			}
		}
		frontIndex++
		if len(nextFront) > 0 {
			fronts = append(fronts, nextFront)
		}
		currentFront = nextFront
	}

	return fronts
}
