package algorithms

import (
	"sort"

	"github.com/cstnsystems/minotaur/pkg/multiobjective/framework"
)

// Hypervolume2D computes the hypervolume indicator of a bi-objective front
// relative to a reference point that every front member is expected to
// weakly dominate. The front is swept in ascending order of the first
// objective, accumulating the rectangles between each point and the best
// second objective seen so far. Points not strictly better than the
// reference in both coordinates contribute nothing; an empty front has
// hypervolume zero.
//
// This is a post-hoc quality scalar. The optimizer never consumes it.
func Hypervolume2D(front []framework.Individual, refPoint framework.ObjectiveSpacePoint) float64 {
	if len(front) == 0 {
		return 0.0
	}

	sorted := make([]*framework.Individual, len(front))
	for i := range front {
		sorted[i] = &front[i]
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].F[0] < sorted[b].F[0]
	})

	hv := 0.0
	best := refPoint[1]

	for _, ind := range sorted {
		if ind.F[0] < refPoint[0] && ind.F[1] < refPoint[1] {
			width := refPoint[0] - ind.F[0]
			height := best - ind.F[1]
			if height > 0 {
				hv += width * height
			}
			best = ind.F[1]
		}
	}

	return hv
}
