package util

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cstnsystems/minotaur/pkg/multiobjective/framework"
)

// FrontStats summarizes the objective values of a front, one entry per
// objective dimension.
type FrontStats struct {
	Min    []float64
	Max    []float64
	Mean   []float64
	StdDev []float64
}

// Summarize computes per-objective statistics over a set of points in the
// objective space. Returns the zero value for an empty input.
func Summarize(points []framework.ObjectiveSpacePoint) FrontStats {
	if len(points) == 0 {
		return FrontStats{}
	}

	numObjectives := len(points[0])
	s := FrontStats{
		Min:    make([]float64, numObjectives),
		Max:    make([]float64, numObjectives),
		Mean:   make([]float64, numObjectives),
		StdDev: make([]float64, numObjectives),
	}

	column := make([]float64, len(points))
	for m := 0; m < numObjectives; m++ {
		for i, p := range points {
			column[i] = p[m]
		}
		s.Min[m] = floats.Min(column)
		s.Max[m] = floats.Max(column)
		s.Mean[m] = stat.Mean(column, nil)
		s.StdDev[m] = stat.StdDev(column, nil)
	}

	return s
}
