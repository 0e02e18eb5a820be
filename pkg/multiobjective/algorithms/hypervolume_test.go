package algorithms

import (
	"math"
	"testing"

	"github.com/cstnsystems/minotaur/pkg/multiobjective/framework"
)

func hvFront(points ...[2]float64) []framework.Individual {
	front := make([]framework.Individual, len(points))
	for i, p := range points {
		front[i] = framework.Individual{F: []float64{p[0], p[1]}}
	}
	return front
}

func TestHypervolume2DEmpty(t *testing.T) {
	ref := framework.ObjectiveSpacePoint{1.0, 1.0}
	if hv := Hypervolume2D(nil, ref); hv != 0 {
		t.Errorf("empty front: hypervolume %v, want 0", hv)
	}
}

func TestHypervolume2DKnownValue(t *testing.T) {
	// Two points against reference (1, 1):
	// (0.3, 0.8) adds (1-0.3)*(1-0.8) = 0.14, then (0.5, 0.5) adds
	// (1-0.5)*(0.8-0.5) = 0.15.
	front := hvFront([2]float64{0.3, 0.8}, [2]float64{0.5, 0.5})
	ref := framework.ObjectiveSpacePoint{1.0, 1.0}

	hv := Hypervolume2D(front, ref)
	if math.Abs(hv-0.29) > 1e-12 {
		t.Errorf("hypervolume %v, want 0.29", hv)
	}
	if hv <= 0 || hv >= 1 {
		t.Errorf("hypervolume %v outside (0, 1) for unit reference box", hv)
	}
}

func TestHypervolume2DOrderIndependent(t *testing.T) {
	ref := framework.ObjectiveSpacePoint{1.0, 1.0}
	a := hvFront([2]float64{0.3, 0.8}, [2]float64{0.5, 0.5}, [2]float64{0.1, 0.9})
	b := hvFront([2]float64{0.5, 0.5}, [2]float64{0.1, 0.9}, [2]float64{0.3, 0.8})

	hvA := Hypervolume2D(a, ref)
	hvB := Hypervolume2D(b, ref)
	if hvA != hvB {
		t.Errorf("hypervolume depends on input order: %v vs %v", hvA, hvB)
	}

	// Repeated calls on the same slice must not change the result.
	if again := Hypervolume2D(a, ref); again != hvA {
		t.Errorf("hypervolume changed on repeated call: %v vs %v", again, hvA)
	}
}

func TestHypervolume2DIgnoresDominatedByReference(t *testing.T) {
	ref := framework.ObjectiveSpacePoint{1.0, 1.0}
	inside := hvFront([2]float64{0.3, 0.8}, [2]float64{0.5, 0.5})
	withOutlier := hvFront([2]float64{0.3, 0.8}, [2]float64{0.5, 0.5}, [2]float64{1.2, 0.1})

	if Hypervolume2D(inside, ref) != Hypervolume2D(withOutlier, ref) {
		t.Error("point outside the reference box must contribute nothing")
	}
}
