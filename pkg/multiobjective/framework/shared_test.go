package framework

import (
	"testing"
)

func ind(cv float64, f ...float64) Individual {
	return Individual{F: f, CV: cv}
}

func TestDominatesIrreflexive(t *testing.T) {
	a := ind(0, 1.0, 2.0)
	if Dominates(a, a) {
		t.Error("individual must not dominate itself")
	}

	b := ind(0.5, 3.0, 4.0)
	if Dominates(b, b) {
		t.Error("infeasible individual must not dominate itself")
	}
}

func TestDominatesObjectives(t *testing.T) {
	tests := []struct {
		name string
		a, b Individual
		want bool
	}{
		{"strictly better in all", ind(0, 1, 2), ind(0, 2, 3), true},
		{"better in one, equal in other", ind(0, 1, 3), ind(0, 2, 3), true},
		{"equal vectors", ind(0, 1, 2), ind(0, 1, 2), false},
		{"worse in one", ind(0, 1, 4), ind(0, 2, 3), false},
		{"incomparable", ind(0, 1, 4), ind(0, 2, 2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dominates(tt.a, tt.b); got != tt.want {
				t.Errorf("Dominates(%v, %v) = %v, want %v", tt.a.F, tt.b.F, got, tt.want)
			}
		})
	}
}

func TestDominatesConstraintPriority(t *testing.T) {
	// A feasible individual dominates an infeasible one regardless of
	// objective values.
	feasible := ind(0, 100, 100)
	infeasible := ind(0.1, 1, 1)

	if !Dominates(feasible, infeasible) {
		t.Error("feasible individual should dominate infeasible one")
	}
	if Dominates(infeasible, feasible) {
		t.Error("infeasible individual should not dominate feasible one")
	}

	// Lower violation wins between two infeasible individuals.
	lessViolated := ind(0.5, 100, 100)
	moreViolated := ind(2.0, 1, 1)
	if !Dominates(lessViolated, moreViolated) {
		t.Error("lower violation should dominate")
	}
}

func testPool() []Individual {
	return []Individual{
		ind(0, 1.0, 5.0),
		ind(0, 2.0, 4.0),
		ind(0, 3.0, 3.0),
		ind(0, 2.0, 5.0), // dominated by the first two
		ind(0, 4.0, 4.0), // dominated
		ind(1, 0.0, 0.0), // infeasible, dominated by all feasible
	}
}

func TestNonDominatedSortRanks(t *testing.T) {
	pool := testPool()
	fronts := NonDominatedSort(pool)

	if len(fronts) < 2 {
		t.Fatalf("expected at least 2 fronts, got %d", len(fronts))
	}

	// Every individual belongs to exactly one front and its rank matches
	// the front index.
	seen := make(map[int]bool)
	total := 0
	for rank, front := range fronts {
		for _, i := range front {
			if seen[i] {
				t.Errorf("individual %d appears in multiple fronts", i)
			}
			seen[i] = true
			total++
			if pool[i].Rank != rank {
				t.Errorf("individual %d: rank %d, in front %d", i, pool[i].Rank, rank)
			}
		}
	}
	if total != len(pool) {
		t.Errorf("fronts contain %d individuals, pool has %d", total, len(pool))
	}
}

func TestNonDominatedSortFirstFrontMutuallyNonDominating(t *testing.T) {
	pool := testPool()
	fronts := NonDominatedSort(pool)

	first := fronts[0]
	for _, i := range first {
		for _, j := range first {
			if i != j && Dominates(pool[i], pool[j]) {
				t.Errorf("front 0 members %d and %d are not mutually non-dominating", i, j)
			}
		}
	}
}

func TestNonDominatedSortDeterministic(t *testing.T) {
	pool1 := testPool()
	pool2 := testPool()

	NonDominatedSort(pool1)
	NonDominatedSort(pool2)

	for i := range pool1 {
		if pool1[i].Rank != pool2[i].Rank {
			t.Errorf("individual %d: rank %d vs %d on identical pools", i, pool1[i].Rank, pool2[i].Rank)
		}
	}

	// Re-running on the already ranked pool must not change anything.
	NonDominatedSort(pool1)
	for i := range pool1 {
		if pool1[i].Rank != pool2[i].Rank {
			t.Errorf("individual %d: rank changed on re-sort", i)
		}
	}
}

func TestNonDominatedSortEmpty(t *testing.T) {
	if fronts := NonDominatedSort(nil); fronts != nil {
		t.Errorf("expected nil fronts for empty pool, got %v", fronts)
	}
}
