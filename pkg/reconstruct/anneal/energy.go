package anneal

import (
	"github.com/icfp25/aedificium/pkg/automaton"
	"github.com/icfp25/aedificium/pkg/planlog"
)

// targetCounts distributes n rooms across the four labels as evenly as
// possible: floor(n/4), with the first n%4 labels getting one extra.
func targetCounts(n int) [automaton.Labels]int {
	var t [automaton.Labels]int
	base := n / automaton.Labels
	extra := n % automaton.Labels
	for l := 0; l < automaton.Labels; l++ {
		t[l] = base
		if l < extra {
			t[l]++
		}
	}
	return t
}

func labelCounts(labels []int) [automaton.Labels]int {
	var c [automaton.Labels]int
	for _, l := range labels {
		c[l]++
	}
	return c
}

// balanceEnergy is E_bal = sum_l (count(l) - target(l))^2.
func balanceEnergy(labels []int) float64 {
	counts := labelCounts(labels)
	target := targetCounts(len(labels))
	e := 0.0
	for l := 0; l < automaton.Labels; l++ {
		d := float64(counts[l] - target[l])
		e += d * d
	}
	return e
}

// observationEnergy is the total Hamming distance between simulated and
// observed label sequences across all plans.
func observationEnergy(m *automaton.Model, obs []planlog.Observation) float64 {
	clone := m.Clone()
	mismatches := 0.0
	for _, o := range obs {
		got := automaton.Simulate(clone, o.Plan)
		for i := range got {
			if i >= len(o.Result) || got[i] != o.Result[i] {
				mismatches++
			}
		}
	}
	return mismatches
}

// energy computes E = E_obs + lambdaBal * E_bal for m.
func energy(m *automaton.Model, obs []planlog.Observation, lambdaBal float64) float64 {
	return observationEnergy(m, obs) + lambdaBal*balanceEnergy(m.Labels)
}
