package anneal

import (
	"testing"

	"github.com/icfp25/aedificium/pkg/automaton"
	"github.com/icfp25/aedificium/pkg/planlog"
)

func TestTargetCountsDistributesEvenly(t *testing.T) {
	got := targetCounts(6)
	want := [automaton.Labels]int{2, 2, 1, 1}
	if got != want {
		t.Fatalf("targetCounts(6) = %v, want %v", got, want)
	}
}

func TestBalanceEnergyZeroWhenBalanced(t *testing.T) {
	labels := []int{0, 1, 2, 3}
	if e := balanceEnergy(labels); e != 0 {
		t.Fatalf("balanceEnergy(%v) = %v, want 0", labels, e)
	}
}

func TestBalanceEnergyPositiveWhenSkewed(t *testing.T) {
	labels := []int{0, 0, 0, 0}
	if e := balanceEnergy(labels); e <= 0 {
		t.Fatalf("balanceEnergy(%v) = %v, want > 0", labels, e)
	}
}

func TestObservationEnergyZeroForMatchingModel(t *testing.T) {
	m := automaton.NewModel(1, 0)
	m.Labels[0] = 1
	plan, err := planlog.ParsePlan("00")
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	obs, err := planlog.NewObservation(plan, []int{1, 1, 1})
	if err != nil {
		t.Fatalf("NewObservation: %v", err)
	}
	if e := observationEnergy(m, []planlog.Observation{obs}); e != 0 {
		t.Fatalf("observationEnergy = %v, want 0", e)
	}
}

func TestObservationEnergyCountsMismatches(t *testing.T) {
	m := automaton.NewModel(1, 0)
	m.Labels[0] = 1
	plan, err := planlog.ParsePlan("00")
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	obs, err := planlog.NewObservation(plan, []int{0, 0, 0})
	if err != nil {
		t.Fatalf("NewObservation: %v", err)
	}
	if e := observationEnergy(m, []planlog.Observation{obs}); e != 3 {
		t.Fatalf("observationEnergy = %v, want 3", e)
	}
}
