package anneal

import (
	"math/rand"
	"testing"

	"github.com/icfp25/aedificium/pkg/automaton"
	"github.com/icfp25/aedificium/pkg/planlog"
)

func TestBuildInitialProducesTotalInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := buildInitial(nil, 4, 0, rng)
	if err := m.Matching.Validate(); err != nil {
		t.Fatalf("buildInitial produced a non-involution: %v", err)
	}
}

func TestBuildInitialHonoursLabelBalance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := buildInitial(nil, 8, 0, rng)
	if e := balanceEnergy(m.Labels); e != 0 {
		t.Fatalf("buildInitial balance energy = %v, want 0 for N=8", e)
	}
}

func TestApply2optPreservesInvolutionAndUndoes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := buildInitial(nil, 6, 0, rng)
	before := append([]int(nil), m.Matching[:]...)

	undo := apply2opt(m, rng)
	if err := m.Matching.Validate(); err != nil {
		t.Fatalf("apply2opt broke the involution: %v", err)
	}
	undo()
	for p := range m.Matching {
		if m.Matching[p] != before[p] {
			t.Fatalf("undo did not restore matching at port %d: got %d, want %d", p, m.Matching[p], before[p])
		}
	}
}

func TestApplyLabelSwapUndoes(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m := automaton.NewModel(3, 0)
	m.Labels[0], m.Labels[1], m.Labels[2] = 0, 1, 2
	before := append([]int(nil), m.Labels...)

	undo := applyLabelSwap(m, rng)
	undo()
	for i := range before {
		if m.Labels[i] != before[i] {
			t.Fatalf("undo did not restore labels: got %v, want %v", m.Labels, before)
		}
	}
}

func TestApplyLabelNudgeMovesTowardBalance(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := automaton.NewModel(4, 0)
	for i := range m.Labels {
		m.Labels[i] = 0 // maximally unbalanced
	}
	before := balanceEnergy(m.Labels)
	applyLabelNudge(m, rng)
	after := balanceEnergy(m.Labels)
	if after >= before {
		t.Fatalf("applyLabelNudge did not reduce imbalance: before=%v after=%v", before, after)
	}
}

func TestBuildInitialIgnoresChalkSteps(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	plan, err := planlog.ParsePlan("[1]0")
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	obs, err := planlog.NewObservation(plan, []int{0, 0})
	if err != nil {
		t.Fatalf("NewObservation: %v", err)
	}
	m := buildInitial([]planlog.Observation{obs}, 2, 0, rng)
	if err := m.Matching.Validate(); err != nil {
		t.Fatalf("buildInitial with a chalk-bearing plan broke the involution: %v", err)
	}
}
