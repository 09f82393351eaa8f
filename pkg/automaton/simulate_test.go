package automaton

import (
	"testing"

	"github.com/icfp25/aedificium/pkg/planlog"
)

func mustPlan(t *testing.T, raw string) planlog.Plan {
	t.Helper()
	p, err := planlog.ParsePlan(raw)
	if err != nil {
		t.Fatalf("ParsePlan(%q): %v", raw, err)
	}
	return p
}

func TestSimulateSingleRoomAllSelfLoops(t *testing.T) {
	m := NewModel(1, 0)
	m.Labels[0] = 2
	got := Simulate(m, mustPlan(t, "000000"))
	for _, l := range got {
		if l != 2 {
			t.Fatalf("all-self-loop single room should observe constant label 2, got %v", got)
		}
	}
	if len(got) != 7 {
		t.Fatalf("len(got) = %d, want 7 (1 + 6 moves)", len(got))
	}
}

func TestSimulateTwoRoomAlternator(t *testing.T) {
	m := NewModel(2, 0)
	m.Labels[0] = 0
	m.Labels[1] = 1
	m.Matching.Pair(ToPort(0, 0), ToPort(1, 0))

	got := Simulate(m, mustPlan(t, "0000"))
	want := []int{0, 1, 0, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSimulateChalkRewritesLabelGlobally(t *testing.T) {
	m := NewModel(2, 0)
	m.Labels[0] = 0
	m.Labels[1] = 1
	m.Matching.Pair(ToPort(0, 0), ToPort(1, 0))

	got := Simulate(m, mustPlan(t, "[3]0"))
	want := []int{0, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if m.Labels[0] != 3 {
		t.Fatalf("chalk write should persist on the room: m.Labels[0] = %d, want 3", m.Labels[0])
	}
}

func TestReproducesDetectsMismatch(t *testing.T) {
	m := NewModel(1, 0)
	m.Labels[0] = 2
	plan := mustPlan(t, "00")
	obs, err := planlog.NewObservation(plan, []int{2, 2, 2})
	if err != nil {
		t.Fatalf("NewObservation: %v", err)
	}
	if !Reproduces(m, []planlog.Observation{obs}) {
		t.Fatal("model should reproduce its own simulated observation")
	}

	bad, err := planlog.NewObservation(plan, []int{2, 1, 2})
	if err != nil {
		t.Fatalf("NewObservation: %v", err)
	}
	if Reproduces(m, []planlog.Observation{bad}) {
		t.Fatal("Reproduces should reject a mismatched observation")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := NewModel(1, 0)
	m.Labels[0] = 1
	c := m.Clone()
	c.Labels[0] = 2
	if m.Labels[0] != 1 {
		t.Fatalf("mutating clone's labels mutated the original: %d", m.Labels[0])
	}
}
