package planlog

import "testing"

func TestNewObservationEnforcesLengthLaw(t *testing.T) {
	p, err := ParsePlan("012")
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if _, err := NewObservation(p, []int{0, 1, 2}); err == nil {
		t.Fatal("expected NewObservation to reject a result shorter than moves+1")
	}
	obs, err := NewObservation(p, []int{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("NewObservation: %v", err)
	}
	if len(obs.Result) != 4 {
		t.Fatalf("len(obs.Result) = %d, want 4", len(obs.Result))
	}
}

func TestNewObservationRejectsOutOfRangeLabel(t *testing.T) {
	p, err := ParsePlan("0")
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if _, err := NewObservation(p, []int{0, 9}); err == nil {
		t.Fatal("expected NewObservation to reject an out-of-range observed label")
	}
}

func TestParseObservationsParallelArrays(t *testing.T) {
	plans := []string{"0", "01"}
	results := [][]int{{1, 2}, {1, 2, 3}}
	obs, err := ParseObservations(plans, results)
	if err != nil {
		t.Fatalf("ParseObservations: %v", err)
	}
	if len(obs) != 2 {
		t.Fatalf("got %d observations, want 2", len(obs))
	}
	if obs[1].Plan.Moves() != 2 {
		t.Fatalf("obs[1].Plan.Moves() = %d, want 2", obs[1].Plan.Moves())
	}
}

func TestParseObservationsRejectsLengthMismatch(t *testing.T) {
	if _, err := ParseObservations([]string{"0", "1"}, [][]int{{0, 0}}); err == nil {
		t.Fatal("expected ParseObservations to reject mismatched plans/results lengths")
	}
}
