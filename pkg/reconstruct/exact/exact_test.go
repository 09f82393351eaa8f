package exact

import (
	"context"
	"errors"
	"testing"

	"github.com/icfp25/aedificium/pkg/automaton"
	"github.com/icfp25/aedificium/pkg/planlog"
)

func obsFrom(t *testing.T, raw string, result []int) planlog.Observation {
	t.Helper()
	p, err := planlog.ParsePlan(raw)
	if err != nil {
		t.Fatalf("ParsePlan(%q): %v", raw, err)
	}
	o, err := planlog.NewObservation(p, result)
	if err != nil {
		t.Fatalf("NewObservation: %v", err)
	}
	return o
}

func TestSolveSingleRoomAllSelfLoops(t *testing.T) {
	obs := []planlog.Observation{obsFrom(t, "000000", []int{2, 2, 2, 2, 2, 2, 2})}

	m, n, err := Solve(context.Background(), obs, Options{N: 1, StartingRoom: 0})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
	if !automaton.Reproduces(m, obs) {
		t.Fatal("solved model should reproduce the observation")
	}
}

func TestSolveTwoRoomAlternator(t *testing.T) {
	obs := []planlog.Observation{obsFrom(t, "0000", []int{0, 1, 0, 1, 0})}

	m, n, err := Solve(context.Background(), obs, Options{N: 2, StartingRoom: 0})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if !automaton.Reproduces(m, obs) {
		t.Fatal("solved model should reproduce the observation")
	}
}

func TestSolveSweepsRangeAndPicksSmallestFeasibleN(t *testing.T) {
	obs := []planlog.Observation{obsFrom(t, "000000", []int{2, 2, 2, 2, 2, 2, 2})}

	m, n, err := Solve(context.Background(), obs, Options{MinN: 1, MaxN: 3, StartingRoom: 0})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if n != 1 {
		t.Fatalf("n = %d, want smallest feasible N = 1", n)
	}
	if m.N() != 1 {
		t.Fatalf("m.N() = %d, want 1", m.N())
	}
}

func TestSolveInfeasibleReturnsErrInfeasible(t *testing.T) {
	// A single room cannot alternate between two distinct labels.
	obs := []planlog.Observation{obsFrom(t, "00", []int{0, 1, 0})}

	_, _, err := Solve(context.Background(), obs, Options{N: 1, StartingRoom: 0})
	if !errors.Is(err, ErrInfeasible) {
		t.Fatalf("Solve err = %v, want ErrInfeasible", err)
	}
}

func TestSolveChalkRewriteAffectsLaterReads(t *testing.T) {
	// Move out, chalk-rewrite the new room, move back through its mirror
	// door: the rewrite must not leak back onto the starting room, and the
	// final read must reflect the starting room's original label.
	obs := []planlog.Observation{obsFrom(t, "0[3]3", []int{1, 2, 1})}

	m, _, err := Solve(context.Background(), obs, Options{N: 2, StartingRoom: 0})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !automaton.Reproduces(m, obs) {
		t.Fatal("solved model should reproduce the chalk-bearing observation")
	}
}

func TestSolveRejectsInvalidRange(t *testing.T) {
	obs := []planlog.Observation{obsFrom(t, "0", []int{0, 0})}
	if _, _, err := Solve(context.Background(), obs, Options{MinN: 3, MaxN: 1, StartingRoom: 0}); err == nil {
		t.Fatal("expected Solve to reject maxN < minN")
	}
}

func TestSolveBudgetExceeded(t *testing.T) {
	obs := []planlog.Observation{obsFrom(t, "000000", []int{2, 2, 2, 2, 2, 2, 2})}
	_, _, err := Solve(context.Background(), obs, Options{N: 1, StartingRoom: 0, NodeBudget: 1})
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("Solve err = %v, want ErrBudgetExceeded with a 1-node budget", err)
	}
}
