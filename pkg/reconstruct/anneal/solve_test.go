package anneal

import (
	"context"
	"testing"
	"time"

	"github.com/icfp25/aedificium/pkg/automaton"
	"github.com/icfp25/aedificium/pkg/planlog"
)

func TestSolveConvergesOnSingleRoomAllSelfLoop(t *testing.T) {
	plan, err := planlog.ParsePlan("00000")
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	obs, err := planlog.NewObservation(plan, []int{1, 1, 1, 1, 1, 1})
	if err != nil {
		t.Fatalf("NewObservation: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Iters = 5_000
	cfg.Restarts = 4
	cfg.TimeLimitMS = 5_000

	res := Solve(context.Background(), []planlog.Observation{obs}, 1, 0, cfg)
	if !res.Exact {
		t.Fatalf("expected an exact (energy-zero) solution, got energy %v", res.Energy)
	}
	if !automaton.Reproduces(res.Model, []planlog.Observation{obs}) {
		t.Fatal("converged model should reproduce the observation")
	}
}

func TestSolveRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan, err := planlog.ParsePlan("0")
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	obs, err := planlog.NewObservation(plan, []int{0, 0})
	if err != nil {
		t.Fatalf("NewObservation: %v", err)
	}

	cfg := DefaultConfig()
	done := make(chan struct{})
	go func() {
		Solve(ctx, []planlog.Observation{obs}, 1, 0, cfg)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Solve did not return promptly after context cancellation")
	}
}
