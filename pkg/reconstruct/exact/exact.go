// Package exact implements a finite-domain constraint solver: given
// observations and a room count (or a sweep range), it either produces a
// concrete (labels, mu) consistent with every observation, or reports
// infeasibility.
//
// The search is a hand-rolled backtracking procedure over delta[q][d],
// port[q][d], and lbl[q], propagating the involution constraint
// deterministically whenever a door's destination is already known and
// branching only at genuinely ambiguous "which room does this door lead
// to" decisions — a custom CDCL-lite solver, grounded on the
// variable-store / labeling-search architecture of gokanlogic's
// pkg/minikanren (fd_solver.go, fd_constraints.go, labeling.go): a mutable
// domain store threaded through a recursive labeling search with explicit
// undo on backtrack, rather than a persistent/functional substitution.
package exact

import (
	"context"
	"errors"
	"fmt"

	"github.com/icfp25/aedificium/pkg/automaton"
	"github.com/icfp25/aedificium/pkg/planlog"
)

// ErrInfeasible indicates no model exists for the given N (or, for a sweep,
// for any N in [minN,maxN]).
var ErrInfeasible = errors.New("exact: no feasible reconstruction")

// ErrBudgetExceeded indicates the search aborted after exhausting its node
// budget without proving feasibility or infeasibility — distinct from
// ErrInfeasible because it is NOT a proof that no model exists.
var ErrBudgetExceeded = errors.New("exact: search node budget exceeded")

// Options configures a solve. Exactly one of N or (MinN,MaxN) should be set
// meaningfully; if N > 0 it overrides the sweep.
type Options struct {
	N            int
	MinN, MaxN   int
	StartingRoom int
	// NodeBudget caps search nodes per attempted N before giving up with
	// ErrBudgetExceeded. Zero means DefaultNodeBudget.
	NodeBudget int
}

// DefaultNodeBudget bounds a single N's search before it is abandoned.
const DefaultNodeBudget = 2_000_000

// Solve sweeps N = MinN..MaxN (or just N,
// when Options.N > 0) in increasing order and returns the first feasible
// model, its room count, and nil error. If every N in range is infeasible,
// it returns ErrInfeasible. If some N could not be decided within budget,
// that N's budget-exceeded status is recorded but the sweep continues to
// larger N, and a feasible larger N is returned as usual (so the returned N
// is then not proven smallest); only when no N in range is feasible is the
// first inconclusive status surfaced (so callers know to extend the budget,
// not just the range).
func Solve(ctx context.Context, obs []planlog.Observation, opts Options) (*automaton.Model, int, error) {
	lo, hi := opts.MinN, opts.MaxN
	if opts.N > 0 {
		lo, hi = opts.N, opts.N
	}
	if lo < 1 {
		return nil, 0, fmt.Errorf("exact: N must be >= 1, got minN=%d", lo)
	}
	if hi < lo {
		return nil, 0, fmt.Errorf("exact: maxN (%d) < minN (%d)", hi, lo)
	}

	budget := opts.NodeBudget
	if budget <= 0 {
		budget = DefaultNodeBudget
	}

	var firstInconclusive error
	for n := lo; n <= hi; n++ {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
		}

		m, err := solveForN(obs, n, opts.StartingRoom, budget)
		switch {
		case err == nil:
			if !automaton.Reproduces(m, obs) {
				return nil, 0, fmt.Errorf("exact: internal error: candidate for N=%d failed independent output validation", n)
			}
			return m, n, nil
		case errors.Is(err, ErrBudgetExceeded):
			if firstInconclusive == nil {
				firstInconclusive = fmt.Errorf("N=%d: %w", n, err)
			}
		case errors.Is(err, ErrInfeasible):
			// try next N
		default:
			return nil, 0, err
		}
	}

	if firstInconclusive != nil {
		return nil, 0, firstInconclusive
	}
	return nil, 0, fmt.Errorf("%w in range [%d,%d]", ErrInfeasible, lo, hi)
}
