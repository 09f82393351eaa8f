package planlog

import "fmt"

// ErrChalkUnsupported is available to callers that cannot simulate Chalk
// steps; no simulator in this module returns it.
var ErrChalkUnsupported = fmt.Errorf("planlog: chalk steps are not supported by this simulator")

// Observation pairs a parsed plan with its observed label sequence.
type Observation struct {
	Plan   Plan
	Result []int
}

// NewObservation validates the length law — |result| must be 1 + the
// number of Move steps in the plan — before returning.
func NewObservation(plan Plan, result []int) (Observation, error) {
	want := plan.Moves() + 1
	if len(result) != want {
		return Observation{}, fmt.Errorf(
			"plan %q has %d moves, expected observation of length %d, got %d",
			plan.Raw, plan.Moves(), want, len(result))
	}
	for _, l := range result {
		if l < 0 || l > 3 {
			return Observation{}, fmt.Errorf("plan %q: observed label %d out of range", plan.Raw, l)
		}
	}
	return Observation{Plan: plan, Result: result}, nil
}

// ParseObservations normalises a parallel (plans, results) pair from an
// input file's shape into validated Observations.
func ParseObservations(plans []string, results [][]int) ([]Observation, error) {
	if len(plans) != len(results) {
		return nil, fmt.Errorf("plans/results length mismatch: %d vs %d", len(plans), len(results))
	}
	obs := make([]Observation, len(plans))
	for i := range plans {
		p, err := ParsePlan(plans[i])
		if err != nil {
			return nil, err
		}
		o, err := NewObservation(p, results[i])
		if err != nil {
			return nil, err
		}
		obs[i] = o
	}
	return obs, nil
}
