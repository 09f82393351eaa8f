// Package anneal implements a simulated-annealing reconstructor: it searches
// the space of (labels, matching) pairs for a fixed room count N, guided by
// an observation-mismatch + label-balance energy, and never returns an
// ill-formed model.
//
// The accept/reject loop, geometric cooling, and tentative-move/revert
// pattern are grounded on the Metropolis criterion in
// timetabling-udp's internal/solver/simulated_annealing.go
// (OptimizeSchedule: delta < 0 always accepts, otherwise accept with
// probability math.Exp(-delta/temperature), then temperature *= CoolingRate
// each iteration, with moveSessionSA/its inverse as the tentative-apply and
// revert-on-reject pair).
package anneal

import "math/rand"

// Config controls one annealing run.
type Config struct {
	Iters       int
	LambdaBal   float64
	Seed        int64
	TimeLimitMS int64
	LogEvery    int
	SaveEvery   int
	T0          float64
	Alpha       float64
	TMin        float64
	Restarts    int
	ReheatEvery int
	ReheatTo    float64
}

// DefaultConfig mirrors the defaults named in the external configuration
// surface: T0=1.0, alpha=0.999, Tmin=1e-4, reheat_to=0.1*T0.
func DefaultConfig() Config {
	return Config{
		Iters:       200_000,
		LambdaBal:   0.5,
		Seed:        1,
		TimeLimitMS: 30_000,
		LogEvery:    10_000,
		SaveEvery:   0,
		T0:          1.0,
		Alpha:       0.999,
		TMin:        1e-4,
		Restarts:    1,
		ReheatEvery: 0,
		ReheatTo:    0.1,
	}
}

func (c Config) rng() *rand.Rand {
	return rand.New(rand.NewSource(c.Seed))
}
