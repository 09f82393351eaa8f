package anneal

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/icfp25/aedificium/pkg/automaton"
	"github.com/icfp25/aedificium/pkg/planlog"
)

// Result is the outcome of one annealing run.
type Result struct {
	Model    *automaton.Model
	Energy   float64
	Exact    bool // true when Energy's observation component is zero
	N        int
	Restarts int
}

// Solve runs Config.Restarts independent annealing attempts from fresh
// initial solutions and keeps the lowest-energy result. It honours ctx
// cancellation and cfg.TimeLimitMS as cooperative stop signals and never
// returns an ill-formed model.
func Solve(ctx context.Context, obs []planlog.Observation, n, startingRoom int, cfg Config) Result {
	rng := cfg.rng()
	deadline := time.Now().Add(time.Duration(cfg.TimeLimitMS) * time.Millisecond)

	restarts := cfg.Restarts
	if restarts < 1 {
		restarts = 1
	}

	var best Result
	best.Energy = math.Inf(1)

	for r := 0; r < restarts; r++ {
		select {
		case <-ctx.Done():
			return best
		default:
		}
		res := runOnce(ctx, obs, n, startingRoom, cfg, rng, deadline)
		res.Restarts = r + 1
		if res.Energy < best.Energy {
			best = res
		}
		if best.Exact {
			break
		}
		if time.Now().After(deadline) {
			break
		}
	}
	return best
}

func runOnce(ctx context.Context, obs []planlog.Observation, n, startingRoom int, cfg Config, rng *rand.Rand, deadline time.Time) Result {
	m := buildInitial(obs, n, startingRoom, rng)
	current := energy(m, obs, cfg.LambdaBal)

	best := m.Clone()
	bestEnergy := current

	temperature := cfg.T0
	sinceImprovement := 0

	iters := cfg.Iters
	if iters <= 0 {
		iters = DefaultConfig().Iters
	}

	for i := 0; i < iters; i++ {
		if i%256 == 0 {
			select {
			case <-ctx.Done():
				return Result{Model: best, Energy: bestEnergy, Exact: observationEnergy(best, obs) == 0, N: n}
			default:
			}
			if time.Now().After(deadline) {
				break
			}
		}
		if current == 0 {
			break
		}

		kind := moveKind(rng.Intn(3))
		undo := applyMove(m, rng, kind)

		next := energy(m, obs, cfg.LambdaBal)
		delta := next - current

		accept := delta <= 0
		if !accept {
			accept = rng.Float64() < math.Exp(-delta/temperature)
		}

		if accept {
			current = next
			if current < bestEnergy {
				bestEnergy = current
				best = m.Clone()
				sinceImprovement = 0
			} else {
				sinceImprovement++
			}
		} else {
			undo()
			sinceImprovement++
		}

		temperature = math.Max(cfg.TMin, temperature*cfg.Alpha)

		if cfg.ReheatEvery > 0 && sinceImprovement > 0 && sinceImprovement%cfg.ReheatEvery == 0 {
			reheatTo := cfg.ReheatTo
			if reheatTo <= 0 {
				reheatTo = 0.1 * cfg.T0
			}
			temperature = reheatTo
		}

		if cfg.LogEvery > 0 && i%cfg.LogEvery == 0 {
			slog.Debug("annealing progress", "iter", i, "energy", current, "best", bestEnergy, "temperature", temperature)
		}
	}

	return Result{Model: best, Energy: bestEnergy, Exact: observationEnergy(best, obs) == 0, N: n}
}
