// Command reconstruct is a standalone CLI: it reads a plans/results input
// file, runs the exact and/or simulated-annealing reconstructors, and writes
// the resulting map as JSON. It owns no server state and is the "external
// collaborator" that drives the reconstruction engine in isolation from the
// session orchestrator.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/icfp25/aedificium/pkg/automaton"
	"github.com/icfp25/aedificium/pkg/config"
	"github.com/icfp25/aedificium/pkg/planlog"
	"github.com/icfp25/aedificium/pkg/reconstruct/anneal"
	"github.com/icfp25/aedificium/pkg/reconstruct/exact"
)

// inputFile is the on-disk shape of a reconstruction input file.
type inputFile struct {
	Plans        []string `json:"plans"`
	Results      [][]int  `json:"results"`
	N            int      `json:"N"`
	StartingRoom int      `json:"startingRoom"`
	MinN         int      `json:"minN"`
	MaxN         int      `json:"maxN"`
}

func main() {
	defaults := config.DefaultReconstructDefaults()

	inputPath := flag.String("input", "", "path to the input JSON file (required)")
	outputPath := flag.String("output", "", "path to write the output JSON file (required)")
	mode := flag.String("mode", "auto", "reconstructor to run: exact, anneal, or auto (exact first, anneal fallback)")
	nodeBudget := flag.Int("node-budget", exact.DefaultNodeBudget, "search node budget per N for the exact solver")

	iters := flag.Int("iters", defaults.Iters, "annealing iteration limit")
	lambdaBal := flag.Float64("lambda-bal", defaults.LambdaBal, "annealing balance-penalty weight")
	seed := flag.Int64("seed", defaults.Seed, "annealing RNG seed")
	timeLimitMS := flag.Int64("time-limit", defaults.TimeLimitMS, "annealing wall-clock budget in milliseconds")
	logEvery := flag.Int("log-every", defaults.LogEvery, "annealing progress-log interval (iterations)")
	saveEvery := flag.Int("save-every", defaults.SaveEvery, "unused by this CLI; accepted for config-surface parity")
	t0 := flag.Float64("t0", defaults.T0, "annealing initial temperature")
	alpha := flag.Float64("alpha", defaults.Alpha, "annealing geometric cooling factor")
	tmin := flag.Float64("tmin", defaults.TMin, "annealing minimum temperature")
	restarts := flag.Int("restarts", defaults.Restarts, "annealing independent restart count")
	reheatEvery := flag.Int("reheat-every", defaults.ReheatEvery, "annealing reheat interval (0 disables)")
	reheatTo := flag.Float64("reheat-to", defaults.ReheatTo, "annealing reheat temperature")
	_ = saveEvery

	flag.Parse()

	if *inputPath == "" || *outputPath == "" {
		fmt.Fprintln(os.Stderr, "both -input and -output are required")
		os.Exit(2)
	}

	in, err := readInput(*inputPath)
	if err != nil {
		slog.Error("failed to read input", "error", err)
		os.Exit(1)
	}

	obs, err := planlog.ParseObservations(in.Plans, in.Results)
	if err != nil {
		slog.Error("invalid plans/results", "error", err)
		os.Exit(1)
	}

	model, err := reconstruct(context.Background(), obs, in, *mode, *nodeBudget, anneal.Config{
		Iters: *iters, LambdaBal: *lambdaBal, Seed: *seed, TimeLimitMS: *timeLimitMS,
		LogEvery: *logEvery, T0: *t0, Alpha: *alpha, TMin: *tmin,
		Restarts: *restarts, ReheatEvery: *reheatEvery, ReheatTo: *reheatTo,
	})
	if err != nil {
		slog.Error("reconstruction failed", "error", err)
		os.Exit(1)
	}

	if err := writeOutput(*outputPath, model); err != nil {
		slog.Error("failed to write output", "error", err)
		os.Exit(1)
	}
	slog.Info("reconstruction complete", "rooms", model.N(), "output", *outputPath)
}

func readInput(path string) (inputFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return inputFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	var in inputFile
	if err := json.Unmarshal(data, &in); err != nil {
		return inputFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return in, nil
}

func writeOutput(path string, m *automaton.Model) error {
	data, err := json.MarshalIndent(m.ToWire(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func reconstruct(ctx context.Context, obs []planlog.Observation, in inputFile, mode string, nodeBudget int, annealCfg anneal.Config) (*automaton.Model, error) {
	switch mode {
	case "exact":
		m, _, err := exact.Solve(ctx, obs, exact.Options{N: in.N, MinN: in.MinN, MaxN: in.MaxN, StartingRoom: in.StartingRoom, NodeBudget: nodeBudget})
		return m, err
	case "anneal":
		return runAnneal(ctx, obs, in, annealCfg)
	case "auto":
		m, _, err := exact.Solve(ctx, obs, exact.Options{N: in.N, MinN: in.MinN, MaxN: in.MaxN, StartingRoom: in.StartingRoom, NodeBudget: nodeBudget})
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, exact.ErrInfeasible) && !errors.Is(err, exact.ErrBudgetExceeded) {
			return nil, err
		}
		slog.Warn("exact solver did not find a model, falling back to annealing", "error", err)
		return runAnneal(ctx, obs, in, annealCfg)
	default:
		return nil, fmt.Errorf("unknown mode %q: want exact, anneal, or auto", mode)
	}
}

func runAnneal(ctx context.Context, obs []planlog.Observation, in inputFile, cfg anneal.Config) (*automaton.Model, error) {
	n := in.N
	if n <= 0 {
		n = in.MaxN
	}
	if n <= 0 {
		return nil, fmt.Errorf("annealing requires N or maxN to be set")
	}

	res := anneal.Solve(ctx, obs, n, in.StartingRoom, cfg)
	if !res.Exact {
		slog.Warn("annealing did not reach a perfect fit", "energy", res.Energy, "n", n)
	}
	return res.Model, nil
}
