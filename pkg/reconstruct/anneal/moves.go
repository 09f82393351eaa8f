package anneal

import (
	"math/rand"

	"github.com/icfp25/aedificium/pkg/automaton"
	"github.com/icfp25/aedificium/pkg/planlog"
)

// buildInitial constructs a starting (labels, matching) for a fixed N: first
// assign labels so counts match target (shuffled), then walk each plan
// greedily, wiring doors toward rooms whose label already matches the next
// expected observation (preferring the mirror door), and finally closing any
// still-free ports by arbitrary pairing with a self-loop for a leftover odd
// port. The result is always a total involution.
func buildInitial(obs []planlog.Observation, n, startingRoom int, rng *rand.Rand) *automaton.Model {
	m := automaton.NewModel(n, startingRoom)

	target := targetCounts(n)
	var pool []int
	for l := 0; l < automaton.Labels; l++ {
		for i := 0; i < target[l]; i++ {
			pool = append(pool, l)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	copy(m.Labels, pool)

	isFree := func(p int) bool { return m.Matching[p] == p }

	freeDoorOf := func(room int) (int, bool) {
		for d := 0; d < automaton.Doors; d++ {
			if isFree(automaton.ToPort(room, d)) {
				return d, true
			}
		}
		return 0, false
	}

	for _, o := range obs {
		cur := startingRoom
		obsPos := 0
		for _, step := range o.Plan.Steps {
			switch step.Kind {
			case planlog.Chalk:
				// annealer MVP does not implement chalk semantics.
			case planlog.Move:
				port := automaton.ToPort(cur, step.Door)
				if !isFree(port) {
					next, _ := m.Step(cur, step.Door)
					cur = next
					obsPos++
					continue
				}

				obsPos++
				want := 0
				if obsPos < len(o.Result) {
					want = o.Result[obsPos]
				}
				mirror := (step.Door + 3) % automaton.Doors

				target := -1
				targetDoor := -1
				for r := 0; r < n; r++ {
					if m.Labels[r] != want {
						continue
					}
					if isFree(automaton.ToPort(r, mirror)) {
						target, targetDoor = r, mirror
						break
					}
				}
				if target == -1 {
					for r := 0; r < n; r++ {
						if m.Labels[r] != want {
							continue
						}
						if d, ok := freeDoorOf(r); ok {
							target, targetDoor = r, d
							break
						}
					}
				}
				if target == -1 {
					// no matching room has a free door; leave this port
					// dangling, closed in the final sweep below.
					continue
				}
				m.Matching.Pair(port, automaton.ToPort(target, targetDoor))
				cur = target
			}
		}
	}

	var free []int
	for p := range m.Matching {
		if isFree(p) {
			free = append(free, p)
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	for len(free) >= 2 {
		a, b := free[0], free[1]
		free = free[2:]
		m.Matching.Pair(a, b)
	}
	// a leftover single port stays a self-loop (its default state).

	return m
}

type moveKind int

const (
	moveSwap2opt moveKind = iota
	moveLabelSwap
	moveLabelNudge
)

// applyMove mutates m in place for one neighbourhood step and returns an
// undo function that restores m exactly.
func applyMove(m *automaton.Model, rng *rand.Rand, kind moveKind) (undo func()) {
	switch kind {
	case moveSwap2opt:
		return apply2opt(m, rng)
	case moveLabelSwap:
		return applyLabelSwap(m, rng)
	default:
		return applyLabelNudge(m, rng)
	}
}

func apply2opt(m *automaton.Model, rng *rand.Rand) func() {
	n := len(m.Matching)
	if n < 4 {
		return func() {}
	}
	var a, b, c, d int
	for tries := 0; tries < 50; tries++ {
		a = rng.Intn(n)
		b = m.Matching[a]
		c = rng.Intn(n)
		d = m.Matching[c]
		if a != c && a != d && b != c && b != d {
			break
		}
	}
	if a == c || a == d || b == c || b == d {
		return func() {}
	}
	crossed := rng.Intn(2) == 0
	m.Matching.SwapEndpoints(a, b, c, d, crossed)
	return func() {
		m.Matching.Pair(a, b)
		m.Matching.Pair(c, d)
	}
}

func applyLabelSwap(m *automaton.Model, rng *rand.Rand) func() {
	n := m.N()
	if n < 2 {
		return func() {}
	}
	q1 := rng.Intn(n)
	q2 := rng.Intn(n)
	for q2 == q1 {
		q2 = rng.Intn(n)
	}
	m.Labels[q1], m.Labels[q2] = m.Labels[q2], m.Labels[q1]
	return func() {
		m.Labels[q1], m.Labels[q2] = m.Labels[q2], m.Labels[q1]
	}
}

// applyLabelNudge moves one room's label from the most over-represented
// class to the most under-represented class relative to target counts.
func applyLabelNudge(m *automaton.Model, rng *rand.Rand) func() {
	counts := labelCounts(m.Labels)
	target := targetCounts(m.N())

	over, under := 0, 0
	for l := 1; l < automaton.Labels; l++ {
		if counts[l]-target[l] > counts[over]-target[over] {
			over = l
		}
		if counts[l]-target[l] < counts[under]-target[under] {
			under = l
		}
	}
	if over == under {
		return func() {}
	}

	var candidates []int
	for q, l := range m.Labels {
		if l == over {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return func() {}
	}
	q := candidates[rng.Intn(len(candidates))]
	prev := m.Labels[q]
	m.Labels[q] = under
	return func() { m.Labels[q] = prev }
}
