package automaton

import "github.com/icfp25/aedificium/pkg/planlog"

// Simulate walks plan from m.StartingRoom against m's matching, returning
// the label sequence observed on entry to each room.
//
// Chalk steps rewrite m.Labels[current] in place and do not themselves
// contribute an entry to the returned sequence — only the initial room and
// the room entered after each Move do, so |result| = 1 + moves always holds
// regardless of how many Chalk steps a plan contains (see DESIGN.md for the
// resolution of a conflicting narrative example this follows against).
//
// Because chalk writes mutate m.Labels, Simulate has a visible side effect
// on m when plan.HasChalk(); callers that must not mutate a shared model
// (e.g. trial evaluation during search) should simulate against a clone.
func Simulate(m *Model, plan planlog.Plan) []int {
	cur := m.StartingRoom
	obs := make([]int, 0, plan.Moves()+1)
	obs = append(obs, m.Labels[cur])
	for _, step := range plan.Steps {
		switch step.Kind {
		case planlog.Chalk:
			m.Labels[cur] = step.Label
		case planlog.Move:
			next, _ := m.Step(cur, step.Door)
			cur = next
			obs = append(obs, m.Labels[cur])
		}
	}
	return obs
}

// Clone returns a deep copy of m, safe to mutate independently.
func (m *Model) Clone() *Model {
	c := &Model{
		Labels:       append([]int(nil), m.Labels...),
		Matching:     append(Involution(nil), m.Matching...),
		StartingRoom: m.StartingRoom,
	}
	return c
}

// Reproduces reports whether simulating every observation against a clone
// of m reproduces its recorded result exactly. The exact reconstructor calls
// this as an independent sanity check before returning a candidate model.
func Reproduces(m *Model, obs []planlog.Observation) bool {
	clone := m.Clone()
	for _, o := range obs {
		got := Simulate(clone, o.Plan)
		if len(got) != len(o.Result) {
			return false
		}
		for i := range got {
			if got[i] != o.Result[i] {
				return false
			}
		}
	}
	return true
}
