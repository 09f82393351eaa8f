package exact

import (
	"github.com/icfp25/aedificium/pkg/automaton"
	"github.com/icfp25/aedificium/pkg/planlog"
)

const noRoom = -1

// search holds the mutable domain store for one N's backtracking search:
// delta/port are the destination-room and arrival-door variables, labels
// the room-label variables. All are mutated in place and undone explicitly
// on backtrack (labeling.go/fd_solver.go in gokanlogic use the same
// mutate-then-undo shape for their domain stores, in contrast to a
// persistent substitution map).
type search struct {
	n            int
	startingRoom int

	delta [][automaton.Doors]int // destination room, or noRoom
	port  [][automaton.Doors]int // arrival door at destination, or -1

	labelSet []bool
	labels   []int

	allocated []bool
	roomCount int
	nextIdx   int

	nodes, budget int
}

func newSearch(n, startingRoom, budget int) *search {
	s := &search{
		n:            n,
		startingRoom: startingRoom,
		delta:        make([][automaton.Doors]int, n),
		port:         make([][automaton.Doors]int, n),
		labelSet:     make([]bool, n),
		labels:       make([]int, n),
		allocated:    make([]bool, n),
		budget:       budget,
	}
	for q := 0; q < n; q++ {
		for d := 0; d < automaton.Doors; d++ {
			s.delta[q][d] = noRoom
			s.port[q][d] = -1
		}
	}
	s.allocated[startingRoom] = true
	s.roomCount = 1
	return s
}

// allocateRoom reserves the next unallocated room index, returns noRoom if
// the budget of n rooms is exhausted.
func (s *search) allocateRoom() int {
	if s.roomCount >= s.n {
		return noRoom
	}
	for s.allocated[s.nextIdx] {
		s.nextIdx++
	}
	idx := s.nextIdx
	s.allocated[idx] = true
	s.nextIdx++
	s.roomCount++
	return idx
}

func (s *search) freeRoom(idx int) {
	s.allocated[idx] = false
	s.roomCount--
	if idx < s.nextIdx {
		s.nextIdx = idx
	}
}

// checkOrAssignLabel enforces lbl[q] == want, assigning it if unset.
// Returns false (constraint violated) if q already carries a different
// label, along with whether this call performed a fresh assignment (so the
// caller can undo it on backtrack).
func (s *search) checkOrAssignLabel(q, want int) (ok, assigned bool) {
	if s.labelSet[q] {
		return s.labels[q] == want, false
	}
	s.labels[q] = want
	s.labelSet[q] = true
	return true, true
}

func (s *search) unassignLabel(q int) {
	s.labelSet[q] = false
}

// freeDoors returns the doors of room q with no destination assigned yet.
func (s *search) freeDoors(q int) []int {
	var out []int
	for d := 0; d < automaton.Doors; d++ {
		if s.delta[q][d] == noRoom {
			out = append(out, d)
		}
	}
	return out
}

// pair connects door d of room q to door d2 of room r (both directions).
func (s *search) pair(q, d, r, d2 int) {
	s.delta[q][d], s.port[q][d] = r, d2
	s.delta[r][d2], s.port[r][d2] = q, d
}

func (s *search) unpair(q, d, r, d2 int) {
	s.delta[q][d], s.port[q][d] = noRoom, -1
	s.delta[r][d2], s.port[r][d2] = noRoom, -1
}

// solveForN runs the backtracking search for a fixed room count n.
func solveForN(obs []planlog.Observation, n, startingRoom, budget int) (*automaton.Model, error) {
	if startingRoom < 0 || startingRoom >= n {
		return nil, ErrInfeasible
	}
	s := newSearch(n, startingRoom, budget)

	ok, err := s.solvePlans(obs, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInfeasible
	}

	return s.materialise(startingRoom), nil
}

// solvePlans processes obs[planIdx:] in order, backtracking across the
// whole sequence (a branch taken to satisfy plan k may need to be undone
// while solving plan k+1's requirements, since all plans share one mu).
func (s *search) solvePlans(obs []planlog.Observation, planIdx int) (bool, error) {
	if planIdx == len(obs) {
		return true, nil
	}
	o := obs[planIdx]

	ok, assigned := s.checkOrAssignLabel(s.startingRoom, o.Result[0])
	if !ok {
		return false, nil
	}
	res, err := s.walkSteps(obs, planIdx, 0, s.startingRoom, 0)
	if assigned && !res {
		s.unassignLabel(s.startingRoom)
	}
	return res, err
}

// walkSteps advances through obs[planIdx].Plan.Steps[stepIdx:], tracking
// the current room cur and which Move index obsPos we are about to land
// (obsPos indexes into o.Result, 0-based, matching the number of Moves
// taken so far).
func (s *search) walkSteps(obs []planlog.Observation, planIdx, stepIdx, cur, obsPos int) (bool, error) {
	s.nodes++
	if s.nodes > s.budget {
		return false, ErrBudgetExceeded
	}

	o := obs[planIdx]
	if stepIdx == len(o.Plan.Steps) {
		return s.solvePlans(obs, planIdx+1)
	}

	step := o.Plan.Steps[stepIdx]
	switch step.Kind {
	case planlog.Chalk:
		prev, had := s.labels[cur], s.labelSet[cur]
		s.labels[cur] = step.Label
		s.labelSet[cur] = true
		ok, err := s.walkSteps(obs, planIdx, stepIdx+1, cur, obsPos)
		if err != nil {
			return false, err
		}
		if !ok {
			if had {
				s.labels[cur] = prev
			} else {
				s.labelSet[cur] = false
			}
			return false, nil
		}
		return true, nil

	case planlog.Move:
		want := o.Result[obsPos+1]
		if s.delta[cur][step.Door] != noRoom {
			next := s.delta[cur][step.Door]
			ok, assigned := s.checkOrAssignLabel(next, want)
			if !ok {
				return false, nil
			}
			res, err := s.walkSteps(obs, planIdx, stepIdx+1, next, obsPos+1)
			if err != nil {
				return false, err
			}
			if !res && assigned {
				s.unassignLabel(next)
			}
			return res, nil
		}
		return s.branchMove(obs, planIdx, stepIdx, cur, obsPos, step.Door, want)
	}
	return false, nil
}

// branchMove is the sole choice point in the search: door (cur,doorOut) has
// no destination yet, so we try, in order: (1) a self-loop, if the current
// room's label already matches want; (2) each existing room with a free
// door and a compatible label, preferring the mirror door (doorOut+3)%6
// first since most Ædificium maps pair a room's doors symmetrically;
// (3) allocating a brand-new room.
func (s *search) branchMove(obs []planlog.Observation, planIdx, stepIdx, cur, obsPos, doorOut, want int) (bool, error) {
	mirror := (doorOut + 3) % automaton.Doors

	tryCandidate := func(r, d2 int) (bool, error) {
		okLbl, assignedLbl := s.checkOrAssignLabel(r, want)
		if !okLbl {
			return false, nil
		}
		s.pair(cur, doorOut, r, d2)
		res, err := s.walkSteps(obs, planIdx, stepIdx+1, r, obsPos+1)
		if err != nil {
			s.unpair(cur, doorOut, r, d2)
			if assignedLbl {
				s.unassignLabel(r)
			}
			return false, err
		}
		if !res {
			s.unpair(cur, doorOut, r, d2)
			if assignedLbl {
				s.unassignLabel(r)
			}
		}
		return res, nil
	}

	// (1) self-loop: close doorOut back onto its own mirror door.
	if s.delta[cur][mirror] == noRoom && (!s.labelSet[cur] || s.labels[cur] == want) {
		if ok, err := tryCandidate(cur, mirror); err != nil {
			return false, err
		} else if ok {
			return true, nil
		}
	}

	// (2) existing rooms, mirror door first, then any free door.
	for r := 0; r < s.n; r++ {
		if !s.allocated[r] || r == cur {
			continue
		}
		if s.labelSet[r] && s.labels[r] != want {
			continue
		}
		if s.delta[r][mirror] == noRoom {
			if ok, err := tryCandidate(r, mirror); err != nil {
				return false, err
			} else if ok {
				return true, nil
			}
		}
		for _, d2 := range s.freeDoors(r) {
			if d2 == mirror {
				continue
			}
			if ok, err := tryCandidate(r, d2); err != nil {
				return false, err
			} else if ok {
				return true, nil
			}
		}
	}

	// (3) a brand-new room.
	newRoom := s.allocateRoom()
	if newRoom != noRoom {
		if ok, err := tryCandidate(newRoom, mirror); err != nil {
			return false, err
		} else if ok {
			return true, nil
		}
		s.freeRoom(newRoom)
	}

	return false, nil
}

// materialise closes every still-free port with an arbitrary pairing
// (these ports were never traversed by any observation, so any total
// involution over them is consistent) and builds the final Model.
func (s *search) materialise(startingRoom int) *automaton.Model {
	m := automaton.NewModel(s.n, startingRoom)
	for q := 0; q < s.n; q++ {
		if s.labelSet[q] {
			m.Labels[q] = s.labels[q]
		}
	}

	var free []int
	for q := 0; q < s.n; q++ {
		for d := 0; d < automaton.Doors; d++ {
			p := automaton.ToPort(q, d)
			if s.delta[q][d] == noRoom {
				free = append(free, p)
				continue
			}
			q2 := automaton.ToPort(s.delta[q][d], s.port[q][d])
			m.Matching[p] = q2
		}
	}

	for len(free) >= 2 {
		p, q := free[0], free[1]
		free = free[2:]
		m.Matching.Pair(p, q)
	}
	if len(free) == 1 {
		m.Matching.Pair(free[0], free[0])
	}

	return m
}
