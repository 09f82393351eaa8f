package automaton

import "fmt"

// Model is a concrete candidate automaton: N labelled rooms and a total
// involution pairing their ports into edges.
type Model struct {
	Labels       []int
	Matching     Involution
	StartingRoom int
}

// NewModel allocates a model with n rooms, all labelled 0 and all ports
// self-looped. Callers fill in Labels and mutate Matching before use.
func NewModel(n, startingRoom int) *Model {
	return &Model{
		Labels:       make([]int, n),
		Matching:     NewInvolution(n),
		StartingRoom: startingRoom,
	}
}

// N returns the room count.
func (m *Model) N() int {
	return len(m.Labels)
}

// Validate enforces well-formedness: a total involution, in-range labels,
// and an in-range starting room.
func (m *Model) Validate() error {
	if err := m.Matching.Validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if m.Matching.Rooms() != m.N() {
		return fmt.Errorf("matching has %d rooms but %d labels", m.Matching.Rooms(), m.N())
	}
	for q, lbl := range m.Labels {
		if lbl < 0 || lbl >= Labels {
			return fmt.Errorf("room %d has out-of-range label %d", q, lbl)
		}
	}
	if m.StartingRoom < 0 || m.StartingRoom >= m.N() {
		return fmt.Errorf("starting room %d out of range [0,%d)", m.StartingRoom, m.N())
	}
	return nil
}

// Step advances one Move from room q through door d, returning the
// destination room and the door that mu pairs it through.
func (m *Model) Step(q, d int) (next, arrivalDoor int) {
	p := ToPort(q, d)
	mp := m.Matching[p]
	return FromPort(mp)
}

// Neighbour reports the destination room and arrival door for port (q,d)
// without advancing any walk state. Exposed for reconstructor code that
// needs read-only access to the matching without going through Step.
func (m *Model) Neighbour(q, d int) (next, arrivalDoor int) {
	return m.Step(q, d)
}
