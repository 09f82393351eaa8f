package automaton

import "testing"

func TestToWireFromWireRoundTrip(t *testing.T) {
	m := NewModel(2, 0)
	m.Labels[0] = 1
	m.Labels[1] = 2
	m.Matching.Pair(ToPort(0, 0), ToPort(1, 3))

	w := m.ToWire()
	if len(w.Rooms) != 2 || w.StartingRoom != 0 {
		t.Fatalf("unexpected wire shape: %+v", w)
	}

	back, err := FromWire(w)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if err := back.Validate(); err != nil {
		t.Fatalf("round-tripped model should validate: %v", err)
	}
	for p := range m.Matching {
		if back.Matching[p] != m.Matching[p] {
			t.Fatalf("port %d: got partner %d, want %d", p, back.Matching[p], m.Matching[p])
		}
	}
}

func TestFromWireRejectsDuplicatePort(t *testing.T) {
	w := WireModel{
		Rooms:        []int{0, 0},
		StartingRoom: 0,
		Connections: []Connection{
			{From: Port{Room: 0, Door: 0}, To: Port{Room: 1, Door: 0}},
			{From: Port{Room: 0, Door: 0}, To: Port{Room: 1, Door: 1}},
		},
	}
	if _, err := FromWire(w); err == nil {
		t.Fatal("expected FromWire to reject a port appearing in two connections")
	}
}

func TestFromWireRejectsOutOfRangePort(t *testing.T) {
	w := WireModel{
		Rooms:        []int{0},
		StartingRoom: 0,
		Connections: []Connection{
			{From: Port{Room: 0, Door: 0}, To: Port{Room: 5, Door: 0}},
		},
	}
	if _, err := FromWire(w); err == nil {
		t.Fatal("expected FromWire to reject an out-of-range room reference")
	}
}

func TestFromWireRejectsMissingPort(t *testing.T) {
	// Single room has 6 ports but only one connection is listed, leaving the
	// rest unaccounted for.
	w := WireModel{
		Rooms:        []int{0},
		StartingRoom: 0,
		Connections: []Connection{
			{From: Port{Room: 0, Door: 0}, To: Port{Room: 0, Door: 1}},
		},
	}
	if _, err := FromWire(w); err == nil {
		t.Fatal("expected FromWire to reject a wire model with ports missing from connections")
	}
}
