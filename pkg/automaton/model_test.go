package automaton

import "testing"

func TestNewModelValidates(t *testing.T) {
	m := NewModel(3, 0)
	if err := m.Validate(); err != nil {
		t.Fatalf("fresh model should validate: %v", err)
	}
	if m.N() != 3 {
		t.Fatalf("N() = %d, want 3", m.N())
	}
}

func TestValidateRejectsOutOfRangeLabel(t *testing.T) {
	m := NewModel(2, 0)
	m.Labels[0] = Labels // one past the valid range
	if err := m.Validate(); err == nil {
		t.Fatal("expected Validate to reject an out-of-range label")
	}
}

func TestValidateRejectsOutOfRangeStartingRoom(t *testing.T) {
	m := NewModel(2, 5)
	if err := m.Validate(); err == nil {
		t.Fatal("expected Validate to reject an out-of-range starting room")
	}
}

func TestValidateRejectsMismatchedRoomCount(t *testing.T) {
	m := NewModel(2, 0)
	m.Matching = NewInvolution(3)
	if err := m.Validate(); err == nil {
		t.Fatal("expected Validate to reject a matching/labels room-count mismatch")
	}
}

func TestStepFollowsMatching(t *testing.T) {
	m := NewModel(2, 0)
	m.Matching.Pair(ToPort(0, 0), ToPort(1, 3))

	next, arrivalDoor := m.Step(0, 0)
	if next != 1 || arrivalDoor != 3 {
		t.Fatalf("Step(0,0) = (%d,%d), want (1,3)", next, arrivalDoor)
	}

	// Self-loop door stays put.
	next, arrivalDoor = m.Step(0, 1)
	if next != 0 || arrivalDoor != 1 {
		t.Fatalf("Step(0,1) on an untouched self-loop = (%d,%d), want (0,1)", next, arrivalDoor)
	}
}
