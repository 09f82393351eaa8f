package automaton

import "testing"

func TestToPortFromPortRoundTrip(t *testing.T) {
	for room := 0; room < 5; room++ {
		for door := 0; door < Doors; door++ {
			p := ToPort(room, door)
			gotRoom, gotDoor := FromPort(p)
			if gotRoom != room || gotDoor != door {
				t.Fatalf("FromPort(ToPort(%d,%d)) = (%d,%d), want (%d,%d)", room, door, gotRoom, gotDoor, room, door)
			}
		}
	}
}

func TestNewInvolutionIsAllSelfLoops(t *testing.T) {
	mu := NewInvolution(3)
	if err := mu.Validate(); err != nil {
		t.Fatalf("fresh involution should validate: %v", err)
	}
	for p, q := range mu {
		if p != q {
			t.Fatalf("port %d should self-loop, got partner %d", p, q)
		}
	}
}

func TestPairIsSymmetric(t *testing.T) {
	mu := NewInvolution(2)
	mu.Pair(0, 7)
	if mu[0] != 7 || mu[7] != 0 {
		t.Fatalf("Pair(0,7) did not set both directions: mu[0]=%d mu[7]=%d", mu[0], mu[7])
	}
	if err := mu.Validate(); err != nil {
		t.Fatalf("paired involution with untouched self-loops should still validate: %v", err)
	}
}

func TestSwapEndpointsPreservesInvolution(t *testing.T) {
	mu := NewInvolution(4)
	mu.Pair(0, 6)
	mu.Pair(1, 12)

	mu.SwapEndpoints(0, 6, 1, 12, false)
	if err := mu.Validate(); err != nil {
		t.Fatalf("uncrossed swap should remain involutive: %v", err)
	}
	if mu[0] != 1 || mu[6] != 12 {
		t.Fatalf("uncrossed swap wired wrong: mu[0]=%d mu[6]=%d", mu[0], mu[6])
	}

	mu2 := NewInvolution(4)
	mu2.Pair(0, 6)
	mu2.Pair(1, 12)
	mu2.SwapEndpoints(0, 6, 1, 12, true)
	if err := mu2.Validate(); err != nil {
		t.Fatalf("crossed swap should remain involutive: %v", err)
	}
	if mu2[0] != 12 || mu2[6] != 1 {
		t.Fatalf("crossed swap wired wrong: mu2[0]=%d mu2[6]=%d", mu2[0], mu2[6])
	}
}

func TestValidateRejectsAsymmetricPairing(t *testing.T) {
	mu := NewInvolution(2)
	mu[0] = 5 // mu[5] still self-loops, breaking symmetry
	if err := mu.Validate(); err == nil {
		t.Fatal("expected Validate to reject an asymmetric pairing")
	}
}

func TestValidateRejectsOutOfRangePartner(t *testing.T) {
	mu := NewInvolution(1)
	mu[0] = 99
	if err := mu.Validate(); err == nil {
		t.Fatal("expected Validate to reject an out-of-range partner")
	}
}

func TestEdgesEmitsEachPairOnce(t *testing.T) {
	mu := NewInvolution(1) // 6 self-loops
	mu.Pair(0, 3)
	edges := mu.Edges()
	// 4 self-loops remain (1,2,4,5) plus the one paired edge (0,3) = 5 edges.
	if len(edges) != 5 {
		t.Fatalf("got %d edges, want 5", len(edges))
	}
	seen := make(map[int]bool)
	for _, e := range edges {
		if seen[e[0]] || seen[e[1]] {
			t.Fatalf("port appeared in more than one edge: %v", e)
		}
		seen[e[0]] = true
		seen[e[1]] = true
	}
}
