package automaton

import "fmt"

// Port identifies a (room, door) pair in the JSON wire format.
type Port struct {
	Room int `json:"room"`
	Door int `json:"door"`
}

// Connection is one emitted port pairing in the wire format.
type Connection struct {
	From Port `json:"from"`
	To   Port `json:"to"`
}

// WireModel is the JSON shape of a reconstructed-map output file.
type WireModel struct {
	Rooms        []int        `json:"rooms"`
	StartingRoom int          `json:"startingRoom"`
	Connections  []Connection `json:"connections"`
}

// ToWire converts a Model into the output-file shape, emitting each port
// pairing exactly once (p <= mu[p]), including self-loops.
func (m *Model) ToWire() WireModel {
	edges := m.Matching.Edges()
	conns := make([]Connection, 0, len(edges))
	for _, e := range edges {
		fr, fd := FromPort(e[0])
		tr, td := FromPort(e[1])
		conns = append(conns, Connection{
			From: Port{Room: fr, Door: fd},
			To:   Port{Room: tr, Door: td},
		})
	}
	return WireModel{
		Rooms:        append([]int(nil), m.Labels...),
		StartingRoom: m.StartingRoom,
		Connections:  conns,
	}
}

// FromWire parses the output-file shape back into a Model, verifying that
// every port appears in exactly one connection.
func FromWire(w WireModel) (*Model, error) {
	n := len(w.Rooms)
	m := NewModel(n, w.StartingRoom)
	copy(m.Labels, w.Rooms)

	seen := make([]bool, n*Doors)
	assign := func(p, q int) error {
		if p < 0 || p >= n*Doors {
			return fmt.Errorf("port index %d out of range for %d rooms", p, n)
		}
		if seen[p] {
			return fmt.Errorf("port %d appears in more than one connection", p)
		}
		seen[p] = true
		m.Matching[p] = q
		return nil
	}

	for _, c := range w.Connections {
		if c.From.Door < 0 || c.From.Door >= Doors || c.To.Door < 0 || c.To.Door >= Doors {
			return nil, fmt.Errorf("door index out of range in connection %+v", c)
		}
		if c.From.Room < 0 || c.From.Room >= n || c.To.Room < 0 || c.To.Room >= n {
			return nil, fmt.Errorf("room index out of range in connection %+v", c)
		}
		p := ToPort(c.From.Room, c.From.Door)
		q := ToPort(c.To.Room, c.To.Door)
		if err := assign(p, q); err != nil {
			return nil, err
		}
		if p != q {
			if err := assign(q, p); err != nil {
				return nil, err
			}
		}
	}

	for p, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("port %d is missing from connections", p)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
