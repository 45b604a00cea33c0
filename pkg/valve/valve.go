package valve

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidValveID is returned by [Graph.AddValve] when the valve ID is
	// empty. Every valve must have a non-empty identifier.
	ErrInvalidValveID = errors.New("valve ID must not be empty")

	// ErrDuplicateValve is returned by [Graph.AddValve] when a valve with the
	// same ID already exists in the graph.
	ErrDuplicateValve = errors.New("duplicate valve ID")

	// ErrUnknownValve is returned by [Graph.Validate] when a tunnel leads to a
	// valve that was never added. The graph is structurally invalid and no
	// partial answer computed from it is meaningful.
	ErrUnknownValve = errors.New("unknown valve")
)

// Valve is a node of the network: a flow rate and the unit-length tunnels
// leading to its neighbors.
type Valve struct {
	ID      string   // Unique identifier (e.g. "AA")
	Rate    uint64   // Pressure released per minute once opened
	Tunnels []string // IDs of adjacent valves, one minute away each
}

// Graph is the valve network. Valves are kept in insertion order so that
// everything derived from the graph (bit assignment in particular) is stable
// across runs.
//
// The zero value is not usable - use New to create a Graph.
// Graph is read-only once built and safe for concurrent readers.
type Graph struct {
	valves map[string]*Valve
	order  []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{valves: make(map[string]*Valve)}
}

// AddValve adds a valve to the graph. The tunnel slice is copied.
// Returns ErrInvalidValveID for an empty ID or ErrDuplicateValve if the ID
// is already taken. Tunnel targets are not checked here - call Validate once
// the graph is complete.
func (g *Graph) AddValve(v Valve) error {
	if v.ID == "" {
		return ErrInvalidValveID
	}
	if _, exists := g.valves[v.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateValve, v.ID)
	}
	v.Tunnels = slices.Clone(v.Tunnels)
	g.valves[v.ID] = &v
	g.order = append(g.order, v.ID)
	return nil
}

// Validate checks that every tunnel leads to a known valve.
// The first dangling reference is reported as ErrUnknownValve.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		for _, to := range g.valves[id].Tunnels {
			if _, ok := g.valves[to]; !ok {
				return fmt.Errorf("%w: tunnel %s -> %s", ErrUnknownValve, id, to)
			}
		}
	}
	return nil
}

// Valve returns the valve with the given ID.
func (g *Graph) Valve(id string) (Valve, bool) {
	v, ok := g.valves[id]
	if !ok {
		return Valve{}, false
	}
	return *v, true
}

// Has reports whether a valve with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.valves[id]
	return ok
}

// Rate returns the flow rate of the valve, or 0 if it does not exist.
func (g *Graph) Rate(id string) uint64 {
	if v, ok := g.valves[id]; ok {
		return v.Rate
	}
	return 0
}

// Tunnels returns the neighbor IDs of the valve. The returned slice must not
// be modified.
func (g *Graph) Tunnels(id string) []string {
	if v, ok := g.valves[id]; ok {
		return v.Tunnels
	}
	return nil
}

// IDs returns valve IDs in insertion order.
func (g *Graph) IDs() []string { return slices.Clone(g.order) }

// Valves returns copies of all valves in insertion order.
func (g *Graph) Valves() []Valve {
	out := make([]Valve, len(g.order))
	for i, id := range g.order {
		v := *g.valves[id]
		v.Tunnels = slices.Clone(v.Tunnels)
		out[i] = v
	}
	return out
}

// Len returns the number of valves.
func (g *Graph) Len() int { return len(g.order) }

// TunnelCount returns the number of tunnel entries. A tunnel listed from
// both ends counts twice.
func (g *Graph) TunnelCount() int {
	n := 0
	for _, v := range g.valves {
		n += len(v.Tunnels)
	}
	return n
}

// Interesting returns the start valve followed by every valve with a
// nonzero rate, in insertion order. The start is never repeated.
func (g *Graph) Interesting(start string) []string {
	out := []string{start}
	for _, id := range g.order {
		if id != start && g.valves[id].Rate > 0 {
			out = append(out, id)
		}
	}
	return out
}

// Openable returns every valve with a nonzero rate except start, in
// insertion order. These are the valves a plan can usefully open.
func (g *Graph) Openable(start string) []string {
	return g.Interesting(start)[1:]
}
