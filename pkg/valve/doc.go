// Package valve provides the valve network model: valves with a flow rate,
// connected by unit-length tunnels.
//
// # Basic Usage
//
// Create a graph with [New], add valves with [Graph.AddValve], then call
// [Graph.Validate] before handing it to the planner:
//
//	g := valve.New()
//	g.AddValve(valve.Valve{ID: "AA", Rate: 0, Tunnels: []string{"BB"}})
//	g.AddValve(valve.Valve{ID: "BB", Rate: 13, Tunnels: []string{"AA"}})
//	if err := g.Validate(); err != nil {
//	    // a tunnel leads nowhere
//	}
//
// # Ordering
//
// Valves keep their insertion order. Bit positions for the planner's visited
// masks are assigned in this order, so the same input always yields the same
// bit layout.
//
// # Concurrency
//
// A Graph is mutated only while it is being built. After that it is read-only
// and may be shared between goroutines.
package valve
