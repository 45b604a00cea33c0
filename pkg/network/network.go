package network

import (
	"fmt"

	"github.com/matzehuels/flowplan/pkg/valve"
)

// Target is a valve reachable from a node, lowered for the search.
type Target struct {
	Node int    // Node index of the target
	Cost int    // Minutes to walk there and open it (distance + 1)
	Bit  uint64 // Visited-mask bit of the target
	Rate uint64 // Flow rate of the target
}

// Network is the compiled, read-only input of the planners: the validated
// graph, its distance table and bit index, plus dense per-node target lists.
//
// Node 0 is always the start valve; nodes 1..N are the openable valves in
// bit order, so node i > 0 carries bit i-1.
type Network struct {
	graph   *valve.Graph
	start   string
	table   Table
	index   Index
	nodes   []string
	lookup  map[string]int
	targets [][]Target
}

// Compile validates g and builds everything the planners need to search
// from start. It fails with valve.ErrUnknownValve on dangling tunnels or a
// missing start, and with ErrTooManyValves past 64 openable valves.
func Compile(g *valve.Graph, start string) (*Network, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	table, err := BuildTable(g, start)
	if err != nil {
		return nil, err
	}
	index, err := AssignIndex(g, start)
	if err != nil {
		return nil, err
	}

	nodes := append([]string{start}, index.IDs()...)
	lookup := make(map[string]int, len(nodes))
	for i, id := range nodes {
		lookup[id] = i
	}

	targets := make([][]Target, len(nodes))
	for i, src := range nodes {
		for j, dst := range nodes[1:] {
			d, ok := table.Distance(src, dst)
			if !ok {
				continue
			}
			targets[i] = append(targets[i], Target{
				Node: j + 1,
				Cost: d + 1,
				Bit:  index.Bit(dst),
				Rate: g.Rate(dst),
			})
		}
	}

	return &Network{
		graph:   g,
		start:   start,
		table:   table,
		index:   index,
		nodes:   nodes,
		lookup:  lookup,
		targets: targets,
	}, nil
}

// Graph returns the underlying valve graph.
func (n *Network) Graph() *valve.Graph { return n.graph }

// Start returns the start valve ID.
func (n *Network) Start() string { return n.start }

// Table returns the distance table.
func (n *Network) Table() Table { return n.table }

// Index returns the bit assignment.
func (n *Network) Index() Index { return n.index }

// Size returns N, the number of openable valves.
func (n *Network) Size() int { return n.index.Len() }

// Full returns the mask with every openable valve set.
func (n *Network) Full() uint64 { return n.index.Full() }

// Node returns the node index of a valve. Only the start and openable
// valves have one.
func (n *Network) Node(id string) (int, bool) {
	i, ok := n.lookup[id]
	return i, ok
}

// NodeID returns the valve ID of a node index.
func (n *Network) NodeID(node int) string { return n.nodes[node] }

// Targets returns the valves reachable from node. The slice must not be
// modified.
func (n *Network) Targets(node int) []Target { return n.targets[node] }

// Mask returns the visited mask with the bits of the given valves set.
// Unknown IDs or valves without a bit are reported as an error.
func (n *Network) Mask(ids ...string) (uint64, error) {
	var mask uint64
	for _, id := range ids {
		b := n.index.Bit(id)
		if b == 0 {
			return 0, fmt.Errorf("%w: %s is not an openable valve", valve.ErrUnknownValve, id)
		}
		mask |= b
	}
	return mask, nil
}

// Names returns the IDs of the valves set in mask, in bit order.
func (n *Network) Names(mask uint64) []string { return n.index.Names(mask) }
