package network

import (
	"fmt"

	"github.com/matzehuels/flowplan/pkg/valve"
)

// Table maps a source valve to the hop count of every reachable target
// valve. Sources are the interesting valves (start plus nonzero rates);
// targets are nonzero-rate valves other than the source and the start.
type Table map[string]map[string]int

// Distance returns the hop count from src to dst and whether dst is a
// recorded target of src.
func (t Table) Distance(src, dst string) (int, bool) {
	d, ok := t[src][dst]
	return d, ok
}

// queueItem pairs a valve with its BFS depth from the source.
type queueItem struct {
	id    string
	depth int
}

// BuildTable runs a breadth-first search from every interesting valve over
// the whole tunnel graph. Zero-rate valves are crossed but never recorded.
// Every source gets an entry, empty when nothing is reachable.
//
// Returns valve.ErrUnknownValve if start is missing or a tunnel leads to a
// valve that does not exist.
func BuildTable(g *valve.Graph, start string) (Table, error) {
	if !g.Has(start) {
		return nil, fmt.Errorf("%w: start %s", valve.ErrUnknownValve, start)
	}
	table := make(Table)
	for _, src := range g.Interesting(start) {
		dist, err := bfsFrom(g, src, start)
		if err != nil {
			return nil, err
		}
		table[src] = dist
	}
	return table, nil
}

// bfsFrom computes hop counts from src to every nonzero-rate valve other
// than src and start.
func bfsFrom(g *valve.Graph, src, start string) (map[string]int, error) {
	dist := make(map[string]int)
	visited := map[string]bool{src: true}
	queue := []queueItem{{id: src}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		for _, nbr := range g.Tunnels(item.id) {
			if visited[nbr] {
				continue
			}
			if !g.Has(nbr) {
				return nil, fmt.Errorf("%w: tunnel %s -> %s", valve.ErrUnknownValve, item.id, nbr)
			}
			visited[nbr] = true
			d := item.depth + 1
			if nbr != start && g.Rate(nbr) > 0 {
				dist[nbr] = d
			}
			queue = append(queue, queueItem{id: nbr, depth: d})
		}
	}
	return dist, nil
}
