// Package testutil provides fixtures for flowplan tests.
//
// This package is intended for use in tests only. It provides the canonical
// sample network, seeded random networks and a brute-force reference planner
// used to cross-check the memoized search.
package testutil

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/flowplan/pkg/network"
	"github.com/matzehuels/flowplan/pkg/valve"
)

// SampleText is the ten-valve sample network in the text format.
// Single agent, 30 minutes: 1651. Two agents, 26 minutes: 1707.
const SampleText = `Valve AA has flow rate=0; tunnels lead to valves DD, II, BB
Valve BB has flow rate=13; tunnels lead to valves CC, AA
Valve CC has flow rate=2; tunnels lead to valves DD, BB
Valve DD has flow rate=20; tunnels lead to valves CC, AA, EE
Valve EE has flow rate=3; tunnels lead to valves FF, DD
Valve FF has flow rate=0; tunnels lead to valves EE, GG
Valve GG has flow rate=0; tunnels lead to valves FF, HH
Valve HH has flow rate=22; tunnel leads to valve GG
Valve II has flow rate=0; tunnels lead to valves AA, JJ
Valve JJ has flow rate=21; tunnel leads to valve II
`

// Expected results for the sample network.
const (
	SampleSingle = 1651
	SampleDual   = 1707
)

// SampleGraph builds the sample network without going through a parser.
func SampleGraph() *valve.Graph {
	g := valve.New()
	for _, v := range []valve.Valve{
		{ID: "AA", Rate: 0, Tunnels: []string{"DD", "II", "BB"}},
		{ID: "BB", Rate: 13, Tunnels: []string{"CC", "AA"}},
		{ID: "CC", Rate: 2, Tunnels: []string{"DD", "BB"}},
		{ID: "DD", Rate: 20, Tunnels: []string{"CC", "AA", "EE"}},
		{ID: "EE", Rate: 3, Tunnels: []string{"FF", "DD"}},
		{ID: "FF", Rate: 0, Tunnels: []string{"EE", "GG"}},
		{ID: "GG", Rate: 0, Tunnels: []string{"FF", "HH"}},
		{ID: "HH", Rate: 22, Tunnels: []string{"GG"}},
		{ID: "II", Rate: 0, Tunnels: []string{"AA", "JJ"}},
		{ID: "JJ", Rate: 21, Tunnels: []string{"II"}},
	} {
		if err := g.AddValve(v); err != nil {
			panic(err)
		}
	}
	return g
}

// RandomGraph builds a connected random network of n valves named V00, V01,
// ... with start V00 at rate 0. Roughly half of the other valves get a
// nonzero rate. The same seed always yields the same graph.
func RandomGraph(seed uint64, n int) *valve.Graph {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("V%02d", i)
	}
	adj := make([][]string, n)
	link := func(a, b int) {
		adj[a] = append(adj[a], ids[b])
		adj[b] = append(adj[b], ids[a])
	}
	// Spanning tree first, then a few extra chords.
	for i := 1; i < n; i++ {
		link(i, rng.IntN(i))
	}
	for range n / 2 {
		a, b := rng.IntN(n), rng.IntN(n)
		if a != b {
			link(a, b)
		}
	}

	g := valve.New()
	for i, id := range ids {
		var rate uint64
		if i > 0 && rng.IntN(2) == 0 {
			rate = uint64(1 + rng.IntN(25))
		}
		if err := g.AddValve(valve.Valve{ID: id, Rate: rate, Tunnels: adj[i]}); err != nil {
			panic(err)
		}
	}
	return g
}

// BruteForce returns the best single-agent release by trying every opening
// order without memoization. Only usable on small networks. Valves whose bit
// is set in visited are treated as already open.
func BruteForce(net *network.Network, budget int, visited uint64) uint64 {
	table := net.Table()
	index := net.Index()
	g := net.Graph()

	var walk func(at string, t int, mask uint64) uint64
	walk = func(at string, t int, mask uint64) uint64 {
		var best uint64
		for dst, d := range table[at] {
			bit := index.Bit(dst)
			if mask&bit != 0 {
				continue
			}
			rem := t - d - 1
			if rem <= 0 {
				continue
			}
			best = max(best, uint64(rem)*g.Rate(dst)+walk(dst, rem, mask|bit))
		}
		return best
	}
	return walk(net.Start(), budget, visited)
}
