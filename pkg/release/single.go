package release

import (
	"context"

	"github.com/matzehuels/flowplan/pkg/network"
)

// Result is the outcome of planning for one agent.
type Result struct {
	Pressure uint64 `json:"pressure"`
	Route    []Step `json:"route,omitempty"`
	Opened   uint64 `json:"opened"` // Mask of the valves the route opens
	States   int    `json:"states"` // Memoized states when the plan finished
}

// Single plans for one agent starting at the network's start valve with
// the given budget. It owns a fresh cache that is dropped on return, so two
// calls with the same inputs always agree.
func Single(ctx context.Context, net *network.Network, budget int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s := NewSearcher(net, nil)
	return s.plan(budget, 0), nil
}

// plan searches from the start with visited pre-marked and assembles a Result.
func (s *Searcher) plan(budget int, visited uint64) Result {
	start := s.net.Start()
	res := Result{Pressure: s.Search(budget, start, visited)}
	res.Route = s.Route(budget, start, visited)
	for _, st := range res.Route {
		res.Opened |= s.net.Index().Bit(st.Valve)
	}
	res.States = s.cache.Len()
	return res
}
