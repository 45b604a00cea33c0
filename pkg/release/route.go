package release

// Step is one valve opening in a plan.
type Step struct {
	Valve     string `json:"valve"`
	Minute    int    `json:"minute"`    // Minute at which the valve is open (elapsed from 0)
	Remaining int    `json:"remaining"` // Minutes the valve releases for
	Released  uint64 `json:"released"`  // Remaining * rate
}

// Route reconstructs the opening order behind Search(t, id, visited) by
// following, at each state, the first target that achieves the memoized
// optimum. Steps are recomputed through the cache, so a warm cache makes
// this cheap.
func (s *Searcher) Route(t int, id string, visited uint64) []Step {
	node, ok := s.net.Node(id)
	if !ok {
		return nil
	}
	budget := t

	var steps []Step
	for {
		best := s.search(t, node, visited)
		if best == 0 {
			return steps
		}
		next := -1
		for i, tg := range s.net.Targets(node) {
			if visited&tg.Bit != 0 {
				continue
			}
			rem := t - tg.Cost
			if rem <= 0 {
				continue
			}
			if s.search(rem, tg.Node, visited|tg.Bit)+uint64(rem)*tg.Rate == best {
				next = i
				break
			}
		}
		if next < 0 {
			return steps
		}
		tg := s.net.Targets(node)[next]
		rem := t - tg.Cost
		steps = append(steps, Step{
			Valve:     s.net.NodeID(tg.Node),
			Minute:    budget - rem,
			Remaining: rem,
			Released:  uint64(rem) * tg.Rate,
		})
		t, node, visited = rem, tg.Node, visited|tg.Bit
	}
}

// Total sums the pressure released by steps.
func Total(steps []Step) uint64 {
	var sum uint64
	for _, st := range steps {
		sum += st.Released
	}
	return sum
}
