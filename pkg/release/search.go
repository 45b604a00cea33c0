package release

import (
	"github.com/matzehuels/flowplan/pkg/network"
)

// State is the memoization key of the search: minutes left, the node the
// agent stands on, and the valves already opened (or reserved for another
// agent). Two states are equal iff all three fields match.
type State struct {
	Time    int
	Valve   int
	Visited uint64
}

// Cache maps search states to the best release still obtainable from them.
// It grows monotonically and belongs to exactly one planner invocation.
// A Cache is not safe for concurrent use.
type Cache struct {
	memo   map[State]uint64
	hits   int
	misses int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{memo: make(map[State]uint64)}
}

// Len returns the number of memoized states.
func (c *Cache) Len() int { return len(c.memo) }

// CacheStats summarizes cache usage.
type CacheStats struct {
	States int
	Hits   int
	Misses int
}

// Stats returns the current cache counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{States: len(c.memo), Hits: c.hits, Misses: c.misses}
}

// Searcher runs the memoized depth-first search over a compiled network.
type Searcher struct {
	net   *network.Network
	cache *Cache
}

// NewSearcher returns a searcher over net. If cache is nil a fresh one is
// created.
func NewSearcher(net *network.Network, cache *Cache) *Searcher {
	if cache == nil {
		cache = NewCache()
	}
	return &Searcher{net: net, cache: cache}
}

// Cache returns the searcher's cache.
func (s *Searcher) Cache() *Cache { return s.cache }

// Search returns the most pressure an agent standing on valve id can still
// release within t minutes, never opening a valve whose bit is set in
// visited. A non-positive t, or a valve that is neither the start nor
// openable, yields 0.
func (s *Searcher) Search(t int, id string, visited uint64) uint64 {
	node, ok := s.net.Node(id)
	if !ok {
		return 0
	}
	return s.search(t, node, visited)
}

func (s *Searcher) search(t, node int, visited uint64) uint64 {
	if t <= 0 {
		return 0
	}
	key := State{Time: t, Valve: node, Visited: visited}
	if v, ok := s.cache.memo[key]; ok {
		s.cache.hits++
		return v
	}
	s.cache.misses++

	var best uint64
	for _, tg := range s.net.Targets(node) {
		if visited&tg.Bit != 0 {
			continue
		}
		// The valve releases for every minute left after it is opened.
		rem := t - tg.Cost
		if rem <= 0 {
			continue
		}
		best = max(best, s.search(rem, tg.Node, visited|tg.Bit)+uint64(rem)*tg.Rate)
	}

	s.cache.memo[key] = best
	return best
}
