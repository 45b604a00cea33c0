// Package release computes the most pressure a valve network can release
// within a time budget.
//
// # Search
//
// [Searcher.Search] is a memoized depth-first search over states
// (minutes left, current valve, visited mask). From each state it tries every
// unopened target valve: walking there and opening it costs distance+1
// minutes, after which the valve releases rate*remaining. States are cached
// in a [Cache], which turns the exponential tree into a search over distinct
// (time, valve, mask) triples.
//
// # Planners
//
// [Single] plans for one agent from the start valve with a fresh cache.
//
// [DualPlanner] splits the openable valves between two agents acting for the
// same budget. For a mask m, agent A searches with every valve outside m
// pre-marked as visited and agent B with every valve inside m pre-marked, and
// the split scores the sum. The masks scored depend on the [Strategy]:
//
//   - [StrategyHalf] (default) scores every unordered split once.
//   - [StrategyFull] scores every split twice; useful as a cross-check.
//   - [StrategyBalanced] scores only masks in the middle of the half range.
//     It is much faster but assumes the best split is roughly even, which is
//     not guaranteed.
//
// Serial dual planning reuses one cache across all masks, since the same
// (time, valve, mask) triples recur between splits. With Workers > 1 each
// goroutine gets its own cache; the answer is the same.
//
// # Concurrency
//
// A [Searcher] and its [Cache] are single-goroutine. The planners are safe to
// call concurrently on the same network.
package release
