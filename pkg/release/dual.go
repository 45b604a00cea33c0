package release

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flowplan/pkg/network"
)

// Strategy selects which partition masks the dual planner enumerates.
type Strategy string

const (
	// StrategyHalf enumerates [0, 2^(N-1)). Exactly one of m and full^m has
	// the top bit clear, so every unordered split is scored once.
	StrategyHalf Strategy = "half"

	// StrategyFull enumerates every mask in [0, 2^N), scoring each split
	// twice. Only useful as a cross-check.
	StrategyFull Strategy = "full"

	// StrategyBalanced scans only [0.4*H, 0.7*H) of the half range H, on the
	// assumption that the best split is roughly even. Faster, but it can miss
	// the optimum on lopsided networks.
	StrategyBalanced Strategy = "balanced"
)

// DefaultStrategy is the strategy used when none is set.
const DefaultStrategy = StrategyHalf

// ErrInvalidStrategy is returned for an unrecognized strategy name.
var ErrInvalidStrategy = errors.New("invalid partition strategy")

// ParseStrategy converts a name into a Strategy. The empty string maps to
// DefaultStrategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultStrategy, nil
	case StrategyHalf:
		return StrategyHalf, nil
	case StrategyFull:
		return StrategyFull, nil
	case StrategyBalanced:
		return StrategyBalanced, nil
	}
	return "", fmt.Errorf("%w: %q (want half, full or balanced)", ErrInvalidStrategy, s)
}

// Range returns the half-open mask interval [lo, hi) enumerated for n
// openable valves.
func (s Strategy) Range(n int) (lo, hi uint64, err error) {
	if n == 0 {
		return 0, 1, nil
	}
	switch s {
	case StrategyHalf, "":
		return 0, 1 << (n - 1), nil
	case StrategyFull:
		if n >= network.MaxValves {
			return 0, 0, fmt.Errorf("%w: full strategy needs fewer than %d valves", ErrInvalidStrategy, network.MaxValves)
		}
		return 0, 1 << n, nil
	case StrategyBalanced:
		half := uint64(1) << (n - 1)
		lo = uint64(float64(half) * 0.4)
		hi = uint64(float64(half) * 0.7)
		if lo >= hi {
			// Too few valves for the slice to contain anything.
			return 0, half, nil
		}
		return lo, hi, nil
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrInvalidStrategy, string(s))
}

// ProgressFunc receives the number of masks scored so far, the total to
// score, and the best combined release found.
type ProgressFunc func(done, total, best uint64)

// DualResult is the outcome of planning for two agents.
type DualResult struct {
	Pressure uint64    `json:"pressure"`
	Mask     uint64    `json:"mask"`   // Valves reserved for agent A
	Agents   [2]Result `json:"agents"` // Agent A opens Mask, agent B the rest
	Masks    uint64    `json:"masks"`  // Number of masks scored
	States   int       `json:"states"` // Memoized states across all caches
}

// DualPlanner splits the openable valves between two agents that act for
// the same budget, scoring every enumerated split by searching each half
// independently from the start valve.
//
// The zero value plans serially with StrategyHalf.
type DualPlanner struct {
	// Strategy selects the enumerated masks.
	Strategy Strategy

	// Workers > 1 scores masks on that many goroutines, each with its own
	// cache. Results are identical to the serial run.
	Workers int

	// Progress, if set, is called periodically. Calls are serialized.
	Progress ProgressFunc

	// ProgressEvery is the number of masks between Progress calls.
	// Defaults to 1024.
	ProgressEvery uint64
}

// Dual plans for two agents with the default DualPlanner.
func Dual(ctx context.Context, net *network.Network, budget int) (DualResult, error) {
	var p DualPlanner
	return p.Plan(ctx, net, budget)
}

// Combine scores mask m: agent A may only open the valves in m (all others
// pre-marked as visited) and agent B only those outside m.
// Combine(s, t, m) == Combine(s, t, full^m).
func Combine(s *Searcher, budget int, m uint64) uint64 {
	full := s.net.Full()
	start := s.net.Start()
	return s.Search(budget, start, full^m) + s.Search(budget, start, m)
}

// Plan enumerates the strategy's masks and keeps the best combined release.
// Ties resolve to the smallest mask. Cancellation is checked between masks.
func (p *DualPlanner) Plan(ctx context.Context, net *network.Network, budget int) (DualResult, error) {
	lo, hi, err := p.Strategy.Range(net.Size())
	if err != nil {
		return DualResult{}, err
	}
	prog := &progress{fn: p.Progress, every: p.ProgressEvery, total: hi - lo}
	if prog.every == 0 {
		prog.every = 1024
	}

	workers := max(p.Workers, 1)
	if uint64(workers) > hi-lo {
		workers = int(max(hi-lo, 1))
	}

	var (
		best     partial
		searcher *Searcher
		states   int
	)
	if workers == 1 {
		searcher = NewSearcher(net, nil)
		best, err = scan(ctx, searcher, budget, lo, hi, 1, prog)
		if err != nil {
			return DualResult{}, err
		}
	} else {
		parts := make([]partial, workers)
		sizes := make([]int, workers)
		g, gctx := errgroup.WithContext(ctx)
		for w := range workers {
			g.Go(func() error {
				s := NewSearcher(net, nil)
				part, err := scan(gctx, s, budget, lo+uint64(w), hi, uint64(workers), prog)
				parts[w], sizes[w] = part, s.cache.Len()
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return DualResult{}, err
		}
		best = parts[0]
		for w, part := range parts {
			best = best.better(part)
			states += sizes[w]
		}
		searcher = NewSearcher(net, nil)
	}
	prog.finish(best.pressure)

	full := net.Full()
	res := DualResult{
		Pressure: best.pressure,
		Mask:     best.mask,
		Masks:    hi - lo,
	}
	res.Agents[0] = searcher.plan(budget, full^best.mask)
	res.Agents[1] = searcher.plan(budget, best.mask)
	res.States = states + searcher.cache.Len()
	return res, nil
}

// partial is the best split seen by one scan.
type partial struct {
	pressure uint64
	mask     uint64
	seen     bool
}

func (a partial) better(b partial) partial {
	switch {
	case !a.seen:
		return b
	case !b.seen:
		return a
	case b.pressure > a.pressure, b.pressure == a.pressure && b.mask < a.mask:
		return b
	}
	return a
}

// scan scores masks lo, lo+step, ... below hi.
func scan(ctx context.Context, s *Searcher, budget int, lo, hi, step uint64, prog *progress) (partial, error) {
	var best partial
	var n uint64
	for m := lo; m < hi; m += step {
		if n%64 == 0 {
			if err := ctx.Err(); err != nil {
				return best, err
			}
		}
		best = best.better(partial{pressure: Combine(s, budget, m), mask: m, seen: true})
		n++
		if n%prog.every == 0 {
			prog.add(prog.every, best.pressure)
		}
	}
	prog.add(n%prog.every, best.pressure)
	return best, nil
}

// progress serializes ProgressFunc calls from concurrent scans.
type progress struct {
	fn    ProgressFunc
	every uint64
	total uint64

	mu   sync.Mutex
	done uint64
	best uint64
}

func (p *progress) add(n, best uint64) {
	if p.fn == nil || n == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done += n
	p.best = max(p.best, best)
	p.fn(p.done, p.total, p.best)
}

func (p *progress) finish(best uint64) {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = p.total
	p.best = max(p.best, best)
	p.fn(p.done, p.total, p.best)
}
