package release_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowplan/internal/testutil"
	"github.com/matzehuels/flowplan/pkg/network"
	"github.com/matzehuels/flowplan/pkg/release"
	"github.com/matzehuels/flowplan/pkg/valve"
)

func sample(t *testing.T) *network.Network {
	t.Helper()
	net, err := network.Compile(testutil.SampleGraph(), "AA")
	require.NoError(t, err)
	return net
}

func TestSingleSample(t *testing.T) {
	res, err := release.Single(context.Background(), sample(t), 30)
	require.NoError(t, err)
	assert.Equal(t, uint64(testutil.SampleSingle), res.Pressure)
	assert.Equal(t, res.Pressure, release.Total(res.Route))
	assert.Positive(t, res.States)

	seen := map[string]bool{}
	for i, st := range res.Route {
		assert.False(t, seen[st.Valve], "valve %s opened twice", st.Valve)
		seen[st.Valve] = true
		assert.Equal(t, 30-st.Minute, st.Remaining)
		if i > 0 {
			assert.Greater(t, st.Minute, res.Route[i-1].Minute)
		}
	}
}

func TestSingleIdempotent(t *testing.T) {
	net := sample(t)
	a, err := release.Single(context.Background(), net, 30)
	require.NoError(t, err)
	b, err := release.Single(context.Background(), net, 30)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDualSample(t *testing.T) {
	net := sample(t)
	for _, s := range []release.Strategy{release.StrategyHalf, release.StrategyFull} {
		t.Run(string(s), func(t *testing.T) {
			p := release.DualPlanner{Strategy: s}
			res, err := p.Plan(context.Background(), net, 26)
			require.NoError(t, err)
			assert.Equal(t, uint64(testutil.SampleDual), res.Pressure)
			assert.Equal(t, res.Pressure, res.Agents[0].Pressure+res.Agents[1].Pressure)
			assert.Zero(t, res.Agents[0].Opened&res.Agents[1].Opened, "agents share a valve")
			assert.Equal(t, res.Agents[0].Opened, res.Agents[0].Opened&res.Mask)
		})
	}
}

func TestDualWorkersMatchSerial(t *testing.T) {
	net := sample(t)
	serial, err := release.Dual(context.Background(), net, 26)
	require.NoError(t, err)

	for _, w := range []int{2, 3, 8, 100} {
		p := release.DualPlanner{Workers: w}
		par, err := p.Plan(context.Background(), net, 26)
		require.NoError(t, err)
		assert.Equal(t, serial.Pressure, par.Pressure, "workers=%d", w)
		assert.Equal(t, serial.Mask, par.Mask, "workers=%d", w)
	}
}

func TestDualBalancedNeverExceedsHalf(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		net, err := network.Compile(testutil.RandomGraph(seed, 12), "V00")
		require.NoError(t, err)

		half, err := release.Dual(context.Background(), net, 16)
		require.NoError(t, err)
		p := release.DualPlanner{Strategy: release.StrategyBalanced}
		bal, err := p.Plan(context.Background(), net, 16)
		require.NoError(t, err)
		assert.LessOrEqual(t, bal.Pressure, half.Pressure, "seed %d", seed)
	}
}

// BB and CC sit next to each other near the start; DD is two minutes
// away the other way. One agent should take BB and CC (30+10) and the other
// DD (20), for 60. With three openable valves the balanced slice scores only
// mask 1, which sends BB alone (30) and leaves CC and DD, too far apart to
// both open in 5 minutes, to the other agent (20).
func TestDualBalancedMissesBestSplit(t *testing.T) {
	g := valve.New()
	for _, v := range []valve.Valve{
		{ID: "AA", Tunnels: []string{"BB", "XX"}},
		{ID: "BB", Rate: 10, Tunnels: []string{"AA", "CC"}},
		{ID: "CC", Rate: 10, Tunnels: []string{"BB"}},
		{ID: "XX", Tunnels: []string{"AA", "DD"}},
		{ID: "DD", Rate: 10, Tunnels: []string{"XX"}},
	} {
		require.NoError(t, g.AddValve(v))
	}
	net, err := network.Compile(g, "AA")
	require.NoError(t, err)

	lo, hi, err := release.StrategyBalanced.Range(net.Size())
	require.NoError(t, err)
	require.Equal(t, [2]uint64{1, 2}, [2]uint64{lo, hi})

	half, err := release.Dual(context.Background(), net, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), half.Pressure)

	p := release.DualPlanner{Strategy: release.StrategyBalanced}
	bal, err := p.Plan(context.Background(), net, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), bal.Pressure)
	assert.Less(t, bal.Pressure, half.Pressure)
}

func TestDualAtLeastSingle(t *testing.T) {
	// Giving agent B nothing reproduces the single-agent plan.
	for seed := uint64(1); seed <= 5; seed++ {
		net, err := network.Compile(testutil.RandomGraph(seed, 12), "V00")
		require.NoError(t, err)
		single, err := release.Single(context.Background(), net, 20)
		require.NoError(t, err)
		dual, err := release.Dual(context.Background(), net, 20)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, dual.Pressure, single.Pressure, "seed %d", seed)
	}
}

func TestCombineSymmetric(t *testing.T) {
	net := sample(t)
	s := release.NewSearcher(net, nil)
	full := net.Full()
	for m := uint64(0); m <= full; m++ {
		assert.Equal(t, release.Combine(s, 26, m), release.Combine(s, 26, full^m), "mask %b", m)
	}
}

func TestSearchMatchesBruteForce(t *testing.T) {
	for seed := uint64(1); seed <= 8; seed++ {
		net, err := network.Compile(testutil.RandomGraph(seed, 10), "V00")
		require.NoError(t, err)
		s := release.NewSearcher(net, nil)
		for _, budget := range []int{5, 12, 20} {
			want := testutil.BruteForce(net, budget, 0)
			assert.Equal(t, want, s.Search(budget, "V00", 0), "seed %d budget %d", seed, budget)
		}
	}
}

func TestSearchMonotoneInTime(t *testing.T) {
	net := sample(t)
	s := release.NewSearcher(net, nil)
	for _, mask := range []uint64{0, 0b000101, 0b110000} {
		prev := uint64(0)
		for tm := -2; tm <= 30; tm++ {
			got := s.Search(tm, "AA", mask)
			assert.GreaterOrEqual(t, got, prev, "t=%d mask=%b", tm, mask)
			prev = got
		}
	}
}

func TestSearchAntiMonotoneInMask(t *testing.T) {
	net := sample(t)
	s := release.NewSearcher(net, nil)
	full := net.Full()
	for m1 := uint64(0); m1 <= full; m1++ {
		// Every superset m2 of m1.
		for m2 := full; ; m2 = (m2 - 1) & full {
			if m1&m2 == m1 {
				assert.GreaterOrEqual(t, s.Search(20, "AA", m1), s.Search(20, "AA", m2), "m1=%b m2=%b", m1, m2)
			}
			if m2 == 0 {
				break
			}
		}
	}
}

func TestBoundaries(t *testing.T) {
	ctx := context.Background()

	g := valve.New()
	require.NoError(t, g.AddValve(valve.Valve{ID: "AA"}))
	lone, err := network.Compile(g, "AA")
	require.NoError(t, err)

	for _, budget := range []int{-5, 0, 1, 30} {
		res, err := release.Single(ctx, lone, budget)
		require.NoError(t, err)
		assert.Zero(t, res.Pressure, "lone valve, budget %d", budget)

		dual, err := release.Dual(ctx, lone, budget)
		require.NoError(t, err)
		assert.Zero(t, dual.Pressure, "lone valve dual, budget %d", budget)
	}

	net := sample(t)
	for _, budget := range []int{-1, 0, 1, 2} {
		res, err := release.Single(ctx, net, budget)
		require.NoError(t, err)
		assert.Zero(t, res.Pressure, "budget %d", budget)
		assert.Empty(t, res.Route)
	}

	s := release.NewSearcher(net, nil)
	assert.Zero(t, s.Search(30, "FF", 0), "zero-rate pass-through valve is not a search node")
}

func TestUnreachableValveContributesNothing(t *testing.T) {
	g := valve.New()
	require.NoError(t, g.AddValve(valve.Valve{ID: "AA", Tunnels: []string{"BB"}}))
	require.NoError(t, g.AddValve(valve.Valve{ID: "BB", Rate: 10, Tunnels: []string{"AA"}}))
	require.NoError(t, g.AddValve(valve.Valve{ID: "CC", Rate: 99}))
	net, err := network.Compile(g, "AA")
	require.NoError(t, err)

	res, err := release.Single(context.Background(), net, 5)
	require.NoError(t, err)
	// Walk 1, open 1, release for 3 minutes.
	assert.Equal(t, uint64(30), res.Pressure)
}

func TestCancellation(t *testing.T) {
	net := sample(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := release.Single(ctx, net, 30)
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = release.Dual(ctx, net, 26)
	assert.True(t, errors.Is(err, context.Canceled))

	p := release.DualPlanner{Workers: 4}
	_, err = p.Plan(ctx, net, 26)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestProgress(t *testing.T) {
	net := sample(t)
	var calls int
	var last, total uint64
	p := release.DualPlanner{
		ProgressEvery: 4,
		Progress: func(done, tot, best uint64) {
			calls++
			last, total = done, tot
		},
	}
	res, err := p.Plan(context.Background(), net, 26)
	require.NoError(t, err)
	assert.Greater(t, calls, 1)
	assert.Equal(t, total, last)
	assert.Equal(t, res.Masks, total)
}

func TestStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    release.Strategy
		wantErr bool
	}{
		{"", release.StrategyHalf, false},
		{"half", release.StrategyHalf, false},
		{" FULL ", release.StrategyFull, false},
		{"balanced", release.StrategyBalanced, false},
		{"greedy", "", true},
	}
	for _, tt := range tests {
		got, err := release.ParseStrategy(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, release.ErrInvalidStrategy, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	ranges := []struct {
		s      release.Strategy
		n      int
		lo, hi uint64
	}{
		{release.StrategyHalf, 0, 0, 1},
		{release.StrategyHalf, 6, 0, 32},
		{release.StrategyFull, 6, 0, 64},
		{release.StrategyBalanced, 6, 12, 22},
		{release.StrategyBalanced, 1, 0, 1},
		{release.StrategyHalf, 64, 0, 1 << 63},
	}
	for _, r := range ranges {
		lo, hi, err := r.s.Range(r.n)
		require.NoError(t, err)
		assert.Equal(t, [2]uint64{r.lo, r.hi}, [2]uint64{lo, hi}, "%s n=%d", r.s, r.n)
	}

	_, _, err := release.StrategyFull.Range(64)
	assert.ErrorIs(t, err, release.ErrInvalidStrategy)
}

func TestCacheStats(t *testing.T) {
	net := sample(t)
	c := release.NewCache()
	s := release.NewSearcher(net, c)
	s.Search(30, "AA", 0)
	first := c.Stats()
	s.Search(30, "AA", 0)
	second := c.Stats()

	assert.Equal(t, first.States, second.States, "repeat search must not add states")
	assert.Equal(t, first.Hits+1, second.Hits)
	assert.Equal(t, c.Len(), first.States)
}
