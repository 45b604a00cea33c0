package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/flowplan/pkg/network"
	"github.com/matzehuels/flowplan/pkg/observability"
	"github.com/matzehuels/flowplan/pkg/release"
)

// Plan runs the planners selected by opts.Mode on a compiled network.
// opts must have been validated.
func Plan(ctx context.Context, net *network.Network, opts Options) (Plans, error) {
	var plans Plans
	hooks := observability.Pipeline()

	if opts.WantsSingle() {
		start := time.Now()
		hooks.OnPlanStart(ctx, ModeSingle, net.Size())
		res, err := release.Single(ctx, net, opts.SingleBudget)
		hooks.OnPlanComplete(ctx, ModeSingle, res.Pressure, time.Since(start), err)
		if err != nil {
			return Plans{}, fmt.Errorf("single: %w", err)
		}
		plans.Single = &SinglePlan{Budget: opts.SingleBudget, Result: res}
	}

	if opts.WantsDual() {
		strategy, err := release.ParseStrategy(opts.Strategy)
		if err != nil {
			return Plans{}, err
		}
		p := release.DualPlanner{
			Strategy: strategy,
			Workers:  opts.Workers,
			Progress: opts.Progress,
		}

		start := time.Now()
		hooks.OnPlanStart(ctx, ModeDual, net.Size())
		res, err := p.Plan(ctx, net, opts.DualBudget)
		hooks.OnPlanComplete(ctx, ModeDual, res.Pressure, time.Since(start), err)
		if err != nil {
			return Plans{}, fmt.Errorf("dual: %w", err)
		}
		plans.Dual = &DualPlan{
			Budget:     opts.DualBudget,
			Strategy:   string(strategy),
			Split:      [2][]string{net.Names(res.Mask), net.Names(net.Full() ^ res.Mask)},
			DualResult: res,
		}
	}

	return plans, nil
}
