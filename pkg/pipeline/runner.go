package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flowplan/pkg/cache"
	"github.com/matzehuels/flowplan/pkg/network"
	"github.com/matzehuels/flowplan/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → plan → render pipeline with caching.
// Every returned error is a structured *errors.Error (see Classify).
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	result, err := r.execute(ctx, opts)
	return result, Classify(err)
}

func (r *Runner) execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.Timeout)*time.Second)
		defer cancel()
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID)

	// Stage 1: Load
	loadStart := time.Now()
	net, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Start = net.Start()
	result.Valves = net.Graph().Len()
	result.Openable = net.Size()
	result.GraphHash = GraphHash(net.Graph(), net.Start())
	result.Stats.LoadTime = time.Since(loadStart)

	logger.Info("loaded network",
		"valves", result.Valves,
		"openable", result.Openable,
		"start", result.Start,
		"duration", result.Stats.LoadTime)

	// Stage 2: Plan
	planStart := time.Now()
	plans, planHit, err := r.PlanWithCacheInfo(ctx, net, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	result.Plans = plans
	result.Stats.PlanTime = time.Since(planStart)
	result.CacheInfo.PlanHit = planHit

	logger.Info("planned", "mode", opts.Mode, "cached", planHit, "duration", result.Stats.PlanTime)

	// Stage 3: Render
	if len(opts.Formats) == 0 {
		return result, nil
	}
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, net, result.GraphHash, plans, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and compiles the network named by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*network.Network, error) {
	hooks := observability.Pipeline()
	source := opts.Input
	if source == "" {
		source = "inline"
	}

	start := time.Now()
	hooks.OnParseStart(ctx, source)
	g, startID, err := Load(ctx, opts)
	var net *network.Network
	if err == nil {
		net, err = network.Compile(g, startID)
	}
	count := 0
	if g != nil {
		count = g.Len()
	}
	hooks.OnParseComplete(ctx, source, count, time.Since(start), err)
	return net, err
}

// PlanWithCacheInfo runs the planners with caching and returns cache hit info.
// graphHash must identify net (see GraphHash).
func (r *Runner) PlanWithCacheInfo(ctx context.Context, net *network.Network, graphHash string, opts Options) (Plans, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Plans{}, false, err
	}

	key := r.Keyer.PlanKey(graphHash, opts.PlanKeyOpts(net.Start()))
	hooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		var cached Plans
		if err := cache.GetJSON(ctx, r.Cache, key, &cached); err == nil {
			hooks.OnCacheHit(ctx, "plan")
			return cached, true, nil
		}
		hooks.OnCacheMiss(ctx, "plan")
	}

	plans, err := Plan(ctx, net, opts)
	if err != nil {
		return Plans{}, false, err
	}

	if err := cache.SetJSON(ctx, r.Cache, key, plans, cache.PlanTTL); err != nil {
		opts.Logger.Warn("cache plan", "err", err)
	} else {
		hooks.OnCacheSet(ctx, "plan", 0)
	}

	return plans, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, net *network.Network, graphHash string, plans Plans, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	planKey := r.Keyer.PlanKey(graphHash, opts.PlanKeyOpts(net.Start()))
	hooks := observability.Cache()

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(planKey, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	// Render all formats
	pipelineHooks := observability.Pipeline()
	start := time.Now()
	pipelineHooks.OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(ctx, net, plans, opts)
	pipelineHooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(planKey, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
