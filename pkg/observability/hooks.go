// Package observability lets callers watch the planner without the planning
// packages importing any metrics or tracing backend.
//
// Three hook sets cover the events worth watching: [PipelineHooks] for parse,
// plan and render stages, [CacheHooks] for plan and artifact lookups, and
// [HTTPHooks] for API requests. Each starts as a no-op. A binary installs its
// own implementations once at startup:
//
//	observability.SetPipelineHooks(observability.NewLogHooks(logger))
//
// and the pipeline reports through the current set:
//
//	observability.Pipeline().OnPlanStart(ctx, "dual", openable)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the planning pipeline.
type PipelineHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, valveCount int, duration time.Duration, err error)

	// Plan events, once per planner mode
	OnPlanStart(ctx context.Context, mode string, openable int)
	OnPlanComplete(ctx context.Context, mode string, pressure uint64, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// keyType is "plan" or "artifact".
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnPlanStart(context.Context, string, int)                            {}
func (NoopPipelineHooks) OnPlanComplete(context.Context, string, uint64, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry holds one hook set behind a lock.
type registry[T any] struct {
	mu  sync.RWMutex
	cur T
	def T
}

func (r *registry[T]) get() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur
}

func (r *registry[T]) set(h T) {
	r.mu.Lock()
	r.cur = h
	r.mu.Unlock()
}

func (r *registry[T]) reset() { r.set(r.def) }

var (
	pipelineHooks = &registry[PipelineHooks]{cur: NoopPipelineHooks{}, def: NoopPipelineHooks{}}
	cacheHooks    = &registry[CacheHooks]{cur: NoopCacheHooks{}, def: NoopCacheHooks{}}
	httpHooks     = &registry[HTTPHooks]{cur: NoopHTTPHooks{}, def: NoopHTTPHooks{}}
)

// SetPipelineHooks installs h for pipeline events. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.set(h)
	}
}

// SetCacheHooks installs h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.set(h)
	}
}

// SetHTTPHooks installs h for API request events. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpHooks.set(h)
	}
}

func Pipeline() PipelineHooks { return pipelineHooks.get() }
func Cache() CacheHooks       { return cacheHooks.get() }
func HTTP() HTTPHooks         { return httpHooks.get() }

// Reset reinstalls the no-op hooks. Tests call it in cleanup.
func Reset() {
	pipelineHooks.reset()
	cacheHooks.reset()
	httpHooks.reset()
}
