package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline, cache and HTTP events to a logger at debug level.
// Failures are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnParseStart(_ context.Context, source string) {
	h.logger.Debug("parse start", "source", source)
}

func (h *LogHooks) OnParseComplete(_ context.Context, source string, valveCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("parse failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("parse done", "source", source, "valves", valveCount, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnPlanStart(_ context.Context, mode string, openable int) {
	h.logger.Debug("plan start", "mode", mode, "openable", openable)
}

func (h *LogHooks) OnPlanComplete(_ context.Context, mode string, pressure uint64, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("plan failed", "mode", mode, "err", err)
		return
	}
	h.logger.Debug("plan done", "mode", mode, "pressure", pressure, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "took", d.Round(time.Microsecond))
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
