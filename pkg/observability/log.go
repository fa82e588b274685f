package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level; failures are
// logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("obs")}
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load start", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, n int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("load failed", "source", source, "duration", d, "error", err)
		return
	}
	h.logger.Debug("load complete", "source", source, "topics", n, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, n int) {
	h.logger.Debug("layout start", "words", n)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, n, steps int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "words", n, "duration", d, "error", err)
		return
	}
	h.logger.Debug("layout complete", "words", n, "steps", steps, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "duration", d, "error", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
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

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "route", route, "status", status, "duration", d)
}

func (h *LogHooks) OnSelect(_ context.Context, index int, label string) {
	h.logger.Debug("select", "index", index, "label", label)
}

func (h *LogHooks) OnSuperseded(_ context.Context, generation uint64) {
	h.logger.Debug("layout pass superseded", "generation", generation)
}

var (
	_ PipelineHooks  = (*LogHooks)(nil)
	_ CacheHooks     = (*LogHooks)(nil)
	_ HTTPHooks      = (*LogHooks)(nil)
	_ SelectionHooks = (*LogHooks)(nil)
)
