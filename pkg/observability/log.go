package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline and cache events to a logger at debug level.
// Failures are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLoadStart(_ context.Context, path, variant string) {
	h.logger.Debug("load", "path", path, "variant", variant)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, path string, arms int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("load failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("loaded", "path", path, "arms", arms, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnSummarizeComplete(_ context.Context, treatments, comparisons int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("summarize failed", "err", err)
		return
	}
	h.logger.Debug("summarized", "treatments", treatments, "comparisons", comparisons, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("rendered", "formats", formats, "took", d.Round(time.Microsecond))
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

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
