package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnPackStart(_ context.Context, images int) {
	h.Logger.Debug("pack start", "images", images)
}

func (h *LogHooks) OnPackComplete(_ context.Context, pages, cards int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("pack failed", "error", err, "duration", d)
		return
	}
	h.Logger.Debug("pack done", "pages", pages, "cards", cards, "duration", d)
}

func (h *LogHooks) OnMirror(_ context.Context, pages, mixedRows int) {
	h.Logger.Debug("mirrored back", "pages", pages, "mixed_rows", mixedRows)
}

func (h *LogHooks) OnAlignment(_ context.Context, aligned bool, findings int) {
	h.Logger.Debug("alignment checked", "aligned", aligned, "findings", findings)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render done", "formats", formats, "duration", d, "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
