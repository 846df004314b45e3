package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cardsheet/pkg/observability"
)

// requestLogger reports every request to the server hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		}()

		next.ServeHTTP(ww, r)
	})
}

// LogHooks writes server events to a logger. Requests are logged at debug
// level, responses at info, or at warn and error for 4xx and 5xx.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns server hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnRequest(ctx context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "path", route, "request_id", middleware.GetReqID(ctx))
}

func (h *LogHooks) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	kv := []any{"method", method, "route", route, "status", status, "duration", d}
	if id := middleware.GetReqID(ctx); id != "" {
		kv = append(kv, "request_id", id)
	}
	switch {
	case status >= 500:
		h.Logger.Error("response", kv...)
	case status >= 400:
		h.Logger.Warn("response", kv...)
	default:
		h.Logger.Info("response", kv...)
	}
}
