package rest

import (
	"log/slog"
	"net/http"
)

// pingHandler answers liveness checks from the load balancer.
type pingHandler struct {
	logger *slog.Logger
}

func newPingHandler(logger *slog.Logger) *pingHandler {
	return &pingHandler{logger: logger}
}

func (that *pingHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	// the status line is already out, nothing left to report to the caller
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Debug("failed to write ping response", "method", "Ping", "error", err)
	}
}
