package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Server struct {
	logger *slog.Logger
	mux    *http.ServeMux
}

func New(logger *slog.Logger, sessions SessionHandler) *Server {
	logger = logger.With("component", "rest")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", newPingHandler(logger).Ping)
	mux.HandleFunc("GET /sessions/{id}", sessions.GetSession)

	return &Server{
		logger: logger,
		mux:    mux,
	}
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	that.mux.ServeHTTP(w, r)
}

// Start serves until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Warn("failed to shut down", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
