package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Server is the HTTP front of the marketplace.
type Server struct {
	server *http.Server
	logger *zerolog.Logger
}

// NewServer wires the router and middleware chain. limiter may be nil when
// rate limiting is disabled.
func NewServer(cfg config.ServerConfig, handler *Handler, limiter ratelimit.Limiter, logger *zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(observeRequests)
	if limiter != nil {
		r.Use(limitRequests(limiter, logger))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	handler.routes(r)

	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
