package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/euvalley/directory/internal/directory/auth"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server wires the handlers into a chi router and owns the HTTP server
// lifecycle.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     *zap.Logger
}

// NewServer builds the router: request-id, real-ip and recovery
// middleware, request logging, CORS, and the session-token gate in
// front of snapshot writes.
func NewServer(port int, h *Handler, jwtSecret string, logger *zap.Logger) *Server {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(RequestLogger(logger))
	router.Use(CORS)

	router.Get("/healthz", h.Health)
	router.Route("/api", func(r chi.Router) {
		r.Get("/companies", h.GetSnapshot)
		r.Post("/companies", h.SaveSnapshot)
		r.Post("/admin/login", h.AdminLogin)
		r.Get("/geocode", h.Geocode)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      auth.HTTPMiddleware(router, jwtSecret),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		logger: logger,
	}
}

// Handler exposes the full middleware-wrapped handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Server stopped")
}
