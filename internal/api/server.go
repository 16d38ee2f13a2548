package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reobote/leadflow/internal/config"
	"github.com/reobote/leadflow/internal/roster"
)

// Server represents the API server
type Server struct {
	config  *config.Config
	handler http.Handler
	server  *http.Server
	router  *chi.Mux
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, store *roster.Store) *Server {
	handlers := NewHandlers(cfg, store)
	router := SetupRoutes(handlers)

	return &Server{
		config:  cfg,
		handler: router,
		router:  router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.handler,
		// Uploads are whole spreadsheets; reads get a generous window while
		// headers stay tight.
		ReadTimeout:       5 * time.Minute,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
