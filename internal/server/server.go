// Package server provides the HTTP server for the skin analysis service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/karenhsieh75/med-it-easy/internal/analysis"
	"github.com/karenhsieh75/med-it-easy/internal/server/api"
	"github.com/karenhsieh75/med-it-easy/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Engine    *analysis.Engine
}

// Server represents the HTTP server for the analysis service.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register the analysis endpoints if an Engine is configured
	if s.config.Engine != nil {
		analyzeHandler := api.NewAnalyzeHandler(s.config.Engine, s.config.Store)
		s.mux.Handle("/api/analyze", analyzeHandler)

		streamHandler := NewAnalyzeStreamHandler(s.config.Engine)
		s.mux.Handle("/api/analyze/stream", streamHandler)
	}

	// Register the record API handler if a Store is configured
	if s.config.Store != nil {
		recordsHandler := api.NewRecordsHandler(s.config.Store)
		s.mux.Handle("/api/records", recordsHandler)
		s.mux.Handle("/api/records/", recordsHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
