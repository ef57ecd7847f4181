// Package web serves the local dashboard, the JSON API and the WebSocket
// endpoint the in-page companion script connects to.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Niedzwiedzw/tlumok/bridge"
	"github.com/Niedzwiedzw/tlumok/config"
	"github.com/Niedzwiedzw/tlumok/storage"
)

//go:embed static/*
var staticFiles embed.FS

// AgentStatus is the loop state reported by the agent
type AgentStatus struct {
	Watching    bool `json:"watching"`
	Translating bool `json:"translating"`
}

// Server represents the web server
type Server struct {
	db     *storage.DB
	config *config.Config
	bridge *bridge.Bridge
	status func() AgentStatus
	port   int
	mu     sync.RWMutex
}

// NewServer creates a new web server
func NewServer(db *storage.DB, cfg *config.Config, br *bridge.Bridge, status func() AgentStatus, port int) *Server {
	return &Server{
		db:     db,
		config: cfg,
		bridge: br,
		status: status,
		port:   port,
	}
}

// Start starts the web server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/", s.handleHistory)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/ws", s.bridge.HandleWS)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	slog.Info("Starting web server", "port", s.port, "url", fmt.Sprintf("http://localhost:%d", s.port))

	return http.ListenAndServe(addr, mux)
}

// GetConfig returns the current configuration (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// UpdateConfig updates the configuration (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}
