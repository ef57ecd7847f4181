package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Niedzwiedzw/tlumok/config"
)

// handleConfig handles GET and PUT requests for configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetConfig(w, r)
	case http.MethodPut:
		s.handlePutConfig(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetConfig returns the current configuration
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.GetConfig()

	response := struct {
		PollIntervalMs    int    `json:"pollIntervalMs"`
		AutoStart         bool   `json:"autoStart"`
		MaxChunkSize      int    `json:"maxChunkSize"`
		SourceLanguage    string `json:"sourceLanguage"`
		TargetLanguage    string `json:"targetLanguage"`
		DictionaryEnabled bool   `json:"dictionaryEnabled"`
		HistoryEnabled    bool   `json:"historyEnabled"`
	}{
		PollIntervalMs:    cfg.Watch.PollIntervalMs,
		AutoStart:         cfg.Watch.AutoStart,
		MaxChunkSize:      cfg.Page.MaxChunkSize,
		SourceLanguage:    cfg.Languages.Source,
		TargetLanguage:    cfg.Languages.Target,
		DictionaryEnabled: cfg.Dictionary.Enabled,
		HistoryEnabled:    cfg.History.Enabled,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handlePutConfig updates the configuration. The running agent keeps its
// startup snapshot; changes take effect on the next restart.
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PollIntervalMs    *int    `json:"pollIntervalMs"`
		AutoStart         *bool   `json:"autoStart"`
		MaxChunkSize      *int    `json:"maxChunkSize"`
		SourceLanguage    *string `json:"sourceLanguage"`
		TargetLanguage    *string `json:"targetLanguage"`
		DictionaryEnabled *bool   `json:"dictionaryEnabled"`
		HistoryEnabled    *bool   `json:"historyEnabled"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Mutate a copy and swap the pointer; the previous config stays
	// untouched for goroutines still reading it.
	cfg := new(config.Config)
	*cfg = *s.GetConfig()

	if req.PollIntervalMs != nil && *req.PollIntervalMs > 0 {
		cfg.Watch.PollIntervalMs = *req.PollIntervalMs
	}
	if req.AutoStart != nil {
		cfg.Watch.AutoStart = *req.AutoStart
	}
	if req.MaxChunkSize != nil && *req.MaxChunkSize > 0 {
		cfg.Page.MaxChunkSize = *req.MaxChunkSize
	}
	if req.SourceLanguage != nil && *req.SourceLanguage != "" {
		cfg.Languages.Source = *req.SourceLanguage
	}
	if req.TargetLanguage != nil && *req.TargetLanguage != "" {
		cfg.Languages.Target = *req.TargetLanguage
	}
	if req.DictionaryEnabled != nil {
		cfg.Dictionary.Enabled = *req.DictionaryEnabled
	}
	if req.HistoryEnabled != nil {
		cfg.History.Enabled = *req.HistoryEnabled
	}

	if err := cfg.Save(); err != nil {
		slog.Error("Failed to save config", "error", err)
		http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
		return
	}

	s.UpdateConfig(cfg)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// handleStats returns statistics for the specified time range
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	daysStr := r.URL.Query().Get("days")
	days := 7 // default to 7 days
	if daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}

	overall, err := s.db.GetOverallStats(days)
	if err != nil {
		slog.Error("Failed to get overall stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	daily, err := s.db.GetDailyStats(days)
	if err != nil {
		slog.Error("Failed to get daily stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"overall": overall,
		"daily":   daily,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleHistory handles GET and DELETE requests for pass history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetHistory(w, r)
	case http.MethodDelete:
		s.handleDeleteHistory(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetHistory returns paginated pass history
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	limit := 50 // default
	offset := 0

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	passes, err := s.db.GetPasses(limit, offset)
	if err != nil {
		slog.Error("Failed to get passes", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	total, err := s.db.GetPassCount()
	if err != nil {
		slog.Error("Failed to get pass count", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"passes": passes,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleDeleteHistory deletes a pass by ID
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	// Extract ID from path (e.g., /api/history/123)
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 4 {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	idStr := parts[len(parts)-1]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeletePass(id); err != nil {
		slog.Error("Failed to delete pass", "error", err, "id", id)
		http.Error(w, "Failed to delete pass", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// handleStatus returns the current agent status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	agent := s.status()
	response := struct {
		Watching      bool `json:"watching"`
		Translating   bool `json:"translating"`
		PageConnected bool `json:"pageConnected"`
	}{
		Watching:      agent.Watching,
		Translating:   agent.Translating,
		PageConnected: s.bridge.Connected(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
