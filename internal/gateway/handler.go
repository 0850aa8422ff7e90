package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// RegisterRoutes attaches the WebSocket endpoint and the read-only REST
// routes to mux.
func (g *Gateway) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", g.HandleWS)
	mux.HandleFunc("/ws/stats", g.handleStats)
	mux.HandleFunc("/api/rooms", g.handleListRooms)
	mux.HandleFunc("/api/rooms/", g.handleRoomState)
}

// handleStats handles GET /ws/stats
func (g *Gateway) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(g.Stats()); err != nil {
		log.Error().Err(err).Msg("failed to encode stats response")
	}
}

// handleListRooms handles GET /api/rooms
func (g *Gateway) handleListRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(g.registry.Summaries()); err != nil {
		log.Error().Err(err).Msg("failed to encode room list response")
	}
}

// handleRoomState handles GET /api/rooms/{code}/state
func (g *Gateway) handleRoomState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	code := extractRoomCode(r.URL.Path)
	if code == "" {
		http.NotFound(w, r)
		return
	}
	rm, err := g.registry.Get(code)
	if err != nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rm.State()); err != nil {
		log.Error().Err(err).Msg("failed to encode room state response")
	}
}

// extractRoomCode pulls the code out of a path like /api/rooms/{code}/state.
func extractRoomCode(path string) string {
	const prefix = "/api/rooms/"
	const suffix = "/state"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return ""
	}
	code := strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
	if code == "" || strings.Contains(code, "/") {
		return ""
	}
	return code
}
