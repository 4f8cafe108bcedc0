// Package httpapi wires the referee's small HTTP surface: a health
// check, a JSON snapshot of current state, and the /spectate
// WebSocket upgrade. Mirrors the teacher's method-pattern ServeMux
// plus CORS middleware, generalized to this game's three routes.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/jhaezhyr/generals-io-ai/internal/board"
)

// StateProvider supplies the current game state for GET /state;
// *scheduler.Scheduler satisfies it via CurrentSnapshot.
type StateProvider interface {
	CurrentSnapshot() board.Snapshot
}

// NewRouter builds the referee's HTTP handler: health check, a
// full-state JSON fetch for clients that don't want to hold a
// WebSocket open, and the spectator upgrade itself.
func NewRouter(state StateProvider, spectate http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /state", handleState(state))
	mux.Handle("GET /spectate", spectate)

	return corsMiddleware(mux)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleState(state StateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := state.CurrentSnapshot()
		writeJSON(w, http.StatusOK, snap.ToWire())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// corsMiddleware adds permissive CORS headers so a browser-based
// spectator UI (out of scope here, but a real consumer of this wire
// contract) can reach these routes cross-origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
