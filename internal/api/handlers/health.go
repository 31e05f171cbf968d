package handlers

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, zerolog.Nop(), http.StatusOK, map[string]string{"status": "ok"})
}
