package handlers

import (
	"encoding/json"
	"errors"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/platform/obs"
	"field-visit-planner/internal/ports"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, log zerolog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).
			Str("req_id", obs.RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, status int, msg string) {
	writeJSON(w, r, log, status, map[string]string{"error": msg})
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidConfiguration),
		errors.Is(err, domain.ErrClientNotLocated),
		errors.Is(err, domain.ErrUnknownTeam):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrClientNotFound),
		errors.Is(err, ports.ErrScheduleNotFound),
		errors.Is(err, ports.ErrAddressNotFound):
		return http.StatusNotFound
	case errors.Is(err, ports.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError hides internal failures behind a generic message and logs them.
func writeServiceError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("req_id", obs.RequestID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, r, log, status, "internal error")
		return
	}
	writeError(w, r, log, status, err.Error())
}

// decodeJSON reads exactly one JSON object into v, rejecting unknown fields.
// It writes the 400 response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, log zerolog.Logger, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, log, http.StatusBadRequest, "invalid json body")
		return false
	}

	// Reject trailing data so the body is a single JSON object.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, log, http.StatusBadRequest, "body must contain a single JSON object")
		return false
	}
	return true
}

// parseDate parses "YYYY-MM-DD"; empty falls back to def.
func parseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	key, err := domain.ParseDateKey(s)
	if err != nil {
		return time.Time{}, err
	}
	return key.Time()
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

// NotFound and MethodNotAllowed keep router-level errors in the JSON error shape.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, zerolog.Nop(), http.StatusNotFound, "not found")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, zerolog.Nop(), http.StatusMethodNotAllowed, "method not allowed")
}
