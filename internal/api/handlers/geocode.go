package handlers

import (
	"field-visit-planner/internal/api/dto"
	"field-visit-planner/internal/ports"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// GeocodeHandler exposes the configured geocoder. A nil Geocoder answers 503.
type GeocodeHandler struct {
	Geocoder ports.Geocoder
	Log      zerolog.Logger
}

func (h *GeocodeHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	if h.Geocoder == nil {
		writeError(w, r, h.Log, http.StatusServiceUnavailable, "geocoding is not configured")
		return
	}

	var req dto.GeocodeRequest
	if !decodeJSON(w, r, h.Log, &req) {
		return
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "address is required")
		return
	}

	loc, err := h.Geocoder.Geocode(r.Context(), address)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.GeocodeResponse{Address: address, Location: loc})
}
