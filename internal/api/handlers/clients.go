package handlers

import (
	"field-visit-planner/internal/api/dto"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/ports"
	"field-visit-planner/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type ClientHandler struct {
	Clients   ports.ClientRepository
	Scheduler *services.Scheduler
	Defaults  ScheduleDefaults
	Log       zerolog.Logger
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Clients.ListClients(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	res := dto.ListClientResponse{Clients: make([]dto.ClientResponse, 0, len(clients))}
	for _, c := range clients {
		res.Clients = append(res.Clients, dto.NewClientResponse(c))
	}
	writeJSON(w, r, h.Log, http.StatusOK, res)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Clients.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.NewClientResponse(c))
}

// Recurrence lists due dates for ?from=YYYY-MM-DD&days=N; both are optional.
func (h *ClientHandler) Recurrence(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate(r.URL.Query().Get("from"), h.Defaults.today())
	if err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	days, err := queryInt(r, "days", h.Defaults.HorizonDays)
	if err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, err.Error())
		return
	}

	info, err := h.Scheduler.Recurrence(r.Context(), chi.URLParam(r, "id"), from, days)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	due := info.DueDates
	if due == nil {
		due = []domain.DateKey{}
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.RecurrenceResponse{
		ClientID:   info.ClientID,
		RRule:      info.Rule,
		WeekAnchor: info.WeekAnchor,
		DueDates:   due,
	})
}
