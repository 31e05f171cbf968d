package handlers

import (
	"field-visit-planner/internal/api/dto"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/services"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ScheduleDefaults fills request fields the caller leaves out.
type ScheduleDefaults struct {
	TeamCount     int
	HorizonDays   int
	IncludeReturn bool

	// Now supplies "today" for requests without a start date.
	Now func() time.Time
}

func (d ScheduleDefaults) today() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

type ScheduleHandler struct {
	Scheduler *services.Scheduler
	Defaults  ScheduleDefaults
	Log       zerolog.Logger
}

func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateScheduleRequest
	if !decodeJSON(w, r, h.Log, &req) {
		return
	}

	start, err := parseDate(req.StartDate, h.Defaults.today())
	if err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}

	days := req.Days
	if days == 0 {
		days = h.Defaults.HorizonDays
	}
	teams := req.TeamCount
	if teams == 0 {
		teams = h.Defaults.TeamCount
	}
	includeReturn := h.Defaults.IncludeReturn
	if req.IncludeReturn != nil {
		includeReturn = *req.IncludeReturn
	}

	sched, err := h.Scheduler.Generate(r.Context(), services.GenerateRequest{
		StartDate:     start,
		Days:          days,
		TeamCount:     teams,
		IncludeReturn: includeReturn,
	})
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	w.Header().Set("Location", "/schedules/"+sched.ID)
	writeJSON(w, r, h.Log, http.StatusCreated, dto.NewScheduleResponse(sched))
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	sched, err := h.Scheduler.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.NewScheduleResponse(sched))
}

func (h *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDateKey(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	routes, err := h.Scheduler.Day(r.Context(), chi.URLParam(r, "id"), date)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.NewDayResponse(date, routes))
}

func (h *ScheduleHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Scheduler.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, map[string]any{"days": summary})
}

func (h *ScheduleHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req dto.SuggestRequest
	if !decodeJSON(w, r, h.Log, &req) {
		return
	}
	if req.ClientID == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "client_id is required")
		return
	}
	date, err := domain.ParseDateKey(req.Date)
	if err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	options, err := h.Scheduler.Suggest(r.Context(), chi.URLParam(r, "id"), req.ClientID, date)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	res := dto.SuggestResponse{
		ClientID: req.ClientID,
		Date:     date,
		Options:  make([]dto.OptionResponse, 0, len(options)),
	}
	for _, o := range options {
		res.Options = append(res.Options, dto.NewOptionResponse(o))
	}
	writeJSON(w, r, h.Log, http.StatusOK, res)
}

func (h *ScheduleHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyRequest
	if !decodeJSON(w, r, h.Log, &req) {
		return
	}
	if req.ClientID == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "client_id is required")
		return
	}
	date, err := domain.ParseDateKey(req.Date)
	if err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	res, err := h.Scheduler.Apply(r.Context(), chi.URLParam(r, "id"), req.ClientID, date, req.TeamID, req.Index)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.ApplyResponse{
		ClientID: req.ClientID,
		Option:   dto.NewOptionResponse(res.Option),
		Day:      dto.NewDayResponse(res.Date, res.Routes),
	})
}
