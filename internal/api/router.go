package api

import (
	"field-visit-planner/internal/api/handlers"
	"field-visit-planner/internal/platform/metrics"
	"field-visit-planner/internal/ports"
	"field-visit-planner/internal/services"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps is everything the HTTP layer needs. Geocoder and Gatherer are optional.
type Deps struct {
	Scheduler *services.Scheduler
	Clients   ports.ClientRepository
	Geocoder  ports.Geocoder
	Metrics   metrics.Recorder
	Log       zerolog.Logger

	// Gatherer backs the metrics endpoint; nil disables it.
	Gatherer    prometheus.Gatherer
	MetricsPath string

	Defaults       handlers.ScheduleDefaults
	RequestTimeout time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	rec := d.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(accessLog(d.Log, rec))
	r.Use(middleware.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", handlers.Health)
	if d.Gatherer != nil {
		path := d.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	clients := &handlers.ClientHandler{Clients: d.Clients, Scheduler: d.Scheduler, Defaults: d.Defaults, Log: d.Log}
	r.Route("/clients", func(r chi.Router) {
		r.Get("/", clients.List)
		r.Get("/{id}", clients.Get)
		r.Get("/{id}/recurrence", clients.Recurrence)
	})

	geocode := &handlers.GeocodeHandler{Geocoder: d.Geocoder, Log: d.Log}
	r.Post("/geocode", geocode.Lookup)

	schedules := &handlers.ScheduleHandler{Scheduler: d.Scheduler, Defaults: d.Defaults, Log: d.Log}
	r.Route("/schedules", func(r chi.Router) {
		r.Post("/", schedules.Generate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", schedules.Get)
			r.Get("/summary", schedules.Summary)
			r.Get("/days/{date}", schedules.Day)
			r.Post("/reschedule/suggest", schedules.Suggest)
			r.Post("/reschedule/apply", schedules.Apply)
		})
	})

	return r
}
