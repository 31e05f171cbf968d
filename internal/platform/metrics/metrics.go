package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives planner events. The Prometheus implementation exports
// them; Nop discards them.
type Recorder interface {
	ScheduleGenerated(visits, unlocated int)
	SuggestionsRanked(feasible, infeasible int)
	RescheduleApplied()
	HTTPRequest(method, route string, status int, dur time.Duration)
}

// Prom records planner events in Prometheus collectors.
type Prom struct {
	schedules   prometheus.Counter
	visits      prometheus.Counter
	unlocated   prometheus.Counter
	suggestions *prometheus.CounterVec
	applied     prometheus.Counter
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewProm registers the planner collectors on reg. If reg is nil, the default
// registerer is used. Collectors that are already registered are reused.
func NewProm(reg prometheus.Registerer) (*Prom, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &Prom{}
	var err error

	if p.schedules, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedules_generated_total",
		Help: "Total number of schedules generated",
	})); err != nil {
		return nil, err
	}
	if p.visits, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "visits_planned_total",
		Help: "Total number of visits placed on routes by schedule generation",
	})); err != nil {
		return nil, err
	}
	if p.unlocated, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "unlocated_clients_total",
		Help: "Total number of due visits skipped because the client has no location",
	})); err != nil {
		return nil, err
	}
	if p.applied, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reschedule_applied_total",
		Help: "Total number of reschedule options applied",
	})); err != nil {
		return nil, err
	}
	if p.suggestions, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reschedule_suggestions_total",
		Help: "Total number of reschedule options returned, by feasibility",
	}, []string{"feasible"})); err != nil {
		return nil, err
	}
	if p.requests, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})); err != nil {
		return nil, err
	}

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	if err := reg.Register(latency); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		latency = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	p.latency = latency

	return p, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Counter), nil
		}
		return nil, err
	}
	return c, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

func (p *Prom) ScheduleGenerated(visits, unlocated int) {
	p.schedules.Inc()
	p.visits.Add(float64(visits))
	p.unlocated.Add(float64(unlocated))
}

func (p *Prom) SuggestionsRanked(feasible, infeasible int) {
	p.suggestions.WithLabelValues("true").Add(float64(feasible))
	p.suggestions.WithLabelValues("false").Add(float64(infeasible))
}

func (p *Prom) RescheduleApplied() { p.applied.Inc() }

func (p *Prom) HTTPRequest(method, route string, status int, dur time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.latency.WithLabelValues(method, route).Observe(dur.Seconds())
}

// Nop discards every event.
type Nop struct{}

func (Nop) ScheduleGenerated(int, int) {}
func (Nop) SuggestionsRanked(int, int) {}
func (Nop) RescheduleApplied() {}
func (Nop) HTTPRequest(string, string, int, time.Duration) {}
