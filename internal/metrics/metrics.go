// Package metrics exposes Prometheus metrics for the route planning service.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for route_requests_total.
const (
	OutcomeFound    = "found"
	OutcomeArrived  = "arrived"
	OutcomeNoRoute  = "no_route"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
)

// Collector bundles the service metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	RouteRequests    *prometheus.CounterVec
	SearchExpansions prometheus.Histogram
	RouteSteps       prometheus.Histogram
	RouteDuration    prometheus.Histogram
	NoFlyZones       prometheus.Gauge
}

// NewCollector registers the route metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_requests_total",
		Help: "Total number of route requests, labeled by outcome.",
	}, []string{"outcome"}), "route_requests_total")
	if err != nil {
		return nil, err
	}

	expansions, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_search_expansions",
		Help:    "Number of states expanded per route search.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	}), "route_search_expansions")
	if err != nil {
		return nil, err
	}

	steps, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_steps",
		Help:    "Number of moves in returned routes.",
		Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
	}), "route_steps")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_duration_seconds",
		Help:    "Route search latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}), "route_duration_seconds")
	if err != nil {
		return nil, err
	}

	zones, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "no_fly_zones",
		Help: "Number of no-fly zones loaded into the planner.",
	}), "no_fly_zones")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		RouteRequests:    requests,
		SearchExpansions: expansions,
		RouteSteps:       steps,
		RouteDuration:    duration,
		NoFlyZones:       zones,
	}, nil
}

// ObserveSearch records one completed search. Steps are only observed for
// found routes.
func (c *Collector) ObserveSearch(outcome string, expansions, steps int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.RouteRequests.WithLabelValues(outcome).Inc()
	c.SearchExpansions.Observe(float64(expansions))
	c.RouteDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeFound {
		c.RouteSteps.Observe(float64(steps))
	}
}

// CountRequest records a request that never reached the search.
func (c *Collector) CountRequest(outcome string) {
	if c == nil {
		return
	}
	c.RouteRequests.WithLabelValues(outcome).Inc()
}

// SetNoFlyZones updates the loaded zone gauge.
func (c *Collector) SetNoFlyZones(n int) {
	if c == nil {
		return
	}
	c.NoFlyZones.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
