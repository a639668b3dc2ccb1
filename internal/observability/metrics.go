package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes used as the route_queries_total label value.
const (
	OutcomeFound  = "found"
	OutcomeAbsent = "absent"
	OutcomeError  = "error"
)

// PlannerCollector bundles Prometheus metrics for the route-query
// surface and provides a ready-made /metrics handler.
type PlannerCollector struct {
	gatherer prometheus.Gatherer

	Queries        *prometheus.CounterVec
	QueryDurations prometheus.Histogram
	RouteHops      prometheus.Histogram

	DatasetTransceivers prometheus.Gauge
	StoredDatasets      prometheus.Gauge
}

// NewPlannerCollector registers planner Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry
// when nil.
func NewPlannerCollector(reg prometheus.Registerer) (*PlannerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_queries_total",
		Help: "Total number of route queries, labeled by outcome (found, absent, error).",
	}, []string{"outcome"})
	queries, err := registerCounterVec(reg, queries, "route_queries_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_query_duration_seconds",
		Help:    "Route query latency in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}), "route_query_duration_seconds")
	if err != nil {
		return nil, err
	}

	hops, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_hops",
		Help:    "Number of transceivers on returned routes.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
	}), "route_hops")
	if err != nil {
		return nil, err
	}

	transceivers, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dataset_transceivers",
		Help: "Number of transceivers in the most recently queried dataset.",
	}), "dataset_transceivers")
	if err != nil {
		return nil, err
	}

	stored, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stored_datasets",
		Help: "Number of datasets currently held by the dataset store.",
	}), "stored_datasets")
	if err != nil {
		return nil, err
	}

	return &PlannerCollector{
		gatherer:            gatherer,
		Queries:             queries,
		QueryDurations:      durations,
		RouteHops:           hops,
		DatasetTransceivers: transceivers,
		StoredDatasets:      stored,
	}, nil
}

// ObserveQuery records one completed route query: its outcome, wall
// time, and, for found routes, the hop count.
func (c *PlannerCollector) ObserveQuery(outcome string, d time.Duration, hops int) {
	if c == nil {
		return
	}
	if c.Queries != nil {
		c.Queries.WithLabelValues(outcome).Inc()
	}
	if c.QueryDurations != nil {
		c.QueryDurations.Observe(d.Seconds())
	}
	if outcome == OutcomeFound && c.RouteHops != nil {
		c.RouteHops.Observe(float64(hops))
	}
}

// SetDatasetTransceivers updates the dataset size gauge.
func (c *PlannerCollector) SetDatasetTransceivers(n int) {
	if c == nil || c.DatasetTransceivers == nil {
		return
	}
	c.DatasetTransceivers.Set(float64(n))
}

// SetStoredDatasets updates the dataset store gauge.
func (c *PlannerCollector) SetStoredDatasets(n int) {
	if c == nil || c.StoredDatasets == nil {
		return
	}
	c.StoredDatasets.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *PlannerCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
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

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
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
