package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records tier resolution and price calculation activity.
type PricingMetrics struct {
	resolveDuration *prometheus.HistogramVec
	calculations    *prometheus.CounterVec
	snapshots       *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	resolveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_resolve_duration_seconds",
		Help:    "Duration of effective tier resolution in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_calculations_total",
		Help: "Price calculations by pricing mode and outcome.",
	}, []string{"mode", "outcome"})
	snapshots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_snapshots_total",
		Help: "Price history snapshots written by change reason.",
	}, []string{"reason"})
	reg.MustRegister(resolveDuration, calculations, snapshots)
	return &PricingMetrics{
		resolveDuration: resolveDuration,
		calculations:    calculations,
		snapshots:       snapshots,
	}
}

// ObserveResolveDuration records the duration of the named resolution operation.
func (p *PricingMetrics) ObserveResolveDuration(operation string, duration time.Duration) {
	if p == nil || p.resolveDuration == nil {
		return
	}
	p.resolveDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncCalculation increments the calculation counter for the given mode and outcome.
func (p *PricingMetrics) IncCalculation(mode, outcome string) {
	if p == nil || p.calculations == nil {
		return
	}
	p.calculations.WithLabelValues(normalizeLabel(mode), normalizeLabel(outcome)).Inc()
}

// IncSnapshot increments the snapshot counter for the given change reason.
func (p *PricingMetrics) IncSnapshot(reason string) {
	if p == nil || p.snapshots == nil {
		return
	}
	p.snapshots.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
