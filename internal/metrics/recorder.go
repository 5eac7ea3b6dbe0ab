// Package metrics exposes decay resolution statistics as Prometheus
// collectors on a private registry.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/hqding/Thermal-FIST/internal/decay"
)

const namespace = "decaychain"

// Recorder implements decay.Observer.
type Recorder struct {
	registry *prometheus.Registry

	passes            prometheus.Counter
	cacheHits         prometheus.Counter
	truncations       prometheus.Counter
	droppedOutcomes   prometheus.Counter
	speciesResolved   prometheus.Gauge
	passSeconds       prometheus.Histogram
	distributionSizes prometheus.Histogram
}

var _ decay.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Completed decay resolution passes.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_hits_total",
			Help:      "ProcessDecays calls served from the cached snapshot.",
		}),
		truncations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "truncations_total",
			Help:      "Distributions cut to the outcome cap.",
		}),
		droppedOutcomes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_outcomes_total",
			Help:      "Outcomes removed by truncation.",
		}),
		speciesResolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "species_resolved",
			Help:      "Species in the last resolved catalogue.",
		}),
		passSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Wall time of a full resolution pass.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		distributionSizes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "distribution_outcomes",
			Help:      "Outcome count of each resolved joint distribution.",
			Buckets:   []float64{1, 2, 5, 10, 50, 100, 500, 1000},
		}),
	}
	r.registry.MustRegister(
		r.passes,
		r.cacheHits,
		r.truncations,
		r.droppedOutcomes,
		r.speciesResolved,
		r.passSeconds,
		r.distributionSizes,
	)
	return r
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObservePass(species int, elapsed time.Duration) {
	r.passes.Inc()
	r.speciesResolved.Set(float64(species))
	r.passSeconds.Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveCacheHit() {
	r.cacheHits.Inc()
}

func (r *Recorder) ObserveTruncation(dropped int) {
	r.truncations.Inc()
	r.droppedOutcomes.Add(float64(dropped))
}

func (r *Recorder) ObserveDistributionSize(outcomes int) {
	r.distributionSizes.Observe(float64(outcomes))
}

// WriteText writes every collector in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
