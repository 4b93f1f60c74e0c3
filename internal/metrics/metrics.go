// Package metrics exposes Prometheus collectors for the relay loop.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "froggi_ocr"

// Recorder counts cycles and their outcomes. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	cycles         prometheus.Counter
	fetchErrors    prometheus.Counter
	relayErrors    prometheus.Counter
	relayResponses *prometheus.CounterVec
	cycleDuration  prometheus.Histogram
	overruns       prometheus.Counter
}

// NewRecorder registers the loop collectors on a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Poll cycles started.",
		}),
		fetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "OCR fetches that failed before a response arrived.",
		}),
		relayErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_errors_total",
			Help:      "Relay posts that failed before a response arrived.",
		}),
		relayResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_responses_total",
			Help:      "Relay responses by HTTP status code.",
		}, []string{"code"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Time spent fetching and relaying, excluding the cadence wait.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .2, .5, 1, 2.5, 5},
		}),
		overruns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycle_overruns_total",
			Help:      "Cycles that used up the whole configured period, so no wait followed.",
		}),
	}
	r.registry.MustRegister(
		r.cycles,
		r.fetchErrors,
		r.relayErrors,
		r.relayResponses,
		r.cycleDuration,
		r.overruns,
	)
	return r
}

// CycleStarted counts a new cycle.
func (r *Recorder) CycleStarted() {
	if r == nil {
		return
	}
	r.cycles.Inc()
}

// FetchFailed counts an OCR transport failure.
func (r *Recorder) FetchFailed() {
	if r == nil {
		return
	}
	r.fetchErrors.Inc()
}

// RelayFailed counts a relay transport failure.
func (r *Recorder) RelayFailed() {
	if r == nil {
		return
	}
	r.relayErrors.Inc()
}

// RelayAnswered counts a relay response by status code.
func (r *Recorder) RelayAnswered(code int) {
	if r == nil {
		return
	}
	r.relayResponses.WithLabelValues(strconv.Itoa(code)).Inc()
}

// CycleFinished observes the busy part of a cycle and whether it overran. A
// cycle that takes exactly one period counts, matching the loop skipping its wait.
func (r *Recorder) CycleFinished(elapsed, period time.Duration) {
	if r == nil {
		return
	}
	r.cycleDuration.Observe(elapsed.Seconds())
	if elapsed >= period {
		r.overruns.Inc()
	}
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
