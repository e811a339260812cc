package lib

import (
	"strconv"
	"time"

	"github.com/ccfrost/photodrop/internal/lib/googlephotos"
	"github.com/prometheus/client_golang/prometheus"
)

// Workflow outcome labels.
const (
	OutcomeSuccess      = "success"
	OutcomeUnauthorized = "unauthorized"
	OutcomeInvalid      = "invalid_request"
	OutcomeFailed       = "failed"
)

// Metrics exposes Prometheus collectors for upload workflow runs.
// A nil *Metrics records nothing.
type Metrics struct {
	uploads       *prometheus.CounterVec
	stepFailures  *prometheus.CounterVec
	stepDurations *prometheus.HistogramVec
}

// MustNewMetrics registers the workflow collectors with reg and panics on a
// registration conflict, like the promauto helpers.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "photodrop",
				Name:      "uploads_total",
				Help:      "Upload workflow runs by outcome.",
			},
			[]string{"outcome"},
		),
		stepFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "photodrop",
				Name:      "step_failures_total",
				Help:      "Remote calls that failed, by operation and HTTP status code (0 for transport errors).",
			},
			[]string{"op", "code"},
		),
		stepDurations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "photodrop",
				Name:      "step_duration_seconds",
				Help:      "Duration of each remote call.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.uploads, m.stepFailures, m.stepDurations)
	return m
}

// ObserveOutcome counts a finished workflow run.
func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
}

// ObserveStep records the duration of a remote call and, when err is set, a
// failure labelled with its status code.
func (m *Metrics) ObserveStep(op googlephotos.Op, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.stepDurations.WithLabelValues(string(op)).Observe(d.Seconds())
	if err != nil {
		code, _ := googlephotos.StatusCodeOf(err, op)
		m.stepFailures.WithLabelValues(string(op), strconv.Itoa(code)).Inc()
	}
}
