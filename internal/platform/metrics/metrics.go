// Package metrics exposes reconciliation and HTTP metrics for Prometheus.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bookkeeping"

// Recorder holds the collectors registered for this process.
type Recorder struct {
	reconciliations    *prometheus.CounterVec
	reconcileDuration  *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciliation",
			Name:      "runs_total",
			Help:      "Payment reconciliations by operation and terminal state.",
		}, []string{"operation", "state"}),
		reconcileDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reconciliation",
			Name:      "duration_seconds",
			Help:      "Time from first lock to commit or rollback.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciliation",
			Name:      "validation_failures_total",
			Help:      "Rejected allocation sets by violated rule.",
		}, []string{"rule"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	for _, c := range []prometheus.Collector{r.reconciliations, r.reconcileDuration, r.validationFailures, r.httpRequests, r.httpDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveReconciliation records the terminal state of one reconciliation run.
func (r *Recorder) ObserveReconciliation(op domain.PaymentOperation, state domain.ReconciliationState, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.reconciliations.WithLabelValues(string(op), string(state)).Inc()
	r.reconcileDuration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
}

// ObserveValidationFailure counts a rejected allocation set.
func (r *Recorder) ObserveValidationFailure(rule apperrors.Rule) {
	if r == nil {
		return
	}
	r.validationFailures.WithLabelValues(string(rule)).Inc()
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(route, method, status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, status).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
