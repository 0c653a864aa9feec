package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments of the registration core.
type Metrics struct {
	RegistrationsCreated *prometheus.CounterVec
	RegistrationsDeleted prometheus.Counter
	NumbersBurned        prometheus.Counter
	AuditEventsDropped   prometheus.Counter
	AllocationDuration   prometheus.Histogram
	PersistDuration      prometheus.Histogram
}

// New creates and registers all registration metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "protokollo_registrations_created_total",
			Help: "Registrations successfully persisted, by category",
		}, []string{"category"}),
		RegistrationsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "protokollo_registrations_deleted_total",
			Help: "Registrations soft-deleted",
		}),
		NumbersBurned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "protokollo_numbers_burned_total",
			Help: "Allocated numbers retired because persistence failed",
		}),
		AuditEventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "protokollo_audit_events_dropped_total",
			Help: "Audit events lost because the audit store was unreachable",
		}),
		AllocationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "protokollo_allocation_duration_seconds",
			Help:    "Time spent allocating protocol and draft numbers",
			Buckets: prometheus.DefBuckets,
		}),
		PersistDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "protokollo_persist_duration_seconds",
			Help:    "Time spent appending registrations to the ledger",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// All increment/observe helpers tolerate a nil receiver so tests can run
// services without registering collectors.

func (m *Metrics) IncCreated(category string) {
	if m == nil {
		return
	}
	m.RegistrationsCreated.WithLabelValues(category).Inc()
}

func (m *Metrics) IncDeleted() {
	if m == nil {
		return
	}
	m.RegistrationsDeleted.Inc()
}

func (m *Metrics) IncBurned() {
	if m == nil {
		return
	}
	m.NumbersBurned.Inc()
}

func (m *Metrics) IncAuditDropped() {
	if m == nil {
		return
	}
	m.AuditEventsDropped.Inc()
}

// ObserveAllocation records one allocation round trip.
func (m *Metrics) ObserveAllocation(d time.Duration) {
	if m == nil {
		return
	}
	m.AllocationDuration.Observe(d.Seconds())
}

// ObservePersist records one ledger append.
func (m *Metrics) ObservePersist(d time.Duration) {
	if m == nil {
		return
	}
	m.PersistDuration.Observe(d.Seconds())
}
