package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module.
// Tracks registrations, task transitions, mints and per-operation latency.
type Metrics struct {
	PrincipalsRegistered *prometheus.CounterVec
	SitesCreated         prometheus.Counter
	TasksCreated         prometheus.Counter
	TaskTransitions      *prometheus.CounterVec
	CertificatesMinted   prometheus.Counter
	OperationErrors      *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg. Tests pass a fresh prometheus.NewRegistry()
// to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PrincipalsRegistered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "secreg_principals_registered_total",
			Help: "Total number of principal registrations and profile updates, by role",
		}, []string{"role"}),
		SitesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "secreg_sites_created_total",
			Help: "Total number of sites created",
		}),
		TasksCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "secreg_tasks_created_total",
			Help: "Total number of verification tasks created",
		}),
		TaskTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "secreg_task_transitions_total",
			Help: "Total number of verification task transitions, by target status",
		}, []string{"status"}),
		CertificatesMinted: factory.NewCounter(prometheus.CounterOpts{
			Name: "secreg_certificates_minted_total",
			Help: "Total number of certificates minted",
		}),
		OperationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "secreg_operation_errors_total",
			Help: "Total number of failed registry operations, by operation and error code",
		}, []string{"operation", "code"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "secreg_operation_duration_seconds",
			Help:    "Duration of registry operations, including transaction wait",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementPrincipalRegistered(role string) {
	m.PrincipalsRegistered.WithLabelValues(role).Inc()
}

func (m *Metrics) IncrementSitesCreated() {
	m.SitesCreated.Inc()
}

func (m *Metrics) IncrementTasksCreated() {
	m.TasksCreated.Inc()
}

func (m *Metrics) IncrementTaskTransition(status string) {
	m.TaskTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementCertificatesMinted() {
	m.CertificatesMinted.Inc()
}

func (m *Metrics) IncrementOperationError(operation, code string) {
	m.OperationErrors.WithLabelValues(operation, code).Inc()
}

// ObserveOperation records the duration of an operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
