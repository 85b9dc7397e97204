package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every metric the server exports. A nil or disabled Manager
// accepts all calls and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// RPC traffic
	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec

	// Ledger activity
	expensesRecorded    *prometheus.CounterVec
	paymentsRecorded    prometheus.Counter
	balanceComputations prometheus.Counter
	plannedTransfers    prometheus.Counter
}

// NewManager creates a metrics manager with its own registry unless one is
// supplied through WithPrometheusRegistry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "splitledger",
		subsystem:        "server",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rpcRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rpc_requests_total",
		Help:      "Total number of RPC calls by procedure and result code",
	}, []string{"procedure", "code"})

	m.rpcDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rpc_duration_seconds",
		Help:      "RPC handling latency in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"procedure"})

	m.expensesRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "expenses_recorded_total",
		Help:      "Total number of expenses recorded by split kind",
	}, []string{"split"})

	m.paymentsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "payments_recorded_total",
		Help:      "Total number of payments recorded",
	})

	m.balanceComputations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "balance_computations_total",
		Help:      "Total number of group balance computations",
	})

	m.plannedTransfers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "planned_transfers_total",
		Help:      "Total number of settlement transfers proposed",
	})
}

func (m *Manager) active() bool {
	return m != nil && m.enabled
}

// ObserveRPC records one finished RPC call.
func (m *Manager) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if !m.active() {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// IncExpensesRecorded counts a stored expense by split kind.
func (m *Manager) IncExpensesRecorded(split string) {
	if !m.active() {
		return
	}
	m.expensesRecorded.WithLabelValues(split).Inc()
}

// IncPaymentsRecorded counts a stored payment.
func (m *Manager) IncPaymentsRecorded() {
	if !m.active() {
		return
	}
	m.paymentsRecorded.Inc()
}

// ObserveSettlement counts one balance computation and the transfers planned from it.
func (m *Manager) ObserveSettlement(transfers int) {
	if !m.active() {
		return
	}
	m.balanceComputations.Inc()
	m.plannedTransfers.Add(float64(transfers))
}

// Handler serves the manager's registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
