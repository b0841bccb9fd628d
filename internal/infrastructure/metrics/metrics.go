package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	MovementsRecorded *prometheus.CounterVec
	MovementAmount    prometheus.Histogram
	RecordDuration    prometheus.Histogram
	RecordErrors      *prometheus.CounterVec
	BalanceResolved   prometheus.Counter

	// Producer metrics
	SalesCreated     prometheus.Counter
	SalesCancelled   prometheus.Counter
	PurchasesCreated prometheus.Counter
	PurchasesVoided  prometheus.Counter
	IncomesCreated   prometheus.Counter
	IncomesReversed  prometheus.Counter
	ExpensesCreated  prometheus.Counter
	ExpensesDeleted  prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
}

// New creates all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all Prometheus metrics on the given registerer.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MovementsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_movements_recorded_total",
				Help: "Total number of ledger movements recorded, by kind",
			},
			[]string{"kind"},
		),
		MovementAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caixaflow_movement_amount",
			Help:    "Movement amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		RecordDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caixaflow_record_duration_seconds",
			Help:    "Duration of movement record operations",
			Buckets: prometheus.DefBuckets,
		}),
		RecordErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_record_errors_total",
				Help: "Total number of movement record errors by type",
			},
			[]string{"error_type"},
		),
		BalanceResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_balance_resolutions_total",
			Help: "Total number of current balance resolutions",
		}),

		SalesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_sales_created_total",
			Help: "Total number of sales created",
		}),
		SalesCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_sales_cancelled_total",
			Help: "Total number of sales cancelled",
		}),
		PurchasesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_purchases_created_total",
			Help: "Total number of purchases created",
		}),
		PurchasesVoided: factory.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_purchases_voided_total",
			Help: "Total number of purchases voided",
		}),
		IncomesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_incomes_created_total",
			Help: "Total number of manual financial entries created",
		}),
		IncomesReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_incomes_reversed_total",
			Help: "Total number of manual financial entries reversed",
		}),
		ExpensesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_expenses_created_total",
			Help: "Total number of expenses created",
		}),
		ExpensesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_expenses_deleted_total",
			Help: "Total number of expenses deleted",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "caixaflow_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
	}
}
