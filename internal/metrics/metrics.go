package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ReservationMetrics holds all Prometheus metrics for the reservation API.
type ReservationMetrics struct {
	OperationsTotal *prometheus.CounterVec
	Stored          prometheus.Gauge
	RateLimited     prometheus.Counter
}

// NewReservationMetrics initializes the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewReservationMetrics(reg prometheus.Registerer) *ReservationMetrics {
	factory := promauto.With(reg)
	return &ReservationMetrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reservas",
			Subsystem: "api",
			Name:      "operations_total",
			Help:      "Total number of reservation operations by operation and outcome.",
		}, []string{"operation", "outcome"}), // outcome: ok, invalid, not_found, error
		Stored: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "reservas",
			Subsystem: "store",
			Name:      "reservations",
			Help:      "Number of reservations currently held in memory.",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reservas",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter.",
		}),
	}
}

// Observe records one operation outcome. It is safe to call on a nil receiver.
func (m *ReservationMetrics) Observe(operation, outcome string) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// SetStored updates the store size gauge. It is safe to call on a nil receiver.
func (m *ReservationMetrics) SetStored(n int) {
	if m == nil {
		return
	}
	m.Stored.Set(float64(n))
}

// IncRateLimited counts a rejected request. It is safe to call on a nil receiver.
func (m *ReservationMetrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}
