package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coworkops"

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	TransferTransitions *prometheus.CounterVec
	TimeEntryEvents     *prometheus.CounterVec
	BookingRejections   *prometheus.CounterVec
	LowStockItems       prometheus.Gauge
	HTTPDuration        *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TransferTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_transitions_total",
			Help:      "Transfer status transitions applied, by target status.",
		}, []string{"to"}),
		TimeEntryEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "time_entry_events_total",
			Help:      "Check-ins and check-outs recorded.",
		}, []string{"event"}),
		BookingRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_rejections_total",
			Help:      "Booking requests rejected by business rules, by reason.",
		}, []string{"reason"}),
		LowStockItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_items",
			Help:      "Active items whose available stock is under the minimum.",
		}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.TransferTransitions, m.TimeEntryEvents, m.BookingRejections, m.LowStockItems, m.HTTPDuration)
	return m
}

func (m *Metrics) TransferTransition(to string) {
	if m == nil {
		return
	}
	m.TransferTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) TimeEntryEvent(event string) {
	if m == nil {
		return
	}
	m.TimeEntryEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) BookingRejected(reason string) {
	if m == nil {
		return
	}
	m.BookingRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetLowStockItems(n int) {
	if m == nil {
		return
	}
	m.LowStockItems.Set(float64(n))
}
