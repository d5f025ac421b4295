package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters/histograms for booking and auth flows.
type ClinicMetrics struct {
	bookingsTotal       *prometheus.CounterVec
	authRejectsTotal    *prometheus.CounterVec
	availabilityLatency prometheus.Histogram
	rpcTotal            *prometheus.CounterVec
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		authRejectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "auth",
			Name:      "rejects_total",
			Help:      "Rejected credentials by role and reason",
		}, []string{"role", "reason"}),
		availabilityLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "availability",
			Name:      "latency_seconds",
			Help:      "Latency of availability computation",
			Buckets:   prometheus.DefBuckets,
		}),
		rpcTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "rpc",
			Name:      "handled_total",
			Help:      "Handled RPCs by method and status code",
		}, []string{"method", "code"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.authRejectsTotal, m.availabilityLatency, m.rpcTotal)
	return m
}

// ObserveBooking records one booking attempt; outcome is "booked",
// "conflict", "invalid" or "error".
func (m *ClinicMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *ClinicMetrics) ObserveAuthReject(role, reason string) {
	if m == nil {
		return
	}
	m.authRejectsTotal.WithLabelValues(role, reason).Inc()
}

func (m *ClinicMetrics) ObserveAvailability(seconds float64) {
	if m == nil {
		return
	}
	m.availabilityLatency.Observe(seconds)
}

func (m *ClinicMetrics) ObserveRPC(method, code string) {
	if m == nil {
		return
	}
	m.rpcTotal.WithLabelValues(method, code).Inc()
}
