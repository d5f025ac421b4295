package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClinicMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClinicMetrics(reg)

	m.ObserveBooking("booked")
	m.ObserveBooking("conflict")
	m.ObserveBooking("conflict")
	m.ObserveAuthReject("patient", "token")
	m.ObserveRPC("/clinic.v1.ClinicService/BookAppointment", "OK")
	m.ObserveAvailability(0.01)

	if got := testutil.ToFloat64(m.bookingsTotal.WithLabelValues("conflict")); got != 2 {
		t.Fatalf("expected 2 conflicts, got %v", got)
	}
	if got := testutil.ToFloat64(m.authRejectsTotal.WithLabelValues("patient", "token")); got != 1 {
		t.Fatalf("expected 1 reject, got %v", got)
	}
	if n := testutil.CollectAndCount(m.availabilityLatency); n != 1 {
		t.Fatalf("expected histogram to be collected, got %d", n)
	}
}

func TestClinicMetricsNilSafe(t *testing.T) {
	var m *ClinicMetrics
	m.ObserveBooking("booked")
	m.ObserveAuthReject("admin", "identity")
	m.ObserveAvailability(0.1)
	m.ObserveRPC("m", "OK")
}
