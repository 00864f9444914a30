package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestReservationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReservationMetrics(reg)

	m.Observe("create", "ok")
	m.Observe("create", "ok")
	m.Observe("create", "invalid")
	m.SetStored(3)
	m.IncRateLimited()

	if got := counterValue(t, m.OperationsTotal.WithLabelValues("create", "ok")); got != 2 {
		t.Errorf("create/ok = %v, want 2", got)
	}
	if got := counterValue(t, m.OperationsTotal.WithLabelValues("create", "invalid")); got != 1 {
		t.Errorf("create/invalid = %v, want 1", got)
	}
	if got := counterValue(t, m.RateLimited); got != 1 {
		t.Errorf("rate limited = %v, want 1", got)
	}

	var g dto.Metric
	if err := m.Stored.Write(&g); err != nil {
		t.Fatalf("write gauge: %v", err)
	}
	if g.GetGauge().GetValue() != 3 {
		t.Errorf("stored = %v, want 3", g.GetGauge().GetValue())
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 3 {
		t.Errorf("registered families = %d, want 3", len(families))
	}
}

func TestReservationMetrics_NilSafe(t *testing.T) {
	var m *ReservationMetrics
	m.Observe("list", "ok")
	m.SetStored(1)
	m.IncRateLimited()
}
