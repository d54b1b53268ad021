package exporter

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetCounter().GetValue()
}

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics("239.0.0.1", 10350)

	for i := 0; i < 5; i++ {
		m.ObservePacket(100, i == 3)
	}
	m.ObserveMessage()
	m.SetReportMeanLatency(150.5)

	if got := counterValue(t, m.packets); got != 5 {
		t.Errorf("packets: got %v, want 5", got)
	}
	if got := counterValue(t, m.bytes); got != 500 {
		t.Errorf("bytes: got %v, want 500", got)
	}
	if got := counterValue(t, m.duplicates); got != 1 {
		t.Errorf("duplicates: got %v, want 1", got)
	}
	if got := counterValue(t, m.messages); got != 1 {
		t.Errorf("messages: got %v, want 1", got)
	}

	var g dto.Metric
	if err := m.meanLat.Write(&g); err != nil {
		t.Fatal(err)
	}
	if got := g.GetGauge().GetValue(); got != 150.5 {
		t.Errorf("mean latency gauge: got %v, want 150.5", got)
	}
}

func TestNilMetricsIgnoreUpdates(t *testing.T) {
	var m *Metrics
	m.ObservePacket(100, true)
	m.ObserveMessage()
	m.SetReportMeanLatency(1)
}

func TestMetricsRegister(t *testing.T) {
	m := NewMetrics("239.0.0.1", 10350)
	if _, err := New(9090, m); err != nil {
		t.Fatalf("collector rejected: %v", err)
	}
}
