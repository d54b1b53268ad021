package exporter

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the receiver's counters for prometheus exposition.
// A nil *Metrics is valid and ignores all updates, so the receiver
// does not care whether the exporter is enabled.
type Metrics struct {
	packets    prometheus.Counter
	bytes      prometheus.Counter
	duplicates prometheus.Counter
	messages   prometheus.Counter
	meanLat    prometheus.Gauge
}

func NewMetrics(group string, port int) *Metrics {
	labels := prometheus.Labels{
		"group": group,
		"port":  strconv.Itoa(port),
	}
	return &Metrics{
		packets: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "udptester_packets_received_total",
			Help:        "Test packets received.",
			ConstLabels: labels,
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "udptester_bytes_received_total",
			Help:        "Test payload bytes received.",
			ConstLabels: labels,
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "udptester_duplicate_packets_total",
			Help:        "Packets received more than once.",
			ConstLabels: labels,
		}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "udptester_complete_messages_total",
			Help:        "Messages received completely and in order.",
			ConstLabels: labels,
		}),
		meanLat: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "udptester_report_mean_latency_microseconds",
			Help:        "Mean latency of the last statistics report window.",
			ConstLabels: labels,
		}),
	}
}

func (m *Metrics) ObservePacket(size int, duplicate bool) {
	if m == nil {
		return
	}
	m.packets.Inc()
	m.bytes.Add(float64(size))
	if duplicate {
		m.duplicates.Inc()
	}
}

func (m *Metrics) ObserveMessage() {
	if m == nil {
		return
	}
	m.messages.Inc()
}

func (m *Metrics) SetReportMeanLatency(mean float64) {
	if m == nil {
		return
	}
	m.meanLat.Set(mean)
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.packets.Describe(ch)
	m.bytes.Describe(ch)
	m.duplicates.Describe(ch)
	m.messages.Describe(ch)
	m.meanLat.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.packets.Collect(ch)
	m.bytes.Collect(ch)
	m.duplicates.Collect(ch)
	m.messages.Collect(ch)
	m.meanLat.Collect(ch)
}
