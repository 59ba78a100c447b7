package storage

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts records and bytes moving through the codec. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	records *prometheus.CounterVec
	bytes   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "novarecord",
				Subsystem: "codec",
				Name:      "records_total",
				Help:      "Records encoded or decoded, by operation.",
			},
			[]string{"op"},
		),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "novarecord",
				Subsystem: "codec",
				Name:      "bytes_total",
				Help:      "Encoded bytes produced or consumed, by operation.",
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.records, m.bytes)
	}
	return m
}

func (m *Metrics) observe(op string, n int) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(op).Inc()
	m.bytes.WithLabelValues(op).Add(float64(n))
}
