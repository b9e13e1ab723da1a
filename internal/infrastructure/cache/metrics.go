package cache

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache store outcomes. A nil *Metrics records nothing.
type Metrics struct {
	operations  *prometheus.CounterVec
	invalidated *prometheus.CounterVec
}

// NewMetrics creates the cache counters and registers them with reg (nil reg skips registration).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Cache store operations by outcome",
			},
			[]string{"op", "result"},
		),
		invalidated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_invalidated_keys_total",
				Help: "Keys removed by write invalidation, per pattern",
			},
			[]string{"pattern"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.invalidated)
	}
	return m
}

func (m *Metrics) observe(op, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) invalidatedKeys(pattern string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.invalidated.WithLabelValues(pattern).Add(float64(n))
}
