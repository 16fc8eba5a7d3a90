package codec

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts codec operations per strategy.
type Metrics struct {
	operations *prometheus.CounterVec
	bytes      *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "utf8codec_operations_total",
				Help: "Encode and decode calls",
			},
			[]string{"strategy", "op"},
		),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "utf8codec_bytes_total",
				Help: "UTF-8 bytes produced by encode or consumed by decode",
			},
			[]string{"strategy", "op"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "utf8codec_errors_total",
				Help: "Calls that returned an error",
			},
			[]string{"strategy", "op"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "utf8codec_operation_duration_seconds",
				Help:    "Time spent per call",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"strategy", "op"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.operations, m.bytes, m.errors, m.duration)
	}
	return m
}

func (m *Metrics) observe(strategy, op string, n int, err error, start time.Time) {
	m.operations.WithLabelValues(strategy, op).Inc()
	m.duration.WithLabelValues(strategy, op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.errors.WithLabelValues(strategy, op).Inc()
		return
	}
	m.bytes.WithLabelValues(strategy, op).Add(float64(n))
}

// Instrument wraps s so that every call is recorded in m.
func Instrument(s Strategy, m *Metrics) Strategy {
	if m == nil {
		return s
	}
	return &instrumented{Strategy: s, m: m}
}

type instrumented struct {
	Strategy
	m *Metrics
}

func (i *instrumented) Encode(units []uint16) ([]byte, error) {
	start := time.Now()
	b, err := i.Strategy.Encode(units)
	i.m.observe(i.Name(), "encode", len(b), err, start)
	return b, err
}

func (i *instrumented) Decode(data []byte) ([]uint16, error) {
	start := time.Now()
	units, err := i.Strategy.Decode(data)
	i.m.observe(i.Name(), "decode", len(data), err, start)
	return units, err
}
