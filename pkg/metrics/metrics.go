// Package metrics provides build metrics for the nested columnar engine
// using Prometheus.
//
// # Overview
//
// A Collector owns its own prometheus.Registry so that several engines, or
// tests, can run side by side without colliding on the default registry.
// It records:
//   - nested_arrays_built_total{kind}: arrays built per top-level kind
//   - nested_build_duration_seconds{kind}: build latency distribution
//   - nested_allocated_bytes{kind}: bytes held by the last array built
//   - nested_errors_total{type}: failed builds per error type
//
// # Basic Usage
//
//	collector := metrics.NewCollector("nebula")
//	arr, err := columnar.Build(mem, shape, rows, columnar.WithMetrics(collector))
//
//	snapshot, _ := collector.Snapshot()
//	fmt.Println(snapshot[`nebula_nested_arrays_built_total{kind="map"}`])
package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Collector records build metrics on a private registry.
type Collector struct {
	registry  *prometheus.Registry
	built     *prometheus.CounterVec   // Arrays built
	duration  *prometheus.HistogramVec // Build latency
	allocated *prometheus.GaugeVec     // Bytes held by the last array built
	errors    *prometheus.CounterVec   // Failed builds
	startTime time.Time
}

// NewCollector creates a collector whose metric names are prefixed with
// namespace.
//
// Example:
//
//	collector := metrics.NewCollector("nebula")
//	collector.ObserveBuild("map", time.Since(start), arr.NBytes())
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		built: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nested_arrays_built_total",
				Help:      "Total number of nested arrays built",
			},
			[]string{"kind"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "nested_build_duration_seconds",
				Help:      "Time spent estimating, allocating and populating an array",
				Buckets: []float64{
					1e-6, // 1μs - Tiny arrays
					1e-5, // 10μs
					1e-4, // 100μs
					1e-3, // 1ms - Typical batches
					1e-2, // 10ms
					1e-1, // 100ms - Large batches
					1,    // 1s
				},
			},
			[]string{"kind"},
		),
		allocated: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "nested_allocated_bytes",
				Help:      "Bytes held by the most recently built array",
			},
			[]string{"kind"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nested_errors_total",
				Help:      "Total number of failed builds",
			},
			[]string{"type"},
		),
		startTime: time.Now(),
	}
}

// Registry returns the collector's registry, e.g. for promhttp.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// StartTime returns when the collector was created.
func (c *Collector) StartTime() time.Time { return c.startTime }

// ObserveBuild records a successful build.
func (c *Collector) ObserveBuild(kind string, d time.Duration, bytes int) {
	c.built.WithLabelValues(kind).Inc()
	c.duration.WithLabelValues(kind).Observe(d.Seconds())
	c.allocated.WithLabelValues(kind).Set(float64(bytes))
}

// RecordError records a failed build.
func (c *Collector) RecordError(errType string) {
	c.errors.WithLabelValues(errType).Inc()
}

// Snapshot gathers the current values keyed by name{label="value",...}.
// Histograms report their sample count.
func (c *Collector) Snapshot() (map[string]float64, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := seriesKey(mf.GetName(), m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out[key] = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				out[key] = m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				out[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}

// Keys returns the sorted keys of a snapshot.
func Keys(snapshot map[string]float64) []string {
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func seriesKey(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, l := range labels {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(l.GetName())
		b.WriteString(`="`)
		b.WriteString(l.GetValue())
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the timer's name.
func (t *Timer) Name() string { return t.name }

// Stop returns the elapsed duration since creation. It can be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
