// Package metrics counts lint runs, rule failures and cache behaviour.
//
// Everything is in-process; the CLI prints a snapshot with --metrics.
package metrics

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Collector collects and manages metrics.
type Collector struct {
	mu        sync.RWMutex
	counters  map[string]*Counter
	gauges    map[string]*Gauge
	timers    map[string]*Timer
	startTime time.Time
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		counters:  make(map[string]*Counter),
		gauges:    make(map[string]*Gauge),
		timers:    make(map[string]*Timer),
		startTime: time.Now(),
	}
}

// Counter is a monotonically increasing counter.
type Counter struct {
	value atomic.Int64
}

// Inc increments the counter by 1.
func (c *Counter) Inc() { c.value.Add(1) }

// Add adds n to the counter. Negative n is ignored.
func (c *Counter) Add(n int64) {
	if n > 0 {
		c.value.Add(n)
	}
}

// Value returns the current counter value.
func (c *Counter) Value() int64 { return c.value.Load() }

// Gauge represents a value that can go up or down.
type Gauge struct {
	bits atomic.Uint64
}

// Set sets the gauge value.
func (g *Gauge) Set(v float64) { g.bits.Store(math.Float64bits(v)) }

// Add adds v to the gauge.
func (g *Gauge) Add(v float64) {
	for {
		old := g.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + v)
		if g.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Inc increments the gauge by 1.
func (g *Gauge) Inc() { g.Add(1) }

// Dec decrements the gauge by 1.
func (g *Gauge) Dec() { g.Add(-1) }

// Value returns the current gauge value.
func (g *Gauge) Value() float64 { return math.Float64frombits(g.bits.Load()) }

// Histogram keeps the most recent observations in a ring buffer.
type Histogram struct {
	mu     sync.Mutex
	values []float64
	next   int
	full   bool
}

// NewHistogram creates a histogram holding up to maxValues observations.
func NewHistogram(maxValues int) *Histogram {
	if maxValues <= 0 {
		maxValues = 1
	}
	return &Histogram{values: make([]float64, maxValues)}
}

// Observe records a value, overwriting the oldest once the buffer is full.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.values[h.next] = v
	h.next++
	if h.next == len(h.values) {
		h.next = 0
		h.full = true
	}
}

func (h *Histogram) sorted() []float64 {
	h.mu.Lock()
	n := h.next
	if h.full {
		n = len(h.values)
	}
	out := make([]float64, n)
	copy(out, h.values[:n])
	h.mu.Unlock()

	sort.Float64s(out)
	return out
}

// Percentile returns the p-th percentile (0-100).
func (h *Histogram) Percentile(p float64) float64 {
	sorted := h.sorted()
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p/100)]
}

// Stats returns histogram statistics.
func (h *Histogram) Stats() HistogramStats {
	sorted := h.sorted()
	n := len(sorted)
	if n == 0 {
		return HistogramStats{}
	}

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	at := func(p int) float64 { return sorted[(n-1)*p/100] }
	return HistogramStats{
		Count: n,
		Min:   sorted[0],
		Max:   sorted[n-1],
		Avg:   sum / float64(n),
		P50:   at(50),
		P90:   at(90),
		P99:   at(99),
	}
}

// HistogramStats contains histogram statistics.
type HistogramStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
	P99   float64 `json:"p99"`
}

// Timer records durations in seconds.
type Timer struct {
	histogram *Histogram
}

// Start starts a new timer context.
func (t *Timer) Start() *TimerContext {
	return &TimerContext{timer: t, start: time.Now()}
}

// Observe records a duration measured elsewhere.
func (t *Timer) Observe(d time.Duration) {
	t.histogram.Observe(d.Seconds())
}

// Stats returns the recorded durations, in seconds.
func (t *Timer) Stats() HistogramStats {
	return t.histogram.Stats()
}

// TimerContext represents an active timer.
type TimerContext struct {
	timer *Timer
	start time.Time
}

// Stop stops the timer and records the duration.
func (tc *TimerContext) Stop() time.Duration {
	d := time.Since(tc.start)
	tc.timer.Observe(d)
	return d
}

// Counter returns or creates a counter.
func (c *Collector) Counter(name string) *Counter {
	return getOrCreate(c, c.counters, name, func() *Counter { return &Counter{} })
}

// Gauge returns or creates a gauge.
func (c *Collector) Gauge(name string) *Gauge {
	return getOrCreate(c, c.gauges, name, func() *Gauge { return &Gauge{} })
}

// Timer returns or creates a timer.
func (c *Collector) Timer(name string) *Timer {
	return getOrCreate(c, c.timers, name, func() *Timer {
		return &Timer{histogram: NewHistogram(1000)}
	})
}

func getOrCreate[T any](c *Collector, m map[string]*T, name string, create func() *T) *T {
	c.mu.RLock()
	v, ok := m[name]
	c.mu.RUnlock()
	if ok {
		return v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := m[name]; ok {
		return v
	}
	v = create()
	m[name] = v
	return v
}

// Uptime returns the duration since the collector was created.
func (c *Collector) Uptime() time.Duration {
	return time.Since(c.startTime)
}

// Snapshot is a point-in-time copy of every metric.
type Snapshot struct {
	Uptime   string                    `json:"uptime"`
	Counters map[string]int64          `json:"counters"`
	Gauges   map[string]float64        `json:"gauges"`
	Timers   map[string]HistogramStats `json:"timers"`
}

// Snapshot copies the current values.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:   time.Since(c.startTime).Round(time.Millisecond).String(),
		Counters: make(map[string]int64, len(c.counters)),
		Gauges:   make(map[string]float64, len(c.gauges)),
		Timers:   make(map[string]HistogramStats, len(c.timers)),
	}
	for name, counter := range c.counters {
		s.Counters[name] = counter.Value()
	}
	for name, gauge := range c.gauges {
		s.Gauges[name] = gauge.Value()
	}
	for name, timer := range c.timers {
		s.Timers[name] = timer.Stats()
	}
	return s
}

// Export exports metrics to JSON.
func (c *Collector) Export() ([]byte, error) {
	return json.MarshalIndent(c.Snapshot(), "", "  ")
}

// ExportPrometheus exports metrics in the Prometheus text format, sorted by name.
func (c *Collector) ExportPrometheus() string {
	s := c.Snapshot()
	var sb strings.Builder

	for _, name := range sortedKeys(s.Counters) {
		fmt.Fprintf(&sb, "# TYPE %s counter\n%s %d\n", name, name, s.Counters[name])
	}
	for _, name := range sortedKeys(s.Gauges) {
		fmt.Fprintf(&sb, "# TYPE %s gauge\n%s %g\n", name, name, s.Gauges[name])
	}
	for _, name := range sortedKeys(s.Timers) {
		st := s.Timers[name]
		fmt.Fprintf(&sb, "# TYPE %s_seconds summary\n", name)
		fmt.Fprintf(&sb, "%s_seconds{quantile=\"0.5\"} %g\n", name, st.P50)
		fmt.Fprintf(&sb, "%s_seconds{quantile=\"0.9\"} %g\n", name, st.P90)
		fmt.Fprintf(&sb, "%s_seconds{quantile=\"0.99\"} %g\n", name, st.P99)
		fmt.Fprintf(&sb, "%s_seconds_count %d\n", name, st.Count)
	}

	return sb.String()
}

// Reset resets all metrics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counters = make(map[string]*Counter)
	c.gauges = make(map[string]*Gauge)
	c.timers = make(map[string]*Timer)
	c.startTime = time.Now()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
