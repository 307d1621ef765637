package metrics

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	c := NewCollector()

	counter := c.Counter("test_counter")
	counter.Inc()
	counter.Inc()
	counter.Add(5)
	counter.Add(-3)

	if counter.Value() != 7 {
		t.Errorf("expected 7, got %d", counter.Value())
	}
	if c.Counter("test_counter") != counter {
		t.Error("expected the same counter for the same name")
	}
}

func TestCounter_Concurrent(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Counter("shared").Inc()
			}
		}()
	}
	wg.Wait()

	if got := c.Counter("shared").Value(); got != 1000 {
		t.Errorf("expected 1000, got %d", got)
	}
}

func TestGauge(t *testing.T) {
	gauge := NewCollector().Gauge("test_gauge")

	gauge.Set(42.5)
	if gauge.Value() != 42.5 {
		t.Errorf("expected 42.5, got %f", gauge.Value())
	}

	gauge.Set(10.0)
	gauge.Inc()
	if gauge.Value() != 11.0 {
		t.Errorf("expected 11.0, got %f", gauge.Value())
	}

	gauge.Dec()
	gauge.Add(5.5)
	if gauge.Value() != 15.5 {
		t.Errorf("expected 15.5, got %f", gauge.Value())
	}
}

func TestHistogram(t *testing.T) {
	hist := NewHistogram(100)

	for i := 1; i <= 100; i++ {
		hist.Observe(float64(i))
	}

	stats := hist.Stats()
	if stats.Count != 100 {
		t.Errorf("expected count 100, got %d", stats.Count)
	}
	if stats.Min != 1 || stats.Max != 100 {
		t.Errorf("expected min 1 max 100, got %f %f", stats.Min, stats.Max)
	}
	if stats.Avg != 50.5 {
		t.Errorf("expected avg 50.5, got %f", stats.Avg)
	}
	if stats.P50 != 50 {
		t.Errorf("expected p50 50, got %f", stats.P50)
	}
	if p := hist.Percentile(100); p != 100 {
		t.Errorf("expected p100 100, got %f", p)
	}
}

func TestHistogram_Rotation(t *testing.T) {
	hist := NewHistogram(10)

	for i := 1; i <= 25; i++ {
		hist.Observe(float64(i))
	}

	stats := hist.Stats()
	if stats.Count != 10 {
		t.Errorf("expected count 10, got %d", stats.Count)
	}
	if stats.Min != 16 {
		t.Errorf("expected oldest kept value 16, got %f", stats.Min)
	}
}

func TestHistogram_Empty(t *testing.T) {
	hist := NewHistogram(10)

	if hist.Percentile(50) != 0 {
		t.Error("expected 0 for empty histogram")
	}
	if hist.Stats().Count != 0 {
		t.Error("expected empty stats")
	}
}

func TestTimer(t *testing.T) {
	c := NewCollector()

	tc := c.Timer("op").Start()
	time.Sleep(5 * time.Millisecond)
	d := tc.Stop()

	if d < 5*time.Millisecond {
		t.Errorf("expected at least 5ms, got %v", d)
	}

	c.Timer("op").Observe(time.Second)
	stats := c.Timer("op").Stats()
	if stats.Count != 2 {
		t.Errorf("expected 2 observations, got %d", stats.Count)
	}
	if stats.Max != 1 {
		t.Errorf("expected max 1s, got %f", stats.Max)
	}
}

func TestCollector_Export(t *testing.T) {
	c := NewCollector()
	c.Counter(MetricMessagesLinted).Add(3)
	c.Gauge(MetricWorkers).Set(4)
	c.Timer(MetricLintDuration).Observe(time.Millisecond)

	data, err := c.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.Counters[MetricMessagesLinted] != 3 {
		t.Errorf("expected counter 3, got %d", snap.Counters[MetricMessagesLinted])
	}
	if snap.Timers[MetricLintDuration].Count != 1 {
		t.Errorf("expected 1 timer observation, got %d", snap.Timers[MetricLintDuration].Count)
	}
}

func TestCollector_ExportPrometheus(t *testing.T) {
	c := NewCollector()
	c.Counter("b_total").Inc()
	c.Counter("a_total").Add(2)
	c.Gauge("workers").Set(4)
	c.Timer("lint").Observe(time.Second)

	out := c.ExportPrometheus()

	for _, want := range []string{
		"# TYPE a_total counter\na_total 2\n",
		"b_total 1\n",
		"workers 4\n",
		"# TYPE lint_seconds summary\n",
		"lint_seconds_count 1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "a_total") > strings.Index(out, "b_total") {
		t.Error("expected counters sorted by name")
	}
}

func TestCollector_Reset(t *testing.T) {
	c := NewCollector()
	c.Counter("x").Inc()

	c.Reset()

	if len(c.Snapshot().Counters) != 0 {
		t.Error("expected no counters after Reset()")
	}
}

func TestGlobal(t *testing.T) {
	if Global() != Global() {
		t.Error("expected a single global collector")
	}
}
