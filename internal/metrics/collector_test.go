package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounter(t *testing.T) {
	c := NewCollector()
	ctr := c.Counter("test_total", "help")
	ctr.Inc()
	ctr.Add(2)
	if ctr.Value() != 3 {
		t.Errorf("value = %d", ctr.Value())
	}
	// Same name returns the same counter.
	if c.Counter("test_total", "help") != ctr {
		t.Error("counter not deduplicated by name")
	}
}

func TestHistogramBuckets(t *testing.T) {
	c := NewCollector()
	h := c.Histogram("lat_seconds", "help", []float64{1, 0.1}) // unsorted on purpose
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(2)

	if h.count != 3 {
		t.Errorf("count = %d", h.count)
	}
	if h.buckets[0].le != 0.1 || h.buckets[0].count != 1 {
		t.Errorf("first bucket = %+v", h.buckets[0])
	}
	if h.buckets[1].count != 2 {
		t.Errorf("second bucket = %+v", h.buckets[1])
	}
}

func TestHandler_Exposition(t *testing.T) {
	c := NewCollector()
	c.Counter("relay_test_total", "Test counter").Add(5)
	c.Gauge("relay_test_gauge", "Test gauge").Set(7)

	rr := httptest.NewRecorder()
	c.Handler()(rr, httptest.NewRequest("GET", "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"fb2tg_uptime_seconds",
		"# TYPE relay_test_total counter",
		"relay_test_total 5",
		"relay_test_gauge 7",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q:\n%s", want, body)
		}
	}
}
