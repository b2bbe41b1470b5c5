package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/x", "200", time.Millisecond)
	m.IncGeneration("completed")
	m.IncVariationFailure("render")
	if m.Registry() != nil {
		t.Fatalf("nil metrics: expected nil registry")
	}
}

func TestMetricsCountAndExpose(t *testing.T) {
	m := NewMetrics()
	m.IncGeneration("completed")
	m.IncGeneration("completed")
	m.IncVariationFailure("storage")

	if got := testutil.ToFloat64(m.generations.WithLabelValues("completed")); got != 2 {
		t.Fatalf("generations: want=2 got=%v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `pinforge_variation_failures_total{stage="storage"} 1`) {
		t.Fatalf("metrics output missing variation failure line:\n%s", body)
	}
}
