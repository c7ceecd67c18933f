package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yungbote/skugen-backend/internal/platform/logger"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/skus", "200", time.Millisecond)
	m.ObserveGenerate(3, 1)
	m.ObservePersist("skus", errors.New("boom"))
	m.ObserveCollectionSize(4)
	m.IncExport("csv")
	m.ObserveBlobOperation("memory", "get", "success", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("nil metrics handler: want 503 got %d", rec.Code)
	}
}

func TestMetricsRecords(t *testing.T) {
	m, err := NewMetrics("skugen_test", prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	m.ObserveGenerate(3, 1)
	m.ObservePersist("skus", nil)
	m.ObservePersist("skus", errors.New("disk full"))
	m.ObserveCollectionSize(7)

	if got := testutil.ToFloat64(m.skusGenerated); got != 3 {
		t.Fatalf("generated: want 3 got %v", got)
	}
	if got := testutil.ToFloat64(m.skusDropped); got != 2 {
		t.Fatalf("dropped: want 2 got %v", got)
	}
	if got := testutil.ToFloat64(m.persists.WithLabelValues("skus", "error")); got != 1 {
		t.Fatalf("persist errors: want 1 got %v", got)
	}
	if got := testutil.ToFloat64(m.collectionSize); got != 7 {
		t.Fatalf("collection size: want 7 got %v", got)
	}
}

func TestMetricsReuseExistingCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewMetrics("skugen_test", reg)
	if err != nil {
		t.Fatalf("first NewMetrics: %v", err)
	}
	b, err := NewMetrics("skugen_test", reg)
	if err != nil {
		t.Fatalf("second NewMetrics: %v", err)
	}
	a.IncExport("xlsx")
	b.IncExport("xlsx")
	if got := testutil.ToFloat64(a.exports.WithLabelValues("xlsx")); got != 2 {
		t.Fatalf("shared counter: want 2 got %v", got)
	}
}

func TestMetricsHandlerExposition(t *testing.T) {
	m, err := NewMetrics("", nil)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	m.ObserveAPI("POST", "/api/skus", "200", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `skugen_api_requests_total{method="POST",route="/api/skus",status="200"} 1`) {
		t.Fatalf("exposition missing api counter:\n%s", body)
	}
}

func TestInitOTelDisabled(t *testing.T) {
	shutdown := InitOTel(context.Background(), logger.Nop(), OtelConfig{}, TracingOptions{Enabled: false})
	if shutdown == nil {
		t.Fatalf("shutdown func must not be nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestParseHeadersAndRatio(t *testing.T) {
	h := parseHeaders("authorization=Bearer x, bad, =v, k2 = v2")
	if len(h) != 2 || h["authorization"] != "Bearer x" || h["k2"] != "v2" {
		t.Fatalf("parseHeaders: %v", h)
	}
	if parseHeaders("") != nil {
		t.Fatalf("empty headers should be nil")
	}
	cases := map[string]float64{"": 0.1, "nope": 0.1, "-1": 0, "2": 1, "0.5": 0.5}
	for in, want := range cases {
		if got := parseRatio(in, 0.1); got != want {
			t.Fatalf("parseRatio(%q): want %v got %v", in, want, got)
		}
	}
}
