package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mohammed-shakir/resource-radius/internal/core/observability"
)

func TestProvider_RegistersStandardCollectors_AndBuildInfo(t *testing.T) {
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_gauge", Help: "smoke"})
	p := Init(Config{Build: BuildInfo{Version: "test", Revision: "r", BuildDate: "now"}}, g)
	g.Set(42)

	if n := testutil.CollectAndCount(g); n == 0 {
		t.Fatalf("expected at least 1 sample from test_gauge, got %d", n)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	body := rr.Body.String()

	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected go_goroutines in payload; got:\n%s", body)
	}
	if !strings.Contains(body, `app_build_info{build_date="now",revision="r",version="test"} 1`) {
		t.Fatalf("expected app_build_info in payload; got:\n%s", body)
	}
	if !strings.Contains(body, "test_gauge 42") {
		t.Fatalf("expected test_gauge in payload; got:\n%s", body)
	}
}

func TestProvider_ExposesApplicationCollectors(t *testing.T) {
	p := Init(Config{}, observability.Collectors()...)
	observability.ObserveUpstreamLatency("geocode", 0.02)
	observability.IncDatasetCacheMiss()

	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, s := range []string{
		`upstream_latency_seconds_count{upstream="geocode"}`,
		`dataset_cache_results_total{outcome="miss"}`,
		`app_build_info{build_date="",revision="",version="dev"} 1`,
	} {
		if !strings.Contains(body, s) {
			t.Fatalf("expected metrics to contain %q;\n---\n%s", s, body)
		}
	}
}
