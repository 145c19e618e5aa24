package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mylog "github.com/mohammed-shakir/resource-radius/internal/logger"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestLogging_PropagatesRequestID(t *testing.T) {
	var seen string
	h := Logging(discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = mylog.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if seen != "abc" || rr.Header().Get("X-Request-ID") != "abc" {
		t.Fatalf("seen=%q header=%q", seen, rr.Header().Get("X-Request-ID"))
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if seen == "" || rr.Header().Get("X-Request-ID") != seen {
		t.Fatalf("generated id not propagated: ctx=%q header=%q", seen, rr.Header().Get("X-Request-ID"))
	}
}

func TestRecover_WritesJSONError(t *testing.T) {
	h := Recover(discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/isochrone", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"message"`) {
		t.Fatalf("body=%s", rr.Body.String())
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"https://app.example"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/isochrone", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("allow-origin=%q", got)
	}
	if rr.Code == http.StatusTeapot {
		t.Fatal("preflight reached the handler")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/isochrone", nil)
	req.Header.Set("Origin", "https://other.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin for foreign origin: %q", got)
	}
}
