package router

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
)

type fakeHandler struct {
	calls int
	last  model.ResourceRequest
	lastR model.ResourcesRequest
}

func (f *fakeHandler) HandleIsochrone(_ context.Context, w http.ResponseWriter, req model.ResourceRequest) {
	f.calls++
	f.last = req
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeHandler) HandleResources(_ context.Context, w http.ResponseWriter, req model.ResourcesRequest) {
	f.calls++
	f.lastR = req
	w.WriteHeader(http.StatusNoContent)
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestHandleIsochrone_SeamDispatch(t *testing.T) {
	h := &fakeHandler{}
	body := `{"formData":{"address":"233 S Wacker Dr, Chicago, IL","modeOfTransportation":"foot-walking","minutes":"15"},
		"resourceInfo":{"food":true}}`
	req := httptest.NewRequest(http.MethodPost, "/api/isochrone", strings.NewReader(body))
	rr := httptest.NewRecorder()

	HandleIsochrone(discardLogger(), h)(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 from fake handler, got %d", rr.Code)
	}
	want := model.ResourceRequest{Address: "233 S Wacker Dr, Chicago, IL", Mode: "foot-walking", Minutes: 15}
	if h.last != want {
		t.Fatalf("handler got %+v want %+v", h.last, want)
	}
}

func TestHandleIsochrone_PassesInputThroughUnvalidated(t *testing.T) {
	h := &fakeHandler{}
	body := `{"formData":{"address":"","modeOfTransportation":"teleport","minutes":-5}}`
	rr := httptest.NewRecorder()
	HandleIsochrone(discardLogger(), h)(rr, httptest.NewRequest(http.MethodPost, "/api/isochrone", strings.NewReader(body)))

	if h.calls != 1 || h.last.Mode != "teleport" || h.last.Minutes != -5 {
		t.Fatalf("input was altered or rejected: calls=%d req=%+v", h.calls, h.last)
	}
}

func TestHandleIsochrone_MalformedBody(t *testing.T) {
	for _, body := range []string{`{"formData":`, `[]`, `{}`} {
		h := &fakeHandler{}
		rr := httptest.NewRecorder()
		HandleIsochrone(discardLogger(), h)(rr, httptest.NewRequest(http.MethodPost, "/api/isochrone", strings.NewReader(body)))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status=%d want 400", body, rr.Code)
		}
		if h.calls != 0 {
			t.Fatalf("body %q reached the handler", body)
		}
		var env model.ErrorEnvelope
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("body %q: envelope not json: %v", body, err)
		}
		if env.Message == "" || env.Details != DetailsInvalidRequest {
			t.Fatalf("body %q: envelope=%+v", body, env)
		}
	}
}

func TestHandleResources_Categories(t *testing.T) {
	h := &fakeHandler{}
	body := `{"formData":{"address":"a","modeOfTransportation":"driving-car","minutes":10},
		"categories":["food"," legal ","food",""]}`
	rr := httptest.NewRecorder()
	HandleResources(discardLogger(), h)(rr, httptest.NewRequest(http.MethodPost, "/api/resources", strings.NewReader(body)))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status=%d", rr.Code)
	}
	got := h.lastR.Categories
	if len(got) != 2 || got[0] != "food" || got[1] != "legal" {
		t.Fatalf("categories=%v", got)
	}
	if h.lastR.RangeSeconds() != 600 {
		t.Fatalf("range=%d", h.lastR.RangeSeconds())
	}
}

func TestWriteError_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, http.StatusInternalServerError, "geocode: no match", "Isochrone Fetch Error")

	if rr.Code != http.StatusInternalServerError || rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("status=%d ct=%q", rr.Code, rr.Header().Get("Content-Type"))
	}
	var m map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if len(m) != 2 || m["message"] != "geocode: no match" || m["details"] != "Isochrone Fetch Error" {
		t.Fatalf("envelope=%v", m)
	}
}
