package health

import (
	"encoding/json"
	"net/http"
)

// ReadinessReporter reports whether the service can serve requests and, if
// not, which settings are missing.
type ReadinessReporter interface {
	Readiness() (ready bool, missing []string)
}

func Readiness(rr ReadinessReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		type resp struct {
			Status  string   `json:"status"`
			Missing []string `json:"missing,omitempty"`
		}
		ready, missing := rr.Readiness()
		out := resp{Status: "ready"}
		if !ready {
			out = resp{Status: "not_ready", Missing: missing}
		}
		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
