package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
	"github.com/mohammed-shakir/resource-radius/internal/core/observability"
)

const maxBodyBytes = 8 << 20

// DetailsInvalidRequest marks a request body the proxy could not decode.
const DetailsInvalidRequest = "Invalid Request"

// serves a decoded isochrone request
type IsochroneHandler interface {
	HandleIsochrone(ctx context.Context, w http.ResponseWriter, req model.ResourceRequest)
}

// serves a decoded request for filtered resources
type ResourcesHandler interface {
	HandleResources(ctx context.Context, w http.ResponseWriter, req model.ResourcesRequest)
}

// decodes the form payload and calls the handler
func HandleIsochrone(logger *slog.Logger, h IsochroneHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}

		req, err := ParseResourceRequest(w, r)
		if err != nil {
			logger.WarnContext(r.Context(), "rejecting isochrone request", "err", err)
			WriteError(sw, http.StatusBadRequest, err.Error(), DetailsInvalidRequest)
			observability.ObserveHTTP(r.Method, "/api/isochrone", sw.code, time.Since(start).Seconds())
			return
		}

		h.HandleIsochrone(r.Context(), sw, req)
		observability.ObserveHTTP(r.Method, "/api/isochrone", sw.code, time.Since(start).Seconds())
	}
}

func HandleResources(logger *slog.Logger, h ResourcesHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}

		req, err := ParseResourcesRequest(w, r)
		if err != nil {
			logger.WarnContext(r.Context(), "rejecting resources request", "err", err)
			WriteError(sw, http.StatusBadRequest, err.Error(), DetailsInvalidRequest)
			observability.ObserveHTTP(r.Method, "/api/resources", sw.code, time.Since(start).Seconds())
			return
		}

		h.HandleResources(r.Context(), sw, req)
		observability.ObserveHTTP(r.Method, "/api/resources", sw.code, time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// WriteError writes the {message, details} envelope with the given status.
func WriteError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorEnvelope{Message: message, Details: details})
}

type envelope struct {
	FormData     *model.ResourceRequest `json:"formData"`
	ResourceInfo json.RawMessage        `json:"resourceInfo,omitempty"`
	Categories   []string               `json:"categories,omitempty"`
}

// ParseResourceRequest decodes {formData, resourceInfo}. resourceInfo is
// accepted and ignored. Field values are not validated.
func ParseResourceRequest(w http.ResponseWriter, r *http.Request) (model.ResourceRequest, error) {
	env, err := decodeEnvelope(w, r)
	if err != nil {
		return model.ResourceRequest{}, err
	}
	return *env.FormData, nil
}

// ParseResourcesRequest decodes {formData, categories}. Categories are
// trimmed and de-duplicated; an empty list is allowed.
func ParseResourcesRequest(w http.ResponseWriter, r *http.Request) (model.ResourcesRequest, error) {
	env, err := decodeEnvelope(w, r)
	if err != nil {
		return model.ResourcesRequest{}, err
	}
	seen := make(map[string]struct{}, len(env.Categories))
	var cats []string
	for _, c := range env.Categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, c)
	}
	return model.ResourcesRequest{ResourceRequest: *env.FormData, Categories: cats}, nil
}

func decodeEnvelope(w http.ResponseWriter, r *http.Request) (envelope, error) {
	if r.Body == nil {
		return envelope{}, errors.New("empty request body")
	}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return envelope{}, fmt.Errorf("decode request: %w", err)
	}
	if env.FormData == nil {
		return envelope{}, errors.New("missing formData")
	}
	return env, nil
}
