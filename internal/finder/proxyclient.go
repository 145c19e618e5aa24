package finder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
)

const maxResponseBytes = 32 << 20

// ProxyError is a non-2xx answer from the proxy. Message is what the user
// sees.
type ProxyError struct {
	Status  int
	Message string
	Details string
}

func (e *ProxyError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("proxy status %d", e.Status)
	}
	return e.Message
}

// ProxyClient calls the resource proxy's /api/isochrone route.
type ProxyClient struct {
	endpoint *url.URL
	client   *http.Client
}

func NewProxyClient(baseURL string, client *http.Client) (*ProxyClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ProxyClient{endpoint: u.JoinPath("api", "isochrone"), client: client}, nil
}

type isochronePayload struct {
	FormData     model.ResourceRequest `json:"formData"`
	ResourceInfo resourceInfo          `json:"resourceInfo"`
}

type resourceInfo struct {
	Categories []string `json:"categories"`
}

// Isochrone returns the raw isochrone body for req. categories travel in
// resourceInfo and are informational only.
func (p *ProxyClient) Isochrone(ctx context.Context, req model.ResourceRequest, categories []string) ([]byte, error) {
	if categories == nil {
		categories = []string{}
	}
	body, err := json.Marshal(isochronePayload{FormData: req, ResourceInfo: resourceInfo{Categories: categories}})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("post isochrone: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read isochrone: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		pe := &ProxyError{Status: resp.StatusCode}
		var env model.ErrorEnvelope
		if json.Unmarshal(b, &env) == nil {
			pe.Message, pe.Details = env.Message, env.Details
		}
		return nil, pe
	}
	return b, nil
}
