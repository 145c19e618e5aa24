package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
	"github.com/mohammed-shakir/resource-radius/internal/core/observability"
)

// largest isochrone body we are willing to buffer
const maxIsochroneBody = 16 << 20

const isochroneAccept = "application/json, application/geo+json, application/gpx+xml, img/png; charset=utf-8"

// Isochroner requests travel-time polygons from an openrouteservice style API.
type Isochroner struct {
	logger  *slog.Logger
	client  *http.Client
	base    *url.URL
	apiKey  string
	retries int
}

func NewIsochroner(logger *slog.Logger, client *http.Client, baseURL, apiKey string, opts ...Option) (*Isochroner, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse isochrone url: %w", err)
	}
	var o options
	for _, f := range opts {
		f(&o)
	}
	return &Isochroner{
		logger:  logger,
		client:  client,
		base:    u,
		apiKey:  apiKey,
		retries: o.retries,
	}, nil
}

type isochroneBody struct {
	Locations [][2]float64 `json:"locations"` // [lon, lat]
	Range     []int        `json:"range"`     // seconds
}

// Isochrone returns the provider's raw response for a single range around
// origin. mode is the provider profile and is sent as given.
func (c *Isochroner) Isochrone(ctx context.Context, mode string, origin model.Coordinate, rangeSeconds int) ([]byte, error) {
	fail := func(kind string, status int, body string, err error) ([]byte, error) {
		observability.IncUpstreamError("isochrone", kind)
		return nil, &IsochroneError{Mode: mode, Status: status, Body: body, Err: err}
	}

	payload, err := json.Marshal(isochroneBody{
		Locations: [][2]float64{{origin.Longitude, origin.Latitude}},
		Range:     []int{rangeSeconds},
	})
	if err != nil {
		return fail("encode", 0, "", fmt.Errorf("encode request: %w", err))
	}

	u := c.base.JoinPath("v2", "isochrones", mode)

	resp, err := do(ctx, c.client, "isochrone", c.retries, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", isochroneAccept)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		return req, nil
	})
	if err != nil {
		return fail("transport", 0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail("status", resp.StatusCode, strings.TrimSpace(string(b)), nil)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxIsochroneBody))
	if err != nil {
		return fail("transport", 0, "", fmt.Errorf("read body: %w", err))
	}

	c.logger.DebugContext(ctx, "isochrone fetched",
		"mode", mode,
		"range_seconds", rangeSeconds,
		"bytes", len(b))
	return b, nil
}
