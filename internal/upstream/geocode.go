package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
	"github.com/mohammed-shakir/resource-radius/internal/core/observability"
)

// Option tunes an upstream client.
type Option func(*options)

type options struct {
	retries int
}

// WithRetries allows n extra attempts on transport errors and 5xx answers.
func WithRetries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.retries = n
		}
	}
}

// Geocoder resolves addresses with a geocode.maps.co style search API.
type Geocoder struct {
	logger  *slog.Logger
	client  *http.Client
	search  *url.URL
	apiKey  string
	retries int
}

func NewGeocoder(logger *slog.Logger, client *http.Client, baseURL, apiKey string, opts ...Option) (*Geocoder, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/search")
	if err != nil {
		return nil, fmt.Errorf("parse geocode url: %w", err)
	}
	var o options
	for _, f := range opts {
		f(&o)
	}
	return &Geocoder{
		logger:  logger,
		client:  client,
		search:  u,
		apiKey:  apiKey,
		retries: o.retries,
	}, nil
}

// provider returns coordinates as strings; accept numbers too
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("parse coordinate: %w", err)
	}
	*f = flexFloat(v)
	return nil
}

type geocodeResult struct {
	Lat         flexFloat `json:"lat"`
	Lon         flexFloat `json:"lon"`
	DisplayName string    `json:"display_name"`
}

// Geocode returns the coordinate of the first search result.
func (g *Geocoder) Geocode(ctx context.Context, address string) (model.Coordinate, error) {
	fail := func(kind string, status int, err error) (model.Coordinate, error) {
		observability.IncUpstreamError("geocode", kind)
		return model.Coordinate{}, &GeocodeError{Address: address, Status: status, Err: err}
	}

	resp, err := do(ctx, g.client, "geocode", g.retries, func() (*http.Request, error) {
		u := *g.search
		q := url.Values{}
		q.Set("q", address)
		q.Set("api_key", g.apiKey)
		u.RawQuery = q.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return fail("transport", 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail("status", resp.StatusCode, errors.New(strings.TrimSpace(string(b))))
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return fail("decode", 0, fmt.Errorf("decode response: %w", err))
	}
	if len(results) == 0 {
		return fail("empty", 0, ErrNoGeocodeMatch)
	}

	first := results[0]
	g.logger.DebugContext(ctx, "geocoded address",
		"matches", len(results),
		"display_name", first.DisplayName)
	return model.Coordinate{Latitude: float64(first.Lat), Longitude: float64(first.Lon)}, nil
}
