// Package model defines core domain types shared across the service.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

const (
	MinMinutes = 1
	MaxMinutes = 60
)

type TransportMode int

const (
	Driving TransportMode = iota + 1
	Walking
	Cycling
)

var modeNames = map[TransportMode]string{
	Driving: "driving",
	Walking: "walking",
	Cycling: "cycling",
}

// provider profile names used by the isochrone api
var modeTokens = map[TransportMode]string{
	Driving: "driving-car",
	Walking: "foot-walking",
	Cycling: "cycling-regular",
}

func (m TransportMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("TransportMode(%d)", int(m))
}

// Token returns the isochrone provider profile for the mode.
func (m TransportMode) Token() string {
	return modeTokens[m]
}

// ParseTransportMode accepts either the short name ("walking") or the
// provider token ("foot-walking").
func ParseTransportMode(s string) (TransportMode, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if v == name || v == modeTokens[m] {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown transport mode %q", s)
}

// ClampMinutes bounds a travel budget to [MinMinutes, MaxMinutes].
func ClampMinutes(n int) int {
	return max(MinMinutes, min(MaxMinutes, n))
}

// ClampMinutesString clamps raw form input; anything unparseable counts as 0.
func ClampMinutesString(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return MinMinutes
	}
	switch {
	case f > MaxMinutes:
		return MaxMinutes
	case f < MinMinutes:
		return MinMinutes
	}
	return ClampMinutes(int(f))
}

// maxRequestMinutes keeps RangeSeconds within int32.
const maxRequestMinutes = math.MaxInt32 / 60

// Minutes decodes from a JSON number or a numeric string. An empty string
// decodes as 0; the proxy forwards whatever it gets. Fractions are
// truncated toward zero, so "7.5" is 7 whole minutes. Non-finite values and
// magnitudes above maxRequestMinutes are rejected.
type Minutes int

func (m *Minutes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("minutes: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*m = 0
			return nil
		}
		b = []byte(s)
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("minutes: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxRequestMinutes {
		return fmt.Errorf("minutes: %s out of range", b)
	}
	*m = Minutes(math.Trunc(f))
	return nil
}

// ResourceRequest is the form payload submitted to the proxy.
type ResourceRequest struct {
	Address string  `json:"address"`
	Mode    string  `json:"modeOfTransportation"`
	Minutes Minutes `json:"minutes"`
}

// RangeSeconds is the isochrone time budget.
func (r ResourceRequest) RangeSeconds() int {
	return int(r.Minutes) * 60
}

// ResourcesRequest asks the proxy to also load and filter categories.
type ResourcesRequest struct {
	ResourceRequest
	Categories []string
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Point returns the coordinate in GeoJSON (lon, lat) order.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// IsochronePolygon is the first ring of the provider's polygon plus the
// echoed query origin. Raw holds the untouched provider body.
type IsochronePolygon struct {
	Ring   orb.Ring
	Origin *Coordinate
	Raw    json.RawMessage
}

// Record is a single assistance location loaded from a category file.
type Record struct {
	Category  string  `json:"category"`
	Name      string  `json:"name"`
	Item      string  `json:"item,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Website   string  `json:"website"`
	Phone     string  `json:"phone"`
}

func (r Record) Coordinate() Coordinate {
	return Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}
}

// ErrorEnvelope is the body of every proxy error response.
type ErrorEnvelope struct {
	Message string `json:"message"`
	Details string `json:"details"`
}
