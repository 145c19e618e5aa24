// Package proxy runs the geocode then isochrone pipeline behind the HTTP
// routes, keeping provider keys on the server.
package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
	"github.com/mohammed-shakir/resource-radius/internal/core/router"
)

// DetailsFetchError is the details value of every pipeline failure.
const DetailsFetchError = "Isochrone Fetch Error"

type Geocoding interface {
	Geocode(ctx context.Context, address string) (model.Coordinate, error)
}

type Isochrones interface {
	Isochrone(ctx context.Context, mode string, origin model.Coordinate, rangeSeconds int) ([]byte, error)
}

type Service struct {
	logger *slog.Logger
	geo    Geocoding
	iso    Isochrones
}

func New(logger *slog.Logger, geo Geocoding, iso Isochrones) *Service {
	return &Service{logger: logger, geo: geo, iso: iso}
}

// Resolve geocodes the address and returns the provider's isochrone body
// untouched. Mode and minutes are forwarded as given.
func (s *Service) Resolve(ctx context.Context, req model.ResourceRequest) ([]byte, error) {
	origin, err := s.geo.Geocode(ctx, req.Address)
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	body, err := s.iso.Isochrone(ctx, req.Mode, origin, req.RangeSeconds())
	if err != nil {
		return nil, fmt.Errorf("isochrone: %w", err)
	}
	return body, nil
}

func (s *Service) HandleIsochrone(ctx context.Context, w http.ResponseWriter, req model.ResourceRequest) {
	body, err := s.Resolve(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "isochrone request failed",
			"mode", req.Mode,
			"minutes", int(req.Minutes),
			"err", err)
		router.WriteError(w, http.StatusInternalServerError, err.Error(), DetailsFetchError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
