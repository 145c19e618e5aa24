// Package spatial decodes isochrone polygons and tests resource locations
// against them.
package spatial

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
)

var ErrNoPolygon = errors.New("isochrone response has no polygon")

// metadata.query.locations echoes the request origin as [lon, lat]
type isochroneMetadata struct {
	Metadata struct {
		Query struct {
			Locations [][]float64 `json:"locations"`
		} `json:"query"`
	} `json:"metadata"`
}

// DecodeIsochrone reads the provider's FeatureCollection and keeps the outer
// ring of the first feature. The ring is trusted as returned.
func DecodeIsochrone(raw []byte) (model.IsochronePolygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return model.IsochronePolygon{}, fmt.Errorf("decode isochrone: %w", err)
	}
	if len(fc.Features) == 0 || fc.Features[0] == nil {
		return model.IsochronePolygon{}, ErrNoPolygon
	}

	ring, err := outerRing(fc.Features[0].Geometry)
	if err != nil {
		return model.IsochronePolygon{}, err
	}

	iso := model.IsochronePolygon{
		Ring: ring,
		Raw:  json.RawMessage(raw),
	}

	var meta isochroneMetadata
	if err := json.Unmarshal(raw, &meta); err == nil {
		if locs := meta.Metadata.Query.Locations; len(locs) > 0 && len(locs[0]) >= 2 {
			iso.Origin = &model.Coordinate{Latitude: locs[0][1], Longitude: locs[0][0]}
		}
	}
	return iso, nil
}

func outerRing(g orb.Geometry) (orb.Ring, error) {
	switch p := g.(type) {
	case orb.Polygon:
		if len(p) == 0 || len(p[0]) == 0 {
			return nil, ErrNoPolygon
		}
		return p[0], nil
	case orb.MultiPolygon:
		for _, poly := range p {
			if len(poly) > 0 && len(poly[0]) > 0 {
				return poly[0], nil
			}
		}
		return nil, ErrNoPolygon
	case nil:
		return nil, ErrNoPolygon
	default:
		return nil, fmt.Errorf("%w: unsupported geometry type %s", ErrNoPolygon, g.GeoJSONType())
	}
}
