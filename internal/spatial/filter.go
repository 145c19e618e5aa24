package spatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
)

// Contains reports whether c lies inside or on the boundary of ring.
func Contains(ring orb.Ring, c model.Coordinate) bool {
	if len(ring) < 3 {
		return false
	}
	return planar.RingContains(ring, c.Point())
}

// Filter returns the records located inside the isochrone, preserving order.
// The input slice is not modified.
func Filter(recs []model.Record, iso model.IsochronePolygon) []model.Record {
	out := make([]model.Record, 0, len(recs))
	for _, r := range recs {
		if Contains(iso.Ring, r.Coordinate()) {
			out = append(out, r)
		}
	}
	return out
}

// FeatureCollection renders the isochrone, its origin and the given records
// as map features. iso may be nil when nothing has been fetched yet.
func FeatureCollection(iso *model.IsochronePolygon, recs []model.Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if iso != nil && len(iso.Ring) > 0 {
		poly := geojson.NewFeature(orb.Polygon{iso.Ring})
		poly.Properties["kind"] = "isochrone"
		fc.Append(poly)

		if iso.Origin != nil {
			origin := geojson.NewFeature(iso.Origin.Point())
			origin.Properties["kind"] = "origin"
			fc.Append(origin)
		}
	}

	for _, r := range recs {
		f := geojson.NewFeature(r.Coordinate().Point())
		f.Properties["kind"] = "resource"
		f.Properties["category"] = r.Category
		f.Properties["name"] = r.Name
		if r.Item != "" {
			f.Properties["item"] = r.Item
		}
		f.Properties["address"] = r.Address
		f.Properties["website"] = r.Website
		f.Properties["phone"] = r.Phone
		fc.Append(f)
	}
	return fc
}
