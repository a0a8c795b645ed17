package geodata

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"drone-flightpath/internal/geometry"
	"drone-flightpath/internal/planner"
)

// Roles written to the "role" property of region features.
const (
	RoleNoFlyZone   = "no-fly-zone"
	RoleCentralArea = "central-area"
)

// PathFeatureCollection wraps the route in a FeatureCollection holding a
// single LineString through every waypoint.
func PathFeatureCollection(path planner.Path) *geojson.FeatureCollection {
	feature := geojson.NewFeature(path.LineString())
	feature.Properties["moves"] = path.Len()
	feature.Properties["distanceMeters"] = path.LengthMeters()

	fc := geojson.NewFeatureCollection()
	fc.Append(feature)
	return fc
}

// EncodePath marshals the route as a GeoJSON FeatureCollection.
func EncodePath(path planner.Path) ([]byte, error) {
	return PathFeatureCollection(path).MarshalJSON()
}

// AppendRegions adds one polygon feature per region to fc, tagged with role.
func AppendRegions(fc *geojson.FeatureCollection, role string, regions ...geometry.Region) *geojson.FeatureCollection {
	for _, region := range regions {
		feature := geojson.NewFeature(orb.Polygon{region.Ring()})
		feature.Properties["name"] = region.Name
		feature.Properties["role"] = role
		fc.Append(feature)
	}
	return fc
}
