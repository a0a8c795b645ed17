// Package geodata reads region files and writes flight paths as GeoJSON.
package geodata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"drone-flightpath/internal/geometry"
)

// ErrNoRegions is returned when a file holds no polygon at all.
var ErrNoRegions = errors.New("no regions found")

// LoadRegions reads regions from a GeoJSON file or a named-region JSON file.
func LoadRegions(path string) ([]geometry.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	regions, err := ParseRegions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return regions, nil
}

// LoadRegion reads the first region of a file
func LoadRegion(path string) (geometry.Region, error) {
	regions, err := LoadRegions(path)
	if err != nil {
		return geometry.Region{}, err
	}
	if len(regions) == 0 {
		return geometry.Region{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoRegions)
	}
	return regions[0], nil
}

// LoadRegionsDir loads every *.geojson and *.json file in dir. Files that
// cannot be read or parsed are logged and skipped.
func LoadRegionsDir(dir string) ([]geometry.Region, error) {
	var files []string
	for _, pattern := range []string{"*.geojson", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}

	log.Printf("Loading no-fly zones from %d files...\n", len(files))

	var all []geometry.Region
	for _, file := range files {
		regions, err := LoadRegions(file)
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v\n", file, err)
			continue
		}
		all = append(all, regions...)
		log.Printf("   ✅ Loaded %d polygons from %s\n", len(regions), filepath.Base(file))
	}

	log.Printf("Total no-fly zones loaded: %d polygons\n", len(all))
	return all, nil
}

// ParseRegions decodes regions from one of:
//   - a GeoJSON FeatureCollection, Feature, Polygon or MultiPolygon
//   - a JSON array of {"name": ..., "vertices": [{"lng": ..., "lat": ...}]}
//   - a single such named region object
func ParseRegions(data []byte) ([]geometry.Region, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoRegions
	}

	if data[0] == '[' {
		var regions []geometry.Region
		if err := json.Unmarshal(data, &regions); err != nil {
			return nil, fmt.Errorf("failed to parse named regions: %w", err)
		}
		return regions, nil
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse regions: %w", err)
	}

	switch probe.Type {
	case "":
		var region geometry.Region
		if err := json.Unmarshal(data, &region); err != nil {
			return nil, fmt.Errorf("failed to parse named region: %w", err)
		}
		return []geometry.Region{region}, nil

	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feature collection: %w", err)
		}
		var regions []geometry.Region
		for i, feature := range fc.Features {
			regions = append(regions, regionsFromFeature(feature, i)...)
		}
		return regions, nil

	case "Feature":
		feature, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feature: %w", err)
		}
		return regionsFromFeature(feature, 0), nil

	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse geometry: %w", err)
		}
		return regionsFromGeometry("region-0", g.Coordinates), nil
	}
}

func regionsFromFeature(feature *geojson.Feature, i int) []geometry.Region {
	name := feature.Properties.MustString("name", fmt.Sprintf("region-%d", i))
	return regionsFromGeometry(name, feature.Geometry)
}

// regionsFromGeometry converts polygon geometries to regions. Only the outer
// ring of each polygon is used; other geometry types are ignored.
func regionsFromGeometry(name string, g orb.Geometry) []geometry.Region {
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) == 0 {
			return nil
		}
		return []geometry.Region{regionFromRing(name, g[0])}

	case orb.MultiPolygon:
		var regions []geometry.Region
		for k, polygon := range g {
			if len(polygon) == 0 {
				continue
			}
			regions = append(regions, regionFromRing(fmt.Sprintf("%s#%d", name, k), polygon[0]))
		}
		return regions
	}
	return nil
}

func regionFromRing(name string, ring orb.Ring) geometry.Region {
	region := geometry.Region{Name: strings.TrimSpace(name), Vertices: make([]geometry.Position, 0, len(ring))}
	for _, pt := range ring {
		region.Vertices = append(region.Vertices, geometry.FromPoint(pt))
	}
	return region
}
