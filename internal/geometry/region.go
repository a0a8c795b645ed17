package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

var (
	// ErrDegenerateRegion is returned for polygons with fewer than 3 distinct vertices.
	ErrDegenerateRegion = errors.New("region needs at least 3 distinct vertices")
	// ErrInvalidCoordinate is returned for NaN or infinite vertices.
	ErrInvalidCoordinate = errors.New("region vertex is not a finite coordinate")
)

// boundaryEpsilon is how far (in degrees) a point may sit from an edge and
// still count as lying on it.
const boundaryEpsilon = 1e-12

// Region is a named simple polygon. Vertices may be given in either winding
// order, and the ring may repeat its first vertex at the end.
type Region struct {
	Name     string     `json:"name"`
	Vertices []Position `json:"vertices"`
}

// NewRegion builds a region from its vertices
func NewRegion(name string, vertices ...Position) Region {
	return Region{Name: name, Vertices: vertices}
}

// Validate checks that the region is a usable polygon.
func (r Region) Validate() error {
	for i, v := range r.Vertices {
		if !v.finite() {
			return fmt.Errorf("%w: vertex %d of %q", ErrInvalidCoordinate, i, r.Name)
		}
	}
	distinct := make(map[Position]struct{}, len(r.Vertices))
	for _, v := range r.Vertices {
		distinct[v] = struct{}{}
	}
	if len(distinct) < 3 {
		return fmt.Errorf("%w: %q has %d", ErrDegenerateRegion, r.Name, len(distinct))
	}
	return nil
}

// Ring returns the polygon as a closed orb ring
func (r Region) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(r.Vertices)+1)
	for _, v := range r.Vertices {
		ring = append(ring, v.Point())
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

// Bound returns the axis-aligned bounding box of the region
func (r Region) Bound() orb.Bound {
	return r.Ring().Bound()
}

// IsInRegion reports whether p lies inside r or on its boundary. Regions with
// fewer than 3 vertices contain nothing.
func IsInRegion(p Position, r Region) bool {
	n := len(r.Vertices)
	if n < 3 {
		return false
	}

	// Points on an edge or vertex are inside regardless of what the
	// crossing count would say.
	for i := 0; i < n; i++ {
		if onEdge(r.Vertices[i], r.Vertices[(i+1)%n], p) {
			return true
		}
	}

	count := 0
	for i := 0; i < n; i++ {
		v1 := r.Vertices[i]
		v2 := r.Vertices[(i+1)%n]

		if (v1.Lat > p.Lat) != (v2.Lat > p.Lat) {
			side := (p.Lng-v1.Lng)*(v2.Lat-v1.Lat) - (v2.Lng-v1.Lng)*(p.Lat-v1.Lat)
			if v2.Lat > v1.Lat {
				if side > 0 {
					count++
				}
			} else if side < 0 {
				count++
			}
		}
	}

	return count%2 == 1
}

// onEdge reports whether p lies on the segment a-b, within boundaryEpsilon
func onEdge(a, b, p Position) bool {
	if p.Lng < math.Min(a.Lng, b.Lng)-boundaryEpsilon || p.Lng > math.Max(a.Lng, b.Lng)+boundaryEpsilon ||
		p.Lat < math.Min(a.Lat, b.Lat)-boundaryEpsilon || p.Lat > math.Max(a.Lat, b.Lat)+boundaryEpsilon {
		return false
	}
	cross := (b.Lng-a.Lng)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lng-a.Lng)
	return math.Abs(cross) <= boundaryEpsilon*Distance(a, b)
}
