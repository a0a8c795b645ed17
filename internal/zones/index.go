// Package zones indexes no-fly zones for fast point and segment queries.
package zones

import (
	"errors"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"drone-flightpath/internal/geometry"
)

// boundsPadding widens every rectangle so that boundary-incident points and
// axis-aligned segments still produce a non-empty R-tree query.
const boundsPadding = 1e-9

// zoneEntry wraps a region for R-tree storage
type zoneEntry struct {
	region geometry.Region
	bbox   rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (z *zoneEntry) Bounds() rtreego.Rect {
	return z.bbox
}

// Index answers "is this position or move blocked" for a fixed set of
// regions. It is read-only after construction and safe for concurrent use.
type Index struct {
	tree    *rtreego.Rtree
	regions []geometry.Region
}

// NewIndex builds an index over regions. Regions whose bounds cannot be
// represented (non-finite coordinates) are skipped.
func NewIndex(regions []geometry.Region) *Index {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node
	kept := make([]geometry.Region, 0, len(regions))

	for _, region := range regions {
		bbox, err := rectFromBound(region.Bound())
		if err != nil {
			continue
		}
		tree.Insert(&zoneEntry{region: region, bbox: bbox})
		kept = append(kept, region)
	}

	return &Index{tree: tree, regions: kept}
}

// Len returns the number of indexed regions
func (ix *Index) Len() int {
	return len(ix.regions)
}

// Regions returns a copy of the indexed regions
func (ix *Index) Regions() []geometry.Region {
	out := make([]geometry.Region, len(ix.regions))
	copy(out, ix.regions)
	return out
}

// Containing returns the first region that contains p, boundary included.
func (ix *Index) Containing(p geometry.Position) (geometry.Region, bool) {
	for _, entry := range ix.query(orb.Bound{Min: p.Point(), Max: p.Point()}) {
		if geometry.IsInRegion(p, entry.region) {
			return entry.region, true
		}
	}
	return geometry.Region{}, false
}

// Contains reports whether any region contains p
func (ix *Index) Contains(p geometry.Position) bool {
	_, ok := ix.Containing(p)
	return ok
}

// Crosses reports whether the segment a-b touches any region.
func (ix *Index) Crosses(a, b geometry.Position) bool {
	bound := orb.Bound{Min: a.Point(), Max: a.Point()}.Extend(b.Point())
	for _, entry := range ix.query(bound) {
		if geometry.SegmentCrossesRegion(a, b, entry.region) {
			return true
		}
	}
	return false
}

func (ix *Index) query(bound orb.Bound) []*zoneEntry {
	if ix == nil || len(ix.regions) == 0 {
		return nil
	}
	rect, err := rectFromBound(bound)
	if err != nil {
		return nil
	}

	results := ix.tree.SearchIntersect(rect)
	entries := make([]*zoneEntry, 0, len(results))
	for _, item := range results {
		entries = append(entries, item.(*zoneEntry))
	}
	return entries
}

var errNonFiniteBound = errors.New("bound has non-finite coordinates")

// rectFromBound converts an orb bound to a padded rtreego rectangle
func rectFromBound(b orb.Bound) (rtreego.Rect, error) {
	for _, v := range []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return rtreego.Rect{}, errNonFiniteBound
		}
	}
	minX, minY := b.Min[0]-boundsPadding, b.Min[1]-boundsPadding
	width := math.Max(b.Max[0]-b.Min[0], 0) + 2*boundsPadding
	height := math.Max(b.Max[1]-b.Min[1], 0) + 2*boundsPadding

	return rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{width, height},
	)
}
