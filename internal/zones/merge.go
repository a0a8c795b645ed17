package zones

import (
	"github.com/paulmach/orb"

	"drone-flightpath/internal/geometry"
)

// RemoveContained drops regions that lie entirely inside another region.
// The union of the remaining regions covers exactly the same area.
func RemoveContained(regions []geometry.Region) []geometry.Region {
	if len(regions) <= 1 {
		return regions
	}

	result := make([]geometry.Region, 0, len(regions))
	contained := make([]bool, len(regions))

	for i := 0; i < len(regions); i++ {
		if contained[i] {
			continue
		}

		for j := 0; j < len(regions); j++ {
			if i == j || contained[j] {
				continue
			}

			if isContainedIn(regions[i], regions[j]) {
				contained[i] = true
				break
			}

			if isContainedIn(regions[j], regions[i]) {
				contained[j] = true
			}
		}
	}

	for i, region := range regions {
		if !contained[i] {
			result = append(result, region)
		}
	}

	return result
}

// isContainedIn checks if region a is fully contained within region b. An
// edge of a that touches an edge of b makes the answer false, which keeps
// both regions for non-convex b.
func isContainedIn(a, b geometry.Region) bool {
	if len(a.Vertices) == 0 || len(b.Vertices) < 3 {
		return false
	}

	if !boundWithin(a.Bound(), b.Bound()) {
		return false
	}

	for _, v := range a.Vertices {
		if !geometry.IsInRegion(v, b) {
			return false
		}
	}

	n, m := len(a.Vertices), len(b.Vertices)
	for i := 0; i < n; i++ {
		a1, a2 := a.Vertices[i], a.Vertices[(i+1)%n]
		for j := 0; j < m; j++ {
			if geometry.SegmentsIntersect(a1, a2, b.Vertices[j], b.Vertices[(j+1)%m]) {
				return false
			}
		}
	}

	return true
}

// boundWithin checks if bound a is contained in bound b
func boundWithin(a, b orb.Bound) bool {
	return a.Min[0] >= b.Min[0] && a.Max[0] <= b.Max[0] &&
		a.Min[1] >= b.Min[1] && a.Max[1] <= b.Max[1]
}
