package geometry

import "math"

// SegmentsIntersect reports whether segment a1-a2 touches or crosses segment b1-b2
func SegmentsIntersect(a1, a2, b1, b2 Position) bool {
	d1 := direction(b1, b2, a1)
	d2 := direction(b1, b2, a2)
	d3 := direction(a1, a2, b1)
	d4 := direction(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	if d1 == 0 && withinBox(b1, b2, a1) {
		return true
	}
	if d2 == 0 && withinBox(b1, b2, a2) {
		return true
	}
	if d3 == 0 && withinBox(a1, a2, b1) {
		return true
	}
	if d4 == 0 && withinBox(a1, a2, b2) {
		return true
	}

	return false
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 Position) float64 {
	return (p3.Lng-p1.Lng)*(p2.Lat-p1.Lat) - (p2.Lng-p1.Lng)*(p3.Lat-p1.Lat)
}

// withinBox checks if q lies inside the bounding box of segment p-r
func withinBox(p, r, q Position) bool {
	return q.Lng <= math.Max(p.Lng, r.Lng) && q.Lng >= math.Min(p.Lng, r.Lng) &&
		q.Lat <= math.Max(p.Lat, r.Lat) && q.Lat >= math.Min(p.Lat, r.Lat)
}

// SegmentCrossesRegion reports whether the straight segment a-b touches the
// region anywhere, including at its endpoints.
func SegmentCrossesRegion(a, b Position, r Region) bool {
	if IsInRegion(a, r) || IsInRegion(b, r) {
		return true
	}

	n := len(r.Vertices)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		if SegmentsIntersect(a, b, r.Vertices[i], r.Vertices[(i+1)%n]) {
			return true
		}
	}

	return false
}
