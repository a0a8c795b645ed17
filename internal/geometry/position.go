package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

const (
	// StepLength is the length of a single move, in degrees.
	StepLength = 0.00015

	// CloseThreshold is the arrival tolerance. It is equal to StepLength: a
	// position is close to a target exactly when one more move could reach it.
	CloseThreshold = StepLength
)

// Position is a longitude/latitude pair. Distances treat it as a plain
// Cartesian point.
type Position struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// FromPoint converts an orb point ([lng, lat]) to a Position
func FromPoint(pt orb.Point) Position {
	return Position{Lng: pt[0], Lat: pt[1]}
}

// Point converts the position to an orb point
func (p Position) Point() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

func (p Position) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lng, p.Lat)
}

func (p Position) finite() bool {
	return !math.IsNaN(p.Lng) && !math.IsNaN(p.Lat) &&
		!math.IsInf(p.Lng, 0) && !math.IsInf(p.Lat, 0)
}

// Distance calculates Euclidean distance between two positions
func Distance(a, b Position) float64 {
	return math.Hypot(a.Lng-b.Lng, a.Lat-b.Lat)
}

// IsClose reports whether a and b are strictly closer than CloseThreshold
func IsClose(a, b Position) bool {
	return Distance(a, b) < CloseThreshold
}

// DistanceMeters calculates the distance in meters between two positions on
// the Earth's surface using the Haversine formula.
func DistanceMeters(a, b Position) float64 {
	return orbgeo.DistanceHaversine(a.Point(), b.Point())
}
