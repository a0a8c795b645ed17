package planner

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/simplify"

	"drone-flightpath/internal/geometry"
)

// Step is one move of a flight: the position it starts from, the move taken
// and the position it ends at.
type Step struct {
	From geometry.Position `json:"from"`
	Move geometry.Move     `json:"angle"`
	To   geometry.Position `json:"to"`
}

// Path is an ordered flight from a start position to a position close to the
// destination. An empty Path means no route.
type Path []Step

// Empty reports whether the path has no steps
func (p Path) Empty() bool {
	return len(p) == 0
}

// Len returns the number of moves
func (p Path) Len() int {
	return len(p)
}

// Waypoints returns the start position followed by the position reached by
// each step. An empty path has no waypoints.
func (p Path) Waypoints() []geometry.Position {
	if len(p) == 0 {
		return []geometry.Position{}
	}
	points := make([]geometry.Position, 0, len(p)+1)
	points = append(points, p[0].From)
	for _, step := range p {
		points = append(points, step.To)
	}
	return points
}

// End returns the final position of the path
func (p Path) End() (geometry.Position, bool) {
	if len(p) == 0 {
		return geometry.Position{}, false
	}
	return p[len(p)-1].To, true
}

// WithHover returns a copy of the path with a hover step appended at its end,
// which is how the drone marks arrival. An empty path stays empty.
func (p Path) WithHover() Path {
	end, ok := p.End()
	if !ok {
		return p
	}
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Step{From: end, Move: geometry.Hover, To: end})
}

// LineString returns the waypoints as an orb line string
func (p Path) LineString() orb.LineString {
	waypoints := p.Waypoints()
	ls := make(orb.LineString, 0, len(waypoints))
	for _, w := range waypoints {
		ls = append(ls, w.Point())
	}
	return ls
}

// cornerTolerance is far below StepLength, so only waypoints lying on a
// straight run are dropped.
const cornerTolerance = 1e-9

// Corners returns the waypoints where the heading changes, plus the start and
// the end. Flying straight between corners retraces the path exactly.
func (p Path) Corners() []geometry.Position {
	if len(p) == 0 {
		return []geometry.Position{}
	}
	ls := simplify.DouglasPeucker(cornerTolerance).LineString(p.LineString())
	corners := make([]geometry.Position, 0, len(ls))
	for _, pt := range ls {
		corners = append(corners, geometry.FromPoint(pt))
	}
	return corners
}

// LengthMeters returns the flown distance in meters
func (p Path) LengthMeters() float64 {
	if len(p) == 0 {
		return 0
	}
	return orbgeo.LengthHaversine(p.LineString())
}
