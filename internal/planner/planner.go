// Package planner finds step-by-step drone routes that avoid no-fly zones and
// never leave the central area once inside it.
package planner

import (
	"fmt"

	"drone-flightpath/internal/geometry"
	"drone-flightpath/internal/zones"
)

const (
	// DefaultMaxExpansions bounds the number of states a search expands.
	DefaultMaxExpansions = 250000

	// DefaultRevisitTolerance is the grid size used to decide that two
	// positions reached along different routes are the same state.
	DefaultRevisitTolerance = geometry.StepLength / 10
)

// Stats describes the work done by one search.
type Stats struct {
	Expansions   int  `json:"expansions"`
	Generated    int  `json:"generated"`
	BoundReached bool `json:"boundReached"`
}

// Option configures a Planner
type Option func(*Planner)

// WithMaxExpansions sets the expansion bound. Values <= 0 keep the default.
func WithMaxExpansions(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.maxExpansions = n
		}
	}
}

// WithRevisitTolerance sets the positional tolerance for revisit detection.
// Values <= 0 keep the default.
func WithRevisitTolerance(tol float64) Option {
	return func(p *Planner) {
		if tol > 0 {
			p.revisitTolerance = tol
		}
	}
}

// Planner holds the static airspace for a series of searches. It is
// immutable after New and safe for concurrent use.
type Planner struct {
	centralArea      geometry.Region
	zones            *zones.Index
	maxExpansions    int
	revisitTolerance float64
}

// New validates the airspace and prepares a planner. Every region must be a
// proper polygon; the first invalid one is reported.
func New(centralArea geometry.Region, noFlyZones []geometry.Region, opts ...Option) (*Planner, error) {
	if err := centralArea.Validate(); err != nil {
		return nil, fmt.Errorf("central area: %w", err)
	}
	for i, zone := range noFlyZones {
		if err := zone.Validate(); err != nil {
			return nil, fmt.Errorf("no-fly zone %d: %w", i, err)
		}
	}

	p := &Planner{
		centralArea:      centralArea,
		zones:            zones.NewIndex(zones.RemoveContained(noFlyZones)),
		maxExpansions:    DefaultMaxExpansions,
		revisitTolerance: DefaultRevisitTolerance,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// CentralArea returns the confinement region
func (p *Planner) CentralArea() geometry.Region {
	return p.centralArea
}

// NoFlyZones returns the zones the planner avoids, after contained zones
// have been dropped.
func (p *Planner) NoFlyZones() []geometry.Region {
	return p.zones.Regions()
}

// InNoFlyZone reports whether pos lies inside or on the edge of any no-fly zone
func (p *Planner) InNoFlyZone(pos geometry.Position) bool {
	return p.zones.Contains(pos)
}

// FindPath returns the route from start to dest, or an empty Path when start
// is nil, start is inside a no-fly zone, start is already close to dest, or
// no route exists within the search bound.
func (p *Planner) FindPath(start *geometry.Position, dest geometry.Position) Path {
	path, _ := p.Search(start, dest)
	return path
}

// Search is FindPath that also reports search statistics.
func (p *Planner) Search(start *geometry.Position, dest geometry.Position) (Path, Stats) {
	if start == nil {
		return nil, Stats{}
	}
	if p.zones.Contains(*start) {
		return nil, Stats{}
	}
	if geometry.IsClose(*start, dest) {
		return nil, Stats{}
	}
	return p.search(*start, dest)
}

// FindPath plans a single route without keeping a Planner around. The error
// is non-nil only when a region is invalid.
func FindPath(start *geometry.Position, dest geometry.Position, noFlyZones []geometry.Region, centralArea geometry.Region) (Path, error) {
	p, err := New(centralArea, noFlyZones)
	if err != nil {
		return nil, err
	}
	return p.FindPath(start, dest), nil
}
