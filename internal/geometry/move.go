package geometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// HoverAngle is the angle reported for a hover move. Any angle outside
// [0, 360) passed to NextPosition is treated as hover.
const HoverAngle = 999.0

const (
	headingCount = 16
	headingStep  = 360.0 / headingCount
)

// Move is either one of the compass headings or a hover. Angles are measured
// in degrees counter-clockwise from East, so 90 is North and 180 is West.
type Move struct {
	angle float64
	hover bool
}

// Hover is the zero-displacement move.
var Hover = Move{hover: true}

// Headings lists the 16 flying moves in increasing angle order: 0, 22.5, ... 337.5.
var Headings = compassHeadings()

func compassHeadings() []Move {
	moves := make([]Move, headingCount)
	for i := range moves {
		moves[i] = Move{angle: float64(i) * headingStep}
	}
	return moves
}

// Heading returns the move for angle. Angles outside [0, 360) yield Hover.
func Heading(angle float64) Move {
	if isHoverAngle(angle) {
		return Hover
	}
	return Move{angle: angle}
}

func isHoverAngle(angle float64) bool {
	return !(angle >= 0 && angle < 360)
}

// IsHover reports whether the move leaves the position unchanged
func (m Move) IsHover() bool {
	return m.hover
}

// Angle returns the heading in degrees, or HoverAngle for a hover.
func (m Move) Angle() float64 {
	if m.hover {
		return HoverAngle
	}
	return m.angle
}

func (m Move) String() string {
	if m.hover {
		return "hover"
	}
	return fmt.Sprintf("%g°", m.angle)
}

// MarshalJSON encodes the move as its angle, with hover written as HoverAngle.
func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Angle())
}

func (m *Move) UnmarshalJSON(data []byte) error {
	var angle float64
	if err := json.Unmarshal(data, &angle); err != nil {
		return fmt.Errorf("move angle: %w", err)
	}
	*m = Heading(angle)
	return nil
}

// NextPosition returns p displaced by StepLength towards angle. An angle
// outside [0, 360) is a hover and returns p unchanged.
func NextPosition(p Position, angle float64) Position {
	if isHoverAngle(angle) {
		return p
	}
	theta := angle * math.Pi / 180
	return Position{
		Lng: p.Lng + StepLength*math.Cos(theta),
		Lat: p.Lat + StepLength*math.Sin(theta),
	}
}

// Apply returns the position reached by taking move m from p
func (p Position) Apply(m Move) Position {
	return NextPosition(p, m.Angle())
}
