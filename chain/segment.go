package chain

import (
	"github.com/golang/geo/r2"
)

// Segment is one circular link of the body
type Segment struct {
	Radius    float64
	Offset    float64  // signed gap added to the bind distance
	Position  r2.Point
	Direction r2.Point // heading; unit length after Normalize unless zero
	Marker    bool     // passthrough debug flag, ringed by the SVG skeleton overlay
}

// SetRadius sets the circle radius
func (s *Segment) SetRadius(r float64) {
	s.Radius = r
}

// SetOffset sets the signed bind gap
func (s *Segment) SetOffset(o float64) {
	s.Offset = o
}

// PointToward aims the segment at target. The direction is left
// unnormalized, its length is the distance to target.
func (s *Segment) PointToward(target r2.Point) {
	s.Direction = target.Sub(s.Position)
}

// Normalize scales the direction to unit length. A zero direction is left
// untouched.
func (s *Segment) Normalize() {
	l := VectorLength(s.Direction)
	if l == 0 {
		return
	}
	s.Direction = s.Direction.Mul(1 / l)
}

// BindTo places the segment behind target along its own direction, at
// distance+Offset from it.
func (s *Segment) BindTo(target r2.Point, distance float64) {
	s.Position = target.Sub(s.Direction.Mul(distance + s.Offset))
}

// SurfacePoint returns the point on the circumference in direction unit
func (s *Segment) SurfacePoint(unit r2.Point) r2.Point {
	return s.Position.Add(unit.Mul(s.Radius))
}
