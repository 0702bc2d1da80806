package chain

import (
	"math"

	"github.com/golang/geo/r2"
)

// OrientationEpsilon is the relative band around zero inside which
// OrientationTest reports Colinear.
const OrientationEpsilon = 1e-9

// Orientation classifies a point against a directed line
type Orientation int

const (
	Colinear Orientation = iota
	Left
	Right
)

func (o Orientation) String() string {
	switch o {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "colinear"
	}
}

// VectorLength returns the Euclidean norm of v
func VectorLength(v r2.Point) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// AngleBetween returns the unsigned angle between a and b in [0, π].
// A zero operand has no direction, so the angle is reported as 0.
func AngleBetween(a, b r2.Point) float64 {
	la, lb := VectorLength(a), VectorLength(b)
	if la == 0 || lb == 0 {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	// Round-off can push |cos| slightly past 1
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}

// OrientationTest classifies c relative to the directed line a→b using the
// sign of (b-a)×(c-a). For a=(0,0), b=(1,0), c=(0,1) the result is Left.
func OrientationTest(a, b, c r2.Point) Orientation {
	ab := b.Sub(a)
	ac := c.Sub(a)
	cross := ab.Cross(ac)
	band := OrientationEpsilon * math.Max(1, VectorLength(ab)*VectorLength(ac))
	switch {
	case cross > band:
		return Left
	case cross < -band:
		return Right
	default:
		return Colinear
	}
}

// RotateVector rotates v by theta radians. Positive theta is clockwise in a
// y-up frame, which is counter-clockwise on a y-down screen; rotating by
// -theta therefore turns v toward points OrientationTest calls Left.
func RotateVector(v r2.Point, theta float64) r2.Point {
	sin, cos := math.Sincos(theta)
	return r2.Point{
		X: v.X*cos + v.Y*sin,
		Y: -v.X*sin + v.Y*cos,
	}
}

// NormalizeAngle wraps a into [0, 2π)
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	// -tiny + 2π rounds to exactly 2π
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}
