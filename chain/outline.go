package chain

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// Outline holds the silhouette marker angles of each segment, split in two
// halves. Angles are relative to the segment direction, in [0, 2π).
//
//	Lower[i]: angles < π, walked head → tail
//	Upper[i]: angles ≥ π, walked tail → head
type Outline struct {
	Lower [][]float64
	Upper [][]float64
}

// BuildOutline normalizes and splits per-segment marker angles
func BuildOutline(markers [][]float64) Outline {
	o := Outline{
		Lower: make([][]float64, len(markers)),
		Upper: make([][]float64, len(markers)),
	}
	for i, angles := range markers {
		lower := make([]float64, 0, len(angles))
		upper := make([]float64, 0, len(angles))
		for _, a := range angles {
			a = NormalizeAngle(a)
			if a < math.Pi {
				lower = append(lower, a)
			} else {
				upper = append(upper, a)
			}
		}
		sort.Float64s(lower)
		sort.Float64s(upper)
		o.Lower[i] = lower
		o.Upper[i] = upper
	}
	return o
}

// SetOutline replaces the outline table. markers must have one entry per segment.
func (c *Chain) SetOutline(markers [][]float64) error {
	if len(markers) != len(c.segments) {
		return fmt.Errorf("%w: %d outline entries for %d segments", ErrInvalidConfiguration, len(markers), len(c.segments))
	}
	o := BuildOutline(markers)
	c.outline = &o
	return nil
}

// Outline returns the outline table, if one was configured
func (c *Chain) Outline() (Outline, bool) {
	if c.outline == nil {
		return Outline{}, false
	}
	return *c.outline, true
}

// Silhouette traces the closed outline: lower halves from head to tail, then
// upper halves from tail back to head. Returns nil without an outline table.
// Only meaningful after the tick's propagation has run.
func (c *Chain) Silhouette() []r2.Point {
	if c.outline == nil {
		return nil
	}
	var pts []r2.Point
	for i := range c.segments {
		s := &c.segments[i]
		for _, a := range c.outline.Lower[i] {
			pts = append(pts, s.SurfacePoint(RotateVector(s.Direction, a)))
		}
	}
	for i := len(c.segments) - 1; i >= 0; i-- {
		s := &c.segments[i]
		for _, a := range c.outline.Upper[i] {
			pts = append(pts, s.SurfacePoint(RotateVector(s.Direction, a)))
		}
	}
	return pts
}
