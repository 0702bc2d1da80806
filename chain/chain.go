package chain

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r2"
)

// ErrInvalidConfiguration is returned when a chain cannot be built from its config
var ErrInvalidConfiguration = errors.New("invalid chain configuration")

// Tail pulsation deltas, calibrated for a ~30 Hz tick
const (
	TailGrowLast     = 0.4
	TailGrowPrevious = 0.2

	// MinRadius is the floor ShrinkTail clamps to. A segment built smaller
	// than MinRadius uses its construction radius as the floor instead.
	MinRadius = 1.0
)

// initialDirection is the heading of a freshly built segment, so a chain
// whose segments start stacked on one point still unfolds along -X.
var initialDirection = r2.Point{X: -1}

// Placement is the initial position of a segment. A coordinate whose Has
// flag is false stays at 0.
type Placement struct {
	X, Y       float64
	HasX, HasY bool
}

// At returns a Placement with both coordinates set
func At(x, y float64) Placement {
	return Placement{X: x, Y: y, HasX: true, HasY: true}
}

// PlaceFunc computes the initial placement of segment i with the given radius
type PlaceFunc func(i int, radius float64) Placement

// Config describes a chain at construction time
type Config struct {
	Radii   []float64
	Offsets []float64 // nil means all zero
	Place   PlaceFunc // nil leaves every segment at the origin
	Outline [][]float64
}

// Chain is an ordered, fixed-length sequence of segments, index 0 = head
type Chain struct {
	segments []Segment
	floors   []float64
	outline  *Outline
}

// New validates cfg and builds the chain. Segments are placed but not yet
// bound; call UpdatePositions to settle them.
func New(cfg Config) (*Chain, error) {
	n := len(cfg.Radii)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 segments, got %d", ErrInvalidConfiguration, n)
	}
	if cfg.Offsets != nil && len(cfg.Offsets) != n {
		return nil, fmt.Errorf("%w: %d offsets for %d radii", ErrInvalidConfiguration, len(cfg.Offsets), n)
	}

	segments := make([]Segment, n)
	floors := make([]float64, n)
	for i, r := range cfg.Radii {
		if !(r > 0) {
			return nil, fmt.Errorf("%w: radius %d must be positive, got %v", ErrInvalidConfiguration, i, r)
		}
		segments[i].Radius = r
		segments[i].Direction = initialDirection
		floors[i] = min(MinRadius, r)
		if cfg.Offsets != nil {
			segments[i].Offset = cfg.Offsets[i]
		}
		if cfg.Place != nil {
			p := cfg.Place(i, r)
			if p.HasX {
				segments[i].Position.X = p.X
			}
			if p.HasY {
				segments[i].Position.Y = p.Y
			}
		}
	}

	c := &Chain{segments: segments, floors: floors}
	if cfg.Outline != nil {
		if err := c.SetOutline(cfg.Outline); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Len returns the number of segments
func (c *Chain) Len() int {
	return len(c.segments)
}

// At returns a pointer to segment i for the chain's owner to mutate
func (c *Chain) At(i int) *Segment {
	return &c.segments[i]
}

// Head returns the first segment
func (c *Chain) Head() *Segment {
	return &c.segments[0]
}

// Tail returns the last segment
func (c *Chain) Tail() *Segment {
	return &c.segments[len(c.segments)-1]
}

// Segments returns a copy of all segments for read-only consumers
func (c *Chain) Segments() []Segment {
	out := make([]Segment, len(c.segments))
	copy(out, c.segments)
	return out
}

// BindCircle points segment i at segment j and places it at j's radius
// plus i's own offset behind j. When the two centers coincide, i keeps its
// previous direction.
func (c *Chain) BindCircle(i, j int) {
	s := &c.segments[i]
	t := c.segments[j]
	prev := s.Direction
	s.PointToward(t.Position)
	if s.Direction == (r2.Point{}) {
		s.Direction = prev
	}
	s.Normalize()
	s.BindTo(t.Position, t.Radius)
}

// UpdatePositions propagates the bind constraint outward from pivot in both
// directions. The pivot segment itself never moves.
func (c *Chain) UpdatePositions(pivot int) {
	n := len(c.segments)
	if pivot < 0 || pivot >= n {
		return
	}
	for i := pivot - 1; i >= 0; i-- {
		c.BindCircle(i, i+1)
	}
	for i := pivot + 1; i < n; i++ {
		c.BindCircle(i, i-1)
	}
}

// GrowTail inflates the last two segments
func (c *Chain) GrowTail() {
	n := len(c.segments)
	c.segments[n-1].Radius += TailGrowLast
	c.segments[n-2].Radius += TailGrowPrevious
}

// ShrinkTail deflates the last two segments, never below their floor
func (c *Chain) ShrinkTail() {
	n := len(c.segments)
	c.shrink(n-1, TailGrowLast)
	c.shrink(n-2, TailGrowPrevious)
}

func (c *Chain) shrink(i int, delta float64) {
	c.segments[i].Radius = max(c.segments[i].Radius-delta, c.floors[i])
}
