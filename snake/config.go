package snake

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"serpentine/chain"
)

// Per-tick deltas, calibrated for a ~30 Hz tick
const (
	Acceleration = 0.1
	Deceleration = 0.05

	// ReachMargin is added to the head radius when testing arrival
	ReachMargin = 5.0
	// ForwardTicks is how long the head runs straight out of a blind spot
	ForwardTicks = 30

	BlindSpotMargin = 50.0
	BlindSpotScale  = 0.8

	EyeAngle = math.Pi / 4
	EyeScale = 0.75
)

// BlindSpotMetric selects how destination containment in a blind-spot
// circle is measured.
type BlindSpotMetric int

const (
	// BlindSpotEuclidean compares |d| against the radius
	BlindSpotEuclidean BlindSpotMetric = iota
	// BlindSpotSquared compares |d|² against the radius, as older builds did
	BlindSpotSquared
)

func (m BlindSpotMetric) String() string {
	if m == BlindSpotSquared {
		return "squared"
	}
	return "euclidean"
}

// ParseBlindSpotMetric maps a config string to a metric
func ParseBlindSpotMetric(s string) (BlindSpotMetric, error) {
	switch s {
	case "", "euclidean":
		return BlindSpotEuclidean, nil
	case "squared":
		return BlindSpotSquared, nil
	}
	return 0, fmt.Errorf("%w: unknown blind spot metric %q", chain.ErrInvalidConfiguration, s)
}

// Config describes a snake at construction time
type Config struct {
	Chain chain.Config // Place may be nil, ScatterPlacement is used then

	VisionAngle float64 // half-angle of the vision cone, radians
	TurnAngle   float64 // heading change per turning tick, radians
	MinSpeed    float64
	MaxSpeed    float64

	Destination r2.Point
	Bounds      r2.Rect // area new destinations are drawn from
	BlindSpot   BlindSpotMetric

	// Zero dwell disables the corresponding tail animation
	TailSize           TailSizeDwell
	TailShakeDwell     int
	TailShakeAmplitude float64
}

// Default body layout
var (
	DefaultRadii   = []float64{30, 48, 70, 60.5, 40, 30.5, 20, 20, 25.5}
	DefaultOffsets = []float64{0, 0, 13, -20.2, -10, -10, 15, 30, 0}
)

// DefaultBounds is the area destinations are drawn from
func DefaultBounds() r2.Rect {
	return r2.RectFromPoints(r2.Point{X: -400, Y: -300}, r2.Point{X: 400, Y: 300})
}

// DefaultConfig returns the stock snake
func DefaultConfig() Config {
	return Config{
		Chain: chain.Config{
			Radii:   append([]float64(nil), DefaultRadii...),
			Offsets: append([]float64(nil), DefaultOffsets...),
		},
		VisionAngle:        math.Pi / 10,
		TurnAngle:          math.Pi / 60,
		MinSpeed:           1,
		MaxSpeed:           5,
		Destination:        r2.Point{X: -250, Y: 0},
		Bounds:             DefaultBounds(),
		BlindSpot:          BlindSpotEuclidean,
		TailSize:           TailSizeDwell{Normal: 30, Grow: 15, Shrink: 15},
		TailShakeDwell:     10,
		TailShakeAmplitude: 0.04,
	}
}

// ScatterPlacement lays segments out along x, spaced by radius, with a
// random y in [-300, 300).
func ScatterPlacement(rng Random) chain.PlaceFunc {
	return func(i int, r float64) chain.Placement {
		return chain.At(float64(i)*r*3+100, rng.Range(-300, 300))
	}
}

func (c Config) validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{chain.ErrInvalidConfiguration}, args...)...)
	}
	switch {
	case !(c.VisionAngle > 0):
		return bad("vision angle must be positive, got %v", c.VisionAngle)
	case !(c.TurnAngle > 0 && c.TurnAngle < math.Pi):
		return bad("turn angle must be in (0, π), got %v", c.TurnAngle)
	case !(c.MinSpeed >= 0):
		return bad("min speed must be non-negative, got %v", c.MinSpeed)
	case !(c.MaxSpeed >= c.MinSpeed):
		return bad("max speed %v below min speed %v", c.MaxSpeed, c.MinSpeed)
	case c.Bounds.IsEmpty():
		return bad("destination bounds are empty")
	case c.BlindSpot != BlindSpotEuclidean && c.BlindSpot != BlindSpotSquared:
		return bad("unknown blind spot metric %d", int(c.BlindSpot))
	case c.TailShakeDwell < 0 || c.TailShakeAmplitude < 0:
		return bad("tail shake dwell and amplitude must be non-negative")
	}

	d := c.TailSize
	if d != (TailSizeDwell{}) && (d.Normal < 1 || d.Grow < 1 || d.Shrink < 1) {
		return bad("tail size dwell must be at least 1 tick per phase, got %+v", d)
	}
	return nil
}
