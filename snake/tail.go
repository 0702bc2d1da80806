package snake

import (
	"math"

	"serpentine/chain"
)

// TailPhase is the tail pulsation state
type TailPhase int

const (
	TailNormal TailPhase = iota
	TailGrow
	TailShrink
)

func (p TailPhase) String() string {
	switch p {
	case TailGrow:
		return "grow"
	case TailShrink:
		return "shrink"
	default:
		return "normal"
	}
}

// TailSizeDwell is the number of ticks spent in each pulsation phase
type TailSizeDwell struct {
	Normal int
	Grow   int
	Shrink int
}

// TailSize cycles Normal → Grow → Shrink → Normal, inflating and deflating
// the last two segments while in Grow and Shrink.
type TailSize struct {
	Phase TailPhase
	Count int
	dwell TailSizeDwell
}

// NewTailSize starts a pulsation cycle in the Normal phase
func NewTailSize(d TailSizeDwell) TailSize {
	return TailSize{Phase: TailNormal, Count: d.Normal, dwell: d}
}

// Step advances the cycle by one tick
func (t *TailSize) Step(c *chain.Chain) {
	switch t.Phase {
	case TailGrow:
		c.GrowTail()
	case TailShrink:
		c.ShrinkTail()
	}

	t.Count--
	if t.Count > 0 {
		return
	}
	switch t.Phase {
	case TailNormal:
		t.Phase, t.Count = TailGrow, t.dwell.Grow
	case TailGrow:
		t.Phase, t.Count = TailShrink, t.dwell.Shrink
	case TailShrink:
		t.Phase, t.Count = TailNormal, t.dwell.Normal
	}
}

// ShakeSide is the current sway direction
type ShakeSide int

const (
	ShakeLeft ShakeSide = iota
	ShakeRight
)

func (s ShakeSide) String() string {
	if s == ShakeRight {
		return "right"
	}
	return "left"
}

// TailShake alternates the last segment sideways, perpendicular to its own
// heading, by Amplitude times its radius each tick.
type TailShake struct {
	Side      ShakeSide
	Count     int
	Dwell     int
	Amplitude float64
}

// NewTailShake starts swaying left
func NewTailShake(dwell int, amplitude float64) TailShake {
	return TailShake{Side: ShakeLeft, Count: dwell, Dwell: dwell, Amplitude: amplitude}
}

// Step nudges the tail and flips side once the dwell runs out
func (t *TailShake) Step(c *chain.Chain) {
	tail := c.Tail()
	angle := -math.Pi / 2
	if t.Side == ShakeRight {
		angle = math.Pi / 2
	}
	side := chain.RotateVector(tail.Direction, angle)
	tail.Position = tail.Position.Add(side.Mul(t.Amplitude * tail.Radius))

	t.Count--
	if t.Count > 0 {
		return
	}
	if t.Side == ShakeLeft {
		t.Side = ShakeRight
	} else {
		t.Side = ShakeLeft
	}
	t.Count = t.Dwell
}
