package snake

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"serpentine/chain"
)

// Snake steers the head of a chain toward a wandering destination.
// It owns the chain exclusively and is not safe for concurrent use.
type Snake struct {
	chain       *chain.Chain
	rng         Random
	destination r2.Point
	bounds      r2.Rect
	visionAngle float64
	turnAngle   float64
	minSpeed    float64
	maxSpeed    float64
	speed       float64
	blindSpot   BlindSpotMetric

	action    Action
	tailSize  *TailSize
	tailShake *TailShake

	retargets int
	ticks     int
}

// New builds the chain from cfg, aims the head at the destination and
// settles the body around it.
func New(cfg Config, rng Random) (*Snake, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", chain.ErrInvalidConfiguration)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ccfg := cfg.Chain
	if ccfg.Place == nil {
		ccfg.Place = ScatterPlacement(rng)
	}
	c, err := chain.New(ccfg)
	if err != nil {
		return nil, err
	}

	s := &Snake{
		chain:       c,
		rng:         rng,
		destination: cfg.Destination,
		bounds:      cfg.Bounds,
		visionAngle: cfg.VisionAngle,
		turnAngle:   cfg.TurnAngle,
		minSpeed:    cfg.MinSpeed,
		maxSpeed:    cfg.MaxSpeed,
		speed:       cfg.MinSpeed,
		blindSpot:   cfg.BlindSpot,
		action:      Action{Kind: Look},
	}
	if cfg.TailSize != (TailSizeDwell{}) {
		ts := NewTailSize(cfg.TailSize)
		s.tailSize = &ts
	}
	if cfg.TailShakeDwell > 0 {
		sh := NewTailShake(cfg.TailShakeDwell, cfg.TailShakeAmplitude)
		s.tailShake = &sh
	}

	head := c.Head()
	head.PointToward(s.destination)
	head.Normalize()
	c.UpdatePositions(0)
	return s, nil
}

// Update runs one tick: resolve steering, move the head, propagate the
// body, then animate the tail.
func (s *Snake) Update() {
	for {
		s.transition()
		s.extraAction()
		s.moveAction()
		if s.action.Stable() {
			break
		}
	}

	head := s.chain.Head()
	head.Normalize()
	head.Position = head.Position.Add(head.Direction.Mul(s.speed))
	s.chain.UpdatePositions(0)

	if s.tailSize != nil {
		s.tailSize.Step(s.chain)
	}
	if s.tailShake != nil {
		s.tailShake.Step(s.chain)
	}
	s.ticks++
}

func (s *Snake) transition() {
	head := s.chain.Head()
	switch s.action.Kind {
	case Target:
		s.action = Action{Kind: Look}
	case Look:
		if s.destinationAngle() < s.visionAngle {
			s.action = Action{Kind: GoStraight}
		} else {
			s.action = Action{Kind: Spiral}
		}
	case Spiral:
		if s.InBlindSpot(s.destination) {
			s.action = Action{Kind: Forward, Count: ForwardTicks}
		} else {
			s.action = Action{Kind: Orient}
		}
	case Forward:
		if s.action.Count > 0 {
			s.action.Count--
		} else {
			s.action = Action{Kind: Orient}
		}
	case Orient:
		ahead := head.Position.Add(head.Direction)
		if chain.OrientationTest(head.Position, ahead, s.destination) == chain.Left {
			s.action = Action{Kind: TurnLeft}
		} else {
			s.action = Action{Kind: TurnRight}
		}
	case LookLeft:
		if s.destinationAngle() > s.visionAngle/4 {
			s.action = Action{Kind: TurnLeft}
		} else {
			s.action = Action{Kind: GoStraight}
		}
	case LookRight:
		if s.destinationAngle() > s.visionAngle/4 {
			s.action = Action{Kind: TurnRight}
		} else {
			s.action = Action{Kind: GoStraight}
		}
	case TurnLeft:
		s.action = Action{Kind: LookLeft}
	case TurnRight:
		s.action = Action{Kind: LookRight}
	case GoStraight:
		s.action = Action{Kind: Reach}
	case Reach:
		if s.ReachedDestination() {
			s.action = Action{Kind: Target}
		} else {
			s.action = Action{Kind: GoStraight}
		}
	}
}

func (s *Snake) extraAction() {
	if s.action.Kind != Target {
		return
	}
	lo, hi := s.bounds.Lo(), s.bounds.Hi()
	s.destination = r2.Point{
		X: s.rng.Range(lo.X, hi.X),
		Y: s.rng.Range(lo.Y, hi.Y),
	}
	s.retargets++
}

func (s *Snake) moveAction() {
	head := s.chain.Head()
	switch s.action.Kind {
	case GoStraight:
		head.PointToward(s.destination)
		s.accelerate(Acceleration)
	case TurnLeft:
		head.Direction = chain.RotateVector(head.Direction, -s.turnAngle)
		s.accelerate(-Deceleration)
	case TurnRight:
		head.Direction = chain.RotateVector(head.Direction, s.turnAngle)
		s.accelerate(-Deceleration)
	case Forward:
		s.accelerate(Acceleration)
	}
}

func (s *Snake) accelerate(delta float64) {
	s.speed = math.Max(s.minSpeed, math.Min(s.maxSpeed, s.speed+delta))
}

func (s *Snake) destinationAngle() float64 {
	head := s.chain.Head()
	return chain.AngleBetween(head.Direction, s.destination.Sub(head.Position))
}

// BlindSpotRadius approximates the turning circle at the current turn rate,
// inflated by BlindSpotMargin.
func (s *Snake) BlindSpotRadius() float64 {
	return s.maxSpeed/(2*math.Sin(s.turnAngle)) + BlindSpotMargin
}

// BlindSpots returns the centers of the two turning circles beside the head
func (s *Snake) BlindSpots() [2]r2.Point {
	head := s.chain.Head()
	reach := s.BlindSpotRadius() * BlindSpotScale
	return [2]r2.Point{
		head.Position.Add(chain.RotateVector(head.Direction, math.Pi/2).Mul(reach)),
		head.Position.Add(chain.RotateVector(head.Direction, -math.Pi/2).Mul(reach)),
	}
}

// InBlindSpot reports whether p lies in either turning circle, where the
// head cannot steer onto it without overshooting.
func (s *Snake) InBlindSpot(p r2.Point) bool {
	r := s.BlindSpotRadius()
	for _, center := range s.BlindSpots() {
		d := chain.VectorLength(p.Sub(center))
		if s.blindSpot == BlindSpotSquared {
			d *= d
		}
		if d < r {
			return true
		}
	}
	return false
}

// ReachedDestination reports whether the head is within its radius plus
// ReachMargin of the destination.
func (s *Snake) ReachedDestination() bool {
	head := s.chain.Head()
	return chain.VectorLength(s.destination.Sub(head.Position)) < head.Radius+ReachMargin
}

// SetDestination redirects the snake. Steering picks it up on the next tick.
func (s *Snake) SetDestination(p r2.Point) {
	s.destination = p
}

// Destination returns the current target point
func (s *Snake) Destination() r2.Point {
	return s.destination
}

// Action returns the current steering state
func (s *Snake) Action() Action {
	return s.action
}

// Speed returns the current head speed
func (s *Snake) Speed() float64 {
	return s.speed
}

// Retargets counts destinations drawn since construction
func (s *Snake) Retargets() int {
	return s.retargets
}

// Ticks counts completed updates
func (s *Snake) Ticks() int {
	return s.ticks
}

// TailSize returns the pulsation state, if enabled
func (s *Snake) TailSize() (TailSize, bool) {
	if s.tailSize == nil {
		return TailSize{}, false
	}
	return *s.tailSize, true
}

// TailShake returns the sway state, if enabled
func (s *Snake) TailShake() (TailShake, bool) {
	if s.tailShake == nil {
		return TailShake{}, false
	}
	return *s.tailShake, true
}

// Eyes returns the two eye surface points on the head
func (s *Snake) Eyes() [2]r2.Point {
	head := s.chain.Head()
	eye := func(angle float64) r2.Point {
		return head.Position.Add(chain.RotateVector(head.Direction, angle).Mul(head.Radius * EyeScale))
	}
	return [2]r2.Point{eye(-EyeAngle), eye(EyeAngle)}
}

// View is a render-ready copy of the snake's state
type View struct {
	Segments    []chain.Segment
	Destination r2.Point
	Eyes        [2]r2.Point
	Silhouette  []r2.Point
	Action      Action
	Speed       float64
}

// View snapshots the snake for renderers
func (s *Snake) View() View {
	return View{
		Segments:    s.chain.Segments(),
		Destination: s.destination,
		Eyes:        s.Eyes(),
		Silhouette:  s.chain.Silhouette(),
		Action:      s.action,
		Speed:       s.speed,
	}
}
