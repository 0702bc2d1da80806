package snake

import "fmt"

// ActionKind enumerates the steering states
type ActionKind int

const (
	GoStraight ActionKind = iota
	Forward
	TurnLeft
	TurnRight
	Target
	Look
	LookLeft
	LookRight
	Spiral
	Orient
	Reach
)

var actionNames = [...]string{
	GoStraight: "go-straight",
	Forward:    "forward",
	TurnLeft:   "turn-left",
	TurnRight:  "turn-right",
	Target:     "target",
	Look:       "look",
	LookLeft:   "look-left",
	LookRight:  "look-right",
	Spiral:     "spiral",
	Orient:     "orient",
	Reach:      "reach",
}

func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(k))
	}
	return actionNames[k]
}

// Action is the steering state. Count is only meaningful for Forward.
type Action struct {
	Kind  ActionKind
	Count int
}

// Stable reports whether the state ends the tick after acting.
// Transient states are re-evaluated within the same tick.
func (a Action) Stable() bool {
	switch a.Kind {
	case GoStraight, Forward, TurnLeft, TurnRight:
		return true
	}
	return false
}

func (a Action) String() string {
	if a.Kind == Forward {
		return fmt.Sprintf("forward(%d)", a.Count)
	}
	return a.Kind.String()
}
