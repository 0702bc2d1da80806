package main

import (
	"github.com/golang/geo/r2"

	"serpentine/snake"
)

// Agent is a named snake living in the world. Owner is the viewer ID that
// spawned it, empty for autonomous snakes.
type Agent struct {
	ID    string
	Name  string
	Color string
	Owner string
	Snake *snake.Snake

	lastRetargets int
}

// NewAgent builds the snake from cfg with its own seeded random source
func NewAgent(id, name, color, owner string, cfg snake.Config, seed int64) (*Agent, error) {
	s, err := snake.New(cfg, snake.NewRandom(seed))
	if err != nil {
		return nil, err
	}
	return &Agent{
		ID:    id,
		Name:  name,
		Color: color,
		Owner: owner,
		Snake: s,
	}, nil
}

// Update advances the snake one tick and returns how many destinations it
// drew during the tick.
func (a *Agent) Update() int {
	a.Snake.Update()
	n := a.Snake.Retargets() - a.lastRetargets
	a.lastRetargets = a.Snake.Retargets()
	return n
}

// ToDTO converts the agent to its wire form.
// Coordinates are rounded to 1 decimal place to reduce wire size.
func (a *Agent) ToDTO() SnakeDTO {
	v := a.Snake.View()

	segs := make([][3]float64, len(v.Segments))
	for i, s := range v.Segments {
		segs[i] = [3]float64{roundTo1(s.Position.X), roundTo1(s.Position.Y), roundTo1(s.Radius)}
	}
	var outline [][2]float64
	if len(v.Silhouette) > 0 {
		outline = make([][2]float64, len(v.Silhouette))
		for i, p := range v.Silhouette {
			outline[i] = pair(p)
		}
	}
	owned := 0
	if a.Owner != "" {
		owned = 1
	}
	return SnakeDTO{
		ID:          a.ID,
		Name:        a.Name,
		Color:       a.Color,
		Owned:       owned,
		Segments:    segs,
		Eyes:        [2][2]float64{pair(v.Eyes[0]), pair(v.Eyes[1])},
		Destination: pair(v.Destination),
		Silhouette:  outline,
		Action:      v.Action.Kind.String(),
		Speed:       roundTo1(v.Speed),
		Retargets:   a.Snake.Retargets(),
	}
}

func pair(p r2.Point) [2]float64 {
	return [2]float64{roundTo1(p.X), roundTo1(p.Y)}
}
