package main

import (
	"sort"
	"sync"

	"github.com/golang/geo/r2"

	"serpentine/render"
)

// World holds all simulation state
type World struct {
	mu       sync.RWMutex
	Agents   map[string]*Agent
	Tick     int
	settings Settings
	spawned  int64
}

// NewWorld creates an empty world that spawns snakes from settings
func NewWorld(settings Settings) *World {
	return &World{
		Agents:   make(map[string]*Agent),
		settings: settings,
	}
}

// Spawn builds a snake and adds it to the world (caller must hold mu.Lock).
// Each spawn gets the next seed after sim.seed, so a run is reproducible for
// a given spawn order.
func (w *World) Spawn(id, name, owner string) (*Agent, error) {
	color := SnakeColors[int(w.spawned)%len(SnakeColors)]
	a, err := NewAgent(id, name, color, owner, w.settings.Snake, w.settings.Seed+w.spawned)
	if err != nil {
		return nil, err
	}
	w.spawned++
	w.Agents[id] = a
	return a, nil
}

// RemoveAgent removes a snake (caller must hold mu.Lock)
func (w *World) RemoveAgent(id string) {
	delete(w.Agents, id)
}

// OwnedBy returns the snake spawned by a viewer (caller must hold at least RLock)
func (w *World) OwnedBy(owner string) (*Agent, bool) {
	for _, a := range w.Agents {
		if a.Owner == owner {
			return a, true
		}
	}
	return nil, false
}

// SetGoal redirects the viewer's snake, clamped to the destination bounds.
// Returns false if the viewer has no snake.
func (w *World) SetGoal(owner string, p r2.Point) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.OwnedBy(owner)
	if !ok {
		return false
	}
	a.Snake.SetDestination(w.settings.Snake.Bounds.ClampPoint(p))
	return true
}

// sortedAgents returns agents in ID order (caller must hold at least RLock)
func (w *World) sortedAgents() []*Agent {
	agents := make([]*Agent, 0, len(w.Agents))
	for _, a := range w.Agents {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].ID < agents[j].ID
	})
	return agents
}

// Update advances every snake one tick and returns the number of
// destinations drawn (caller must hold mu.Lock).
func (w *World) Update() int {
	retargets := 0
	for _, a := range w.sortedAgents() {
		retargets += a.Update()
	}
	w.Tick++
	return retargets
}

// Snakes returns the wire form of every snake in ID order
// (caller must hold at least RLock).
func (w *World) Snakes() []SnakeDTO {
	agents := w.sortedAgents()
	result := make([]SnakeDTO, len(agents))
	for i, a := range agents {
		result[i] = a.ToDTO()
	}
	return result
}

// Layers returns render input for every snake in ID order
// (caller must hold at least RLock).
func (w *World) Layers() []render.Layer {
	agents := w.sortedAgents()
	layers := make([]render.Layer, len(agents))
	for i, a := range agents {
		layers[i] = render.Layer{View: a.Snake.View(), Color: a.Color}
	}
	return layers
}

// Leaderboard returns the top snakes by retarget count, ties broken by name
// (caller must hold at least RLock).
func (w *World) Leaderboard() []LeaderboardEntry {
	agents := w.sortedAgents()
	sort.SliceStable(agents, func(i, j int) bool {
		ri, rj := agents[i].Snake.Retargets(), agents[j].Snake.Retargets()
		if ri != rj {
			return ri > rj
		}
		return agents[i].Name < agents[j].Name
	})
	if len(agents) > LeaderboardSize {
		agents = agents[:LeaderboardSize]
	}
	entries := make([]LeaderboardEntry, len(agents))
	for i, a := range agents {
		entries[i] = LeaderboardEntry{ID: a.ID, Name: a.Name, Retargets: a.Snake.Retargets()}
	}
	return entries
}
