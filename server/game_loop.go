package main

import (
	"context"
	"encoding/json"
	"time"
)

// GameLoop drives the simulation at a fixed tick rate
type GameLoop struct {
	world    *World
	conns    *ConnManager
	bots     *BotManager
	metrics  *Metrics
	tickRate int
}

// NewGameLoop creates a game loop bound to world and conn manager and fills
// the world with its initial bots.
func NewGameLoop(world *World, conns *ConnManager, metrics *Metrics, settings Settings) (*GameLoop, error) {
	bm := NewBotManager(world, settings.Snakes)
	world.mu.Lock()
	err := bm.MaintainBotCount()
	world.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &GameLoop{
		world:    world,
		conns:    conns,
		bots:     bm,
		metrics:  metrics,
		tickRate: settings.TickRate,
	}, nil
}

// Run starts the fixed-timestep loop and blocks until ctx is cancelled
func (gl *GameLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(gl.tickRate))
	defer ticker.Stop()
	Logger.Info().Int("tickRate", gl.tickRate).Msg("game loop started")

	for {
		select {
		case <-ctx.Done():
			Logger.Info().Msg("game loop stopped")
			return
		case <-ticker.C:
			gl.tick(ctx)
		}
	}
}

// tick executes a single simulation update and broadcasts the result
func (gl *GameLoop) tick(ctx context.Context) {
	w := gl.world
	w.mu.Lock()

	// 1. Let bots yield to (or refill after) viewer snakes
	if err := gl.bots.MaintainBotCount(); err != nil {
		Logger.Error().Err(err).Msg("maintaining bot count")
	}

	// 2. Steer and move every snake
	retargets := w.Update()

	msg := StateMsg{
		Type:        MsgState,
		Tick:        w.Tick,
		Snakes:      w.Snakes(),
		Leaderboard: w.Leaderboard(),
	}
	w.mu.Unlock()

	if gl.metrics != nil {
		gl.metrics.Tick(ctx, retargets)
	}
	TickSample.Trace().Int("tick", msg.Tick).Int("snakes", len(msg.Snakes)).Int("retargets", retargets).Msg("tick")

	// 3. Broadcast to every viewer
	gl.broadcast(msg)
}

// broadcast encodes msg once and sends it to each connected viewer
func (gl *GameLoop) broadcast(msg StateMsg) {
	data, err := json.Marshal(msg)
	if err != nil {
		Logger.Error().Err(err).Msg("encoding state")
		return
	}
	for _, c := range gl.conns.Snapshot() {
		if err := c.SendRaw(data); err != nil {
			Logger.Warn().Err(err).Str("viewer", c.ID).Msg("send error")
		}
	}
}
