package main

import (
	"github.com/google/uuid"
)

// botNames is the pool of names for autonomous snakes
var botNames = []string{
	"Viper", "Cobra", "Mamba", "Python", "Anaconda",
	"Sidewinder", "Boomslang", "Taipan", "Krait", "Adder",
	"Rattler", "Copperhead", "Racer", "Kingsnake", "Garter",
}

// BotManager keeps the world populated with autonomous snakes. Bots give up
// their place to viewer-owned snakes and come back when viewers leave, so
// the population stays at the configured size.
type BotManager struct {
	world   *World
	target  int
	bots    []string // bot IDs, oldest first
	counter int      // spawned so far, for naming
}

// NewBotManager creates a BotManager that maintains target snakes
func NewBotManager(world *World, target int) *BotManager {
	return &BotManager{world: world, target: target}
}

// SpawnBot creates a bot snake and registers it in the world.
// Caller must hold world.mu.Lock.
func (bm *BotManager) SpawnBot() error {
	id := "bot-" + uuid.NewString()
	name := botNames[bm.counter%len(botNames)]
	bm.counter++

	if _, err := bm.world.Spawn(id, name, ""); err != nil {
		return err
	}
	bm.bots = append(bm.bots, id)
	Logger.Debug().Str("id", id).Str("name", name).Msg("bot spawned")
	return nil
}

// retireBot removes the newest bot. Caller must hold world.mu.Lock.
func (bm *BotManager) retireBot() {
	id := bm.bots[len(bm.bots)-1]
	bm.bots = bm.bots[:len(bm.bots)-1]
	bm.world.RemoveAgent(id)
	Logger.Debug().Str("id", id).Msg("bot retired")
}

// Count returns the number of live bots
func (bm *BotManager) Count() int {
	return len(bm.bots)
}

// MaintainBotCount tops the population up to target with bots, or retires
// bots while viewer snakes push it over. Caller must hold world.mu.Lock.
func (bm *BotManager) MaintainBotCount() error {
	for len(bm.world.Agents) < bm.target {
		if err := bm.SpawnBot(); err != nil {
			return err
		}
	}
	for len(bm.world.Agents) > bm.target && len(bm.bots) > 0 {
		bm.retireBot()
	}
	return nil
}
