package main

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"serpentine/internal/config"
	"serpentine/snake"
)

// Fixed protocol and server settings
const (
	WebSocketPath = "/ws"
	SnapshotPath  = "/snapshot.svg"

	// LeaderboardSize caps the retarget leaderboard
	LeaderboardSize = 10
	// MaxNameLength trims viewer-chosen snake names
	MaxNameLength = 24
)

// Snake colors palette
var SnakeColors = []string{
	"#a83a32", "#e74c3c", "#3498db", "#2ecc71", "#f39c12",
	"#9b59b6", "#1abc9c", "#e67e22", "#e91e63", "#00bcd4",
	"#8bc34a", "#ff5722", "#607d8b", "#795548", "#673ab7",
}

// Settings is the resolved server configuration
type Settings struct {
	LogLevel string

	Port          string
	StaticDir     string
	MaxViewers    int
	IPCooldownSec int

	TickRate int
	Snakes   int
	Seed     int64

	Snake snake.Config
}

// CurrentSettings resolves the loaded configuration into Settings
func CurrentSettings() (Settings, error) {
	s := Settings{
		LogLevel:      viper.GetString("logLevel"),
		Port:          viper.GetString("server.port"),
		StaticDir:     viper.GetString("server.staticDir"),
		MaxViewers:    viper.GetInt("server.maxViewers"),
		IPCooldownSec: viper.GetInt("server.ipCooldownSec"),
		TickRate:      viper.GetInt("sim.tickRate"),
		Snakes:        viper.GetInt("sim.snakes"),
		Seed:          viper.GetInt64("sim.seed"),
	}
	if s.TickRate <= 0 {
		return Settings{}, fmt.Errorf("sim.tickRate must be positive, got %d", s.TickRate)
	}
	if s.Snakes < 0 {
		return Settings{}, errors.New("sim.snakes must not be negative")
	}

	cfg, err := config.SnakeConfig()
	if err != nil {
		return Settings{}, err
	}
	s.Snake = cfg
	return s, nil
}
