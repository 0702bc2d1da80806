package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serpentine/internal/config"
	"serpentine/snake"
)

func TestCurrentSettings_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, config.Load(""))

	s, err := CurrentSettings()
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, ":8080", s.Port)
	assert.Equal(t, "", s.StaticDir)
	assert.Equal(t, 100, s.MaxViewers)
	assert.Equal(t, 3, s.IPCooldownSec)
	assert.Equal(t, 30, s.TickRate)
	assert.Equal(t, 3, s.Snakes)
	assert.Equal(t, int64(1), s.Seed)
	assert.Equal(t, snake.DefaultBounds(), s.Snake.Bounds)
	assert.Len(t, s.Snake.Chain.Outline, len(snake.DefaultRadii))
}

func TestCurrentSettings_File(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"server": { "port": ":9090", "maxViewers": 4 },
		"sim": { "snakes": 5, "seed": 42 },
		"snake": { "turnAngleDeg": 6 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644))
	require.NoError(t, config.Load(dir))

	s, err := CurrentSettings()
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, ":9090", s.Port)
	assert.Equal(t, 4, s.MaxViewers)
	assert.Equal(t, 5, s.Snakes)
	assert.Equal(t, int64(42), s.Seed)
	assert.InDelta(t, math.Pi/30, s.Snake.TurnAngle, 1e-12)
}

func TestCurrentSettings_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("SERPENTINE_SIM_SNAKES", "7")
	t.Setenv("SERPENTINE_SERVER_PORT", ":7000")
	require.NoError(t, config.Load(""))

	s, err := CurrentSettings()
	require.NoError(t, err)
	assert.Equal(t, 7, s.Snakes)
	assert.Equal(t, ":7000", s.Port)
}

func TestCurrentSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"zero tick rate", "sim.tickRate", 0},
		{"negative snakes", "sim.snakes", -1},
		{"unknown metric", "snake.blindSpotMetric", "manhattan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			require.NoError(t, config.Load(""))
			viper.Set(tt.key, tt.val)

			_, err := CurrentSettings()
			assert.Error(t, err)
		})
	}
}
