package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/spf13/viper"

	"serpentine/snake"
)

const (
	// FileName is looked up in the config dir
	FileName = "serpentine.cfg.json"
	// EnvPrefix prefixes environment overrides, e.g. SERPENTINE_SIM_SEED
	EnvPrefix = "SERPENTINE"
)

// SetDefaults registers a default for every known key
func SetDefaults() {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("server.staticDir", "")
	viper.SetDefault("server.maxViewers", 100)
	viper.SetDefault("server.ipCooldownSec", 3)

	viper.SetDefault("sim.tickRate", 30)
	viper.SetDefault("sim.snakes", 3)
	viper.SetDefault("sim.seed", 1)
	viper.SetDefault("sim.bounds.minX", -400.0)
	viper.SetDefault("sim.bounds.maxX", 400.0)
	viper.SetDefault("sim.bounds.minY", -300.0)
	viper.SetDefault("sim.bounds.maxY", 300.0)

	viper.SetDefault("snake.visionAngleDeg", 18.0)
	viper.SetDefault("snake.turnAngleDeg", 3.0)
	viper.SetDefault("snake.minSpeed", 1.0)
	viper.SetDefault("snake.maxSpeed", 5.0)
	viper.SetDefault("snake.tailShakeAmplitude", 0.04)
	viper.SetDefault("snake.blindSpotMetric", "euclidean")

	viper.SetDefault("termview.sound", true)
	viper.SetDefault("termview.logFile", "termview.log")
}

// Load sets defaults, binds SERPENTINE_* environment variables and reads
// serpentine.cfg.json from configDir. An empty configDir skips the file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configDir == "" {
		return nil
	}

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Bounds returns the area destinations are drawn from
func Bounds() r2.Rect {
	return r2.RectFromPoints(
		r2.Point{X: viper.GetFloat64("sim.bounds.minX"), Y: viper.GetFloat64("sim.bounds.minY")},
		r2.Point{X: viper.GetFloat64("sim.bounds.maxX"), Y: viper.GetFloat64("sim.bounds.maxY")},
	)
}

// SnakeConfig resolves the snake.* keys on top of snake.DefaultConfig and
// attaches BodyOutline. Angles are configured in degrees.
func SnakeConfig() (snake.Config, error) {
	metric, err := snake.ParseBlindSpotMetric(viper.GetString("snake.blindSpotMetric"))
	if err != nil {
		return snake.Config{}, err
	}

	cfg := snake.DefaultConfig()
	cfg.VisionAngle = viper.GetFloat64("snake.visionAngleDeg") * math.Pi / 180
	cfg.TurnAngle = viper.GetFloat64("snake.turnAngleDeg") * math.Pi / 180
	cfg.MinSpeed = viper.GetFloat64("snake.minSpeed")
	cfg.MaxSpeed = viper.GetFloat64("snake.maxSpeed")
	cfg.TailShakeAmplitude = viper.GetFloat64("snake.tailShakeAmplitude")
	cfg.BlindSpot = metric
	cfg.Bounds = Bounds()
	cfg.Chain.Outline = BodyOutline(len(cfg.Chain.Radii))
	return cfg, nil
}

// BodyOutline gives every segment its two flanks, rounds the head forward
// and closes the tail behind.
func BodyOutline(n int) [][]float64 {
	markers := make([][]float64, n)
	for i := range markers {
		markers[i] = []float64{math.Pi / 2, 3 * math.Pi / 2}
	}
	if n > 0 {
		markers[0] = []float64{0, math.Pi / 4, math.Pi / 2, 3 * math.Pi / 2, 7 * math.Pi / 4}
		markers[n-1] = append(markers[n-1], math.Pi)
	}
	return markers
}
