// Command termview runs a single snake locally and draws it in the terminal.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/viper"

	"serpentine/internal/config"
	"serpentine/internal/logging"
	"serpentine/snake"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Load(os.Getenv("SERPENTINE_CONFIG_DIR")); err != nil {
		return err
	}

	// The terminal is busy drawing, so logs go to a file
	var out io.Writer = io.Discard
	if path := viper.GetString("termview.logFile"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	log := logging.New(out, viper.GetString("logLevel"), true)

	cfg, err := config.SnakeConfig()
	if err != nil {
		return err
	}
	tickRate := viper.GetInt("sim.tickRate")
	if tickRate <= 0 {
		return fmt.Errorf("sim.tickRate must be positive, got %d", tickRate)
	}
	s, err := snake.New(cfg, snake.NewRandom(viper.GetInt64("sim.seed")))
	if err != nil {
		return fmt.Errorf("creating snake: %w", err)
	}

	var sound chirper
	if viper.GetBool("termview.sound") {
		sc, err := newSpeakerChirper()
		if err != nil {
			// Non-fatal, the viewer runs without sound
			log.Warn().Err(err).Msg("audio initialization failed")
		} else {
			sound = sc
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	log.Info().Int("tickRate", tickRate).Int64("seed", viper.GetInt64("sim.seed")).Msg("termview started")
	NewViewer(screen, s, cfg.Bounds, log, sound).Run(tickRate)
	log.Info().Int("ticks", s.Ticks()).Int("retargets", s.Retargets()).Msg("termview stopped")
	return nil
}
