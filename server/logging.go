package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"serpentine/internal/logging"
)

var (
	// Logger is the server-wide structured logger
	Logger = zerolog.Nop()
	// TickSample rate-limits per-tick trace output
	TickSample = zerolog.Nop()
)

func setupLogging(out io.Writer, level string) {
	Logger = logging.New(out, level, false)

	// 5 entries per 10 seconds, then 1 in 100
	TickSample = Logger.With().Bool("sampled", true).Logger().Sample(&zerolog.BurstSampler{
		Burst:       5,
		Period:      10 * time.Second,
		NextSampler: &zerolog.BasicSampler{N: 100},
	})

	Logger.Info().Str("loglevel", zerolog.GlobalLevel().String()).Msg("Logging set up")
}
