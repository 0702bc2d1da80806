package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate    = beep.SampleRate(44100)
	chirpFreq     = 880
	chirpDuration = 50 * time.Millisecond
)

// chirpStreamer is a short sine blip
func chirpStreamer(sr beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, err
	}
	return beep.Take(sr.N(d), sine), nil
}

// speakerChirper plays a chirp on the default audio device
type speakerChirper struct{}

func newSpeakerChirper() (*speakerChirper, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &speakerChirper{}, nil
}

func (speakerChirper) Chirp() {
	s, err := chirpStreamer(sampleRate, chirpFreq, chirpDuration)
	if err != nil {
		return
	}
	speaker.Play(s)
}
