package snake

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serpentine/chain"
)

func twoSegmentChain(t *testing.T) *chain.Chain {
	t.Helper()
	c, err := chain.New(chain.Config{
		Radii: []float64{10, 10},
		Place: func(i int, r float64) chain.Placement { return chain.At(float64(-i)*20, 0) },
	})
	require.NoError(t, err)
	c.UpdatePositions(0)
	return c
}

func TestTailSize_Cycle(t *testing.T) {
	c := twoSegmentChain(t)
	ts := NewTailSize(TailSizeDwell{Normal: 3, Grow: 2, Shrink: 2})

	phases := make([]TailPhase, 0, 8)
	for i := 0; i < 8; i++ {
		phases = append(phases, ts.Phase)
		ts.Step(c)
	}
	assert.Equal(t, []TailPhase{
		TailNormal, TailNormal, TailNormal,
		TailGrow, TailGrow,
		TailShrink, TailShrink,
		TailNormal,
	}, phases)
}

func TestTailSize_RoundTrip(t *testing.T) {
	c := twoSegmentChain(t)
	ts := NewTailSize(TailSizeDwell{Normal: 30, Grow: 15, Shrink: 15})

	for i := 0; i < 45; i++ {
		ts.Step(c)
	}
	assert.Equal(t, TailShrink, ts.Phase)
	assert.InDelta(t, 10+15*chain.TailGrowLast, c.Tail().Radius, 1e-9)

	for i := 0; i < 15; i++ {
		ts.Step(c)
	}
	assert.Equal(t, TailNormal, ts.Phase)
	assert.Equal(t, 30, ts.Count)
	assert.InDelta(t, 10, c.Tail().Radius, 1e-9)
	assert.InDelta(t, 10, c.Head().Radius, 1e-9)
}

func TestTailShake_AlternatesSides(t *testing.T) {
	c := twoSegmentChain(t)
	require.Equal(t, r2.Point{X: -10}, c.Tail().Position)
	sh := NewTailShake(2, 0.1)

	sh.Step(c)
	assert.InDelta(t, 1, c.Tail().Position.Y, 1e-9)
	sh.Step(c)
	assert.InDelta(t, 2, c.Tail().Position.Y, 1e-9)
	assert.Equal(t, ShakeRight, sh.Side)

	sh.Step(c)
	assert.InDelta(t, 1, c.Tail().Position.Y, 1e-9)
	assert.InDelta(t, -10, c.Tail().Position.X, 1e-9)
}

func TestSnake_TailAnimationsOptional(t *testing.T) {
	s := newLineSnake(t, lineConfig(r2.Point{X: 100}))
	_, ok := s.TailSize()
	assert.False(t, ok)
	_, ok = s.TailShake()
	assert.False(t, ok)

	s, err := New(DefaultConfig(), NewRandom(1))
	require.NoError(t, err)
	ts, ok := s.TailSize()
	require.True(t, ok)
	assert.Equal(t, TailNormal, ts.Phase)
	sh, ok := s.TailShake()
	require.True(t, ok)
	assert.Equal(t, 10, sh.Dwell)
}

func TestSnake_TailPulsationReturnsToRest(t *testing.T) {
	cfg := DefaultConfig()
	s, err := New(cfg, NewRandom(5))
	require.NoError(t, err)

	n := s.chain.Len()
	last, prev := s.chain.At(n-1).Radius, s.chain.At(n-2).Radius

	d := cfg.TailSize
	for i := 0; i < d.Normal+d.Grow+d.Shrink; i++ {
		s.Update()
	}
	assert.InDelta(t, last, s.chain.At(n-1).Radius, 1e-9)
	assert.InDelta(t, prev, s.chain.At(n-2).Radius, 1e-9)
}
