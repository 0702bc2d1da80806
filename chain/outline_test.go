package chain

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOutline_NormalizesSplitsAndSorts(t *testing.T) {
	o := BuildOutline([][]float64{
		{3 * math.Pi / 2, 0.5, -math.Pi / 2, 2*math.Pi + 0.25, math.Pi},
		{},
	})

	require.Len(t, o.Lower, 2)
	require.Len(t, o.Upper, 2)

	assert.InDeltaSlice(t, []float64{0.25, 0.5}, o.Lower[0], 1e-12)
	assert.InDeltaSlice(t, []float64{math.Pi, 3 * math.Pi / 2, 3 * math.Pi / 2}, o.Upper[0], 1e-12)
	assert.Empty(t, o.Lower[1])
	assert.Empty(t, o.Upper[1])
}

func TestChain_OutlineOptional(t *testing.T) {
	c := newTestChain(t)
	_, ok := c.Outline()
	assert.False(t, ok)
	assert.Nil(t, c.Silhouette())
}

func TestChain_SilhouetteTraversalOrder(t *testing.T) {
	c, err := New(Config{
		Radii: []float64{10, 10, 10},
		Place: func(i int, r float64) Placement { return At(float64(-i)*20, 0) },
		Outline: [][]float64{
			{math.Pi / 2, 3 * math.Pi / 2},
			{math.Pi / 2, 3 * math.Pi / 2},
			{math.Pi / 2, math.Pi, 3 * math.Pi / 2},
		},
	})
	require.NoError(t, err)
	c.Head().Direction = r2.Point{X: 1}
	c.UpdatePositions(0)

	pts := c.Silhouette()
	require.Len(t, pts, 7)

	// forward along one flank
	for i, want := range []float64{0, -10, -20} {
		assert.InDelta(t, want, pts[i].X, 1e-9)
		assert.InDelta(t, -10, pts[i].Y, 1e-9)
	}
	// tail tip
	assert.InDelta(t, -30, pts[3].X, 1e-9)
	assert.InDelta(t, 0, pts[3].Y, 1e-9)
	// back along the other flank
	for i, want := range []float64{-20, -10, 0} {
		assert.InDelta(t, want, pts[4+i].X, 1e-9)
		assert.InDelta(t, 10, pts[4+i].Y, 1e-9)
	}
}

func TestChain_SetOutlineLengthMismatch(t *testing.T) {
	c := newTestChain(t)
	err := c.SetOutline([][]float64{{0}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
