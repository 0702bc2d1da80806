package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serpentine/chain"
	"serpentine/snake"
)

func testLayer() Layer {
	return Layer{
		Color: "#3498db",
		View: snake.View{
			Segments: []chain.Segment{
				{Radius: 10, Position: r2.Point{X: 0, Y: 0}, Direction: r2.Point{X: 1}},
				{Radius: 8, Position: r2.Point{X: -18, Y: 0}, Direction: r2.Point{X: 1}},
			},
			Destination: r2.Point{X: 100, Y: 50},
			Eyes:        [2]r2.Point{{X: 5, Y: -5}, {X: 5, Y: 5}},
		},
	}
}

func TestWriteSnapshot_Circles(t *testing.T) {
	var buf bytes.Buffer
	bounds := r2.RectFromPoints(r2.Point{X: -50, Y: -50}, r2.Point{X: 50, Y: 50})
	require.NoError(t, WriteSnapshot(&buf, bounds, []Layer{testLayer()}, Options{}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0"?>`))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
	// two body circles + two eyes made of two circles each
	assert.Equal(t, 6, strings.Count(out, "<circle"))
	assert.Contains(t, out, "fill:#3498db")
	assert.NotContains(t, out, "<line")
	assert.NotContains(t, out, "<path")
}

func TestWriteSnapshot_SilhouetteAndOverlays(t *testing.T) {
	l := testLayer()
	l.View.Silhouette = []r2.Point{{X: 10}, {X: 0, Y: 10}, {X: -26}, {X: 0, Y: -10}}

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, r2.EmptyRect(), []Layer{l}, Options{Skeleton: true, Destinations: true}))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "<path"))
	assert.Contains(t, out, "d='M10.00,0.00")
	assert.Contains(t, out, " Z'/>")
	// 1 skeleton link + 2 cross arms + 1 heading line
	assert.Equal(t, 4, strings.Count(out, "<line"))
}

func TestWriteSnapshot_MarkerRing(t *testing.T) {
	l := testLayer()
	l.View.Segments[1].Marker = true

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, r2.EmptyRect(), []Layer{l}, Options{Skeleton: true}))
	assert.Equal(t, 1, strings.Count(buf.String(), "stroke:#d81b60"))

	buf.Reset()
	require.NoError(t, WriteSnapshot(&buf, r2.EmptyRect(), []Layer{l}, Options{}))
	assert.NotContains(t, buf.String(), "stroke:#d81b60")
}

func TestViewBox_ContainsBodies(t *testing.T) {
	bounds := r2.RectFromPoints(r2.Point{X: -10, Y: -10}, r2.Point{X: 10, Y: 10})
	box := ViewBox(bounds, []Layer{testLayer()}, 5)

	assert.InDelta(t, -26-5, box.Min.X, 1e-9)
	assert.InDelta(t, -10-5, box.Min.Y, 1e-9)
	assert.InDelta(t, 10+5, box.Max.X, 1e-9)
	assert.InDelta(t, 10+5, box.Max.Y, 1e-9)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteSnapshot_PropagatesWriteError(t *testing.T) {
	err := WriteSnapshot(failingWriter{}, r2.EmptyRect(), []Layer{testLayer()}, Options{})
	assert.EqualError(t, err, "disk full")
}
