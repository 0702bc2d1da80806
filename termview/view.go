package main

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/geo/r2"
	"github.com/rs/zerolog"

	"serpentine/snake"
)

// projection maps world coordinates onto terminal cells, keeping the last
// row for the status line.
type projection struct {
	bounds     r2.Rect
	cols, rows int
}

func newProjection(bounds r2.Rect, width, height int) projection {
	return projection{bounds: bounds, cols: max(width, 1), rows: max(height-1, 1)}
}

func (p projection) cellSize() r2.Point {
	size := p.bounds.Size()
	return r2.Point{X: size.X / float64(p.cols), Y: size.Y / float64(p.rows)}
}

func (p projection) toCell(w r2.Point) (int, int) {
	cs := p.cellSize()
	lo := p.bounds.Lo()
	return int(math.Floor((w.X - lo.X) / cs.X)), int(math.Floor((w.Y - lo.Y) / cs.Y))
}

// toWorld returns the world point at the center of a cell
func (p projection) toWorld(x, y int) r2.Point {
	cs := p.cellSize()
	lo := p.bounds.Lo()
	return r2.Point{X: lo.X + (float64(x)+0.5)*cs.X, Y: lo.Y + (float64(y)+0.5)*cs.Y}
}

func (p projection) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < p.cols && y < p.rows
}

type chirper interface {
	Chirp()
}

// Viewer renders one snake in the terminal and lets the user steer its
// destination with the mouse.
type Viewer struct {
	screen tcell.Screen
	snake  *snake.Snake
	proj   projection
	log    zerolog.Logger
	sound  chirper

	paused    bool
	debug     bool
	retargets int
}

func NewViewer(screen tcell.Screen, s *snake.Snake, bounds r2.Rect, log zerolog.Logger, sound chirper) *Viewer {
	w, h := screen.Size()
	return &Viewer{
		screen: screen,
		snake:  s,
		proj:   newProjection(bounds, w, h),
		log:    log,
		sound:  sound,
	}
}

// step advances the snake one tick and chirps when it drew a new destination
func (v *Viewer) step() {
	v.snake.Update()
	if n := v.snake.Retargets(); n != v.retargets {
		v.retargets = n
		d := v.snake.Destination()
		v.log.Debug().Int("retargets", n).Float64("x", d.X).Float64("y", d.Y).Msg("new destination")
		if v.sound != nil {
			v.sound.Chirp()
		}
	}
}

func bodyStyle(i, n int) tcell.Style {
	// head bright, tail dark
	shade := int32(220 - 140*i/max(n-1, 1))
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(40, shade, 90))
}

func (v *Viewer) fillDisk(c r2.Point, r float64, ch rune, style tcell.Style) {
	x0, y0 := v.proj.toCell(c.Sub(r2.Point{X: r, Y: r}))
	x1, y1 := v.proj.toCell(c.Add(r2.Point{X: r, Y: r}))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !v.proj.inside(x, y) {
				continue
			}
			if v.proj.toWorld(x, y).Sub(c).Norm() <= r {
				v.screen.SetContent(x, y, ch, nil, style)
			}
		}
	}
}

func (v *Viewer) plot(p r2.Point, ch rune, style tcell.Style) {
	if x, y := v.proj.toCell(p); v.proj.inside(x, y) {
		v.screen.SetContent(x, y, ch, nil, style)
	}
}

func (v *Viewer) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (v *Viewer) draw() {
	v.screen.Clear()
	view := v.snake.View()

	if v.debug {
		dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
		for _, c := range v.snake.BlindSpots() {
			v.fillDisk(c, v.snake.BlindSpotRadius(), '░', dim)
		}
	}

	n := len(view.Segments)
	for i := n - 1; i >= 0; i-- {
		s := view.Segments[i]
		v.fillDisk(s.Position, s.Radius, '█', bodyStyle(i, n))
	}
	if v.debug {
		for _, p := range view.Silhouette {
			v.plot(p, '•', tcell.StyleDefault.Foreground(tcell.ColorYellow))
		}
	}
	for _, e := range view.Eyes {
		v.plot(e, 'o', tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(40, 220, 90)))
	}
	v.plot(view.Destination, 'X', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))

	status := fmt.Sprintf(" %-12s speed %.1f  retargets %d  tick %d  [space] pause [d] debug [click] goal [q] quit",
		view.Action, view.Speed, v.snake.Retargets(), v.snake.Ticks())
	if v.paused {
		status = " PAUSED" + status
	}
	v.drawText(0, v.proj.rows, status, tcell.StyleDefault.Reverse(true))
	v.screen.Show()
}

// handleInput applies one event and reports whether to keep running
func (v *Viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			v.paused = !v.paused
		case 'd':
			v.debug = !v.debug
		case '.':
			if v.paused {
				v.step()
			}
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			if v.proj.inside(x, y) {
				goal := v.proj.toWorld(x, y)
				v.snake.SetDestination(goal)
				v.log.Debug().Float64("x", goal.X).Float64("y", goal.Y).Msg("destination set")
			}
		}

	case *tcell.EventResize:
		w, h := v.screen.Size()
		v.proj = newProjection(v.proj.bounds, w, h)
		v.screen.Sync()
	}
	return true
}

// pumpEvents forwards screen events to out until the screen is finalized or
// done is closed
func pumpEvents(screen tcell.Screen, out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

// Run ticks at tickRate and redraws until the user quits
func (v *Viewer) Run(tickRate int) {
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pumpEvents(v.screen, eventChan, done)

	v.draw()
	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
			v.draw()
		case <-ticker.C:
			if !v.paused {
				v.step()
			}
			v.draw()
		}
	}
}
