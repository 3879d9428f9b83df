package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one drawing-surface position: a rune plus foreground/background.
type cell struct {
	r  rune
	fg lipgloss.Color
	bg lipgloss.Color
}

// Canvas is a fixed-size cell grid the renderer draws onto. The terminal
// cell grid is the pixel space: one cell is one pixel in every coordinate
// the projection math produces.
type Canvas struct {
	width  int
	height int
	cells  []cell
}

// NewCanvas creates a blank canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &Canvas{
		width:  width,
		height: height,
		cells:  make([]cell, width*height),
	}
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	return c
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.height }

// In reports whether (x, y) is inside the canvas.
func (c *Canvas) In(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Set places a rune with a foreground color. Out-of-bounds writes are
// dropped silently; callers clip against panels, not the canvas.
func (c *Canvas) Set(x, y int, r rune, fg lipgloss.Color) {
	if !c.In(x, y) {
		return
	}
	idx := y*c.width + x
	c.cells[idx].r = r
	c.cells[idx].fg = fg
}

// SetBg paints only the background of a cell, preserving its rune.
func (c *Canvas) SetBg(x, y int, bg lipgloss.Color) {
	if !c.In(x, y) {
		return
	}
	c.cells[y*c.width+x].bg = bg
}

// Rune returns the rune at (x, y), or space when out of bounds.
func (c *Canvas) Rune(x, y int) rune {
	if !c.In(x, y) {
		return ' '
	}
	return c.cells[y*c.width+x].r
}

// HLine draws a horizontal run of the rune from x0 to x1 inclusive.
func (c *Canvas) HLine(x0, x1, y int, r rune, fg lipgloss.Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		c.Set(x, y, r, fg)
	}
}

// VLine draws a vertical run of the rune from y0 to y1 inclusive.
func (c *Canvas) VLine(x, y0, y1 int, r rune, fg lipgloss.Color) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		c.Set(x, y, r, fg)
	}
}

// Text writes a string starting at (x, y), clipped to the canvas.
func (c *Canvas) Text(x, y int, s string, fg lipgloss.Color) {
	for i, r := range s {
		c.Set(x+i, y, r, fg)
	}
}

// String renders the canvas to a styled multi-line string. Adjacent cells
// sharing a style are emitted as one styled run to keep the output compact.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		var run strings.Builder
		var runFg, runBg lipgloss.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := lipgloss.NewStyle()
			if runFg != "" {
				st = st.Foreground(runFg)
			}
			if runBg != "" {
				st = st.Background(runBg)
			}
			b.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for x := 0; x < c.width; x++ {
			cl := c.cells[y*c.width+x]
			if x == 0 || cl.fg != runFg || cl.bg != runBg {
				flush()
				runFg, runBg = cl.fg, cl.bg
			}
			run.WriteRune(cl.r)
		}
		flush()
		if y < c.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
