package view

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// place returns the top-left corner of a block of size w×h anchored at pos
// on a width×height canvas.
func place(pos Position, w, h, width, height int) (int, int) {
	x, y := 0, 0
	switch pos {
	case TopRight:
		x = width - w
	case BottomLeft:
		y = height - h
	case BottomRight:
		x, y = width-w, height-h
	}
	return max(0, x), max(0, y)
}

// canvas is a grid of lines that are all exactly width cells wide.
type canvas struct {
	lines []string
	width int
}

func newCanvas(s string, width, height int) canvas {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = fit(lines[i], width)
	}
	return canvas{lines: lines, width: width}
}

// paint copies block over the canvas with its top-left cell at x, y. The
// block is treated as a rectangle as wide as its widest line and clipped at
// the canvas edges.
func (c canvas) paint(block string, x, y int) {
	lines := strings.Split(block, "\n")
	w := min(widest(lines), c.width-x)
	if w <= 0 {
		return
	}
	for i, line := range lines {
		row := y + i
		if row < 0 || row >= len(c.lines) {
			continue
		}
		base := c.lines[row]
		left := fit(ansi.Truncate(base, x, ""), x)
		c.lines[row] = fit(left+fit(line, w)+ansi.TruncateLeft(base, x+w, ""), c.width)
	}
}

func (c canvas) String() string {
	return strings.Join(c.lines, "\n")
}

func widest(lines []string) int {
	n := 0
	for _, l := range lines {
		n = max(n, ansi.StringWidth(l))
	}
	return n
}

// fit pads or cuts s to exactly width cells.
func fit(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	return s + strings.Repeat(" ", max(0, width-ansi.StringWidth(s)))
}
