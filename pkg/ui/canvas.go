package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/kraitsura/termfolio/pkg/model"
)

// cell is one terminal cell. A zero rune marks the right half of a wide
// rune drawn in the cell to its left.
type cell struct {
	r  rune
	st styleID
}

// Canvas is a grid of styled cells. Panels are painted onto it back to
// front, so whatever is drawn last is what the user sees.
type Canvas struct {
	w, h  int
	cells []cell
}

// NewCanvas returns a blank canvas.
func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{w: w, h: h, cells: make([]cell, w*h)}
	c.Fill(model.Rect{Right: w, Bottom: h}, ' ', stNormal)
	return c
}

// Width returns the number of columns.
func (c *Canvas) Width() int { return c.w }

// Height returns the number of rows.
func (c *Canvas) Height() int { return c.h }

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() model.Rect {
	return model.Rect{Right: c.w, Bottom: c.h}
}

func (c *Canvas) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

// Set draws r at x, y and returns the number of cells it took. Wide runes
// that do not fit on the row are replaced by a space.
func (c *Canvas) Set(x, y int, r rune, st styleID) int {
	if !c.in(x, y) {
		return 0
	}
	rw := runewidth.RuneWidth(r)
	if rw == 0 {
		return 0
	}
	if rw == 2 && x+1 >= c.w {
		r, rw = ' ', 1
	}
	c.clear(x, y)
	if rw == 2 {
		c.clear(x+1, y)
		c.cells[y*c.w+x+1] = cell{st: st}
	}
	c.cells[y*c.w+x] = cell{r: r, st: st}
	return rw
}

// clear breaks up a wide rune that x, y is part of.
func (c *Canvas) clear(x, y int) {
	i := y*c.w + x
	if c.cells[i].r == 0 && x > 0 {
		c.cells[i-1].r = ' '
	}
	if x+1 < c.w && c.cells[i+1].r == 0 && c.cells[i].r != 0 {
		c.cells[i+1].r = ' '
	}
}

// Text draws s starting at x, y using at most maxW cells and returns the
// number of cells written. Longer text is cut with an ellipsis.
func (c *Canvas) Text(x, y, maxW int, s string, st styleID) int {
	if maxW <= 0 || y < 0 || y >= c.h {
		return 0
	}
	if runewidth.StringWidth(s) > maxW {
		s = truncate.StringWithTail(s, uint(maxW), "…")
	}
	n := 0
	for _, r := range s {
		if r == '\t' {
			r = ' '
		}
		n += c.Set(x+n, y, r, st)
	}
	return n
}

// Fill paints r into every cell of rect.
func (c *Canvas) Fill(rect model.Rect, r rune, st styleID) {
	rect = rect.Intersect(c.Bounds())
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			c.Set(x, y, r, st)
		}
	}
}

// Style restyles rect without touching its runes.
func (c *Canvas) Style(rect model.Rect, st styleID) {
	rect = rect.Intersect(c.Bounds())
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			c.cells[y*c.w+x].st = st
		}
	}
}

func first(s string, fallback rune) rune {
	for _, r := range s {
		return r
	}
	return fallback
}

// Box draws the outline of rect with the runes of a lipgloss border.
func (c *Canvas) Box(rect model.Rect, b lipgloss.Border, st styleID) {
	if rect.Width() < 2 || rect.Height() < 2 {
		return
	}
	top, bottom := first(b.Top, '─'), first(b.Bottom, '─')
	left, right := first(b.Left, '│'), first(b.Right, '│')
	for x := rect.Left + 1; x < rect.Right-1; x++ {
		c.Set(x, rect.Top, top, st)
		c.Set(x, rect.Bottom-1, bottom, st)
	}
	for y := rect.Top + 1; y < rect.Bottom-1; y++ {
		c.Set(rect.Left, y, left, st)
		c.Set(rect.Right-1, y, right, st)
	}
	c.Set(rect.Left, rect.Top, first(b.TopLeft, '┌'), st)
	c.Set(rect.Right-1, rect.Top, first(b.TopRight, '┐'), st)
	c.Set(rect.Left, rect.Bottom-1, first(b.BottomLeft, '└'), st)
	c.Set(rect.Right-1, rect.Bottom-1, first(b.BottomRight, '┘'), st)
}

// Blit copies rows [srcY, srcY+h) of src to x, y.
func (c *Canvas) Blit(src *Canvas, srcY, x, y, h int) {
	for row := 0; row < h; row++ {
		sy, dy := srcY+row, y+row
		if sy < 0 || sy >= src.h || dy < 0 || dy >= c.h {
			continue
		}
		if x > 0 && x < c.w {
			c.clear(x, dy)
		}
		for col := 0; col < src.w; col++ {
			dx := x + col
			if dx < 0 || dx >= c.w {
				continue
			}
			c.cells[dy*c.w+dx] = src.cells[sy*src.w+col]
		}
		// Half a wide rune left at either edge becomes a space.
		if lx := max(x, 0); lx < c.w && c.cells[dy*c.w+lx].r == 0 {
			c.cells[dy*c.w+lx].r = ' '
		}
		if end := x + src.w; end > 0 && end < c.w && c.cells[dy*c.w+end].r == 0 {
			c.cells[dy*c.w+end].r = ' '
		}
	}
}

// Row returns row y as plain text.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.h {
		return ""
	}
	var b strings.Builder
	for _, cl := range c.cells[y*c.w : (y+1)*c.w] {
		if cl.r != 0 {
			b.WriteRune(cl.r)
		}
	}
	return b.String()
}

// StyleAt returns the style of a cell.
func (c *Canvas) StyleAt(x, y int) styleID {
	if !c.in(x, y) {
		return stNormal
	}
	return c.cells[y*c.w+x].st
}

// String returns the canvas as plain text.
func (c *Canvas) String() string {
	rows := make([]string, c.h)
	for y := range rows {
		rows[y] = c.Row(y)
	}
	return strings.Join(rows, "\n")
}

// Render styles runs of equal cells and joins the rows.
func (c *Canvas) Render(styles [stCount]lipgloss.Style) string {
	var out strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		cur := styleID(0)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			out.WriteString(styles[cur].Render(run.String()))
			run.Reset()
		}
		for _, cl := range c.cells[y*c.w : (y+1)*c.w] {
			if cl.r == 0 {
				continue
			}
			if cl.st != cur {
				flush()
				cur = cl.st
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return out.String()
}
