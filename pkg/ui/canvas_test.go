package ui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/kraitsura/termfolio/pkg/content"
	"github.com/kraitsura/termfolio/pkg/model"
)

func TestCanvasText(t *testing.T) {
	tests := []struct {
		name string
		x    int
		maxW int
		text string
		want string
		n    int
	}{
		{"fits", 0, 10, "hello", "hello     ", 5},
		{"offset", 3, 10, "hi", "   hi     ", 2},
		{"truncated", 0, 5, "abcdefgh", "abcd…     ", 5},
		{"clipped by edge", 8, 10, "abcd", "        ab", 2},
		{"no room", 0, 0, "abc", "          ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewCanvas(10, 1)
			n := cv.Text(tt.x, 0, tt.maxW, tt.text, stNormal)
			if got := cv.Row(0); got != tt.want {
				t.Errorf("Row = %q, want %q", got, tt.want)
			}
			if n != tt.n {
				t.Errorf("Text wrote %d cells, want %d", n, tt.n)
			}
		})
	}
}

func TestCanvasWideRunes(t *testing.T) {
	cv := NewCanvas(6, 1)
	if n := cv.Set(0, 0, '世', stNormal); n != 2 {
		t.Fatalf("wide rune took %d cells, want 2", n)
	}
	if got := cv.Row(0); got != "世    " {
		t.Errorf("Row = %q, want %q", got, "世    ")
	}

	// Overwriting the right half breaks the glyph up.
	cv.Set(1, 0, 'a', stNormal)
	if got := cv.Row(0); got != " a    " {
		t.Errorf("after overwrite Row = %q, want %q", got, " a    ")
	}

	// A wide rune that does not fit on the row becomes a space.
	cv.Set(5, 0, '界', stNormal)
	if got := cv.Row(0); got != " a    " {
		t.Errorf("wide rune at edge Row = %q", got)
	}
}

func TestCanvasBox(t *testing.T) {
	cv := NewCanvas(4, 3)
	cv.Box(cv.Bounds(), PanelBorder, stBorder)
	want := []string{"╭──╮", "│  │", "╰──╯"}
	for y, w := range want {
		if got := cv.Row(y); got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}
	if cv.StyleAt(0, 0) != stBorder {
		t.Errorf("corner style = %d, want border", cv.StyleAt(0, 0))
	}
}

func TestCanvasBlitClips(t *testing.T) {
	src := NewCanvas(3, 2)
	src.Text(0, 0, 3, "abc", stTitle)
	src.Text(0, 1, 3, "def", stNormal)

	dst := NewCanvas(4, 3)
	dst.Blit(src, 0, 2, 1, 2)
	want := []string{"    ", "  ab", "  de"}
	for y, w := range want {
		if got := dst.Row(y); got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}
	if dst.StyleAt(2, 1) != stTitle {
		t.Errorf("blitted style = %d, want title", dst.StyleAt(2, 1))
	}

	// Starting from the second source row.
	dst = NewCanvas(3, 1)
	dst.Blit(src, 1, 0, 0, 5)
	if got := dst.Row(0); got != "def" {
		t.Errorf("offset blit = %q, want def", got)
	}
}

func TestCanvasBlitSplitsWideRunes(t *testing.T) {
	dst := NewCanvas(4, 1)
	dst.Set(1, 0, '世', stNormal)
	src := NewCanvas(1, 1)
	src.Set(0, 0, 'x', stNormal)
	dst.Blit(src, 0, 2, 0, 1)
	if got := dst.Row(0); got != "  x " {
		t.Errorf("Row = %q, want %q", got, "  x ")
	}
}

func TestCanvasRender(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(io.Discard))
	cv := NewCanvas(8, 2)
	cv.Text(0, 0, 8, "ab", stTitle)
	cv.Text(2, 0, 6, "cd", stLink)
	cv.Fill(model.Rect{Top: 1, Right: 8, Bottom: 2}, '-', stBorder)

	got := content.StripANSI(cv.Render(theme.Styles()))
	want := "abcd    \n--------"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	if got != cv.String() {
		t.Errorf("Render text differs from String: %q vs %q", got, cv.String())
	}
	if strings.Count(got, "\n") != 1 {
		t.Errorf("expected two rows")
	}
}
