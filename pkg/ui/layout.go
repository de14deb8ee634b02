package ui

import "github.com/kraitsura/termfolio/pkg/model"

// Screen layout. The nav bar takes the first row and the footer the last;
// everything in between is the panel container.
const (
	// NavHeight is the number of rows used by the nav bar.
	NavHeight = 1

	// FooterHeight is the number of rows used by the footer.
	FooterHeight = 1

	// MinScreenWidth and MinScreenHeight are the smallest usable terminal.
	MinScreenWidth  = 20
	MinScreenHeight = 6
)

// Panel dimension constraints.
const (
	// DefaultPanelWidth is the outer width of a desktop panel that does
	// not ask for one.
	DefaultPanelWidth = 56

	// MinPanelWidth is the narrowest a desktop panel is drawn.
	MinPanelWidth = 24

	// MinPanelHeight is the lowest a desktop panel is drawn.
	MinPanelHeight = 5

	// PanelPadding is the horizontal chrome of a panel: border plus one
	// space on each side.
	PanelPadding = 4

	// CompactGap is the number of blank rows between stacked panels.
	CompactGap = 1

	// MaxPreviewWidth caps the desktop preview overlay.
	MaxPreviewWidth = 100
)

// Scrolling steps.
const (
	WheelStep = 3
)

// containerRect returns the panel container for a screen size.
func containerRect(w, h int) model.Rect {
	return model.Rect{Left: 0, Top: NavHeight, Right: w, Bottom: h - FooterHeight}
}

// desktopWidth is the outer width of a panel in desktop mode.
func desktopWidth(spec model.PanelSpec, container model.Rect) int {
	w := spec.Width
	if w <= 0 {
		w = DefaultPanelWidth
	}
	return max(min(w, container.Width()), min(MinPanelWidth, container.Width()))
}

// desktopMaxHeight is the tallest a desktop panel may grow.
func desktopMaxHeight(spec model.PanelSpec, container model.Rect) int {
	limit := max(container.Height()-1, MinPanelHeight)
	if spec.Height > 0 {
		return max(min(spec.Height, limit), MinPanelHeight)
	}
	return max(limit*3/4, MinPanelHeight)
}
