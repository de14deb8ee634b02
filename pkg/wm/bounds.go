package wm

import "github.com/kraitsura/termfolio/pkg/model"

// Bounds is the allowed range of a panel's top-left corner, in layout
// coordinates (columns from the screen edge, rows from the bottom of the nav
// bar).
type Bounds struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// Insets shave cells off the right and bottom edges so panels never touch
// the screen border.
type Insets struct {
	Side  int
	Floor int
}

// ComputeBounds derives the drag clamp rectangle for a panel of the given
// size. ok is false when the viewport has never been measured.
func ComputeBounds(size model.Size, vp ViewportState, in Insets) (Bounds, bool) {
	if !vp.Valid {
		return Bounds{}, false
	}
	c := vp.Container
	b := Bounds{
		MinX: c.Left,
		MaxX: c.Right - size.W - in.Side,
		MinY: c.Top - vp.NavHeight,
		MaxY: c.Bottom - size.H - vp.NavHeight - in.Floor,
	}
	// A panel larger than the container pins to the top-left corner.
	if b.MaxX < b.MinX {
		b.MaxX = b.MinX
	}
	if b.MaxY < b.MinY {
		b.MaxY = b.MinY
	}
	return b, true
}

// Clamp returns p moved into the rectangle.
func (b Bounds) Clamp(p model.Point) model.Point {
	return model.Point{
		X: max(b.MinX, min(b.MaxX, p.X)),
		Y: max(b.MinY, min(b.MaxY, p.Y)),
	}
}
