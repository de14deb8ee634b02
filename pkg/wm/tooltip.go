package wm

import "github.com/kraitsura/termfolio/pkg/model"

// TooltipPadding keeps a tooltip this many cells away from the area edges.
const TooltipPadding = 1

// Tooltip is the expansion of an abbreviation, shown after a press on it.
// It closes on the next press anywhere or when its timer expires.
type Tooltip struct {
	Text     string
	Anchor   model.Rect // Screen rectangle of the abbreviation
	PointerX int        // Column of the press that opened it
	Token    uint64
}

// PlaceTooltip returns the top-left corner for a tooltip of the given size.
// It sits above the anchor, or below when there is no room above. A press in
// the left half of area lines the tooltip up with the anchor's left edge,
// a press in the right half with its right edge. The result is clamped into
// area minus TooltipPadding.
func PlaceTooltip(anchor model.Rect, size model.Size, area model.Rect, pointerX int) model.Point {
	x := anchor.Left
	if pointerX >= area.Left+area.Width()/2 {
		x = anchor.Right - size.W
	}
	x = min(x, area.Right-TooltipPadding-size.W)
	x = max(x, area.Left+TooltipPadding)

	y := anchor.Top - size.H
	if y < area.Top {
		y = anchor.Bottom
	}
	return model.Point{X: x, Y: y}
}

// showTooltip replaces any open tooltip with the title of an abbreviation
// surface.
func (c *Controller) showTooltip(sf Surface, pt model.Point) Effects {
	c.tipSeq++
	c.tip = &Tooltip{Text: sf.Key, Anchor: sf.Rect, PointerX: pt.X, Token: c.tipSeq}
	return Effects{Changed: true, Tooltip: c.tipSeq}
}

// Tooltip returns the open tooltip.
func (c *Controller) Tooltip() (Tooltip, bool) {
	if c.tip == nil {
		return Tooltip{}, false
	}
	return *c.tip, true
}

// ExpireTooltip closes the tooltip if token still identifies it.
func (c *Controller) ExpireTooltip(token uint64) Effects {
	if c.tip == nil || c.tip.Token != token {
		return Effects{}
	}
	c.tip = nil
	return Effects{Changed: true}
}

// DismissTooltip closes the tooltip. The frontend calls it when the content
// under the anchor scrolls away.
func (c *Controller) DismissTooltip() Effects {
	if c.tip == nil {
		return Effects{}
	}
	c.tip = nil
	return Effects{Changed: true}
}
