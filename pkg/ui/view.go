package ui

import (
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/kraitsura/termfolio/pkg/content"
	"github.com/kraitsura/termfolio/pkg/model"
	"github.com/kraitsura/termfolio/pkg/wm"
)

// View renders the screen: nav bar, panels, overlays and footer.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.width < MinScreenWidth || m.height < MinScreenHeight {
		return "Terminal too small"
	}
	return m.Canvas().Render(m.theme.Styles()) + "\n" + m.footer()
}

// Canvas composites everything above the footer.
func (m *Model) Canvas() *Canvas {
	cv := NewCanvas(m.width, m.height-FooterHeight)
	m.drawNav(cv)

	vp := m.ctrl.Viewport()
	if m.ctrl.Mode() == wm.ModeCompact {
		if m.column != nil {
			c := vp.Container
			cv.Blit(m.column, m.colView.YOffset, c.Left, c.Top, c.Height())
		}
	} else {
		for _, p := range m.ctrl.Registry().ByRank() {
			v, ok := m.views[p.ID]
			if !ok {
				continue
			}
			cv.Blit(v.cv, 0, p.Pos.X, p.Pos.Y+vp.NavHeight, v.cv.Height())
		}
	}
	if m.preview != nil {
		cv.Blit(m.preview, 0, m.prevAt.X, m.prevAt.Y, m.preview.Height())
	}
	m.drawTooltip(cv)

	m.picker.Draw(cv)
	m.help.Draw(cv)
	return cv
}

// tooltipWidth caps the text width of an abbreviation tooltip.
const tooltipWidth = 32

func (m *Model) drawTooltip(cv *Canvas) {
	tip, ok := m.ctrl.Tooltip()
	if !ok {
		return
	}
	area := model.Rect{Top: NavHeight, Right: cv.Width(), Bottom: cv.Height()}
	lines := content.Wrap(tip.Text, max(min(tooltipWidth, area.Width()-2*wm.TooltipPadding-2), 1))
	w := 0
	for _, l := range lines {
		w = max(w, runewidth.StringWidth(l))
	}
	size := model.Size{W: w + 2, H: len(lines)}
	at := wm.PlaceTooltip(tip.Anchor, size, area, tip.PointerX)
	cv.Fill(model.RectAt(at, size), ' ', stTooltip)
	for i, l := range lines {
		cv.Text(at.X+1, at.Y+i, w, l, stTooltip)
	}
}

func (m *Model) drawNav(cv *Canvas) {
	cv.Fill(model.Rect{Right: cv.Width(), Bottom: NavHeight}, ' ', stNav)
	if title := m.ctrl.Document().Title; title != "" {
		cv.Text(1, 0, cv.Width()-2, title, stTitleActive)
	}
	current := m.ctrl.Registry().NavCurrent()
	for _, item := range m.nav {
		st := stNav
		if item.id == current {
			st = stNavCurrent
		}
		cv.Text(item.rect.Left, item.rect.Top, item.rect.Width(), item.label, st)
	}
}

func (m *Model) footer() string {
	styles := m.theme.Styles()
	left := " " + m.ctrl.Mode().String()
	if m.ctrl.DragState() == wm.DragDragging {
		left += " · dragging"
	}
	left += " │ "
	room := max(m.width-runewidth.StringWidth(left), 0)

	if m.flash != "" {
		st := stNormal
		if m.flashErr {
			st = stError
		}
		return styles[stMuted].Render(left) + styles[st].Render(truncate.StringWithTail(m.flash, uint(room), "…"))
	}
	m.helpBar.Width = room
	return styles[stMuted].Render(left) + m.helpBar.ShortHelpView(m.keys.ShortHelp())
}
