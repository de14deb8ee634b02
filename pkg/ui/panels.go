package ui

import (
	"fmt"
	"strings"

	"github.com/kraitsura/termfolio/pkg/content"
	"github.com/kraitsura/termfolio/pkg/model"
	"github.com/kraitsura/termfolio/pkg/wm"
)

// panelView is one panel drawn on its own canvas. Surfaces are relative to
// the panel's top-left corner; the layout pass translates and registers
// them.
type panelView struct {
	id         string
	cv         *Canvas
	surfaces   []wm.Surface
	elements   map[string]int // Element id -> content line
	contentTop int            // First content row
	avail      int            // Content rows shown
	lines      int            // Content lines in total
	scroll     int
}

// row returns the panel row of content line i, or false when it is
// scrolled out of the panel.
func (v *panelView) row(line int) (int, bool) {
	if line < v.scroll || line >= v.scroll+v.avail {
		return 0, false
	}
	return v.contentTop + line - v.scroll, true
}

// panelOpts are the per-layout inputs of buildPanel.
type panelOpts struct {
	width     int
	maxHeight int // 0 means natural height
	fixed     bool
	scroll    int
	active    bool
	dragging  bool
	hint      string
}

const (
	linkIcon    = "↗"
	previewIcon = "▸"
)

// buildPanel draws a panel: title border, optional hint, optional tab
// strip, content, optional links and the bottom border.
func (m *Model) buildPanel(spec model.PanelSpec, o panelOpts) *panelView {
	inner := max(o.width-PanelPadding, 1)
	rendered := m.contentFor(spec, inner)

	tab := ""
	group, hasTabs := m.ctrl.TabGroup(spec.ID)
	if hasTabs {
		tab = group.Active()
	}
	lines := rendered.Lines(tab)

	chrome := 2
	if o.hint != "" {
		chrome++
	}
	if hasTabs {
		chrome++
	}
	if len(spec.Links) > 0 {
		chrome++
	}
	height := chrome + max(len(lines), 1)
	switch {
	case o.fixed && o.maxHeight > 0:
		height = o.maxHeight
	case o.maxHeight > 0:
		height = min(height, o.maxHeight)
	}
	height = max(height, chrome+1)

	v := &panelView{
		id:       spec.ID,
		cv:       NewCanvas(o.width, height),
		elements: make(map[string]int),
		avail:    height - chrome,
		lines:    len(lines),
	}
	v.scroll = min(max(o.scroll, 0), max(len(lines)-v.avail, 0))
	cv := v.cv

	border, title := stBorder, stTitle
	switch {
	case o.dragging:
		border, title = stBorderDrag, stTitleActive
	case o.active:
		border, title = stBorderActive, stTitleActive
	}
	cv.Box(cv.Bounds(), PanelBorder, border)
	name := spec.Title
	if name == "" {
		name = spec.ID
	}
	cv.Text(2, 0, o.width-4, " "+name+" ", title)
	v.add(wm.Surface{Kind: wm.SurfaceHeader, PanelID: spec.ID, Rect: model.Rect{Right: o.width, Bottom: 1}})

	row := 1
	if o.hint != "" {
		cv.Text(2, row, inner, o.hint, stMuted)
		row++
	}
	if hasTabs {
		m.drawTabs(v, spec, group, row, o.width)
		row++
	}

	v.contentTop = row
	for i := 0; i < v.avail; i++ {
		li := v.scroll + i
		if li >= len(lines) {
			break
		}
		cv.Text(2, row+i, inner, lines[li], stNormal)
	}
	refsFrom := len(lines) - len(rendered.Refs)
	markAbbrs(v, lines[:max(refsFrom, 0)], spec.Abbrs, inner)
	m.markRefs(v, lines, refsFrom, inner)

	if len(spec.Links) > 0 {
		drawLinks(v, spec, height-2, o.width)
	}
	if len(lines) > v.avail {
		last := min(v.scroll+v.avail, len(lines))
		cv.Text(max(o.width-14, 2), height-1, 12, fmt.Sprintf(" %d-%d/%d ", v.scroll+1, last, len(lines)), stMuted)
	}
	return v
}

func (v *panelView) add(sf wm.Surface) {
	v.surfaces = append(v.surfaces, sf)
}

func (m *Model) drawTabs(v *panelView, spec model.PanelSpec, group *wm.TabGroup, row, width int) {
	v.add(wm.Surface{
		Kind:    wm.SurfaceTabStrip,
		PanelID: spec.ID,
		Rect:    model.Rect{Left: 1, Top: row, Right: width - 1, Bottom: row + 1},
	})
	x := 2
	for i, t := range spec.Tabs {
		if i > 0 {
			x += v.cv.Text(x, row, width-2-x, "│", stBorder)
		}
		st := stTab
		if group.IsActive(t.Name) {
			st = stTabActive
		}
		n := v.cv.Text(x, row, width-2-x, " "+t.DisplayLabel()+" ", st)
		if n == 0 {
			break
		}
		v.add(wm.Surface{
			Kind:    wm.SurfaceTabButton,
			PanelID: spec.ID,
			Key:     t.Name,
			Rect:    model.Rect{Left: x, Top: row, Right: x + n, Bottom: row + 1},
		})
		x += n
	}
}

// markRefs styles citation markers and back-references and registers the
// linked ones as surfaces. refsFrom is the first line of the references
// list. A marker repeated in the panel stays clickable, but only its first
// occurrence is the highlight and scroll target.
func (m *Model) markRefs(v *panelView, lines []string, refsFrom, inner int) {
	nav := m.ctrl.Navigator()
	mark := func(kind wm.SurfaceKind, s content.Span, el string, wholeLine bool) {
		_, repeated := v.elements[el]
		if !repeated {
			v.elements[el] = s.Line
		}
		y, ok := v.row(s.Line)
		if !ok || s.Col >= inner {
			return
		}
		rect := model.Rect{Left: 2 + s.Col, Top: y, Right: 2 + min(s.Col+s.Width, inner), Bottom: y + 1}
		live := nav.Has(s.Ref)
		st := stMarker
		switch {
		case !repeated && m.ctrl.Highlighted(el):
			st = stHighlight
			if wholeLine {
				rect.Right = 2 + inner
			}
		case !live:
			st = stMarkerDead
		}
		v.cv.Style(rect, st)
		if live {
			v.add(wm.Surface{Kind: kind, PanelID: v.id, Rect: rect, Key: el, Ref: s.Ref})
		}
	}

	refsFrom = max(refsFrom, 0)
	for _, s := range content.FindMarkers(lines[:refsFrom]) {
		mark(wm.SurfaceMarker, s, wm.MarkerElement(s.Ref), false)
	}
	for _, s := range content.FindBackRefs(lines[refsFrom:]) {
		s.Line += refsFrom
		mark(wm.SurfaceBackRef, s, wm.BackRefElement(s.Ref), true)
	}
}

// markAbbrs underlines abbreviations and registers every visible
// occurrence as a surface carrying its title.
func markAbbrs(v *panelView, lines []string, abbrs []model.Abbr, inner int) {
	for _, a := range abbrs {
		for _, s := range content.FindText(lines, a.Text) {
			y, ok := v.row(s.Line)
			if !ok || s.Col >= inner {
				continue
			}
			rect := model.Rect{Left: 2 + s.Col, Top: y, Right: 2 + min(s.Col+s.Width, inner), Bottom: y + 1}
			v.cv.Style(rect, stAbbr)
			v.add(wm.Surface{Kind: wm.SurfaceAbbr, PanelID: v.id, Rect: rect, Key: a.Title})
		}
	}
}

func drawLinks(v *panelView, spec model.PanelSpec, row, width int) {
	x := 2
	for _, l := range spec.Links {
		icon := linkIcon
		if l.Preview {
			icon = previewIcon
		}
		label := l.Label
		if label == "" {
			label = l.URL
		}
		n := v.cv.Text(x, row, width-2-x, icon+" "+label, stLink)
		if n == 0 {
			break
		}
		v.add(wm.Surface{
			Kind:    wm.SurfaceLink,
			PanelID: spec.ID,
			Key:     l.URL,
			Preview: l.Preview,
			Rect:    model.Rect{Left: x, Top: row, Right: x + n, Bottom: row + 1},
		})
		x += n + 2
	}
}

// contentFor returns the markdown rendering of a panel at inner width, or
// plain wrapped text until the renderer has caught up.
func (m *Model) contentFor(spec model.PanelSpec, inner int) *content.Panel {
	if p, ok := m.rendered[spec.ID]; ok && p.Width == inner {
		return p
	}
	m.wantWidth[spec.ID] = inner
	if p, ok := m.plain[spec.ID]; ok && p.Width == inner {
		return p
	}
	p := content.PlainPanel(spec, m.ctrl.Document().References, inner)
	m.plain[spec.ID] = p
	return p
}

// hintFor returns the usage hint of a panel for the current mode.
func (m *Model) hintFor(spec model.PanelSpec) string {
	if m.ctrl.Mode() == wm.ModeCompact {
		return strings.TrimSpace(spec.Hints.Compact)
	}
	return strings.TrimSpace(spec.Hints.Desktop)
}
