package ui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/kraitsura/termfolio/pkg/content"
	"github.com/kraitsura/termfolio/pkg/fetch"
	"github.com/kraitsura/termfolio/pkg/model"
	"github.com/kraitsura/termfolio/pkg/wm"
)

// navItem is one entry of the nav bar.
type navItem struct {
	id    string
	label string
	rect  model.Rect
}

// layout draws every panel at its current state and registers the
// surfaces that receive the pointer. It runs after every change, so the
// surface registry always matches what View shows.
func (m *Model) layout() {
	sf := m.ctrl.Surfaces()
	sf.Reset()
	m.views = make(map[string]*panelView)
	m.nav = m.nav[:0]
	m.column = nil
	m.spans = nil
	m.preview = nil

	vp := m.ctrl.Viewport()
	if !vp.Valid {
		return
	}
	m.layoutNav(sf)
	if m.ctrl.Mode() == wm.ModeCompact {
		m.layoutCompact(sf, vp)
	} else {
		m.layoutDesktop(sf, vp)
	}
	m.layoutPreview(sf, vp)
}

func (m *Model) layoutNav(sf *wm.Surfaces) {
	x := 1
	if title := m.ctrl.Document().Title; title != "" {
		x += runewidth.StringWidth(title) + 2
	}
	n := 0
	for _, spec := range m.ctrl.Document().Panels {
		if spec.Nav == "" {
			continue
		}
		if _, ok := m.ctrl.Registry().Get(spec.ID); !ok {
			continue
		}
		n++
		label := " " + spec.Nav + " "
		if n <= 9 {
			label = " " + strconv.Itoa(n) + " " + spec.Nav + " "
		}
		w := runewidth.StringWidth(label)
		if x+w > m.width-1 {
			break
		}
		item := navItem{id: spec.ID, label: label, rect: model.Rect{Left: x, Top: 0, Right: x + w, Bottom: NavHeight}}
		m.nav = append(m.nav, item)
		sf.Register(wm.Surface{Kind: wm.SurfaceNav, Key: spec.ID, Rect: item.rect})
		x += w + 1
	}
}

func (m *Model) layoutDesktop(sf *wm.Surfaces, vp wm.ViewportState) {
	reg := m.ctrl.Registry()
	for _, spec := range m.ctrl.Document().Panels {
		p, ok := reg.Get(spec.ID)
		if !ok {
			continue
		}
		v := m.buildPanel(spec, panelOpts{
			width:     desktopWidth(spec, vp.Container),
			maxHeight: desktopMaxHeight(spec, vp.Container),
			fixed:     spec.Height > 0,
			scroll:    m.scroll[spec.ID],
			active:    p.Active,
			dragging:  p.Dragging,
			hint:      m.hintFor(spec),
		})
		m.scroll[spec.ID] = v.scroll
		m.views[spec.ID] = v
		m.ctrl.SetPanelSize(spec.ID, model.Size{W: v.cv.Width(), H: v.cv.Height()})
	}

	// Recording sizes can clamp positions, so surfaces are placed after.
	for _, p := range reg.Panels() {
		v, ok := m.views[p.ID]
		if !ok {
			continue
		}
		off := model.Point{X: p.Pos.X, Y: p.Pos.Y + vp.NavHeight}
		sf.Register(wm.Surface{Kind: wm.SurfacePanel, PanelID: p.ID, Rect: v.cv.Bounds().Translate(off), Layer: p.Rank})
		for _, s := range v.surfaces {
			s.Rect = s.Rect.Translate(off)
			s.Layer = p.Rank
			sf.Register(s)
		}
	}
}

func (m *Model) layoutCompact(sf *wm.Surfaces, vp wm.ViewportState) {
	reg := m.ctrl.Registry()
	width := vp.Container.Width()
	top := 0
	for _, spec := range m.ctrl.Document().Panels {
		p, ok := reg.Get(spec.ID)
		if !ok {
			continue
		}
		v := m.buildPanel(spec, panelOpts{width: width, active: p.Active, hint: m.hintFor(spec)})
		m.views[spec.ID] = v
		m.spans = append(m.spans, wm.PanelSpan{ID: spec.ID, Top: top, Height: v.cv.Height()})
		top += v.cv.Height() + CompactGap
	}

	col := NewCanvas(width, max(top-CompactGap, 0))
	for _, s := range m.spans {
		col.Blit(m.views[s.ID].cv, 0, 0, s.Top, s.Height)
	}
	m.column = col
	m.colView.Width = width
	m.colView.Height = vp.Container.Height()
	m.colView.SetContent(col.String())
	m.colView.SetYOffset(m.colView.YOffset)

	for _, s := range m.spans {
		v := m.views[s.ID]
		off := model.Point{X: vp.Container.Left, Y: vp.Container.Top + s.Top - m.colView.YOffset}
		clip := func(r model.Rect) model.Rect {
			return r.Translate(off).Intersect(vp.Container)
		}
		sf.Register(wm.Surface{Kind: wm.SurfacePanel, PanelID: s.ID, Rect: clip(v.cv.Bounds()), Layer: 1})
		for _, x := range v.surfaces {
			x.Rect = clip(x.Rect)
			x.Layer = 1
			sf.Register(x)
		}
	}
}

// layoutPreview draws the preview overlay: centered in desktop mode and
// covering the container in compact mode.
func (m *Model) layoutPreview(sf *wm.Surfaces, vp wm.ViewportState) {
	p, ok := m.ctrl.Preview()
	if !ok || m.page == nil {
		return
	}
	c := vp.Container
	rect := c
	if m.ctrl.Mode() == wm.ModeDesktop {
		w := max(min(c.Width()-8, MaxPreviewWidth), min(30, c.Width()))
		h := max(c.Height()-2, min(8, c.Height()))
		rect = model.RectAt(
			model.Point{X: c.Left + (c.Width()-w)/2, Y: c.Top + (c.Height()-h)/2},
			model.Size{W: w, H: h},
		)
	}
	w, h := rect.Width(), rect.Height()
	if w < 8 || h < 4 {
		return
	}

	cv := NewCanvas(w, h)
	cv.Box(cv.Bounds(), OverlayBorder, stOverlayBorder)
	cv.Text(2, 0, w-9, " Preview: "+m.page.title()+" ", stTitleActive)
	closeX := w - 5
	cv.Text(closeX, 0, 3, "[x]", stClose)

	inner := w - PanelPadding
	body := h - 3
	lines := m.previewLines(inner)
	m.page.scroll = min(max(m.page.scroll, 0), max(len(lines)-body, 0))
	for i := 0; i < body && m.page.scroll+i < len(lines); i++ {
		cv.Text(2, 1+i, inner, lines[m.page.scroll+i], stNormal)
	}
	footer := "esc close • y copy url"
	if len(lines) > body {
		footer += " • ↑/↓ scroll"
	}
	cv.Text(2, h-2, inner, footer, stMuted)

	m.preview = cv
	m.prevAt = model.Point{X: rect.Left, Y: rect.Top}
	sf.Register(wm.Surface{Kind: wm.SurfaceOverlay, PanelID: p.InstanceID, Rect: rect, Layer: wm.PreviewRank})
	sf.Register(wm.Surface{
		Kind:    wm.SurfaceOverlayClose,
		PanelID: p.InstanceID,
		Rect:    model.Rect{Left: rect.Left + closeX, Top: rect.Top, Right: rect.Left + closeX + 3, Bottom: rect.Top + 1},
		Layer:   wm.PreviewRank,
	})
}

func (p *previewPage) title() string {
	if p.page != nil && p.page.Title != "" {
		return p.page.Title
	}
	return p.url
}

// previewLines returns the preview body wrapped to width.
func (m *Model) previewLines(width int) []string {
	pg := m.page
	switch {
	case pg.loading:
		return []string{"Loading " + pg.url + "…"}
	case pg.err != nil:
		return append([]string{"Could not load " + pg.url, ""}, content.Wrap(pg.err.Error(), width)...)
	case pg.page == nil:
		return nil
	}
	if pg.lines != nil && pg.width == width {
		return pg.lines
	}
	var lines []string
	if pg.page.Kind == fetch.KindMarkdown {
		lines = m.renderer.Text(pg.page.Body, width)
	} else {
		lines = wrapParagraphs(pg.page.Text(), width)
	}
	if lines == nil {
		lines = []string{}
	}
	pg.lines, pg.width = lines, width
	return lines
}

// wrapParagraphs wraps each line of text separately so that line breaks
// survive.
func wrapParagraphs(text string, width int) []string {
	var out []string
	for _, para := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if strings.TrimSpace(para) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, content.Wrap(para, width)...)
	}
	return out
}
