package ui

import (
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kraitsura/termfolio/pkg/model"
	"github.com/kraitsura/termfolio/pkg/wm"
)

// Update handles all messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.renderPending())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		token := m.ctrl.Resize()
		if !m.ready {
			// The first size is the initial measurement; nothing to debounce.
			m.ready = true
			return m.apply(m.ctrl.SettleResize(token))
		}
		m.layout()
		return tea.Tick(m.cfg.ResizeDebounce, func(time.Time) tea.Msg {
			return resizeSettledMsg{token: token}
		})

	case resizeSettledMsg:
		fx := m.ctrl.SettleResize(msg.token)
		cmd := m.apply(fx)
		if fx.ModeChanged {
			return tea.Batch(cmd, m.setFlash("Switched to "+m.ctrl.Mode().String()+" mode", false))
		}
		return cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.BlurMsg:
		return m.apply(m.ctrl.PointerLost())

	case frameMsg:
		m.frameScheduled = false
		return m.apply(m.ctrl.Frame())

	case highlightExpiredMsg:
		return m.apply(m.ctrl.ExpireHighlight(msg.element, msg.token))

	case tooltipExpiredMsg:
		return m.apply(m.ctrl.ExpireTooltip(msg.token))

	case centerMsg:
		m.centerOn(msg.element)

	case previewLoadedMsg:
		if m.page == nil || m.page.url != msg.url {
			return nil
		}
		m.page.loading = false
		m.page.page, m.page.err = msg.page, msg.err
		m.page.lines = nil
		if msg.err != nil {
			log.Printf("Warning: preview %s: %v", msg.url, msg.err)
		}
		m.layout()

	case renderedMsg:
		if msg.gen != m.renderGen {
			return nil
		}
		m.rendering = false
		for id, p := range msg.panels {
			if p != nil {
				m.rendered[id] = p
			}
		}
		if msg.err != nil {
			m.renderFailures++
			if m.renderFailures > maxRenderRetries {
				log.Printf("Warning: rendering panels: %v; keeping plain text", msg.err)
				return nil
			}
			log.Printf("Warning: rendering panels: %v; retrying", msg.err)
		} else {
			m.renderFailures = 0
		}
		m.layout()

	case fileChangedMsg:
		if msg.closed {
			return nil
		}
		if msg.event.Err != nil {
			log.Printf("Warning: watching document: %v", msg.event.Err)
			return tea.Batch(m.setFlash("Watch error (see log)", true), waitForChange(m.events))
		}
		return tea.Batch(m.loadDocument(), waitForChange(m.events))

	case documentLoadedMsg:
		if msg.err != nil {
			log.Printf("Warning: reload failed: %v", msg.err)
			return m.setFlash("Reload failed: "+msg.err.Error(), true)
		}
		cmd := m.setDocument(msg.result, m.ctrl)
		if cmd == nil {
			cmd = m.setFlash("Reloaded "+m.docPath, false)
		}
		return tea.Batch(cmd, m.apply(m.ctrl.SettleResize(m.ctrl.Resize())))

	case flashExpiredMsg:
		if msg.gen == m.flashGen {
			m.flash = ""
		}
	}
	return nil
}

// apply carries out what the controller asked for and lays the screen out
// again.
func (m *Model) apply(fx wm.Effects) tea.Cmd {
	var cmds []tea.Cmd
	if fx.NeedFrame && !m.frameScheduled {
		m.frameScheduled = true
		cmds = append(cmds, frameTick())
	}
	if fx.PreviewClosed {
		m.page = nil
	}
	if fx.PreviewURL != "" {
		m.page = &previewPage{url: fx.PreviewURL, loading: true}
		cmds = append(cmds, m.fetchPreview(fx.PreviewURL))
	}
	if h := fx.Highlight; h != nil {
		m.revealTab(h.Element)
		cmds = append(cmds, tea.Tick(m.cfg.HighlightDuration, func(time.Time) tea.Msg {
			return highlightExpiredMsg{element: h.Element, token: h.Token}
		}))
	}
	if token := fx.Tooltip; token != 0 {
		cmds = append(cmds, tea.Tick(m.cfg.TooltipDuration, func(time.Time) tea.Msg {
			return tooltipExpiredMsg{token: token}
		}))
	}
	if fx.OpenURL != "" {
		cmds = append(cmds, m.copyURL(fx.OpenURL))
	}

	m.layout()

	if fx.Highlight != nil && m.ctrl.Mode() == wm.ModeDesktop {
		m.revealLine(fx.Highlight.Element)
	}
	if fx.ScrollTo != "" {
		m.scrollToPanel(fx.ScrollTo)
	}
	if el := fx.CenterOn; el != "" {
		cmds = append(cmds, tea.Tick(m.cfg.CenterDelay, func(time.Time) tea.Msg {
			return centerMsg{element: el}
		}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.help.IsVisible() {
		m.help, _ = m.help.Update(msg)
		return nil
	}
	if m.picker.IsVisible() {
		m.picker.Update(msg.String())
		if m.picker.IsVisible() || !m.picker.IsConfirmed() {
			return nil
		}
		item := m.picker.SelectedItem()
		if item.Tab != "" {
			m.ctrl.SwitchTab(item.PanelID, item.Tab)
		}
		return m.apply(m.ctrl.FocusPanel(item.PanelID))
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Escape):
		return m.apply(m.ctrl.Key(wm.ActionEscape))
	case key.Matches(msg, k.NextPanel):
		return m.apply(m.ctrl.Key(wm.ActionFocusNext))
	case key.Matches(msg, k.PrevPanel):
		return m.apply(m.ctrl.Key(wm.ActionFocusPrev))
	case key.Matches(msg, k.PrevTab):
		return m.apply(m.ctrl.Key(wm.ActionTabPrev))
	case key.Matches(msg, k.NextTab):
		return m.apply(m.ctrl.Key(wm.ActionTabNext))
	case key.Matches(msg, k.Jump):
		n := int(msg.String()[0] - '1')
		if n < len(m.nav) {
			return m.apply(m.ctrl.FocusPanel(m.nav[n].id))
		}
	case key.Matches(msg, k.Preview):
		return m.apply(m.ctrl.Key(wm.ActionOpenPreview))
	case key.Matches(msg, k.Copy):
		return m.copyLink()
	case key.Matches(msg, k.Find):
		m.picker.Show()
	case key.Matches(msg, k.Theme):
		m.theme.SetDark(!m.theme.Dark())
		return m.setFlash(m.theme.Name()+" theme", false)
	case key.Matches(msg, k.Help):
		m.help.Show()
	case key.Matches(msg, k.Up):
		return m.scrollBy(-1)
	case key.Matches(msg, k.Down):
		return m.scrollBy(1)
	case key.Matches(msg, k.PageUp):
		return m.scrollBy(-m.pageSize())
	case key.Matches(msg, k.PageDown):
		return m.scrollBy(m.pageSize())
	case key.Matches(msg, k.Reload):
		return m.loadDocument()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.help.IsVisible() {
		m.help, _ = m.help.Update(msg)
		return nil
	}
	if m.picker.IsVisible() {
		if msg.Action == tea.MouseActionPress {
			m.picker.Hide()
		}
		return nil
	}

	pt := model.Point{X: msg.X, Y: msg.Y}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.wheel(pt, -WheelStep)
	case tea.MouseButtonWheelDown:
		return m.wheel(pt, WheelStep)
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return m.apply(m.ctrl.PointerDown(pt))
		}
	case tea.MouseActionMotion:
		if fx := m.ctrl.PointerMove(pt); fx.NeedFrame || fx.Changed {
			return m.apply(fx)
		}
	case tea.MouseActionRelease:
		return m.apply(m.ctrl.PointerUp(pt))
	}
	return nil
}

// wheel scrolls whatever is under the pointer.
func (m *Model) wheel(pt model.Point, delta int) tea.Cmd {
	m.ctrl.DismissTooltip()
	sf, hit := m.ctrl.Surfaces().HitTest(pt)
	if m.page != nil && (m.ctrl.Mode() == wm.ModeCompact || hit && sf.Layer >= wm.PreviewRank) {
		m.page.scroll += delta
		m.layout()
		return nil
	}
	if m.ctrl.Mode() == wm.ModeCompact {
		return m.scrollColumn(delta)
	}
	if hit && sf.PanelID != "" {
		m.scroll[sf.PanelID] += delta
		m.layout()
	}
	return nil
}

// scrollBy scrolls the preview, the compact column or the active panel.
func (m *Model) scrollBy(delta int) tea.Cmd {
	m.ctrl.DismissTooltip()
	if m.page != nil {
		m.page.scroll += delta
		m.layout()
		return nil
	}
	if m.ctrl.Mode() == wm.ModeCompact {
		return m.scrollColumn(delta)
	}
	if id := m.ctrl.Registry().ActiveID(); id != "" {
		m.scroll[id] += delta
		m.layout()
	}
	return nil
}

// scrollColumn is a user scroll of the compact column; focus follows what
// comes into view.
func (m *Model) scrollColumn(delta int) tea.Cmd {
	m.colView.SetYOffset(m.colView.YOffset + delta)
	fx := m.ctrl.UpdateVisibility(m.spans, m.colView.YOffset, m.colView.Height)
	return m.apply(fx)
}

func (m *Model) pageSize() int {
	switch {
	case m.page != nil && m.preview != nil:
		return max(m.preview.Height()-4, 1)
	case m.ctrl.Mode() == wm.ModeCompact:
		return max(m.colView.Height-1, 1)
	}
	if v, ok := m.views[m.ctrl.Registry().ActiveID()]; ok {
		return max(v.avail-1, 1)
	}
	return 1
}

// scrollToPanel brings a panel to the top of the compact column. Panels
// uncovered on the way must not take focus, so visibility is synced
// without activation.
func (m *Model) scrollToPanel(id string) {
	if m.ctrl.Mode() != wm.ModeCompact {
		return
	}
	for _, s := range m.spans {
		if s.ID == id {
			m.colView.SetYOffset(s.Top)
			m.ctrl.SyncVisibility(m.spans, m.colView.YOffset, m.colView.Height)
			m.layout()
			return
		}
	}
}

// centerOn scrolls the compact column so an element sits mid-screen.
func (m *Model) centerOn(el string) {
	if m.ctrl.Mode() != wm.ModeCompact {
		return
	}
	for _, s := range m.spans {
		v := m.views[s.ID]
		line, ok := v.elements[el]
		if !ok {
			continue
		}
		row := s.Top + v.contentTop + line
		m.colView.SetYOffset(row - m.colView.Height/2)
		m.ctrl.SyncVisibility(m.spans, m.colView.YOffset, m.colView.Height)
		m.layout()
		return
	}
}

// revealTab switches to the tab holding a highlighted citation marker.
func (m *Model) revealTab(el string) {
	for n, panelID := range m.ctrl.Navigator().Mapping() {
		if wm.MarkerElement(n) != el {
			continue
		}
		spec, ok := m.ctrl.Document().Panel(panelID)
		if !ok {
			return
		}
		marker := model.MarkerText(n)
		if strings.Contains(spec.Body, marker) {
			return
		}
		for _, t := range spec.Tabs {
			if strings.Contains(t.Body, marker) {
				m.ctrl.SwitchTab(panelID, t.Name)
				return
			}
		}
		return
	}
}

// revealLine scrolls the active desktop panel to a highlighted element.
func (m *Model) revealLine(el string) {
	id := m.ctrl.Registry().ActiveID()
	v, ok := m.views[id]
	if !ok {
		return
	}
	line, ok := v.elements[el]
	if !ok {
		return
	}
	if _, visible := v.row(line); visible {
		return
	}
	m.scroll[id] = max(line-v.avail/2, 0)
	m.layout()
}

// copyLink copies the preview URL, or the first link of the active panel.
func (m *Model) copyLink() tea.Cmd {
	if p, ok := m.ctrl.Preview(); ok {
		return m.copyURL(p.URL)
	}
	if spec, ok := m.ctrl.Document().Panel(m.ctrl.Registry().ActiveID()); ok && len(spec.Links) > 0 {
		return m.copyURL(spec.Links[0].URL)
	}
	return m.setFlash("No link to copy", true)
}

// copyURL puts a link on the clipboard; the terminal cannot follow it.
func (m *Model) copyURL(url string) tea.Cmd {
	if err := m.copyText(url); err != nil {
		log.Printf("Warning: clipboard: %v", err)
		return m.setFlash("Could not copy "+url, true)
	}
	return m.setFlash("Copied "+url, false)
}
