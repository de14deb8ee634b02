package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/kraitsura/termfolio/pkg/model"
)

var helpSections = []string{"PANELS", "TABS & SCROLLING", "LINKS", "GENERAL"}

// HelpOverlayModel shows keyboard shortcuts help
type HelpOverlayModel struct {
	visible bool
	keys    KeyMap
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(keys KeyMap) HelpOverlayModel {
	return HelpOverlayModel{keys: keys}
}

// Show makes the help overlay visible
func (m *HelpOverlayModel) Show() {
	m.visible = true
}

// Hide makes the help overlay invisible
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			m.visible = false
		}
	}

	return m, nil
}

// lines lays the help out as (text, style) rows.
func (m HelpOverlayModel) lines() ([]string, []styleID, int) {
	const keyCol = 12
	var text []string
	var styles []styleID
	width := 0
	add := func(s string, st styleID) {
		text = append(text, s)
		styles = append(styles, st)
		width = max(width, runewidth.StringWidth(s))
	}

	add("termfolio help", stTitleActive)
	for i, group := range m.keys.FullHelp() {
		add("", stNormal)
		if i < len(helpSections) {
			add(helpSections[i], stMarker)
		}
		for _, b := range group {
			h := b.Help()
			k := h.Key
			if pad := keyCol - runewidth.StringWidth(k); pad > 0 {
				k += strings.Repeat(" ", pad)
			}
			add("  "+k+h.Desc, stNormal)
		}
	}
	add("", stNormal)
	add("Mouse: drag a focused panel by its title bar", stMuted)
	add("[Press any key to close]", stMuted)
	return text, styles, width
}

// Draw paints the overlay centered on the canvas.
func (m HelpOverlayModel) Draw(cv *Canvas) {
	if !m.visible {
		return
	}
	text, styles, width := m.lines()
	w := min(width+6, cv.Width())
	h := min(len(text)+4, cv.Height())
	x := max((cv.Width()-w)/2, 0)
	y := max((cv.Height()-h)/2, 0)
	box := model.RectAt(model.Point{X: x, Y: y}, model.Size{W: w, H: h})

	cv.Fill(box, ' ', stNormal)
	cv.Box(box, PanelBorder, stBorderActive)
	for i, line := range text {
		row := y + 2 + i
		if row >= box.Bottom-1 {
			break
		}
		cv.Text(x+3, row, w-6, line, styles[i])
	}
}
