package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"

	"github.com/kraitsura/termfolio/pkg/loader"
	"github.com/kraitsura/termfolio/pkg/model"
)

// PanelPickerModel is the fuzzy "jump to panel or tab" overlay
type PanelPickerModel struct {
	// Data
	outline       *loader.Outline
	labels        []string
	filteredItems []loader.OutlineEntry

	// UI State
	searchInput   textinput.Model
	selectedIndex int
	visible       bool

	// Selection result
	confirmed    bool
	selectedItem *loader.OutlineEntry
}

// NewPanelPickerModel creates a picker over a document outline
func NewPanelPickerModel(outline *loader.Outline) PanelPickerModel {
	ti := textinput.New()
	ti.Placeholder = "Jump to panel or tab..."
	ti.CharLimit = 64
	ti.Width = 40

	if outline == nil {
		outline = loader.BuildOutline(nil)
	}
	return PanelPickerModel{
		outline:       outline,
		labels:        outline.Labels(),
		filteredItems: outline.Entries,
		searchInput:   ti,
	}
}

// Show opens the picker with an empty query
func (m *PanelPickerModel) Show() {
	m.Reset()
	m.visible = true
	m.searchInput.Focus()
}

// Hide closes the picker
func (m *PanelPickerModel) Hide() {
	m.visible = false
	m.searchInput.Blur()
}

// IsVisible returns true if the picker is showing
func (m *PanelPickerModel) IsVisible() bool {
	return m.visible
}

// Update handles input and returns whether the key was consumed
func (m *PanelPickerModel) Update(key string) (handled bool) {
	switch key {
	case "up", "ctrl+p":
		m.moveUp()
		return true
	case "down", "ctrl+n":
		m.moveDown()
		return true
	case "enter":
		if len(m.filteredItems) > 0 && m.selectedIndex < len(m.filteredItems) {
			item := m.filteredItems[m.selectedIndex]
			m.selectedItem = &item
			m.confirmed = true
		}
		m.Hide()
		return true
	case "esc":
		m.confirmed = false
		m.selectedItem = nil
		m.Hide()
		return true
	case "backspace":
		if v := []rune(m.searchInput.Value()); len(v) > 0 {
			m.searchInput.SetValue(string(v[:len(v)-1]))
			m.filterItems()
		}
		return true
	default:
		if IsPrintableKey(key) {
			m.searchInput.SetValue(m.searchInput.Value() + key)
			m.filterItems()
			return true
		}
	}
	return false
}

func (m *PanelPickerModel) moveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

func (m *PanelPickerModel) moveDown() {
	if m.selectedIndex < len(m.filteredItems)-1 {
		m.selectedIndex++
	}
}

func (m *PanelPickerModel) filterItems() {
	query := strings.TrimSpace(m.searchInput.Value())
	m.selectedIndex = 0
	if query == "" {
		m.filteredItems = m.outline.Entries
		return
	}

	matches := fuzzy.Find(query, m.labels)
	m.filteredItems = make([]loader.OutlineEntry, 0, len(matches))
	for _, match := range matches {
		m.filteredItems = append(m.filteredItems, m.outline.Entries[match.Index])
	}
}

// IsConfirmed returns true if user confirmed a selection
func (m *PanelPickerModel) IsConfirmed() bool {
	return m.confirmed
}

// SelectedItem returns the selected entry, or nil if none
func (m *PanelPickerModel) SelectedItem() *loader.OutlineEntry {
	return m.selectedItem
}

// Reset clears the selection state for reuse
func (m *PanelPickerModel) Reset() {
	m.confirmed = false
	m.selectedItem = nil
	m.searchInput.SetValue("")
	m.filteredItems = m.outline.Entries
	m.selectedIndex = 0
}

// SearchValue returns the current search input value
func (m *PanelPickerModel) SearchValue() string {
	return m.searchInput.Value()
}

// ItemCount returns the number of filtered items
func (m *PanelPickerModel) ItemCount() int {
	return len(m.filteredItems)
}

// Draw paints the picker centered on the canvas.
func (m *PanelPickerModel) Draw(cv *Canvas) {
	if !m.visible {
		return
	}

	boxWidth := 55
	if cv.Width() < 65 {
		boxWidth = cv.Width() - 4
	}
	boxWidth = min(max(boxWidth, 24), cv.Width())
	contentWidth := boxWidth - 4

	maxVisible := min(max(cv.Height()-10, 3), 12)
	shown := min(len(m.filteredItems), maxVisible)
	rows := 4 + max(shown, 1)
	if len(m.filteredItems) > maxVisible {
		rows++
	}
	boxHeight := min(rows+2, cv.Height())

	x := max((cv.Width()-boxWidth)/2, 0)
	y := max((cv.Height()-boxHeight)/3, 0)
	box := model.RectAt(model.Point{X: x, Y: y}, model.Size{W: boxWidth, H: boxHeight})
	cv.Fill(box, ' ', stNormal)
	cv.Box(box, PanelBorder, stBorderActive)
	cv.Text(x+2, y, contentWidth, " Jump to ", stTitleActive)

	row := y + 1
	if v := m.searchInput.Value(); v == "" {
		cv.Text(x+2, row, contentWidth, "> "+m.searchInput.Placeholder, stMuted)
	} else {
		cv.Text(x+2, row, contentWidth, "> "+v+"▏", stNormal)
	}
	row += 2

	if len(m.filteredItems) == 0 {
		cv.Text(x+2, row, contentWidth, "No matching panels", stMuted)
	}
	// Keep the selection inside the visible window.
	offset := max(0, m.selectedIndex-maxVisible+1)
	for i := offset; i < len(m.filteredItems) && i < offset+maxVisible; i++ {
		item := m.filteredItems[i]
		prefix, st := "  ", stNormal
		if i == m.selectedIndex {
			prefix, st = "▸ ", stTitleActive
		}
		if item.Tab != "" && i != m.selectedIndex {
			st = stTab
		}
		cv.Text(x+2, row, contentWidth, prefix+item.Label, st)
		row++
	}
	if len(m.filteredItems) > maxVisible {
		cv.Text(x+2, row, contentWidth, "  ... and "+strconv.Itoa(len(m.filteredItems)-maxVisible)+" more", stMuted)
	}
	cv.Text(x+2, box.Bottom-1, contentWidth, " ↑/↓ navigate • enter jump • esc cancel ", stMuted)
}
