package wm

// TabGroup is a set of mutually exclusive tabs inside one panel, identified
// by name.
type TabGroup struct {
	PanelID string
	names   []string
	active  int
}

// NewTabGroup creates a group whose first tab is active.
func NewTabGroup(panelID string, names []string) *TabGroup {
	cp := make([]string, len(names))
	copy(cp, names)
	return &TabGroup{PanelID: panelID, names: cp}
}

// Len returns the number of tabs.
func (g *TabGroup) Len() int {
	return len(g.names)
}

// Active returns the name of the active tab.
func (g *TabGroup) Active() string {
	if len(g.names) == 0 {
		return ""
	}
	return g.names[g.active]
}

// ActiveIndex returns the position of the active tab.
func (g *TabGroup) ActiveIndex() int {
	return g.active
}

// IsActive reports whether name is the active tab.
func (g *TabGroup) IsActive(name string) bool {
	return len(g.names) > 0 && g.names[g.active] == name
}

// Switch activates the named tab. Unknown names and the already active tab
// leave the group untouched; it returns true only on change.
func (g *TabGroup) Switch(name string) bool {
	for i, n := range g.names {
		if n != name {
			continue
		}
		if i == g.active {
			return false
		}
		g.active = i
		return true
	}
	return false
}

// Cycle moves dir steps, wrapping at both ends.
func (g *TabGroup) Cycle(dir int) bool {
	n := len(g.names)
	if n < 2 || dir == 0 {
		return false
	}
	g.active = ((g.active+dir)%n + n) % n
	return true
}

// SwipeDirection converts a horizontal swipe distance into a tab step.
// Swiping left moves to the next tab and swiping right to the previous one.
// Distances shorter than threshold are noise and yield 0.
func SwipeDirection(dx, threshold int) int {
	if dx < 0 && -dx >= threshold {
		return 1
	}
	if dx > 0 && dx >= threshold {
		return -1
	}
	return 0
}
