package wm

// Mode selects the behavior set.
type Mode int

const (
	// ModeDesktop positions panels freely: click to focus, drag by header.
	ModeDesktop Mode = iota
	// ModeCompact stacks panels in a scrolling column: focus follows
	// visibility, tabs switch by swipe.
	ModeCompact
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeDesktop:
		return "desktop"
	case ModeCompact:
		return "compact"
	default:
		return "unknown"
	}
}

// ParseMode converts a configuration value. Anything unrecognized means
// "decide from the screen width".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "desktop":
		return ModeDesktop, true
	case "compact":
		return ModeCompact, true
	}
	return ModeDesktop, false
}

// DecideMode picks the behavior set for a screen width.
func DecideMode(width, breakpoint int) Mode {
	if width < breakpoint {
		return ModeCompact
	}
	return ModeDesktop
}
