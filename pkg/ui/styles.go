package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired, with light-background counterparts
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorText        = lipgloss.AdaptiveColor{Light: "#282A36", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555A72", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#8A8FA8", Dark: "#6272A4"}
	ColorBorder      = lipgloss.AdaptiveColor{Light: "#B8BCCC", Dark: "#44475A"}
	ColorPrimary     = lipgloss.AdaptiveColor{Light: "#7C4DDB", Dark: "#BD93F9"}
	ColorSecondary   = lipgloss.AdaptiveColor{Light: "#3F6AB8", Dark: "#8BE9FD"}
	ColorLink        = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#50FA7B"}
	ColorDrag        = lipgloss.AdaptiveColor{Light: "#C45500", Dark: "#FFB86C"}
	ColorHighlight   = lipgloss.AdaptiveColor{Light: "#F1FA8C", Dark: "#F1FA8C"}
	ColorHighlightFg = lipgloss.AdaptiveColor{Light: "#282A36", Dark: "#282A36"}
	ColorDanger      = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF5555"}
)

// Theme binds the palette to a renderer. Flipping the renderer's background
// flag switches every adaptive color at once.
type Theme struct {
	Renderer *lipgloss.Renderer

	Text      lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Link      lipgloss.AdaptiveColor
	Drag      lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
}

// DefaultTheme returns the palette rendered through r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Text:      ColorText,
		Subtext:   ColorSubtext,
		Muted:     ColorMuted,
		Border:    ColorBorder,
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Link:      ColorLink,
		Drag:      ColorDrag,
		Highlight: ColorHighlight,
		Danger:    ColorDanger,
	}
}

// Dark reports whether the dark variant is in use.
func (t Theme) Dark() bool {
	return t.Renderer.HasDarkBackground()
}

// SetDark picks the dark or light variant.
func (t Theme) SetDark(dark bool) {
	t.Renderer.SetHasDarkBackground(dark)
}

// Name returns "dark" or "light".
func (t Theme) Name() string {
	if t.Dark() {
		return "dark"
	}
	return "light"
}

// styleID indexes the cell styles of a Canvas.
type styleID uint8

const (
	stNormal styleID = iota
	stMuted
	stBorder
	stBorderActive
	stBorderDrag
	stTitle
	stTitleActive
	stTab
	stTabActive
	stMarker
	stMarkerDead
	stHighlight
	stLink
	stNav
	stNavCurrent
	stOverlayBorder
	stClose
	stError
	stAbbr
	stTooltip
	stCount
)

// Styles resolves every cell style for the current background.
func (t Theme) Styles() [stCount]lipgloss.Style {
	r := t.Renderer
	var s [stCount]lipgloss.Style
	s[stNormal] = r.NewStyle().Foreground(t.Text)
	s[stMuted] = r.NewStyle().Foreground(t.Muted)
	s[stBorder] = r.NewStyle().Foreground(t.Border)
	s[stBorderActive] = r.NewStyle().Foreground(t.Primary)
	s[stBorderDrag] = r.NewStyle().Foreground(t.Drag)
	s[stTitle] = r.NewStyle().Foreground(t.Subtext)
	s[stTitleActive] = r.NewStyle().Foreground(t.Primary).Bold(true)
	s[stTab] = r.NewStyle().Foreground(t.Subtext)
	s[stTabActive] = r.NewStyle().Foreground(t.Primary).Bold(true).Underline(true)
	s[stMarker] = r.NewStyle().Foreground(t.Secondary)
	s[stMarkerDead] = r.NewStyle().Foreground(t.Muted)
	s[stHighlight] = r.NewStyle().Foreground(ColorHighlightFg).Background(t.Highlight).Bold(true)
	s[stLink] = r.NewStyle().Foreground(t.Link).Underline(true)
	s[stNav] = r.NewStyle().Foreground(t.Subtext)
	s[stNavCurrent] = r.NewStyle().Foreground(t.Primary).Bold(true).Reverse(true)
	s[stOverlayBorder] = r.NewStyle().Foreground(t.Secondary)
	s[stClose] = r.NewStyle().Foreground(t.Danger).Bold(true)
	s[stError] = r.NewStyle().Foreground(t.Danger)
	s[stAbbr] = r.NewStyle().Foreground(t.Text).Underline(true)
	s[stTooltip] = r.NewStyle().Foreground(ColorHighlightFg).Background(t.Secondary)
	return s
}

// Border styles for panels.
var (
	PanelBorder   = lipgloss.RoundedBorder()
	OverlayBorder = lipgloss.DoubleBorder()
)
