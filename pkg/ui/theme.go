package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// SeriesColor maps a dataset palette color to a terminal color. Low-color
// terminals get distinguishable ANSI colors instead of a flat white.
func SeriesColor(hex string, index int) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		ansi := []lipgloss.ANSIColor{6, 5, 2, 3, 1, 4, 14, 13, 10, 11}
		return ansi[index%len(ansi)]
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Trend direction
	Rising    lipgloss.AdaptiveColor
	Declining lipgloss.AdaptiveColor
	Forecast  lipgloss.AdaptiveColor

	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed styles reused on every frame
	MutedText     lipgloss.Style
	InfoText      lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	RisingText    lipgloss.Style
	DecliningText lipgloss.Style
	ErrorText     lipgloss.Style
	TabActive     lipgloss.Style
	TabInactive   lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		Rising:    lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Declining: lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		Forecast:  lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.InfoText = r.NewStyle().Foreground(ColorInfo)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.RisingText = r.NewStyle().Foreground(t.Rising).Bold(true)
	t.DecliningText = r.NewStyle().Foreground(t.Declining).Bold(true)
	t.ErrorText = r.NewStyle().Foreground(ColorDanger)
	t.TabActive = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Background(t.Primary).
		Bold(true).
		Padding(0, 1)
	t.TabInactive = r.NewStyle().Foreground(t.Subtext).Padding(0, 1)

	return t
}

// GrowthStyle picks the rising or declining style for a rate.
func (t Theme) GrowthStyle(rate float64) lipgloss.Style {
	if rate < 0 {
		return t.DecliningText
	}
	return t.RisingText
}
