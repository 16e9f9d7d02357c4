package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/trendscope/pkg/analysis"
)

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
	SpaceLG = 4
)

// Adaptive colors for light and dark terminals. Light mode colors are tuned
// for a contrast ratio of at least 4.5:1.
var (
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
)

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight)

	// FocusedPanelStyle is the style for focused panels
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	// CardStyle frames a summary card
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight).
			Padding(0, 1)
)

// RenderGrowthBadge returns a colored, signed percentage like "▲ +42.5%".
func RenderGrowthBadge(t Theme, rate float64) string {
	arrow := "▲"
	if rate < 0 {
		arrow = "▼"
	}
	return t.GrowthStyle(rate).Render(arrow + " " + analysis.FormatGrowth(rate))
}

// RenderCard draws one summary card at the given outer width.
func RenderCard(t Theme, card analysis.SummaryCard, width int) string {
	inner := width - 4
	if inner < 8 {
		inner = 8
	}
	label := t.MutedText.Render(truncate(card.Icon+" "+card.Label, inner))
	value := t.PrimaryBold.Render(truncate(card.Value, inner))

	change := ""
	if card.ChangeText != "" {
		style := t.DecliningText
		if card.IsPositive {
			style = t.RisingText
		}
		change = style.Render(truncate(card.ChangeText, inner))
	}
	return CardStyle.Width(width - 2).Render(strings.Join([]string{label, value, change}, "\n"))
}

// RenderSectionTitle renders a bold, underlined section heading.
func RenderSectionTitle(t Theme, title string) string {
	return t.PrimaryBold.Underline(true).Render(title)
}

// RenderBar draws a horizontal bar of width cells filled to share (0..1).
func RenderBar(share float64, width int, color lipgloss.TerminalColor) string {
	if width <= 0 {
		return ""
	}
	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	filled := int(share*float64(width) + 0.5)
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(ColorBgHighlight).Render(strings.Repeat("░", width-filled))
	return bar + rest
}
