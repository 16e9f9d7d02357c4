package brief

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

var boldStyle = lipgloss.NewStyle().Bold(true)

// FormatBriefHTML renders **x** as <strong>x</strong> and line breaks as
// <br>. Other text is escaped.
func FormatBriefHTML(text string) string {
	escaped := html.EscapeString(text)
	escaped = boldPattern.ReplaceAllString(escaped, "<strong>$1</strong>")
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

// FormatBriefTerminal renders the brief for a terminal of the given width.
// Only **x** is styled; every other character, including markdown-looking
// headings, lists and backticks, is kept as written. Lines longer than width
// are word wrapped.
func FormatBriefTerminal(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		line = boldPattern.ReplaceAllStringFunc(line, func(m string) string {
			return boldStyle.Render(boldPattern.FindStringSubmatch(m)[1])
		})
		lines[i] = ansi.Wordwrap(line, width, "")
	}
	return strings.Join(lines, "\n")
}
