package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/trendscope/pkg/search"
)

// SourcesModel renders the source catalog with live document counts.
type SourcesModel struct {
	rows   []search.SourceCount
	cursor int
	width  int
	theme  Theme
}

func NewSourcesModel(theme Theme) SourcesModel {
	return SourcesModel{theme: theme}
}

func (m *SourcesModel) SetSize(width int) {
	m.width = width
}

func (m *SourcesModel) SetData(rows []search.SourceCount) {
	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	}
}

// Selected returns the highlighted source, if any.
func (m SourcesModel) Selected() (search.SourceCount, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return search.SourceCount{}, false
	}
	return m.rows[m.cursor], true
}

func (m *SourcesModel) Update(msg tea.KeyMsg) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "home", "g":
		m.cursor = 0
	case "G", "end":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}
	}
}

func (m SourcesModel) View() string {
	if len(m.rows) == 0 {
		return m.theme.MutedText.Render("No sources configured")
	}

	headers := []string{"Source", "Kind", "Documents"}
	widths := m.columnWidths(headers)

	var b strings.Builder
	b.WriteString(m.renderRow(headers, widths, true, false))
	b.WriteString("\n")
	for i, r := range m.rows {
		cells := []string{r.Name, r.Kind, fmt.Sprintf("%d", r.Count)}
		b.WriteString(m.renderRow(cells, widths, false, i == m.cursor))
		b.WriteString("\n")
	}

	if sel, ok := m.Selected(); ok {
		b.WriteString("\n")
		if sel.Description != "" {
			b.WriteString(m.theme.Base.Render(sel.Description))
			b.WriteString("\n")
		}
		if sel.URL != "" {
			b.WriteString(m.theme.InfoText.Render(sel.URL))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m SourcesModel) columnWidths(headers []string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, r := range m.rows {
		for i, c := range []string{r.Name, r.Kind, fmt.Sprintf("%d", r.Count)} {
			if n := runewidth.StringWidth(c); n > widths[i] {
				widths[i] = n
			}
		}
	}
	total := len(headers) - 1
	for _, w := range widths {
		total += w
	}
	if m.width > 0 && total > m.width {
		excess := total - m.width
		if excess >= widths[1]-4 {
			widths[1] = 4
		} else {
			widths[1] -= excess
		}
	}
	return widths
}

func (m SourcesModel) renderRow(cells []string, widths []int, header, selected bool) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		cell = truncate(cell, widths[i])
		if i == len(cells)-1 {
			parts[i] = padLeft(cell, widths[i])
		} else {
			parts[i] = padRight(cell, widths[i])
		}
	}
	row := strings.Join(parts, " ")
	if header {
		return m.theme.Header.Render(row)
	}
	if selected {
		return m.theme.Selected.Render(row)
	}
	return m.theme.Base.Render(row)
}
