package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/trendscope/pkg/model"
	"github.com/vanderheijden86/trendscope/pkg/search"
)

// DocumentItem wraps model.Document to implement list.Item
type DocumentItem struct {
	Doc model.Document
}

func (i DocumentItem) Title() string       { return i.Doc.Title }
func (i DocumentItem) Description() string { return i.Doc.Text }
func (i DocumentItem) FilterValue() string {
	return strings.Join(search.DocumentFields(i.Doc), " ")
}

// DocumentDelegate renders a document as a title line and a snippet line.
type DocumentDelegate struct {
	Theme Theme
}

func (d DocumentDelegate) Height() int  { return 2 }
func (d DocumentDelegate) Spacing() int { return 1 }

func (d DocumentDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d DocumentDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(DocumentItem)
	if !ok {
		return
	}
	t := d.Theme
	width := m.Width() - 1
	if width <= 0 {
		width = 79
	}

	meta := oneLine(strings.Join(nonEmpty(i.Doc.Source, i.Doc.Technology, i.Doc.Date), " · "))
	metaW := runewidth.StringWidth(meta)
	titleW := width - metaW - 3
	if titleW < 10 {
		titleW = 10
	}

	title := truncate(oneLine(i.Doc.Title), titleW)
	if title == "" {
		title = "(untitled)"
	}
	line1 := padRight(title, titleW) + "  " + t.SecondaryText.Render(meta)
	line2 := t.MutedText.Render(truncate(oneLine(i.Doc.Text), width-2))

	if index == m.Index() {
		fmt.Fprint(w, t.PrimaryBold.Render("▸ ")+line1+"\n  "+line2)
		return
	}
	fmt.Fprint(w, "  "+line1+"\n  "+line2)
}

func nonEmpty(parts ...string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// DocumentsModel is the free-text document search view.
type DocumentsModel struct {
	docs    []model.Document
	results []model.Document
	input   textinput.Model
	list    list.Model
	theme   Theme
}

func NewDocumentsModel(theme Theme) DocumentsModel {
	ti := textinput.New()
	ti.Placeholder = "Search title, text or technology"
	ti.Prompt = "🔎 "
	ti.CharLimit = 120

	l := list.New(nil, DocumentDelegate{Theme: theme}, 80, 20)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return DocumentsModel{input: ti, list: l, theme: theme}
}

func (m *DocumentsModel) SetSize(width, height int) {
	m.input.Width = width - 4
	m.list.SetSize(width, height-3)
}

// SetDocuments replaces the corpus and re-applies the current query.
func (m *DocumentsModel) SetDocuments(docs []model.Document) {
	m.docs = docs
	m.refilter()
}

// Query returns the current filter text.
func (m DocumentsModel) Query() string {
	return m.input.Value()
}

// Results returns the documents matching the current query.
func (m DocumentsModel) Results() []model.Document {
	return m.results
}

// Focused reports whether the search box has focus.
func (m DocumentsModel) Focused() bool {
	return m.input.Focused()
}

func (m *DocumentsModel) refilter() {
	m.results = search.FilterDocuments(m.docs, m.input.Value())
	items := make([]list.Item, len(m.results))
	for i, d := range m.results {
		items[i] = DocumentItem{Doc: d}
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
}

// Update handles keys for the documents view. "/" focuses the search box,
// esc or enter leaves it.
func (m DocumentsModel) Update(msg tea.Msg) (DocumentsModel, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if m.input.Focused() {
		if isKey {
			switch key.String() {
			case "esc", "enter":
				m.input.Blur()
				return m, nil
			}
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.refilter()
		}
		return m, cmd
	}
	if isKey {
		switch key.String() {
		case "/":
			return m, m.input.Focus()
		case "ctrl+u":
			m.input.SetValue("")
			m.refilter()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m DocumentsModel) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.theme.MutedText.Render(fmt.Sprintf("%d of %d documents", len(m.results), len(m.docs))))
	b.WriteString("\n")
	if len(m.results) == 0 {
		if len(m.docs) == 0 {
			b.WriteString(m.theme.MutedText.Render("No documents loaded"))
		} else {
			b.WriteString(m.theme.MutedText.Render("No documents match"))
		}
		return b.String()
	}
	b.WriteString(m.list.View())
	return b.String()
}
