package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/trendscope/pkg/analysis"
	"github.com/vanderheijden86/trendscope/pkg/brief"
	"github.com/vanderheijden86/trendscope/pkg/debug"
)

var (
	defaultClipboardWrite = clipboard.WriteAll
	clipboardWrite        = defaultClipboardWrite
)

// BriefPanel lets the user pick a ranked topic and request its brief. All
// brief errors stay inside this panel.
type BriefPanel struct {
	ctx     context.Context
	fetcher brief.Fetcher
	ctrl    brief.Controller

	topics []string
	growth map[string]float64
	cursor int

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
	theme    Theme
	notice   string
}

func NewBriefPanel(ctx context.Context, f brief.Fetcher, theme Theme) BriefPanel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorInfo)
	return BriefPanel{
		ctx:      ctx,
		fetcher:  f,
		ctrl:     brief.New(),
		spinner:  sp,
		viewport: viewport.New(60, 10),
		theme:    theme,
	}
}

func (p *BriefPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.Width = p.textWidth()
	p.viewport.Height = max(height-4, 3)
	p.refreshViewport()
}

func (p BriefPanel) listWidth() int {
	w := p.width / 3
	if w < 20 {
		w = 20
	}
	return w
}

func (p BriefPanel) textWidth() int {
	w := p.width - p.listWidth() - 3
	if w < 20 {
		w = 20
	}
	return w
}

// SetTopics installs the ranked topics. The current selection is kept when
// it is still present; otherwise the first topic is selected.
func (p *BriefPanel) SetTopics(ranked []string, growth map[string]float64) {
	p.topics = ranked
	p.growth = growth
	current := p.ctrl.Topic()
	for i, t := range ranked {
		if t == current {
			p.cursor = i
			return
		}
	}
	p.cursor = 0
	if len(ranked) > 0 {
		p.ctrl = p.ctrl.Select(ranked[0])
	} else {
		p.ctrl = p.ctrl.Select("")
	}
	p.refreshViewport()
}

// HasTopics reports whether the panel has anything to show.
func (p BriefPanel) HasTopics() bool {
	return len(p.topics) > 0
}

// State exposes the controller state for rendering and tests.
func (p BriefPanel) State() brief.State {
	return p.ctrl.State()
}

// Mount is called when the panel becomes visible. A previously closed
// controller restarts Idle on the highlighted topic.
func (p BriefPanel) Mount() BriefPanel {
	if p.ctrl.Closed() {
		topic := ""
		if p.cursor < len(p.topics) {
			topic = p.topics[p.cursor]
		}
		p.ctrl = p.ctrl.Select(topic)
		p.notice = ""
		p.refreshViewport()
	}
	return p
}

// Unmount closes the controller so in-flight results are dropped.
func (p BriefPanel) Unmount() BriefPanel {
	p.ctrl = p.ctrl.Close()
	return p
}

// Apply folds a brief result into the panel.
func (p BriefPanel) Apply(r brief.Result) BriefPanel {
	var applied bool
	p.ctrl, applied = p.ctrl.Apply(r)
	if !applied {
		debug.Log("brief: dropped stale result for %q (gen %d)", r.Request.Topic, r.Request.Generation)
		return p
	}
	p.refreshViewport()
	return p
}

func (p BriefPanel) Update(msg tea.Msg) (BriefPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if p.ctrl.State().Phase != brief.PhaseLoading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if p.cursor < len(p.topics)-1 {
				p.cursor++
			}
		case "k", "up":
			if p.cursor > 0 {
				p.cursor--
			}
		case "enter":
			if p.cursor < len(p.topics) {
				p.ctrl = p.ctrl.Select(p.topics[p.cursor])
				p.notice = ""
				p.refreshViewport()
			}
		case "g":
			var req brief.Request
			var ok bool
			p.ctrl, req, ok = p.ctrl.Trigger()
			if !ok {
				return p, nil
			}
			p.notice = ""
			p.refreshViewport()
			return p, tea.Batch(FetchBriefCmd(p.ctx, p.fetcher, req), p.spinner.Tick)
		case "y":
			st := p.ctrl.State()
			if st.Phase != brief.PhaseSuccess {
				p.notice = "Nothing to copy yet"
				return p, nil
			}
			if err := clipboardWrite(st.Text); err != nil {
				p.notice = fmt.Sprintf("Clipboard error: %v", err)
			} else {
				p.notice = fmt.Sprintf("Copied brief for %s", st.Topic)
			}
		default:
			var cmd tea.Cmd
			p.viewport, cmd = p.viewport.Update(msg)
			return p, cmd
		}
	}
	return p, nil
}

func (p *BriefPanel) refreshViewport() {
	st := p.ctrl.State()
	var content string
	switch st.Phase {
	case brief.PhaseSuccess:
		content = brief.FormatBriefTerminal(st.Text, p.textWidth())
	case brief.PhaseError:
		content = p.theme.ErrorText.Render(st.Message)
	default:
		content = ""
	}
	p.viewport.SetContent(content)
	p.viewport.GotoTop()
}

func (p BriefPanel) View() string {
	if len(p.topics) == 0 {
		return ""
	}

	var list strings.Builder
	list.WriteString(RenderSectionTitle(p.theme, "Topics"))
	list.WriteString("\n")
	lw := p.listWidth()
	selectedTopic := p.ctrl.Topic()
	for i, topic := range p.topics {
		marker := "  "
		if topic == selectedTopic {
			marker = "● "
		}
		rate := analysis.FormatGrowth(p.growth[topic])
		name := truncate(topic, lw-len(rate)-4)
		line := marker + padRight(name, lw-len(rate)-3) + " " + p.theme.GrowthStyle(p.growth[topic]).Render(rate)
		if i == p.cursor {
			line = p.theme.Selected.Render(line)
		}
		list.WriteString(line)
		list.WriteString("\n")
	}

	st := p.ctrl.State()
	var right strings.Builder
	right.WriteString(RenderSectionTitle(p.theme, "Brief: "+st.Topic))
	right.WriteString("\n")
	switch st.Phase {
	case brief.PhaseIdle:
		right.WriteString(p.theme.MutedText.Render("Press g to generate a brief"))
	case brief.PhaseLoading:
		right.WriteString(p.spinner.View() + " Generating brief…")
	case brief.PhaseSuccess, brief.PhaseError:
		right.WriteString(p.viewport.View())
	}
	if p.notice != "" {
		right.WriteString("\n")
		right.WriteString(p.theme.InfoText.Render(p.notice))
	}
	right.WriteString("\n")
	right.WriteString(p.theme.MutedText.Render("enter select • g generate • y copy"))

	left := lipgloss.NewStyle().Width(lw).Render(strings.TrimRight(list.String(), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right.String())
}
