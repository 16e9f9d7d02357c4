// Package ui is the trendscope terminal dashboard.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/trendscope/internal/datasource"
	"github.com/vanderheijden86/trendscope/pkg/analysis"
	"github.com/vanderheijden86/trendscope/pkg/debug"
	"github.com/vanderheijden86/trendscope/pkg/metrics"
	"github.com/vanderheijden86/trendscope/pkg/model"
	"github.com/vanderheijden86/trendscope/pkg/search"
	"github.com/vanderheijden86/trendscope/pkg/watcher"
)

// Tab identifies a dashboard view.
type Tab int

const (
	TabOverview Tab = iota
	TabClusters
	TabDocuments
	TabSources
	TabBrief
)

var tabNames = map[Tab]string{
	TabOverview:  "Overview",
	TabClusters:  "Clusters",
	TabDocuments: "Documents",
	TabSources:   "Sources",
	TabBrief:     "Brief",
}

func (t Tab) String() string {
	return tabNames[t]
}

// ParseTab maps a view name from config ("overview", "brief", ...) to a Tab.
func ParseTab(name string) (Tab, bool) {
	for tab, n := range tabNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return tab, true
		}
	}
	return TabOverview, false
}

type loadState int

const (
	stateLoading loadState = iota
	stateFailed
	stateReady
)

const (
	defaultWidth  = 120
	defaultHeight = 40
)

// Options configures a dashboard Model.
type Options struct {
	Catalog     []search.Source
	TopN        analysis.TopN
	DefaultView Tab
	Watcher     *watcher.Watcher
	SourceLabel string // shown in the header and loading screen
}

// Model is the root bubbletea model.
type Model struct {
	ctx  context.Context
	src  datasource.Source
	opts Options

	theme  Theme
	width  int
	height int

	state   loadState
	loadGen int
	loadErr error
	payload model.Payload
	ranked  []string
	topN    analysis.TopN
	tab     Tab

	overview overviewData
	segments analysis.SegmentDataset
	body     viewport.Model
	spinner  spinner.Model

	documents DocumentsModel
	sources   SourcesModel
	brief     BriefPanel

	statusMsg     string
	statusIsError bool
}

// NewModel creates a dashboard that loads from src on Init.
func NewModel(ctx context.Context, src datasource.Source, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(opts.Catalog) == 0 {
		opts.Catalog = search.DefaultCatalog()
	}
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)

	m := Model{
		ctx:       ctx,
		src:       src,
		opts:      opts,
		theme:     theme,
		width:     defaultWidth,
		height:    defaultHeight,
		state:     stateLoading,
		topN:      opts.TopN,
		tab:       opts.DefaultView,
		body:      viewport.New(defaultWidth, defaultHeight-4),
		spinner:   sp,
		documents: NewDocumentsModel(theme),
		sources:   NewSourcesModel(theme),
		brief:     NewBriefPanel(ctx, src, theme),
	}
	m.resize()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, LoadPayloadCmd(m.ctx, m.src, m.loadGen)}
	if m.opts.Watcher != nil {
		cmds = append(cmds, WatchDirCmd(m.opts.Watcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) bodyHeight() int {
	// header, tab bar, footer
	h := m.height - 4
	if h < 5 {
		h = 5
	}
	return h
}

func (m *Model) resize() {
	bh := m.bodyHeight()
	m.body.Width = m.width
	m.body.Height = bh
	m.documents.SetSize(m.width, bh)
	m.sources.SetSize(m.width)
	m.brief.SetSize(m.width, bh)
	m.refreshBody()
}

// visibleTabs lists the tabs that have something to show. Clusters needs at
// least one segment and Brief needs at least one topic.
func (m Model) visibleTabs() []Tab {
	tabs := []Tab{TabOverview}
	if !m.segments.IsEmpty() {
		tabs = append(tabs, TabClusters)
	}
	tabs = append(tabs, TabDocuments, TabSources)
	if m.brief.HasTopics() {
		tabs = append(tabs, TabBrief)
	}
	return tabs
}

func (m Model) tabVisible(t Tab) bool {
	for _, v := range m.visibleTabs() {
		if v == t {
			return true
		}
	}
	return false
}

// switchTab changes the active view, unmounting the brief panel when it is
// left.
func (m Model) switchTab(t Tab) Model {
	if !m.tabVisible(t) || t == m.tab {
		return m
	}
	if m.tab == TabBrief {
		m.brief = m.brief.Unmount()
	}
	m.tab = t
	if t == TabBrief {
		m.brief = m.brief.Mount()
	}
	m.refreshBody()
	return m
}

func (m Model) cycleTab(delta int) Model {
	tabs := m.visibleTabs()
	idx := 0
	for i, t := range tabs {
		if t == m.tab {
			idx = i
		}
	}
	idx = (idx + delta + len(tabs)) % len(tabs)
	return m.switchTab(tabs[idx])
}

// applyPayload installs a freshly loaded payload and rebuilds every derived
// view. The active tab falls back to Overview if it is no longer visible.
func (m *Model) applyPayload(p model.Payload) {
	m.payload = p
	m.ranked = analysis.Rank(p.Trends)
	m.overview = buildOverview(p, m.ranked, m.topN)
	m.segments = analysis.BuildClusterDataset(p.Clusters)
	m.documents.SetDocuments(p.Documents)
	m.sources.SetData(search.AnnotateCatalog(m.opts.Catalog, search.CountBySource(p.Documents)))
	m.brief.SetTopics(m.ranked, m.overview.growth)

	if !m.tabVisible(m.tab) {
		if m.tab == TabBrief {
			m.brief = m.brief.Unmount()
		}
		m.tab = TabOverview
	}
	if m.tab == TabBrief {
		m.brief = m.brief.Mount()
	}
	m.refreshBody()
}

// refreshBody re-renders the scrollable overview and clusters content.
func (m *Model) refreshBody() {
	if m.state != stateReady {
		return
	}
	switch m.tab {
	case TabOverview:
		m.body.SetContent(renderOverview(m.theme, m.overview, m.width))
	case TabClusters:
		m.body.SetContent(renderClusters(m.theme, m.segments, m.width))
	}
}

func (m Model) reload() (Model, tea.Cmd) {
	m.loadGen++
	return m, LoadPayloadCmd(m.ctx, m.src, m.loadGen)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if msg.ID == m.spinner.ID() {
			if m.state != stateLoading {
				return m, nil
			}
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.brief, cmd = m.brief.Update(msg)
		return m, cmd

	case PayloadLoadedMsg:
		if msg.Gen != m.loadGen {
			return m, nil
		}
		prev := m.payload
		wasReady := m.state == stateReady
		m.state = stateReady
		m.loadErr = nil
		m.applyPayload(msg.Payload)
		if wasReady {
			m.statusMsg = "Reloaded: " + datasource.DiffPayloads(prev, msg.Payload).Summary()
			m.statusIsError = false
		}
		return m, nil

	case PayloadErrorMsg:
		if msg.Gen != m.loadGen {
			return m, nil
		}
		debug.Log("bulk load failed: %v", msg.Err)
		m.state = stateFailed
		m.loadErr = msg.Err
		if m.tab == TabBrief {
			m.brief = m.brief.Unmount()
		}
		return m, nil

	case BriefResultMsg:
		m.brief = m.brief.Apply(msg.Result)
		return m, nil

	case DirChangedMsg:
		var cmd tea.Cmd
		if m.state != stateLoading {
			m, cmd = m.reload()
		}
		cmds = append(cmds, cmd)
		if m.opts.Watcher != nil {
			cmds = append(cmds, WatchDirCmd(m.opts.Watcher))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Forward everything else (cursor blink etc.) to the documents view.
	if m.state == stateReady && m.tab == TabDocuments {
		var cmd tea.Cmd
		m.documents, cmd = m.documents.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateLoading:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case stateFailed:
		switch msg.String() {
		case "r":
			m.state = stateLoading
			m.loadErr = nil
			var cmd tea.Cmd
			m, cmd = m.reload()
			return m, tea.Batch(cmd, m.spinner.Tick)
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	// The search box owns every key while focused.
	if m.tab == TabDocuments && m.documents.Focused() {
		var cmd tea.Cmd
		m.documents, cmd = m.documents.Update(msg)
		return m, cmd
	}

	m.statusMsg = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		return m.cycleTab(1), nil
	case "shift+tab":
		return m.cycleTab(-1), nil
	case "1", "2", "3", "4", "5":
		return m.switchTab(Tab(msg.String()[0] - '1')), nil
	case "R":
		var cmd tea.Cmd
		m, cmd = m.reload()
		m.statusMsg = "Reloading…"
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabOverview:
		if msg.String() == "t" {
			m.topN = m.topN.Next()
			m.overview = buildOverview(m.payload, m.ranked, m.topN)
			m.refreshBody()
			return m, nil
		}
		m.body, cmd = m.body.Update(msg)
	case TabClusters:
		m.body, cmd = m.body.Update(msg)
	case TabDocuments:
		m.documents, cmd = m.documents.Update(msg)
	case TabSources:
		m.sources.Update(msg)
	case TabBrief:
		m.brief, cmd = m.brief.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	switch m.state {
	case stateLoading:
		return m.renderLoadingScreen()
	case stateFailed:
		return m.renderFailureScreen()
	}

	var body string
	switch m.tab {
	case TabOverview, TabClusters:
		body = m.body.View()
	case TabDocuments:
		body = m.documents.View()
	case TabSources:
		body = m.sources.View()
	case TabBrief:
		body = m.brief.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabBar(),
		lipgloss.NewStyle().Height(m.bodyHeight()).MaxHeight(m.bodyHeight()).Render(body),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render("trendscope")
	info := fmt.Sprintf(" %d topics · %d documents · loaded %s",
		m.payload.Trends.Len(), len(m.payload.Documents), FormatTimeRel(m.payload.LoadedAt))
	if m.opts.SourceLabel != "" {
		info += " · " + m.opts.SourceLabel
	}
	return title + m.theme.MutedText.Render(truncate(info, m.width-lipgloss.Width(title)))
}

func (m Model) renderTabBar() string {
	var parts []string
	for _, t := range m.visibleTabs() {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.tab {
			parts = append(parts, m.theme.TabActive.Render(label))
		} else {
			parts = append(parts, m.theme.TabInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		style := m.theme.InfoText
		if m.statusIsError {
			style = m.theme.ErrorText
		}
		return style.Render(truncate(m.statusMsg, m.width))
	}
	hints := "tab/1-5 views • R reload • q quit"
	switch m.tab {
	case TabOverview:
		hints = "t top-N • ↑/↓ scroll • " + hints
	case TabDocuments:
		hints = "/ search • ctrl+u clear • " + hints
	case TabBrief:
		hints = "enter select • g generate • y copy • " + hints
	}
	return m.theme.MutedText.Render(truncate(hints, m.width))
}

func (m Model) renderLoadingScreen() string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	lines := []string{
		m.spinner.View(),
		"",
		titleStyle.Render("Loading trend data..."),
	}
	if m.opts.SourceLabel != "" {
		lines = append(lines, "", subStyle.Render(m.opts.SourceLabel))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderFailureScreen() string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	reason := "unknown error"
	if m.loadErr != nil {
		reason = m.loadErr.Error()
	}
	lines := []string{
		titleStyle.Render("Failed to load dashboard data"),
		"",
		lipgloss.NewStyle().Width(min(m.width-4, 80)).Align(lipgloss.Center).Render(reason),
		"",
		subStyle.Render("Confirm the analytics service is running, then press r to retry"),
		subStyle.Render("q to quit"),
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
}

// Tab returns the active view.
func (m Model) Tab() Tab {
	return m.tab
}

// TopN returns the overview's current top-N selection.
func (m Model) TopN() analysis.TopN {
	return m.topN
}

// Payload returns the most recent successful payload.
func (m Model) Payload() model.Payload {
	return m.payload
}

// LoadErr returns the error shown on the failure screen, if any.
func (m Model) LoadErr() error {
	return m.loadErr
}

// Ready reports whether the dashboard is showing data.
func (m Model) Ready() bool {
	return m.state == stateReady
}

// RenderSnapshot renders the dashboard for a given size without a running
// program. Used by the CLI to print a one-shot overview.
func RenderSnapshot(p model.Payload, n analysis.TopN, width int) string {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	ranked := analysis.Rank(p.Trends)
	return renderOverview(theme, buildOverview(p, ranked, n), width)
}
