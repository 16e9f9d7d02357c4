package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/trendscope/internal/datasource"
	"github.com/vanderheijden86/trendscope/pkg/analysis"
	"github.com/vanderheijden86/trendscope/pkg/api"
	"github.com/vanderheijden86/trendscope/pkg/brief"
	"github.com/vanderheijden86/trendscope/pkg/model"
)

type stubSource struct{}

func (stubSource) Trends(context.Context) (model.TrendMap, error) { return testPayload().Trends, nil }
func (stubSource) Clusters(context.Context) ([]model.Cluster, error) {
	return testPayload().Clusters, nil
}
func (stubSource) Summary(context.Context) (model.Summary, error) { return testPayload().Summary, nil }
func (stubSource) Documents(context.Context) ([]model.Document, error) {
	return testPayload().Documents, nil
}
func (stubSource) Brief(_ context.Context, topic string) (string, error) {
	return "**" + topic + "** is moving", nil
}

func point(month string, n int) model.Point { return model.Point{Month: month, Mentions: n} }

func testPayload() model.Payload {
	trends := model.NewTrendMap(
		[]string{"jQuery", "Rust", "WASM", "Go"},
		[]model.TopicTrend{
			{Historical: []model.Point{point("2024-01", 60), point("2024-02", 50)}, Forecast: []model.Point{point("2024-03", 45)}, GrowthRate: -18},
			{Historical: []model.Point{point("2024-01", 200), point("2024-02", 260)}, Forecast: []model.Point{point("2024-03", 300)}, GrowthRate: 42.5},
			{Historical: []model.Point{point("2024-01", 100), point("2024-02", 120)}, Forecast: []model.Point{point("2024-03", 150)}, GrowthRate: 25},
			{Historical: []model.Point{point("2024-01", 80), point("2024-02", 90)}, Forecast: []model.Point{point("2024-03", 95)}, GrowthRate: 5},
		},
	)
	return model.Payload{
		Trends:   trends,
		Clusters: []model.Cluster{{ClusterID: 0, Label: "Systems languages", Size: 30, Keywords: []string{"rust", "memory"}}},
		Summary: model.Summary{
			TotalTopics:   4,
			TotalMentions: 48000,
			TopRising:     []model.TopicGrowth{{Topic: "Rust", GrowthRate: 42.5}},
			TopDeclining:  []model.TopicGrowth{{Topic: "jQuery", GrowthRate: -18}},
		},
		Documents: []model.Document{
			{ID: "1", Source: "arXiv", Title: "Rust in the kernel", Technology: "Rust"},
			{ID: "2", Source: "HackerNews", Title: "WASM everywhere", Technology: "WASM"},
			{ID: "3", Source: "GitHub Trending", Title: "jquery-legacy", Text: "maintenance mode", Technology: "jQuery"},
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func readyModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(context.Background(), stubSource{}, Options{TopN: analysis.Top5})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.Update(PayloadLoadedMsg{Payload: testPayload(), Gen: 0})
	rm := next.(Model)
	if !rm.Ready() {
		t.Fatal("model not ready after payload")
	}
	return rm
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	var next tea.Model = m
	for _, msg := range msgs {
		next, cmd = next.Update(msg)
	}
	return next.(Model), cmd
}

func TestLoadingScreen(t *testing.T) {
	m := NewModel(context.Background(), stubSource{}, Options{SourceLabel: "http://localhost:8000/api"})
	if m.Init() == nil {
		t.Fatal("Init should start the bulk load")
	}
	if v := m.View(); !strings.Contains(v, "Loading trend data") {
		t.Errorf("loading view = %q", v)
	}
}

func TestFailureScreenAndRetry(t *testing.T) {
	m := NewModel(context.Background(), stubSource{}, Options{})
	loadErr := &datasource.BulkLoadError{Part: datasource.PartTrends, Err: errors.New("connection refused")}
	m, _ = press(t, m, PayloadErrorMsg{Err: loadErr, Gen: 0})

	v := m.View()
	if !strings.Contains(v, "Failed to load") || !strings.Contains(v, "press r to retry") {
		t.Fatalf("failure view = %q", v)
	}
	if m.LoadErr() == nil {
		t.Fatal("expected load error")
	}

	m, cmd := press(t, m, runes("r"))
	if cmd == nil {
		t.Fatal("retry should issue a load")
	}
	if m.Ready() || m.LoadErr() != nil {
		t.Fatal("retry should return to loading")
	}

	// A result from the superseded first attempt is ignored.
	m, _ = press(t, m, PayloadLoadedMsg{Payload: testPayload(), Gen: 0})
	if m.Ready() {
		t.Fatal("stale load applied")
	}
	m, _ = press(t, m, PayloadLoadedMsg{Payload: testPayload(), Gen: 1})
	if !m.Ready() {
		t.Fatal("retry result not applied")
	}
}

func TestOverviewRendersCardsAndCyclesTopN(t *testing.T) {
	m := readyModel(t)
	v := m.View()
	for _, want := range []string{"Topics Tracked", "48,000", "Rust", "+42.5%", "-18.0%"} {
		if !strings.Contains(v, want) {
			t.Errorf("overview missing %q", want)
		}
	}

	m, _ = press(t, m, runes("t"))
	if m.TopN() != analysis.TopAll {
		t.Errorf("topN after t = %v, want all", m.TopN())
	}
	m, _ = press(t, m, runes("t"))
	if m.TopN() != analysis.Top3 {
		t.Errorf("topN after second t = %v, want 3", m.TopN())
	}
}

func TestTabsHideEmptyViews(t *testing.T) {
	m := NewModel(context.Background(), stubSource{}, Options{})
	p := testPayload()
	p.Clusters = nil
	m, _ = press(t, m, PayloadLoadedMsg{Payload: p, Gen: 0})

	m, _ = press(t, m, runes("2"))
	if m.Tab() != TabOverview {
		t.Errorf("clusters tab should be hidden, tab = %v", m.Tab())
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Tab() != TabDocuments {
		t.Errorf("tab cycling should skip clusters, got %v", m.Tab())
	}

	empty := model.Payload{}
	m, _ = press(t, NewModel(context.Background(), stubSource{}, Options{}), PayloadLoadedMsg{Payload: empty, Gen: 0})
	m, _ = press(t, m, runes("5"))
	if m.Tab() == TabBrief {
		t.Error("brief tab should be hidden with no topics")
	}
}

func TestDocumentsFilter(t *testing.T) {
	m := readyModel(t)
	m, _ = press(t, m, runes("3"))
	if m.Tab() != TabDocuments {
		t.Fatalf("tab = %v", m.Tab())
	}
	m, _ = press(t, m, runes("/"), runes("w"), runes("a"), runes("s"), runes("m"))
	if got := m.documents.Query(); got != "wasm" {
		t.Fatalf("query = %q", got)
	}
	res := m.documents.Results()
	if len(res) != 1 || res[0].ID != "2" {
		t.Errorf("results = %+v", res)
	}
	// Digits typed into the search box do not switch tabs.
	m, _ = press(t, m, runes("1"))
	if m.Tab() != TabDocuments {
		t.Error("typing a digit in the search box switched tabs")
	}
}

func TestSourcesCounts(t *testing.T) {
	m := readyModel(t)
	m, _ = press(t, m, runes("4"))
	v := m.View()
	for _, want := range []string{"arXiv", "HackerNews", "TechCrunch"} {
		if !strings.Contains(v, want) {
			t.Errorf("sources view missing %q", want)
		}
	}
}

func TestBriefFlow(t *testing.T) {
	m := readyModel(t)
	m, _ = press(t, m, runes("5"))
	if m.Tab() != TabBrief {
		t.Fatalf("tab = %v", m.Tab())
	}
	st := m.brief.State()
	if st.Topic != "Rust" || st.Phase != brief.PhaseIdle {
		t.Fatalf("initial brief state = %+v, want idle on top ranked topic", st)
	}

	m, cmd := press(t, m, runes("g"))
	if cmd == nil {
		t.Fatal("generate should issue a request")
	}
	st = m.brief.State()
	if st.Phase != brief.PhaseLoading {
		t.Fatalf("phase = %v", st.Phase)
	}
	req := brief.Request{Topic: st.Topic, Generation: st.Generation}
	m, _ = press(t, m, BriefResultMsg{Result: brief.Result{Request: req, Text: "**Rust** is moving"}})
	if st := m.brief.State(); st.Phase != brief.PhaseSuccess || st.Text != "**Rust** is moving" {
		t.Fatalf("state after result = %+v", st)
	}

	var copied string
	clipboardWrite = func(s string) error { copied = s; return nil }
	defer func() { clipboardWrite = defaultClipboardWrite }()
	m, _ = press(t, m, runes("y"))
	if copied != "**Rust** is moving" {
		t.Errorf("copied %q", copied)
	}
}

func TestBriefSelectionResetsAndErrorsStayInPanel(t *testing.T) {
	m := readyModel(t)
	m, _ = press(t, m, runes("5"), runes("g"))
	first := m.brief.State()

	// Move to WASM and select it: the in-flight Rust request becomes stale.
	m, _ = press(t, m, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if st := m.brief.State(); st.Topic != "WASM" || st.Phase != brief.PhaseIdle {
		t.Fatalf("state after select = %+v", st)
	}
	m, _ = press(t, m, BriefResultMsg{Result: brief.Result{
		Request: brief.Request{Topic: first.Topic, Generation: first.Generation},
		Text:    "late",
	}})
	if m.brief.State().Text == "late" {
		t.Fatal("stale brief applied")
	}

	m, _ = press(t, m, runes("g"))
	st := m.brief.State()
	m, _ = press(t, m, BriefResultMsg{Result: brief.Result{
		Request: brief.Request{Topic: st.Topic, Generation: st.Generation},
		Err:     &api.APIError{StatusCode: 429},
	}})
	st = m.brief.State()
	if st.Phase != brief.PhaseError || st.ErrorKind != brief.ErrorRateLimit {
		t.Fatalf("state = %+v", st)
	}
	if !m.Ready() {
		t.Fatal("brief error must not affect the dashboard")
	}
	if !strings.Contains(m.View(), "60 seconds") {
		t.Error("rate limit message not shown in panel")
	}
}

func TestLeavingBriefDiscardsResult(t *testing.T) {
	m := readyModel(t)
	m, _ = press(t, m, runes("5"), runes("g"))
	st := m.brief.State()
	m, _ = press(t, m, runes("1"))
	m, _ = press(t, m, BriefResultMsg{Result: brief.Result{
		Request: brief.Request{Topic: st.Topic, Generation: st.Generation},
		Text:    "arrived after unmount",
	}})
	m, _ = press(t, m, runes("5"))
	if got := m.brief.State(); got.Text != "" || got.Phase != brief.PhaseIdle {
		t.Errorf("state after remount = %+v", got)
	}
}

func TestReloadShowsDiff(t *testing.T) {
	m := readyModel(t)
	m, cmd := press(t, m, runes("R"))
	if cmd == nil {
		t.Fatal("reload should issue a load")
	}
	p := testPayload()
	p.Documents = p.Documents[:1]
	m, _ = press(t, m, PayloadLoadedMsg{Payload: p, Gen: 1})
	if !strings.Contains(m.View(), "-2 documents") {
		t.Errorf("status should summarize reload diff:\n%s", m.View())
	}
}

func TestParseTab(t *testing.T) {
	if tab, ok := ParseTab("Brief"); !ok || tab != TabBrief {
		t.Errorf("ParseTab(Brief) = %v, %v", tab, ok)
	}
	if _, ok := ParseTab("kanban"); ok {
		t.Error("unknown view accepted")
	}
}

func TestRenderSnapshot(t *testing.T) {
	out := RenderSnapshot(testPayload(), analysis.Top3, 100)
	if !strings.Contains(out, "Hottest Topic") || !strings.Contains(out, "WASM") {
		t.Errorf("snapshot missing content:\n%s", out)
	}
}
