package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/trendscope/internal/datasource"
	"github.com/vanderheijden86/trendscope/pkg/brief"
	"github.com/vanderheijden86/trendscope/pkg/model"
	"github.com/vanderheijden86/trendscope/pkg/watcher"
)

// PayloadLoadedMsg carries a completed bulk load. Gen identifies the load
// attempt so that a superseded retry is ignored.
type PayloadLoadedMsg struct {
	Payload model.Payload
	Gen     int
}

// PayloadErrorMsg reports a failed bulk load.
type PayloadErrorMsg struct {
	Err error
	Gen int
}

// BriefResultMsg carries the outcome of a brief request.
type BriefResultMsg struct {
	Result brief.Result
}

// DirChangedMsg is sent when a watched snapshot file changes on disk.
type DirChangedMsg struct{}

// LoadPayloadCmd runs the bulk load off the UI goroutine.
func LoadPayloadCmd(ctx context.Context, src datasource.Source, gen int) tea.Cmd {
	return func() tea.Msg {
		p, err := datasource.LoadPayload(ctx, src)
		if err != nil {
			return PayloadErrorMsg{Err: err, Gen: gen}
		}
		return PayloadLoadedMsg{Payload: p, Gen: gen}
	}
}

// FetchBriefCmd performs req and reports back with a BriefResultMsg.
func FetchBriefCmd(ctx context.Context, f brief.Fetcher, req brief.Request) tea.Cmd {
	return func() tea.Msg {
		return BriefResultMsg{Result: brief.Run(ctx, f, req)}
	}
}

// WatchDirCmd waits for the next change from w.
func WatchDirCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return DirChangedMsg{}
	}
}
