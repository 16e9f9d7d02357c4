package brief

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/trendscope/pkg/api"
)

func TestSelectDoesNotTrigger(t *testing.T) {
	c := New().Select("Rust")
	st := c.State()
	if st.Phase != PhaseIdle || st.Topic != "Rust" {
		t.Fatalf("state = %+v, want idle Rust", st)
	}
}

func TestTriggerWithoutTopicIsInert(t *testing.T) {
	c := New()
	next, _, ok := c.Trigger()
	if ok {
		t.Fatal("trigger with no topic should be inert")
	}
	if next.State() != c.State() {
		t.Errorf("state changed: %+v", next.State())
	}
}

func TestSuccessStoredVerbatim(t *testing.T) {
	c, req, ok := New().Select("Rust").Trigger()
	if !ok || c.State().Phase != PhaseLoading {
		t.Fatalf("expected loading, got %+v", c.State())
	}
	c, applied := c.Apply(Result{Request: req, Text: "**Rust** keeps\nrising"})
	if !applied {
		t.Fatal("expected result applied")
	}
	st := c.State()
	if st.Phase != PhaseSuccess || st.Text != "**Rust** keeps\nrising" {
		t.Errorf("state = %+v", st)
	}
}

func TestGenerationGuardAcrossTopics(t *testing.T) {
	c, reqA, _ := New().Select("A").Trigger()
	c, reqB, _ := c.Select("B").Trigger()

	c, applied := c.Apply(Result{Request: reqB, Text: "brief B"})
	if !applied {
		t.Fatal("B should apply")
	}
	c, applied = c.Apply(Result{Request: reqA, Text: "brief A"})
	if applied {
		t.Fatal("late A must be discarded")
	}
	if st := c.State(); st.Topic != "B" || st.Text != "brief B" {
		t.Errorf("state = %+v, want B's brief", st)
	}
}

func TestRetriggerSameTopicDropsOlder(t *testing.T) {
	c, first, _ := New().Select("Go").Trigger()
	c, second, _ := c.Trigger()

	c, applied := c.Apply(Result{Request: first, Text: "old"})
	if applied {
		t.Fatal("superseded request applied")
	}
	c, _ = c.Apply(Result{Request: second, Text: "new"})
	if c.State().Text != "new" {
		t.Errorf("text = %q", c.State().Text)
	}
}

func TestSelectDiscardsInFlight(t *testing.T) {
	c, req, _ := New().Select("Go").Trigger()
	c = c.Select("Go")
	c, applied := c.Apply(Result{Request: req, Text: "late"})
	if applied || c.State().Phase != PhaseIdle {
		t.Errorf("reselect should discard; state = %+v", c.State())
	}
}

func TestCloseDiscardsResult(t *testing.T) {
	c, req, _ := New().Select("Rust").Trigger()
	c = c.Close()
	c, applied := c.Apply(Result{Request: req, Text: "late"})
	if applied {
		t.Fatal("result applied after close")
	}
	if _, _, ok := c.Trigger(); ok {
		t.Error("closed controller should not trigger")
	}
	c = c.Select("Rust")
	if c.Closed() {
		t.Error("select should reopen")
	}
}

func TestRateLimitScenario(t *testing.T) {
	c, req, _ := New().Select("Rust").Trigger()
	c, _ = c.Apply(Result{Request: req, Err: &api.APIError{StatusCode: http.StatusTooManyRequests}})
	st := c.State()
	if st.Phase != PhaseError || st.ErrorKind != ErrorRateLimit {
		t.Fatalf("state = %+v", st)
	}
	if !strings.Contains(st.Message, "60 seconds") {
		t.Errorf("message %q should ask for a 60 second wait", st.Message)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    ErrorKind
		message string
	}{
		{"nil", nil, ErrorNone, ""},
		{"status 429", &api.APIError{StatusCode: 429}, ErrorRateLimit, rateLimitMessage},
		{"detail 429", &api.APIError{StatusCode: 500, Detail: "upstream said 429", HasDetail: true}, ErrorRateLimit, rateLimitMessage},
		{"detail quota", &api.APIError{StatusCode: 500, Detail: "Quota exceeded", HasDetail: true}, ErrorRateLimit, rateLimitMessage},
		{"other detail", &api.APIError{StatusCode: 500, Detail: "model overloaded", HasDetail: true}, ErrorUpstreamDetail, "model overloaded"},
		{"no detail", &api.APIError{StatusCode: 503}, ErrorNetwork, unreachableMessage},
		{"transport", errors.New("dial tcp: connection refused"), ErrorNetwork, unreachableMessage},
		{"wrapped", fmt.Errorf("brief: %w", &api.APIError{StatusCode: 429}), ErrorRateLimit, rateLimitMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, msg := Classify(tt.err)
			if kind != tt.kind || msg != tt.message {
				t.Errorf("Classify = (%v, %q), want (%v, %q)", kind, msg, tt.kind, tt.message)
			}
		})
	}
}

type stubFetcher struct {
	text string
	err  error
}

func (s stubFetcher) Brief(_ context.Context, topic string) (string, error) {
	return s.text + topic, s.err
}

func TestRun(t *testing.T) {
	req := Request{Topic: "Go", Generation: 7}
	res := Run(context.Background(), stubFetcher{text: "about "}, req)
	if res.Request != req || res.Text != "about Go" || res.Err != nil {
		t.Errorf("Run = %+v", res)
	}
}

func TestFetchOnce(t *testing.T) {
	st := FetchOnce(context.Background(), stubFetcher{text: "about "}, "Go")
	if st.Phase != PhaseSuccess || st.Text != "about Go" || st.Topic != "Go" {
		t.Errorf("FetchOnce success = %+v", st)
	}
	st = FetchOnce(context.Background(), stubFetcher{err: errors.New("boom")}, "Go")
	if st.Phase != PhaseError || st.Text != "" {
		t.Errorf("FetchOnce failure = %+v", st)
	}
	if st := FetchOnce(context.Background(), stubFetcher{}, ""); st.Phase != PhaseIdle {
		t.Errorf("FetchOnce without topic = %+v", st)
	}
}

// Whatever order results arrive in, only the latest request's result is
// visible.
func TestGenerationGuardProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		topics := rapid.SliceOfN(rapid.SampledFrom([]string{"Rust", "Go", "WASM", "Zig"}), 1, 6).Draw(t, "topics")

		c := New()
		var reqs []Request
		for _, topic := range topics {
			var req Request
			c, req, _ = c.Select(topic).Trigger()
			reqs = append(reqs, req)
		}
		order := rapid.Permutation(reqs).Draw(t, "order")
		for _, req := range order {
			c, _ = c.Apply(Result{Request: req, Text: fmt.Sprintf("%s#%d", req.Topic, req.Generation)})
		}

		last := reqs[len(reqs)-1]
		want := fmt.Sprintf("%s#%d", last.Topic, last.Generation)
		st := c.State()
		if st.Phase != PhaseSuccess || st.Text != want || st.Topic != last.Topic {
			t.Fatalf("state = %+v, want text %q", st, want)
		}
	})
}
