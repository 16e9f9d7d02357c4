package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", WithHTTPClient(srv.Client()))
}

func TestTrendsPreservesOrder(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/trends" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"trends":{
			"WASM":{"historical":[{"month":"2024-01","mentions":100},{"month":"2024-02","mentions":120}],"forecast":[{"month":"2024-03","mentions":150}],"growth_rate":25},
			"Go":{"historical":[{"month":"2024-01","mentions":80},{"month":"2024-02","mentions":90}],"forecast":[{"month":"2024-03","mentions":95}],"growth_rate":5}
		}}`))
	})

	trends, err := c.Trends(context.Background())
	if err != nil {
		t.Fatalf("Trends: %v", err)
	}
	got := trends.Topics()
	if len(got) != 2 || got[0] != "WASM" || got[1] != "Go" {
		t.Fatalf("topics = %v, want [WASM Go]", got)
	}
	wasm, _ := trends.Get("WASM")
	if wasm.GrowthRate != 25 || len(wasm.Forecast) != 1 {
		t.Errorf("unexpected WASM trend: %+v", wasm)
	}
}

func TestEnvelopes(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/clusters":
			_, _ = w.Write([]byte(`{"clusters":[{"cluster_id":0,"label":"AI","size":40,"keywords":["llm","agents"]}]}`))
		case "/api/summary":
			_, _ = w.Write([]byte(`{"summary":{"total_topics":12,"total_mentions":48000,"top_rising":[{"topic":"Rust","growth_rate":42.5}],"top_declining":[]}}`))
		case "/api/documents":
			_, _ = w.Write([]byte(`{"documents":[{"id":"a1","source":"arXiv","title":"T","text":null,"technology":"Rust","date":"2024-01-02"}]}`))
		case "/api/health":
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	clusters, err := c.Clusters(ctx)
	if err != nil || len(clusters) != 1 || clusters[0].Size != 40 {
		t.Fatalf("Clusters = %+v, %v", clusters, err)
	}
	summary, err := c.Summary(ctx)
	if err != nil || summary.TotalMentions != 48000 || summary.TopRising[0].Topic != "Rust" {
		t.Fatalf("Summary = %+v, %v", summary, err)
	}
	docs, err := c.Documents(ctx)
	if err != nil || len(docs) != 1 || docs[0].Text != "" {
		t.Fatalf("Documents = %+v, %v", docs, err)
	}
	status, err := c.Health(ctx)
	if err != nil || status != "ok" {
		t.Fatalf("Health = %q, %v", status, err)
	}
}

func TestBriefEscapesTopic(t *testing.T) {
	var gotPath string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"brief":"**Rust** is rising"}`))
	})

	brief, err := c.Brief(context.Background(), "C++ / CUDA")
	if err != nil {
		t.Fatalf("Brief: %v", err)
	}
	if brief != "**Rust** is rising" {
		t.Errorf("brief = %q", brief)
	}
	if want := "/api/brief/C++%20%2F%20CUDA"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
}

func TestAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		hasDetail  bool
	}{
		{"rate limited", http.StatusTooManyRequests, ``, "", false},
		{"detail", http.StatusInternalServerError, `{"detail":"Quota exceeded for model"}`, "Quota exceeded for model", true},
		{"non json", http.StatusBadGateway, `<html>bad gateway</html>`, "", false},
		{"empty detail", http.StatusInternalServerError, `{"detail":"  "}`, "", false},
		{"padded detail kept verbatim", http.StatusInternalServerError, `{"detail":"  upstream\ndown "}`, "  upstream\ndown ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Brief(context.Background(), "Rust")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.HasDetail != tt.hasDetail || apiErr.Detail != tt.wantDetail {
				t.Errorf("detail = %q (%v), want %q (%v)", apiErr.Detail, apiErr.HasDetail, tt.wantDetail, tt.hasDetail)
			}
			if tt.status == http.StatusTooManyRequests && !apiErr.IsRateLimited() {
				t.Error("expected IsRateLimited")
			}
		})
	}
}

func TestTransportFailureIsPlainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url)
	_, err := c.Summary(context.Background())
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure should not be an APIError: %v", err)
	}
	if !strings.Contains(err.Error(), "/summary") {
		t.Errorf("error should name the path: %v", err)
	}
}

func TestDecodeError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"clusters": "nope"}`))
	})
	if _, err := c.Clusters(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("  ")
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("base = %q", c.BaseURL())
	}
}
