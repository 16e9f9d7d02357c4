// Package api is the HTTP transport to the trend analytics service.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/trendscope/pkg/debug"
	"github.com/vanderheijden86/trendscope/pkg/metrics"
	"github.com/vanderheijden86/trendscope/pkg/model"
	"github.com/vanderheijden86/trendscope/pkg/version"
)

// DefaultBaseURL is the service base path used when none is configured.
const DefaultBaseURL = "http://localhost:8000/api"

// Client fetches trend analytics payloads. It enforces no timeout of its
// own; callers bound requests through the context.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		userAgent:  "trendscope/" + version.Version,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base path.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Trends returns historical and forecast series for every topic, in the
// order the service emitted them.
func (c *Client) Trends(ctx context.Context) (model.TrendMap, error) {
	var resp struct {
		Trends model.TrendMap `json:"trends"`
	}
	if err := c.get(ctx, "/trends", metrics.FetchTrends, &resp); err != nil {
		return model.TrendMap{}, err
	}
	return resp.Trends, nil
}

// Clusters returns the topic clusters.
func (c *Client) Clusters(ctx context.Context) ([]model.Cluster, error) {
	var resp struct {
		Clusters []model.Cluster `json:"clusters"`
	}
	if err := c.get(ctx, "/clusters", metrics.FetchClusters, &resp); err != nil {
		return nil, err
	}
	return resp.Clusters, nil
}

// Summary returns the decision-ready summary metrics.
func (c *Client) Summary(ctx context.Context) (model.Summary, error) {
	var resp struct {
		Summary model.Summary `json:"summary"`
	}
	if err := c.get(ctx, "/summary", metrics.FetchSummary, &resp); err != nil {
		return model.Summary{}, err
	}
	return resp.Summary, nil
}

// Documents returns the raw document corpus.
func (c *Client) Documents(ctx context.Context) ([]model.Document, error) {
	var resp struct {
		Documents []model.Document `json:"documents"`
	}
	if err := c.get(ctx, "/documents", metrics.FetchDocuments, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// Brief requests a generated brief for topic.
func (c *Client) Brief(ctx context.Context, topic string) (string, error) {
	var resp struct {
		Brief string `json:"brief"`
	}
	if err := c.get(ctx, "/brief/"+url.PathEscape(topic), metrics.FetchBrief, &resp); err != nil {
		return "", err
	}
	return resp.Brief, nil
}

// Health checks that the service answers.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) get(ctx context.Context, path string, metric *metrics.TimingMetric, out any) error {
	defer metrics.Timer(metric)()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		debug.Log("GET %s failed: %v", path, err)
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	debug.Event("api_get", map[string]any{
		"path":     path,
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"duration": time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
