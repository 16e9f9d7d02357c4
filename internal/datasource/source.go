// Package datasource supplies the dashboard payload, either from the
// analytics service or from a directory of JSON snapshots, and joins the
// initial fetches into one model.Payload.
package datasource

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/trendscope/pkg/api"
	"github.com/vanderheijden86/trendscope/pkg/model"
)

// Source provides every payload the dashboard consumes.
type Source interface {
	Trends(ctx context.Context) (model.TrendMap, error)
	Clusters(ctx context.Context) ([]model.Cluster, error)
	Summary(ctx context.Context) (model.Summary, error)
	Documents(ctx context.Context) ([]model.Document, error)
	Brief(ctx context.Context, topic string) (string, error)
}

var _ Source = (*api.Client)(nil)
var _ Source = (*DirSource)(nil)

// File names read by DirSource. Each holds the same envelope the service
// returns for the matching endpoint.
const (
	TrendsFile    = "trends.json"
	ClustersFile  = "clusters.json"
	SummaryFile   = "summary.json"
	DocumentsFile = "documents.json"
	BriefsFile    = "briefs.json"
)

// SnapshotFiles lists the files a DirSource reads, in load order.
var SnapshotFiles = []string{TrendsFile, ClustersFile, SummaryFile, DocumentsFile, BriefsFile}

// DirSource serves payloads from JSON files in a directory. Files are read
// on every call so edits show up on the next load.
type DirSource struct {
	Dir string
}

// NewDirSource returns a DirSource rooted at dir. It fails if dir is not a
// readable directory.
func NewDirSource(dir string) (*DirSource, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data dir %s is not a directory", abs)
	}
	return &DirSource{Dir: abs}, nil
}

// String describes the source for status lines.
func (s *DirSource) String() string {
	return "dir:" + s.Dir
}

// Trends reads trends.json.
func (s *DirSource) Trends(ctx context.Context) (model.TrendMap, error) {
	var env struct {
		Trends model.TrendMap `json:"trends"`
	}
	if err := s.read(ctx, TrendsFile, &env); err != nil {
		return model.TrendMap{}, err
	}
	return env.Trends, nil
}

// Clusters reads clusters.json.
func (s *DirSource) Clusters(ctx context.Context) ([]model.Cluster, error) {
	var env struct {
		Clusters []model.Cluster `json:"clusters"`
	}
	if err := s.read(ctx, ClustersFile, &env); err != nil {
		return nil, err
	}
	return env.Clusters, nil
}

// Summary reads summary.json.
func (s *DirSource) Summary(ctx context.Context) (model.Summary, error) {
	var env struct {
		Summary model.Summary `json:"summary"`
	}
	if err := s.read(ctx, SummaryFile, &env); err != nil {
		return model.Summary{}, err
	}
	return env.Summary, nil
}

// Documents reads documents.json.
func (s *DirSource) Documents(ctx context.Context) ([]model.Document, error) {
	var env struct {
		Documents []model.Document `json:"documents"`
	}
	if err := s.read(ctx, DocumentsFile, &env); err != nil {
		return nil, err
	}
	return env.Documents, nil
}

// Brief looks topic up in briefs.json, a {"briefs": {"topic": "text"}}
// object. Unknown topics fail like a service 404 with a detail.
func (s *DirSource) Brief(ctx context.Context, topic string) (string, error) {
	var env struct {
		Briefs map[string]string `json:"briefs"`
	}
	if err := s.read(ctx, BriefsFile, &env); err != nil {
		return "", err
	}
	if text, ok := env.Briefs[topic]; ok {
		return text, nil
	}
	for name, text := range env.Briefs {
		if strings.EqualFold(name, topic) {
			return text, nil
		}
	}
	return "", &api.APIError{
		StatusCode: http.StatusNotFound,
		Detail:     fmt.Sprintf("no brief recorded for %s", topic),
		HasDetail:  true,
	}
}

// LatestModTime returns the newest modification time among the snapshot
// files, or the zero time when none exist.
func (s *DirSource) LatestModTime() time.Time {
	var latest time.Time
	for _, name := range SnapshotFiles {
		info, err := os.Stat(filepath.Join(s.Dir, name))
		if err != nil {
			continue
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest
}

func (s *DirSource) read(ctx context.Context, name string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}
