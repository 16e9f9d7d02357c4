package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/trendscope/internal/datasource"
	"github.com/vanderheijden86/trendscope/pkg/api"
	"github.com/vanderheijden86/trendscope/pkg/config"
)

func TestApplyFlags(t *testing.T) {
	base := config.DefaultConfig()
	base.Offline.DataDir = "/srv/data"

	tests := []struct {
		name  string
		flags cliFlags
		check func(t *testing.T, c config.Config)
	}{
		{"no flags keep config", cliFlags{}, func(t *testing.T, c config.Config) {
			if c.Offline.DataDir != "/srv/data" || c.UI.TopN != "5" || c.UI.DefaultView != "overview" {
				t.Errorf("config changed: %+v", c)
			}
		}},
		{"api clears data dir", cliFlags{apiURL: "http://example.test/api/"}, func(t *testing.T, c config.Config) {
			if c.API.BaseURL != "http://example.test/api" {
				t.Errorf("BaseURL = %q", c.API.BaseURL)
			}
			if c.Offline.DataDir != "" {
				t.Errorf("DataDir = %q, want empty", c.Offline.DataDir)
			}
		}},
		{"dir top view watch", cliFlags{dataDir: "/tmp/x", topN: "all", view: "Brief", watch: true}, func(t *testing.T, c config.Config) {
			if c.Offline.DataDir != "/tmp/x" || c.UI.TopN != "all" || c.UI.DefaultView != "brief" || !c.Offline.Watch {
				t.Errorf("flags not applied: %+v", c)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, applyFlags(base, tt.flags))
		})
	}
}

func TestOpenSourcePrefersDataDir(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Offline.DataDir = dir

	src, label, err := openSource(cfg)
	if err != nil {
		t.Fatalf("openSource: %v", err)
	}
	if _, ok := src.(*datasource.DirSource); !ok {
		t.Fatalf("source = %T, want *datasource.DirSource", src)
	}
	if !strings.HasPrefix(label, "dir:") {
		t.Errorf("label = %q", label)
	}
}

func TestOpenSourceAPI(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = "http://example.test/api"

	src, label, err := openSource(cfg)
	if err != nil {
		t.Fatalf("openSource: %v", err)
	}
	if _, ok := src.(*api.Client); !ok {
		t.Fatalf("source = %T, want *api.Client", src)
	}
	if label != "http://example.test/api" {
		t.Errorf("label = %q", label)
	}
}

func TestOpenSourceRejectsMissingDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Offline.DataDir = filepath.Join(t.TempDir(), "missing")
	if _, _, err := openSource(cfg); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	t.Setenv("TRENDSCOPE_TOP_N", "3")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  default_view: sources\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.UI.DefaultView != "sources" {
		t.Errorf("DefaultView = %q", cfg.UI.DefaultView)
	}
	if cfg.UI.TopN != "3" {
		t.Errorf("TopN = %q, want env override 3", cfg.UI.TopN)
	}
}
