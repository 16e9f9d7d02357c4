package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/trendscope/internal/datasource"
	"github.com/vanderheijden86/trendscope/pkg/analysis"
	"github.com/vanderheijden86/trendscope/pkg/api"
	"github.com/vanderheijden86/trendscope/pkg/brief"
	"github.com/vanderheijden86/trendscope/pkg/config"
	"github.com/vanderheijden86/trendscope/pkg/debug"
	"github.com/vanderheijden86/trendscope/pkg/export"
	"github.com/vanderheijden86/trendscope/pkg/ui"
	"github.com/vanderheijden86/trendscope/pkg/version"
	"github.com/vanderheijden86/trendscope/pkg/watcher"
)

// cliFlags are the command line overrides applied on top of config.
type cliFlags struct {
	apiURL  string
	dataDir string
	topN    string
	view    string
	watch   bool
}

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Config file (default ~/.config/trendscope/config.yaml)")
	apiURL := flag.String("api", "", "Analytics API base URL (e.g. http://localhost:8000/api)")
	dataDir := flag.String("dir", "", "Serve payloads from a directory of JSON files instead of the API")
	watchFlag := flag.Bool("watch", false, "Reload when files in -dir change")
	topN := flag.String("top", "", "Topics on the trend chart: 3, 5 or all")
	view := flag.String("view", "", "Initial view: overview, clusters, documents, sources or brief")
	exportPath := flag.String("export", "", "Write a chart (.svg/.png), report (.md) or snapshot (.sqlite) and exit")
	wizard := flag.Bool("wizard", false, "Choose an export interactively")
	health := flag.Bool("health", false, "Check the API health endpoint and exit")
	snapshot := flag.Bool("snapshot", false, "Print the overview once to stdout and exit")
	report := flag.Bool("report", false, "Print the markdown report to the terminal and exit")
	briefTopic := flag.String("brief", "", "Include the AI brief for this topic in reports")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: trendscope [options]")
		fmt.Println("\nA terminal dashboard for technology trend analytics.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("trendscope %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	cfg = applyFlags(cfg, cliFlags{
		apiURL:  *apiURL,
		dataDir: *dataDir,
		topN:    *topN,
		view:    *view,
		watch:   *watchFlag,
	})

	n, err := analysis.ParseTopN(cfg.UI.TopN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	tab, ok := ui.ParseTab(cfg.UI.DefaultView)
	if !ok && cfg.UI.DefaultView != "" {
		fmt.Fprintf(os.Stderr, "Error: unknown view %q\n", cfg.UI.DefaultView)
		os.Exit(2)
	}

	src, label, err := openSource(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	debug.Log("source %s", label)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *health {
		client, ok := src.(*api.Client)
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: -health needs an API source, not -dir")
			os.Exit(2)
		}
		status, err := client.Health(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unhealthy: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %s\n", client.BaseURL(), status)
		os.Exit(0)
	}

	if *exportPath != "" || *wizard {
		req := export.Request{Path: *exportPath, TopN: n, Catalog: cfg.Catalog(), Source: label}
		if *wizard {
			answers, err := export.RunWizard()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Export cancelled: %v\n", err)
				os.Exit(1)
			}
			wreq, err := answers.Request()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(2)
			}
			req.Kind, req.Path, req.Title, req.TopN = wreq.Kind, wreq.Path, wreq.Title, wreq.TopN
		}
		if err := runExport(ctx, src, req, *briefTopic); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", req.Path)
		os.Exit(0)
	}

	if *report {
		p, err := datasource.LoadPayload(ctx, src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading dashboard: %v\n", err)
			os.Exit(1)
		}
		opts := export.ReportOptions{TopN: n, Catalog: cfg.Catalog()}
		opts.BriefTopic, opts.BriefText = fetchBrief(ctx, src, *briefTopic)
		out, err := export.RenderReportTerminal(export.GenerateReport(p, opts), 100)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
		os.Exit(0)
	}

	if *snapshot {
		p, err := datasource.LoadPayload(ctx, src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading dashboard: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(ui.RenderSnapshot(p, n, 100))
		os.Exit(0)
	}

	opts := ui.Options{
		Catalog:     cfg.Catalog(),
		TopN:        n,
		DefaultView: tab,
		SourceLabel: label,
	}
	if cfg.Offline.Watch && cfg.Offline.DataDir != "" {
		w, err := watcher.New(cfg.Offline.DataDir, datasource.SnapshotFiles,
			watcher.WithOnChange(func() { debug.Log("data dir changed: %s", cfg.Offline.DataDir) }),
			watcher.WithOnError(func(err error) { debug.Log("watcher: %v", err) }))
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", err)
		} else {
			defer w.Stop()
			opts.Watcher = w
		}
	}

	m := ui.NewModel(ctx, src, opts)
	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running trendscope: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyFlags layers non-empty flags over cfg. -api clears any configured
// data directory so the two sources never compete.
func applyFlags(cfg config.Config, f cliFlags) config.Config {
	if v := strings.TrimSpace(f.apiURL); v != "" {
		cfg.API.BaseURL = strings.TrimRight(v, "/")
		cfg.Offline.DataDir = ""
	}
	if v := strings.TrimSpace(f.dataDir); v != "" {
		cfg.Offline.DataDir = v
	}
	if v := strings.TrimSpace(f.topN); v != "" {
		cfg.UI.TopN = v
	}
	if v := strings.TrimSpace(f.view); v != "" {
		cfg.UI.DefaultView = strings.ToLower(v)
	}
	if f.watch {
		cfg.Offline.Watch = true
	}
	return cfg
}

// openSource picks the offline directory when one is configured, otherwise
// the HTTP API.
func openSource(cfg config.Config) (datasource.Source, string, error) {
	if cfg.Offline.DataDir != "" {
		dir, err := datasource.NewDirSource(cfg.Offline.DataDir)
		if err != nil {
			return nil, "", err
		}
		return dir, dir.String(), nil
	}
	var opts []api.Option
	if cfg.API.UserAgent != "" {
		opts = append(opts, api.WithUserAgent(cfg.API.UserAgent))
	}
	client := api.NewClient(cfg.API.BaseURL, opts...)
	return client, client.BaseURL(), nil
}

func runExport(ctx context.Context, src datasource.Source, req export.Request, briefTopic string) error {
	p, err := datasource.LoadPayload(ctx, src)
	if err != nil {
		return err
	}
	req.BriefTopic, req.BriefText = fetchBrief(ctx, src, briefTopic)
	return export.Write(p, req)
}

// fetchBrief returns the topic and brief text to embed in a report. A failed
// fetch is reported on stderr and leaves the report without a brief.
func fetchBrief(ctx context.Context, f brief.Fetcher, topic string) (string, string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ""
	}
	st := brief.FetchOnce(ctx, f, topic)
	if st.Phase != brief.PhaseSuccess {
		fmt.Fprintf(os.Stderr, "Warning: brief for %s unavailable: %s\n", topic, st.Message)
		return "", ""
	}
	return st.Topic, st.Text
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated runs: set TRENDSCOPE_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("TRENDSCOPE_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
