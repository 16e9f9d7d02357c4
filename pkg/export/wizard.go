package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/trendscope/pkg/analysis"
	"github.com/vanderheijden86/trendscope/pkg/config"
)

// WizardAnswers are the choices collected by RunWizard. They are saved so the
// next run starts from the previous answers.
type WizardAnswers struct {
	Kind  Kind   `json:"kind"`
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
	TopN  string `json:"top_n"`
}

// DefaultWizardAnswers is used when nothing has been saved yet.
func DefaultWizardAnswers() WizardAnswers {
	return WizardAnswers{
		Kind:  KindChart,
		Path:  "trends.svg",
		Title: "Technology Trends",
		TopN:  "5",
	}
}

// Request converts answers into an export request.
func (a WizardAnswers) Request() (Request, error) {
	n, err := analysis.ParseTopN(a.TopN)
	if err != nil {
		return Request{}, err
	}
	if strings.TrimSpace(a.Path) == "" {
		return Request{}, errors.New("output path is required")
	}
	return Request{Kind: a.Kind, Path: a.Path, Title: a.Title, TopN: n}, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm falls back to accessible prompts when stdin is not a TTY.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunWizard asks for export kind, output path, title and top-N, starting
// from the last saved answers. The answers are saved on success.
func RunWizard() (WizardAnswers, error) {
	answers := DefaultWizardAnswers()
	if saved, err := LoadWizardAnswers(); err == nil && saved != nil {
		answers = *saved
	}

	kind := string(answers.Kind)
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What do you want to export?").
				Options(
					huh.NewOption("Trend chart (SVG or PNG)", string(KindChart)),
					huh.NewOption("Markdown report", string(KindReport)),
					huh.NewOption("SQLite snapshot", string(KindSQLite)),
				).
				Value(&kind),
			huh.NewSelect[string]().
				Title("Topics to include").
				Options(
					huh.NewOption("Top 3", "3"),
					huh.NewOption("Top 5", "5"),
					huh.NewOption("All", "all"),
				).
				Value(&answers.TopN),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Output path").
				Description("Chart format follows the extension (.svg or .png)").
				Value(&answers.Path).
				Validate(func(s string) error {
					return validateWizardPath(Kind(kind), s)
				}),
			huh.NewInput().
				Title("Title").
				Value(&answers.Title),
		),
	)
	if err := form.Run(); err != nil {
		return WizardAnswers{}, err
	}
	answers.Kind = Kind(kind)
	answers.Path = strings.TrimSpace(answers.Path)

	if err := SaveWizardAnswers(answers); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save export answers: %v\n", err)
	}
	return answers, nil
}

func validateWizardPath(kind Kind, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	if filepath.Ext(path) == "" {
		return nil
	}
	inferred, err := KindForPath(path)
	if err != nil {
		return err
	}
	if inferred != kind {
		return fmt.Errorf("extension %s does not match a %s export", filepath.Ext(path), kind)
	}
	return nil
}

// WizardAnswersPath returns where answers are persisted.
func WizardAnswersPath() string {
	return filepath.Join(config.StateDir(), "export-wizard.json")
}

// LoadWizardAnswers reads saved answers. It returns nil, nil when none exist.
func LoadWizardAnswers() (*WizardAnswers, error) {
	return loadWizardAnswersFrom(WizardAnswersPath())
}

func loadWizardAnswersFrom(path string) (*WizardAnswers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var a WizardAnswers
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &a, nil
}

// SaveWizardAnswers persists answers for the next run.
func SaveWizardAnswers(a WizardAnswers) error {
	return saveWizardAnswersTo(a, WizardAnswersPath())
}

func saveWizardAnswersTo(a WizardAnswers, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
