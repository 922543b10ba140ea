package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/ui"
)

type fakeConfirmer struct {
	answer bool
	err    error
	asked  int
}

func (c *fakeConfirmer) PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	c.asked++
	return c.answer, c.err
}

// answersContext loads a config from an answers file in a fresh directory
func answersContext(t *testing.T, contents string) (*SetupContext, *bytes.Buffer, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "nixopus")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "installer.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(config.NewViper(), path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	cfg.Domains = config.Domains{API: "api.example.com", App: "app.example.com"}

	color.NoColor = true
	var buf bytes.Buffer
	return NewSetupContext(cfg, ui.NewWithWriter(&buf)), &buf, path
}

func TestSaveAnswers(t *testing.T) {
	tests := []struct {
		name           string
		contents       string
		nonInteractive bool
		confirmer      *fakeConfirmer
		wantSaved      bool
		wantAsked      int
	}{
		{name: "not requested, non-interactive", nonInteractive: true, confirmer: &fakeConfirmer{answer: true}},
		{name: "operator declines", confirmer: &fakeConfirmer{answer: false}, wantAsked: 1},
		{name: "operator agrees", confirmer: &fakeConfirmer{answer: true}, wantSaved: true, wantAsked: 1},
		{name: "prompt fails", confirmer: &fakeConfirmer{err: errors.New("interrupt")}, wantAsked: 1},
		{name: "requested", contents: "save_answers: true\n", nonInteractive: true, confirmer: &fakeConfirmer{}, wantSaved: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, _, path := answersContext(t, tt.contents)
			sc.UI.SetNonInteractive(tt.nonInteractive)

			if got := SaveAnswers(sc, tt.confirmer); got != tt.wantSaved {
				t.Errorf("SaveAnswers() = %v, want %v", got, tt.wantSaved)
			}
			if tt.confirmer.asked != tt.wantAsked {
				t.Errorf("asked %d times, want %d", tt.confirmer.asked, tt.wantAsked)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if saved := strings.Contains(string(data), "api.example.com"); saved != tt.wantSaved {
				t.Errorf("answers file written = %v, want %v", saved, tt.wantSaved)
			}
		})
	}
}

func TestSaveAnswersFailureOnlyWarns(t *testing.T) {
	sc, buf, path := answersContext(t, "save_answers: true\n")

	// Replace the config directory with a regular file so the write fails.
	dir := filepath.Dir(path)
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir, []byte("not a directory"), 0600); err != nil {
		t.Fatal(err)
	}

	if SaveAnswers(sc, &fakeConfirmer{}) {
		t.Fatal("SaveAnswers() reported success for an unwritable path")
	}
	if !strings.Contains(buf.String(), "[WARNING] Answers were not saved") {
		t.Errorf("missing warning in output:\n%s", buf.String())
	}
}
