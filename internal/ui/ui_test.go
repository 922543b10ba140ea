package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestUI() (*UI, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	return NewWithWriter(&buf), &buf
}

func TestTaggedMessages(t *testing.T) {
	u, buf := newTestUI()

	u.Infof("pulling %d images", 3)
	u.Success("done")
	u.Warningf("port %d busy", 80)
	u.Error("boom")

	want := "[INFO] pulling 3 images\n[✓] done\n[WARNING] port 80 busy\n[ERROR] boom\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestKeyValue(t *testing.T) {
	u, buf := newTestUI()

	u.KeyValue("API", "https://api.example.com")

	if got := buf.String(); got != "  • API:             https://api.example.com\n" {
		t.Errorf("KeyValue output = %q", got)
	}
}

func TestTable(t *testing.T) {
	u, buf := newTestUI()

	u.Table([]string{"STEP", "STATUS", "DETAIL"}, [][]string{
		{"Preflight", "ok", ""},
		{"Health", "degraded", "API not healthy"},
	})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"  STEP       STATUS    DETAIL",
		"  Preflight  ok",
		"  Health     degraded  API not healthy",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestPromptsRefuseWhenNonInteractive(t *testing.T) {
	u, _ := newTestUI()
	u.SetNonInteractive(true)

	if _, err := u.PromptSelect("env", []string{"production"}); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("PromptSelect error = %v, want ErrNonInteractive", err)
	}
	if _, err := u.PromptInputWithValidation("domain", "", nil); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("PromptInputWithValidation error = %v, want ErrNonInteractive", err)
	}
	if _, err := u.PromptPasswordConfirm("password"); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("PromptPasswordConfirm error = %v, want ErrNonInteractive", err)
	}
	if _, err := u.PromptYesNo("save?", true); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("PromptYesNo error = %v, want ErrNonInteractive", err)
	}
}

func TestBanner(t *testing.T) {
	u, buf := newTestUI()

	u.Banner()

	if !strings.Contains(buf.String(), "Welcome to Nixopus Installation Wizard") {
		t.Errorf("banner missing welcome line:\n%s", buf.String())
	}
}
