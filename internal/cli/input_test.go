package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/nixopus/installer/internal/config"
)

func TestCollectInputNonInteractive(t *testing.T) {
	sc, _ := newTestContext(t)
	sc.Config.Domains = config.Domains{}
	sc.Config.Admin.Password = ""

	err := CollectInput(sc, &fakePrompter{}, InputOptions{EnvironmentChosen: true, NeedAdmin: true})
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("CollectInput() error = %v, want ErrMissingInput", err)
	}
	for _, want := range []string{"--api-domain", "NIXOPUS_DOMAINS_APP", "NIXOPUS_ADMIN_PASSWORD"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
	if strings.Contains(err.Error(), "admin.email") {
		t.Errorf("error %q names an answer that was supplied", err)
	}
}

func TestCollectInputPrompts(t *testing.T) {
	sc, _ := newTestContext(t)
	sc.UI.SetNonInteractive(false)
	sc.Config.Domains = config.Domains{}
	sc.Config.Admin = config.Admin{}

	p := &fakePrompter{
		selected:  1,
		inputs:    []string{" api.example.com ", "app.example.com", "admin@example.com"},
		passwords: []string{"short", "longenough"},
	}
	if err := CollectInput(sc, p, InputOptions{NeedAdmin: true}); err != nil {
		t.Fatalf("CollectInput() error = %v", err)
	}

	cfg := sc.Config
	if cfg.Environment != config.Staging {
		t.Errorf("environment = %s, want staging", cfg.Environment)
	}
	if sc.Endpoint.Context != "nixopus-staging" {
		t.Errorf("docker context = %q, want nixopus-staging", sc.Endpoint.Context)
	}
	if cfg.Domains.API != "api.example.com" || cfg.Domains.App != "app.example.com" {
		t.Errorf("domains = %+v", cfg.Domains)
	}
	if cfg.Admin.Email != "admin@example.com" || cfg.Admin.Password != "longenough" {
		t.Errorf("admin = %+v", cfg.Admin)
	}
}

func TestCollectInputSkipsAnsweredQuestions(t *testing.T) {
	sc, _ := newTestContext(t)
	sc.UI.SetNonInteractive(false)

	p := &fakePrompter{}
	if err := CollectInput(sc, p, InputOptions{EnvironmentChosen: true, NeedAdmin: true}); err != nil {
		t.Fatalf("CollectInput() error = %v", err)
	}
	if len(p.prompts) != 0 {
		t.Errorf("prompted for %v although every answer was given", p.prompts)
	}
}

func TestCollectInputValidation(t *testing.T) {
	tests := []struct {
		name    string
		admin   config.Admin
		domain  string
		wantErr string
		warn    bool
	}{
		{name: "valid", admin: config.Admin{Email: "admin@example.com", Password: "supersecret"}, domain: "api.example.com"},
		{name: "bad email", admin: config.Admin{Email: "not-an-email", Password: "supersecret"}, domain: "api.example.com", wantErr: "invalid admin email"},
		{name: "short password", admin: config.Admin{Email: "admin@example.com", Password: "short"}, domain: "api.example.com", wantErr: "invalid admin password"},
		{name: "odd domain only warns", admin: config.Admin{Email: "admin@example.com", Password: "supersecret"}, domain: "api_example", warn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, buf := newTestContext(t)
			sc.Config.Admin = tt.admin
			sc.Config.Domains.API = tt.domain

			err := CollectInput(sc, &fakePrompter{}, InputOptions{EnvironmentChosen: true, NeedAdmin: true})
			if tt.wantErr == "" && err != nil {
				t.Fatalf("CollectInput() error = %v", err)
			}
			if tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)) {
				t.Fatalf("CollectInput() error = %v, want %q", err, tt.wantErr)
			}
			if got := strings.Contains(buf.String(), "does not look like a domain name"); got != tt.warn {
				t.Errorf("domain warning printed = %v, want %v", got, tt.warn)
			}
		})
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar(config.KeyAdminEmail); got != "NIXOPUS_ADMIN_EMAIL" {
		t.Errorf("EnvVar() = %q", got)
	}
}
