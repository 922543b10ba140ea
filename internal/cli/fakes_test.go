package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"

	"github.com/nixopus/installer/internal/caddy"
	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/steps"
	"github.com/nixopus/installer/internal/system"
	"github.com/nixopus/installer/internal/ui"
)

const testCompose = `services:
  api:
    image: ghcr.io/raghavyuva/nixopus-api:latest
    container_name: nixopus-api-container
  view:
    image: ghcr.io/raghavyuva/nixopus-view:latest
    container_name: nixopus-view-container
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "docker-compose.yml"), []byte(testCompose), 0644); err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		Environment: config.Production,
		ProjectRoot: root,
		Domains:     config.Domains{API: "api.example.com", App: "app.example.com"},
		Admin:       config.Admin{Email: "admin@example.com", Password: "supersecret"},
		Docker:      config.DockerConfig{Host: "tcp://localhost:2376"},
		Proxy:       config.ProxyConfig{SettleDelay: 10 * time.Second},
		Health: config.HealthConfig{
			MaxAttempts: 3,
			Delay:       2 * time.Second,
			MaxDelay:    2 * time.Second,
			Strategy:    "fixed",
		},
		Requirements:   config.Requirements{Docker: "20.10.0", Compose: "2.0.0"},
		NonInteractive: true,
	}
}

func newTestContext(t *testing.T) (*SetupContext, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	return NewSetupContext(testConfig(t), ui.NewWithWriter(&buf)), &buf
}

type fakeHost struct {
	root bool
}

func (h fakeHost) OS() string { return "linux" }

func (h fakeHost) IsRoot() bool { return h.root }

func (h fakeHost) CommandExists(cmd string) bool { return true }

type fakeRunner struct {
	outputs map[string]string
}

func (r fakeRunner) Run(ctx context.Context, c system.Command) (string, error) {
	if out, ok := r.outputs[c.String()]; ok {
		return out, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func healthyRunner() fakeRunner {
	return fakeRunner{outputs: map[string]string{
		"docker --version":       "Docker version 24.0.5, build ced0996",
		"docker compose version": "Docker Compose version v2.20.2",
	}}
}

type fakeCloner struct{}

func (fakeCloner) Clone(ctx context.Context, url, branch, dir string) error {
	return errors.New("unexpected clone")
}

type fakeDocker struct {
	running []system.ContainerStatus
	closed  bool
}

func (d *fakeDocker) Ping(ctx context.Context) error { return nil }

func (d *fakeDocker) ListRunning(ctx context.Context) ([]system.ContainerStatus, error) {
	return d.running, nil
}

func (d *fakeDocker) Close() error {
	d.closed = true
	return nil
}

func productionContainers() []system.ContainerStatus {
	return []system.ContainerStatus{
		{Name: "nixopus-api-container", Status: "Up 5 seconds"},
		{Name: "nixopus-db-container", Status: "Up 6 seconds"},
		{Name: "nixopus-view-container", Status: "Up 5 seconds"},
		{Name: "nixopus-caddy-container", Status: "Up 7 seconds"},
	}
}

type fakeCompose struct {
	calls []string
}

func (c *fakeCompose) Pull(ctx context.Context) (string, error) {
	c.calls = append(c.calls, "pull")
	return "", nil
}

func (c *fakeCompose) Up(ctx context.Context, build bool) (string, error) {
	c.calls = append(c.calls, "up")
	return "", nil
}

type fakeProxy struct {
	loadErr error
	loaded  []caddy.Document
}

func (p *fakeProxy) Config(ctx context.Context) (caddy.Document, error) {
	return nil, nil
}

func (p *fakeProxy) Load(ctx context.Context, doc caddy.Document) error {
	if p.loadErr != nil {
		return p.loadErr
	}
	p.loaded = append(p.loaded, doc)
	return nil
}

func (p *fakeProxy) AppendRoute(ctx context.Context, server string, route any) error {
	return errors.New("unexpected append")
}

type fakeAPI struct {
	health      []bool
	healthCalls int
	registerErr error
	registered  []config.Admin
}

func (a *fakeAPI) Healthy(ctx context.Context) bool {
	a.healthCalls++
	if a.healthCalls <= len(a.health) {
		return a.health[a.healthCalls-1]
	}
	return false
}

func (a *fakeAPI) RegisterAdmin(ctx context.Context, admin config.Admin) error {
	a.registered = append(a.registered, admin)
	return a.registerErr
}

type fakeClock struct {
	slept []time.Duration
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	return ctx.Err()
}

type fakes struct {
	docker  *fakeDocker
	compose *fakeCompose
	proxy   *fakeProxy
	api     *fakeAPI
	clock   *fakeClock
	ports   []int
}

func newFakes() *fakes {
	return &fakes{
		docker:  &fakeDocker{running: productionContainers()},
		compose: &fakeCompose{},
		proxy:   &fakeProxy{},
		api:     &fakeAPI{health: []bool{true}},
		clock:   &fakeClock{},
	}
}

func (f *fakes) deps() Dependencies {
	return Dependencies{
		Host:   fakeHost{root: true},
		Runner: healthyRunner(),
		Cloner: fakeCloner{},
		Docker: func(system.DockerEndpoint) (DockerClient, error) {
			return f.docker, nil
		},
		Compose: func(system.ComposeCommand) steps.ComposeProject {
			return f.compose
		},
		Proxy: f.proxy,
		API: func(port int) APIClient {
			f.ports = append(f.ports, port)
			return f.api
		},
		Clock: f.clock,
	}
}

type fakePrompter struct {
	selected  int
	inputs    []string
	passwords []string
	prompts   []string
}

func (p *fakePrompter) PromptSelect(prompt string, options []string) (int, error) {
	p.prompts = append(p.prompts, prompt)
	return p.selected, nil
}

func (p *fakePrompter) PromptInputWithValidation(prompt, defaultValue string, validator survey.Validator) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.inputs) == 0 {
		return "", errors.New("no more input")
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	if validator != nil {
		if err := validator(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (p *fakePrompter) PromptPasswordConfirm(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.passwords) == 0 {
		return "", errors.New("no more passwords")
	}
	answer := p.passwords[0]
	p.passwords = p.passwords[1:]
	return answer, nil
}
