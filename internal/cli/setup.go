// Package cli wires configuration, operator interaction and the installation
// steps together. The Installer runs the steps in a fixed order and is the
// only place that decides whether a failure ends the run.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nixopus/installer/internal/caddy"
	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/log"
	"github.com/nixopus/installer/internal/nixopus"
	"github.com/nixopus/installer/internal/retry"
	"github.com/nixopus/installer/internal/steps"
	"github.com/nixopus/installer/internal/system"
	"github.com/nixopus/installer/internal/ui"
)

// SetupContext holds all dependencies needed for setup operations
type SetupContext struct {
	Config   *config.Config
	UI       *ui.UI
	Endpoint system.DockerEndpoint
	RunID    string
}

// NewSetupContext builds the context for one run from a resolved config
func NewSetupContext(cfg *config.Config, u *ui.UI) *SetupContext {
	u.SetNonInteractive(cfg.NonInteractive)
	return &SetupContext{
		Config: cfg,
		UI:     u,
		Endpoint: system.DockerEndpoint{
			Host:      cfg.Docker.Host,
			TLSVerify: cfg.Docker.TLSVerify,
			CertPath:  cfg.Docker.CertPath,
			Context:   cfg.Environment.DockerContext(),
		},
		RunID: uuid.NewString(),
	}
}

// HealthPolicy converts the health settings into a retry policy
func (sc *SetupContext) HealthPolicy() (retry.Policy, error) {
	strategy, err := retry.ParseStrategy(sc.Config.Health.Strategy)
	if err != nil {
		return retry.Policy{}, err
	}
	p := retry.Policy{
		MaxAttempts: sc.Config.Health.MaxAttempts,
		Delay:       sc.Config.Health.Delay,
		MaxDelay:    sc.Config.Health.MaxDelay,
		Strategy:    strategy,
	}
	return p, p.Validate()
}

// ProxyValues are the routing template replacements for this run
func (sc *SetupContext) ProxyValues() caddy.Values {
	env := sc.Config.Environment
	return caddy.RouteValues(sc.Config.Domains.App, sc.Config.Domains.API, env.AppUpstream(), env.APIUpstream())
}

// DockerClient is the Docker Engine API surface the installer uses
type DockerClient interface {
	Ping(ctx context.Context) error
	ListRunning(ctx context.Context) ([]system.ContainerStatus, error)
	Close() error
}

// APIClient is the Nixopus API surface the installer uses
type APIClient interface {
	Healthy(ctx context.Context) bool
	RegisterAdmin(ctx context.Context, admin config.Admin) error
}

// Dependencies are the external systems the installer talks to. Tests
// replace them with fakes.
type Dependencies struct {
	Host    steps.Host
	Runner  system.CommandRunner
	Cloner  steps.Cloner
	Docker  func(system.DockerEndpoint) (DockerClient, error)
	Compose func(system.ComposeCommand) steps.ComposeProject
	Proxy   steps.ProxyAPI
	API     func(port int) APIClient
	Clock   retry.Clock
}

// DefaultDependencies returns the real host, Docker, Caddy and API clients
func DefaultDependencies(sc *SetupContext) Dependencies {
	cfg := sc.Config
	runner := system.NewCommandRunner()
	return Dependencies{
		Host:   system.LocalHost{},
		Runner: runner,
		Cloner: system.GitCloner{},
		Docker: func(e system.DockerEndpoint) (DockerClient, error) {
			return system.NewDockerAPI(e)
		},
		Compose: func(c system.ComposeCommand) steps.ComposeProject {
			return system.NewCompose(runner, c, cfg.ProjectRoot, cfg.Environment.ComposeFile(), sc.Endpoint)
		},
		Proxy: caddy.NewClient(cfg.Proxy.AdminURL, cfg.Proxy.Timeout),
		API: func(port int) APIClient {
			return nixopus.NewClient(port, cfg.Health.Timeout)
		},
		Clock: retry.RealClock{},
	}
}

// Installer runs the installation steps in order
type Installer struct {
	sc      *SetupContext
	deps    Dependencies
	results []StepResult

	compose      system.ComposeCommand
	docker       DockerClient
	apiPort      int
	healthy      bool
	adminCreated bool
}

// NewInstaller creates an installer for one run
func NewInstaller(sc *SetupContext, deps Dependencies) *Installer {
	return &Installer{sc: sc, deps: deps}
}

// Results returns the outcome of every step that ran
func (i *Installer) Results() []StepResult {
	return i.results
}

func (i *Installer) steps() []step {
	return []step{
		{name: "preflight", title: "Checking prerequisites", policy: Fatal, run: i.runPreflight},
		{name: "source", title: "Fetching source", policy: Fatal, run: i.runSource},
		{name: "environment", title: "Configuring environment", policy: Fatal, run: i.runEnvironment},
		{name: "launch", title: "Starting services", policy: Fatal, run: i.runLaunch},
		{name: "verify", title: "Verifying installation", policy: Fatal, run: i.runVerify},
		{name: "proxy", title: "Configuring proxy", policy: BestEffort, run: i.runProxy},
		{name: "health", title: "Waiting for API", policy: BestEffort, run: i.runHealth},
		{name: "admin", title: "Creating admin account", policy: Fatal, run: i.runAdmin},
	}
}

// Run executes every step. A failed fatal step ends the run with an error;
// best-effort failures are recorded as degraded and the run continues. The
// summary is printed whenever the run reaches the end.
func (i *Installer) Run(ctx context.Context) error {
	log.Info("Starting installation", "run_id", i.sc.RunID, "env", i.sc.Config.Environment)
	defer func() {
		if i.docker != nil {
			i.docker.Close()
		}
	}()

	for _, s := range i.steps() {
		i.sc.UI.Step(s.title)

		status, err := s.run(ctx)
		result, fatal := resolve(s, status, err)
		i.results = append(i.results, result)
		log.Debug("Step finished", "run_id", i.sc.RunID, "step", s.name, "status", result.Status)

		if ctx.Err() != nil {
			PrintOutcomes(i.sc.UI, i.results)
			return fmt.Errorf("installation interrupted: %w", ctx.Err())
		}
		if result.Status == StatusDegraded {
			i.sc.UI.Warningf("%s did not complete: %v", s.name, err)
		}
		if fatal != nil {
			i.sc.UI.Errorf("Installation stopped: %v", err)
			PrintOutcomes(i.sc.UI, i.results)
			return fatal
		}
	}

	PrintSummary(i.sc, i.results, i.adminCreated)
	return nil
}

func (i *Installer) runPreflight(ctx context.Context) (StepStatus, error) {
	p := steps.NewPreflight(i.deps.Host, i.deps.Runner, i.sc.UI, i.sc.Config.Requirements, i.sc.Config.SkipRootCheck)
	result, err := p.Run(ctx)
	if err != nil {
		return StatusFailed, err
	}
	i.compose = result.Compose
	return StatusOK, nil
}

func (i *Installer) runSource(ctx context.Context) (StepStatus, error) {
	cfg := i.sc.Config
	f := steps.NewSourceFetcher(i.deps.Cloner, i.sc.UI, cfg.ProjectRoot, cfg.Environment.ComposeFile(), cfg.RepoURL, cfg.RepoBranch)
	fetched, err := f.Run(ctx)
	if err != nil {
		return StatusFailed, err
	}
	if !fetched {
		return StatusSkipped, nil
	}
	return StatusOK, nil
}

func (i *Installer) runEnvironment(ctx context.Context) (StepStatus, error) {
	cfg := i.sc.Config
	e := steps.NewEnvironmentSetup(i.sc.UI, cfg.ProjectRoot, cfg.Environment, cfg.Domains, cfg.APIPort, i.sc.Endpoint)
	vars, err := e.Run(ctx)
	if err != nil {
		return StatusFailed, err
	}
	port, err := steps.APIPort(vars)
	if err != nil {
		return StatusFailed, err
	}
	i.apiPort = port
	return StatusOK, nil
}

func (i *Installer) dockerClient() (DockerClient, error) {
	if i.docker != nil {
		return i.docker, nil
	}
	d, err := i.deps.Docker(i.sc.Endpoint)
	if err != nil {
		return nil, err
	}
	i.docker = d
	return d, nil
}

func (i *Installer) runLaunch(ctx context.Context) (StepStatus, error) {
	if i.compose.IsZero() {
		return StatusFailed, errors.New("no compose command detected")
	}
	d, err := i.dockerClient()
	if err != nil {
		return StatusFailed, err
	}
	cfg := i.sc.Config
	l := steps.NewServiceLauncher(i.sc.UI, cfg.Environment, cfg.ComposeFilePath(), d, i.deps.Compose(i.compose))
	return StatusOK, l.Run(ctx)
}

func (i *Installer) runVerify(ctx context.Context) (StepStatus, error) {
	d, err := i.dockerClient()
	if err != nil {
		return StatusFailed, err
	}
	v := steps.NewInstallationVerifier(i.sc.UI, d, i.sc.Config.Environment.RequiredContainers())
	return StatusOK, v.Run(ctx)
}

func (i *Installer) runProxy(ctx context.Context) (StepStatus, error) {
	_, err := ConfigureProxy(ctx, i.sc, i.deps.Proxy)
	return StatusOK, err
}

func (i *Installer) runHealth(ctx context.Context) (StepStatus, error) {
	if err := WaitForAPI(ctx, i.sc, i.deps, i.apiPort); err != nil {
		return StatusFailed, err
	}
	i.healthy = true
	return StatusOK, nil
}

func (i *Installer) runAdmin(ctx context.Context) (StepStatus, error) {
	if !i.healthy {
		i.sc.UI.Warning("API is not healthy, skipping admin setup")
		return StatusSkipped, nil
	}
	created, err := BootstrapAdmin(ctx, i.sc, i.deps, i.apiPort)
	if err != nil {
		return StatusFailed, err
	}
	i.adminCreated = created
	return StatusOK, nil
}
