package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/nixopus/installer/internal/common"
	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/system"
	"github.com/nixopus/installer/internal/ui"
)

// Host answers the OS-level questions the prerequisite checks ask
type Host interface {
	OS() string
	IsRoot() bool
	CommandExists(command string) bool
}

// PreflightResult records what the checks discovered
type PreflightResult struct {
	DockerVersion  string
	ComposeVersion string
	Compose        system.ComposeCommand
}

// Preflight validates host prerequisites. Checks run in a fixed order and
// stop at the first failure.
type Preflight struct {
	host          Host
	runner        system.CommandRunner
	ui            *ui.UI
	requirements  config.Requirements
	skipRootCheck bool
}

// NewPreflight creates a new Preflight instance
func NewPreflight(host Host, runner system.CommandRunner, ui *ui.UI, requirements config.Requirements, skipRootCheck bool) *Preflight {
	return &Preflight{
		host:          host,
		runner:        runner,
		ui:            ui,
		requirements:  requirements,
		skipRootCheck: skipRootCheck,
	}
}

// Run executes every prerequisite check
func (p *Preflight) Run(ctx context.Context) (*PreflightResult, error) {
	p.ui.Info("Checking system requirements...")

	if err := p.checkRoot(); err != nil {
		return nil, err
	}
	if err := p.checkOS(); err != nil {
		return nil, err
	}

	result := &PreflightResult{}

	dockerVersion, err := p.checkDocker(ctx)
	if err != nil {
		return nil, err
	}
	result.DockerVersion = dockerVersion

	compose, composeVersion, err := p.checkCompose(ctx)
	if err != nil {
		return nil, err
	}
	result.Compose = compose
	result.ComposeVersion = composeVersion

	if err := p.checkCurl(); err != nil {
		return nil, err
	}

	p.ui.Success("System requirements check passed")
	return result, nil
}

func (p *Preflight) checkRoot() error {
	if p.skipRootCheck {
		p.ui.Warning("Skipping root privilege check")
		return nil
	}
	if !p.host.IsRoot() {
		p.ui.Error("Please run the installer with sudo privileges")
		return fmt.Errorf("root privileges required")
	}
	return nil
}

func (p *Preflight) checkOS() error {
	if osName := p.host.OS(); osName != "linux" {
		p.ui.Errorf("Unsupported operating system: %s", osName)
		return fmt.Errorf("unsupported operating system: %s", osName)
	}
	return nil
}

func (p *Preflight) checkDocker(ctx context.Context) (string, error) {
	out, err := p.runner.Run(ctx, system.Command{Name: "docker", Args: []string{"--version"}})
	out = strings.TrimSpace(out)
	if err != nil {
		p.ui.Error("Docker is not installed or not working properly")
		if out != "" {
			p.ui.Print(out)
		}
		return "", fmt.Errorf("docker is not available: %w", err)
	}

	if !common.VersionOK(out, p.requirements.Docker) {
		p.ui.Errorf("Docker version %s or higher is required", p.requirements.Docker)
		p.ui.Infof("Current version: %s", out)
		return "", fmt.Errorf("docker version %s or higher is required, found %q", p.requirements.Docker, out)
	}

	p.ui.Successf("Docker: %s", out)
	return out, nil
}

func (p *Preflight) checkCompose(ctx context.Context) (system.ComposeCommand, string, error) {
	compose, out, err := system.DetectCompose(ctx, p.runner)
	if err != nil {
		p.ui.Error("Docker Compose is not installed or not working properly")
		return system.ComposeCommand{}, "", fmt.Errorf("docker compose is not available: %w", err)
	}

	if !common.VersionOK(out, p.requirements.Compose) {
		p.ui.Errorf("Docker Compose version %s or higher is required", p.requirements.Compose)
		p.ui.Infof("Current version: %s", out)
		return system.ComposeCommand{}, "", fmt.Errorf("docker compose version %s or higher is required, found %q", p.requirements.Compose, out)
	}

	p.ui.Successf("Compose (%s): %s", compose, out)
	return compose, out, nil
}

func (p *Preflight) checkCurl() error {
	if !p.host.CommandExists("curl") {
		p.ui.Error("Curl is not installed")
		return fmt.Errorf("curl is not installed")
	}
	return nil
}
