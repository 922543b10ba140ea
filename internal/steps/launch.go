package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/system"
	"github.com/nixopus/installer/internal/ui"
)

// Daemon is the Docker daemon reachability check
type Daemon interface {
	Ping(ctx context.Context) error
}

// ComposeProject starts the compose services
type ComposeProject interface {
	Pull(ctx context.Context) (string, error)
	Up(ctx context.Context, build bool) (string, error)
}

// ServiceLauncher brings the environment's services up. Staging builds
// images locally; production pulls published images first.
type ServiceLauncher struct {
	ui          *ui.UI
	env         config.Environment
	composePath string
	daemon      Daemon
	compose     ComposeProject
}

// NewServiceLauncher creates a new ServiceLauncher instance
func NewServiceLauncher(ui *ui.UI, env config.Environment, composePath string, daemon Daemon, compose ComposeProject) *ServiceLauncher {
	return &ServiceLauncher{
		ui:          ui,
		env:         env,
		composePath: composePath,
		daemon:      daemon,
		compose:     compose,
	}
}

// Run validates the compose file, checks the daemon and starts the services
func (l *ServiceLauncher) Run(ctx context.Context) error {
	l.ui.Info("Starting services...")

	project, err := system.LoadComposeFile(l.composePath)
	if err != nil {
		l.ui.Errorf("Invalid compose file: %v", err)
		return err
	}
	l.ui.Infof("Compose file defines %d services: %s", len(project.Services), strings.Join(project.ServiceNames(), ", "))

	if err := l.daemon.Ping(ctx); err != nil {
		l.ui.Error("Docker daemon is not running. Please start the Docker service and try again.")
		return err
	}

	if l.env.BuildOnStart() {
		l.ui.Info("Building and starting staging services...")
		if out, err := l.compose.Up(ctx, true); err != nil {
			l.reportOutput("Error building and starting services:", out)
			return fmt.Errorf("failed to build and start services: %w", err)
		}
	} else {
		l.ui.Info("Pulling production images...")
		if out, err := l.compose.Pull(ctx); err != nil {
			l.reportOutput("Error pulling images:", out)
			return fmt.Errorf("failed to pull images: %w", err)
		}

		l.ui.Info("Starting services...")
		if out, err := l.compose.Up(ctx, false); err != nil {
			l.reportOutput("Error starting services:", out)
			return fmt.Errorf("failed to start services: %w", err)
		}
	}

	l.ui.Success("Services started")
	return nil
}

func (l *ServiceLauncher) reportOutput(title, out string) {
	l.ui.Error(title)
	if out = strings.TrimSpace(out); out != "" {
		l.ui.Print(out)
	}
}
