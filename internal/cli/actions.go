package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nixopus/installer/internal/caddy"
	"github.com/nixopus/installer/internal/envfile"
	"github.com/nixopus/installer/internal/log"
	"github.com/nixopus/installer/internal/steps"
)

// APIPort returns the port the API listens on: API_PORT from the project's
// .env when present, otherwise the configured or environment default.
func (sc *SetupContext) APIPort() (int, error) {
	path := filepath.Join(sc.Config.ProjectRoot, ".env")
	vars, err := envfile.Load(path)
	switch {
	case err == nil:
		if _, ok := vars[steps.EnvAPIPort]; ok {
			return steps.APIPort(vars)
		}
	case os.IsNotExist(err):
	default:
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return sc.Config.ResolvedAPIPort(), nil
}

// ConfigureProxy renders the routing template and applies it to Caddy
func ConfigureProxy(ctx context.Context, sc *SetupContext, proxy steps.ProxyAPI) (steps.ProxyMode, error) {
	template, err := caddy.LoadTemplate(sc.Config.ProxyTemplatePath())
	if err != nil {
		return "", err
	}
	mode, err := steps.NewProxyConfigurator(sc.UI, proxy, template, sc.ProxyValues()).Run(ctx)
	log.Debug("Proxy configured", "run_id", sc.RunID, "mode", mode)
	return mode, err
}

// WaitForAPI polls the API health endpoint on port under the health policy
func WaitForAPI(ctx context.Context, sc *SetupContext, deps Dependencies, port int) error {
	policy, err := sc.HealthPolicy()
	if err != nil {
		return err
	}
	target := fmt.Sprintf("localhost:%d", port)
	h := steps.NewHealthPoller(sc.UI, deps.API(port), policy, deps.Clock, sc.Config.Proxy.SettleDelay, target)
	return h.Run(ctx)
}

// BootstrapAdmin registers the admin account. It reports whether a new
// account was created.
func BootstrapAdmin(ctx context.Context, sc *SetupContext, deps Dependencies, port int) (bool, error) {
	return steps.NewAdminBootstrapper(sc.UI, deps.API(port), sc.Config.Admin).Run(ctx)
}

// ServiceStatus reports the state of every required container
func ServiceStatus(ctx context.Context, sc *SetupContext, deps Dependencies) ([]steps.ServiceState, error) {
	d, err := deps.Docker(sc.Endpoint)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	v := steps.NewInstallationVerifier(sc.UI, d, sc.Config.Environment.RequiredContainers())
	return v.Status(ctx)
}

// PrintServiceStates prints the container table used by the status command
func PrintServiceStates(sc *SetupContext, states []steps.ServiceState) {
	rows := make([][]string, 0, len(states))
	for _, s := range states {
		container, status := s.Container, s.Status
		if container == "" {
			container, status = "-", "not found"
		}
		rows = append(rows, []string{s.Label, container, status})
	}
	sc.UI.Table([]string{"SERVICE", "CONTAINER", "STATUS"}, rows)
}
