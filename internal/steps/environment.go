package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/envfile"
	"github.com/nixopus/installer/internal/system"
	"github.com/nixopus/installer/internal/ui"
)

const (
	envFileName   = ".env"
	envSampleName = ".env.sample"

	// EnvAPIPort is the variable the API port is read from after setup
	EnvAPIPort = "API_PORT"
)

// secretKeys are generated once and kept across reinstalls
var secretKeys = []string{"PASSWORD", "SECRET_KEY"}

// EnvironmentSetup renders the project's .env file. Values are layered:
// built-in defaults, then .env.sample, then an existing .env, then the
// values this run decided (environment, domains, Docker endpoint).
type EnvironmentSetup struct {
	ui        *ui.UI
	root      string
	env       config.Environment
	domains   config.Domains
	apiPort   int
	endpoint  system.DockerEndpoint
	newSecret func() string
}

// NewEnvironmentSetup creates a new EnvironmentSetup instance. apiPort 0
// keeps whatever port the project files define.
func NewEnvironmentSetup(ui *ui.UI, root string, env config.Environment, domains config.Domains, apiPort int, endpoint system.DockerEndpoint) *EnvironmentSetup {
	return &EnvironmentSetup{
		ui:        ui,
		root:      root,
		env:       env,
		domains:   domains,
		apiPort:   apiPort,
		endpoint:  endpoint,
		newSecret: uuid.NewString,
	}
}

// Path is the .env file location
func (e *EnvironmentSetup) Path() string {
	return filepath.Join(e.root, envFileName)
}

func (e *EnvironmentSetup) defaults() map[string]string {
	return map[string]string{
		EnvAPIPort:       strconv.Itoa(e.env.DefaultAPIPort()),
		"VIEW_PORT":      strconv.Itoa(e.env.DefaultViewPort()),
		"DB_NAME":        "postgres",
		"USERNAME":       "nixopus",
		"DB_PORT":        "5432",
		"HOST_NAME":      "nixopus-db",
		"SSL_MODE":       "disable",
		"REDIS_URL":      "redis://nixopus-redis:6379",
		"ALLOWED_ORIGIN": "https://" + e.domains.App,
		"API_URL":        "https://" + e.domains.API + "/api",
		"WEBSOCKET_URL":  "wss://" + e.domains.API + "/ws",
	}
}

func (e *EnvironmentSetup) decided() map[string]string {
	vars := map[string]string{
		"ENV":              string(e.env),
		"API_DOMAIN":       e.domains.API,
		"APP_DOMAIN":       e.domains.App,
		"DOCKER_HOST":      e.endpoint.Host,
		"DOCKER_CERT_PATH": e.endpoint.CertPath,
		"DOCKER_CONTEXT":   e.endpoint.Context,
	}
	if e.endpoint.TLSVerify {
		vars["DOCKER_TLS_VERIFY"] = "1"
	}
	if e.apiPort > 0 {
		vars[EnvAPIPort] = strconv.Itoa(e.apiPort)
	}
	return vars
}

// Run writes the .env file and returns the variables it contains
func (e *EnvironmentSetup) Run(ctx context.Context) (map[string]string, error) {
	e.ui.Info("Setting up environment...")

	vars := e.defaults()

	decided := e.decided()
	lookup := func(name string) (string, bool) {
		if v, ok := decided[name]; ok {
			return v, true
		}
		v, ok := vars[name]
		return v, ok
	}

	sample, err := envfile.RenderFile(filepath.Join(e.root, envSampleName), lookup)
	switch {
	case err == nil:
		for key, value := range sample {
			vars[key] = value
		}
	case os.IsNotExist(err):
		e.ui.Infof("No %s found, using built-in defaults", envSampleName)
	default:
		return nil, fmt.Errorf("failed to render %s: %w", envSampleName, err)
	}

	existing, err := envfile.Load(e.Path())
	switch {
	case err == nil:
		e.ui.Info("Keeping values from existing .env")
		for key, value := range existing {
			vars[key] = value
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read existing %s: %w", envFileName, err)
	}

	for key, value := range decided {
		vars[key] = value
	}

	for _, key := range secretKeys {
		if vars[key] == "" {
			vars[key] = e.newSecret()
		}
	}

	if _, err := APIPort(vars); err != nil {
		return nil, err
	}

	if err := envfile.Save(e.Path(), vars); err != nil {
		return nil, fmt.Errorf("failed to write environment file: %w", err)
	}

	e.ui.Successf("Environment written to %s", e.Path())
	return vars, nil
}

// APIPort extracts the API port from rendered environment variables
func APIPort(vars map[string]string) (int, error) {
	port, err := strconv.Atoi(vars[EnvAPIPort])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", EnvAPIPort, vars[EnvAPIPort], err)
	}
	return port, nil
}
