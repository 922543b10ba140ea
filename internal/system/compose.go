package system

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ComposeCommand is how compose is invoked on this host: the V2 plugin
// ("docker compose") or the V1 standalone binary ("docker-compose").
type ComposeCommand struct {
	Name string
	Args []string
}

var (
	ComposeV2 = ComposeCommand{Name: "docker", Args: []string{"compose"}}
	ComposeV1 = ComposeCommand{Name: "docker-compose"}
)

func (c ComposeCommand) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// IsZero reports whether no compose command was detected
func (c ComposeCommand) IsZero() bool {
	return c.Name == ""
}

func (c ComposeCommand) command(args ...string) Command {
	full := append(append([]string{}, c.Args...), args...)
	return Command{Name: c.Name, Args: full}
}

// DetectCompose finds the compose command, preferring the V2 plugin. It
// returns the version output of the command it found.
func DetectCompose(ctx context.Context, runner CommandRunner) (ComposeCommand, string, error) {
	out, errV2 := runner.Run(ctx, ComposeV2.command("version"))
	if errV2 == nil {
		return ComposeV2, strings.TrimSpace(out), nil
	}

	out, errV1 := runner.Run(ctx, ComposeV1.command("--version"))
	if errV1 == nil {
		return ComposeV1, strings.TrimSpace(out), nil
	}

	return ComposeCommand{}, "", fmt.Errorf("neither docker compose plugin nor docker-compose found: %v; %v", errV2, errV1)
}

// Compose runs compose against one project file with an explicit Docker
// endpoint.
type Compose struct {
	runner   CommandRunner
	command  ComposeCommand
	dir      string
	file     string
	endpoint DockerEndpoint
}

// NewCompose creates a compose driver for file, run from dir
func NewCompose(runner CommandRunner, command ComposeCommand, dir, file string, endpoint DockerEndpoint) *Compose {
	return &Compose{
		runner:   runner,
		command:  command,
		dir:      dir,
		file:     file,
		endpoint: endpoint,
	}
}

func (c *Compose) run(ctx context.Context, args ...string) (string, error) {
	cmd := c.command.command(append([]string{"-f", c.file}, args...)...)
	cmd.Dir = c.dir
	cmd.Env = c.endpoint.Environ()

	out, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return out, fmt.Errorf("%s failed: %w", cmd, err)
	}
	return out, nil
}

// Pull pulls every service image
func (c *Compose) Pull(ctx context.Context) (string, error) {
	return c.run(ctx, "pull")
}

// Up starts the services detached, building images first when build is set
func (c *Compose) Up(ctx context.Context, build bool) (string, error) {
	if build {
		return c.run(ctx, "up", "--build", "-d")
	}
	return c.run(ctx, "up", "-d")
}

// ComposeService is the subset of a compose service definition the installer
// reads.
type ComposeService struct {
	Image         string `yaml:"image"`
	ContainerName string `yaml:"container_name"`
	Build         any    `yaml:"build,omitempty"`
}

// ComposeFile is a parsed compose project file
type ComposeFile struct {
	Services map[string]ComposeService `yaml:"services"`
}

// ServiceNames returns the service names sorted
func (f *ComposeFile) ServiceNames() []string {
	names := make([]string, 0, len(f.Services))
	for name := range f.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseComposeFile decodes a compose file and requires at least one service
func ParseComposeFile(data []byte) (*ComposeFile, error) {
	var f ComposeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid compose file: %w", err)
	}
	if len(f.Services) == 0 {
		return nil, fmt.Errorf("compose file defines no services")
	}
	return &f, nil
}

// LoadComposeFile reads and validates the compose file at path
func LoadComposeFile(path string) (*ComposeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose file: %w", err)
	}
	f, err := ParseComposeFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
