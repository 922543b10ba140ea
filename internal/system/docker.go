package system

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/tlsconfig"

	"github.com/nixopus/installer/internal/log"
)

// DockerEndpoint identifies the daemon the deployment runs on. It is passed
// explicitly to child processes and the API client and never written into the
// installer's own environment.
type DockerEndpoint struct {
	Host      string
	TLSVerify bool
	CertPath  string
	Context   string
}

// Environ returns the DOCKER_* variables a child process needs to reach the
// endpoint.
func (e DockerEndpoint) Environ() []string {
	var env []string
	if e.Host != "" {
		env = append(env, "DOCKER_HOST="+e.Host)
	}
	if e.TLSVerify {
		env = append(env, "DOCKER_TLS_VERIFY=1")
	}
	if e.CertPath != "" {
		env = append(env, "DOCKER_CERT_PATH="+e.CertPath)
	}
	if e.Context != "" {
		env = append(env, "DOCKER_CONTEXT="+e.Context)
	}
	return env
}

// ContainerStatus is a running container's primary name and status text
type ContainerStatus struct {
	Name   string
	Status string
}

// DockerAPI is a Docker Engine API client bound to one endpoint
type DockerAPI struct {
	cli *client.Client
}

// NewDockerAPI creates an API client for the endpoint. With TLSVerify set,
// ca.pem, cert.pem and key.pem are read from CertPath.
func NewDockerAPI(e DockerEndpoint) (*DockerAPI, error) {
	opts := []client.Opt{client.WithAPIVersionNegotiation()}

	if e.TLSVerify {
		tlsConfig, err := tlsconfig.Client(tlsconfig.Options{
			CAFile:   filepath.Join(e.CertPath, "ca.pem"),
			CertFile: filepath.Join(e.CertPath, "cert.pem"),
			KeyFile:  filepath.Join(e.CertPath, "key.pem"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load docker TLS certificates from %s: %w", e.CertPath, err)
		}
		opts = append(opts, client.WithHTTPClient(&http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
			Timeout:   30 * time.Second,
		}))
	}
	if e.Host != "" {
		opts = append(opts, client.WithHost(e.Host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerAPI{cli: cli}, nil
}

// Ping checks that the daemon answers
func (d *DockerAPI) Ping(ctx context.Context) error {
	ping, err := d.cli.Ping(ctx)
	if err != nil {
		return fmt.Errorf("docker daemon is not reachable at %s: %w", d.cli.DaemonHost(), err)
	}
	log.Debug("Docker daemon reachable", "host", d.cli.DaemonHost(), "api_version", ping.APIVersion)
	return nil
}

// ListRunning returns every running container with its status text
func (d *DockerAPI) ListRunning(ctx context.Context) ([]ContainerStatus, error) {
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	result := make([]ContainerStatus, 0, len(containers))
	for _, c := range containers {
		name := c.ID
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		result = append(result, ContainerStatus{Name: name, Status: c.Status})
	}
	return result, nil
}

// Close releases the client's connections
func (d *DockerAPI) Close() error {
	return d.cli.Close()
}
