package config

import (
	"fmt"
	"strings"
)

// Environment selects which Nixopus deployment is installed. It is chosen once
// per run and every environment-specific value derives from it.
type Environment string

const (
	Production Environment = "production"
	Staging    Environment = "staging"
)

// Environments lists the valid selections in prompt order
var Environments = []Environment{Production, Staging}

// ParseEnvironment accepts the selection case-insensitively
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case Production:
		return Production, nil
	case Staging:
		return Staging, nil
	default:
		return "", fmt.Errorf("unknown environment %q (expected production or staging)", s)
	}
}

// RequiredContainer maps a container-name prefix to the service label shown
// to the operator when it is missing.
type RequiredContainer struct {
	Prefix string
	Label  string
}

// ComposeFile is the compose file name relative to the project root
func (e Environment) ComposeFile() string {
	if e == Staging {
		return "docker-compose-staging.yml"
	}
	return "docker-compose.yml"
}

// DockerContext is the docker context name exported to compose
func (e Environment) DockerContext() string {
	if e == Staging {
		return "nixopus-staging"
	}
	return "nixopus"
}

// BuildOnStart reports whether services are built locally rather than pulled
func (e Environment) BuildOnStart() bool {
	return e == Staging
}

// RequiredContainers returns the containers that must be up after launch.
// Redis is left out on purpose: the API starts without it.
func (e Environment) RequiredContainers() []RequiredContainer {
	if e == Staging {
		return []RequiredContainer{
			{Prefix: "nixopus-staging-api", Label: "API service"},
			{Prefix: "nixopus-staging-db", Label: "Database service"},
			{Prefix: "nixopus-staging-view", Label: "View service"},
		}
	}
	return []RequiredContainer{
		{Prefix: "nixopus-api-container", Label: "API service"},
		{Prefix: "nixopus-db-container", Label: "Database service"},
		{Prefix: "nixopus-view-container", Label: "View service"},
		{Prefix: "nixopus-caddy-container", Label: "Caddy service"},
	}
}

// AppUpstream is the view container address the proxy forwards app traffic to
func (e Environment) AppUpstream() string {
	if e == Staging {
		return "nixopus-staging-view:7444"
	}
	return "nixopus-view:7443"
}

// APIUpstream is the api container address the proxy forwards API traffic to
func (e Environment) APIUpstream() string {
	if e == Staging {
		return "nixopus-staging-api:8444"
	}
	return "nixopus-api:8443"
}

// DefaultAPIPort is the host port the API listens on when none is configured
func (e Environment) DefaultAPIPort() int {
	if e == Staging {
		return 8444
	}
	return 8443
}

// DefaultViewPort is the host port the web view listens on
func (e Environment) DefaultViewPort() int {
	if e == Staging {
		return 7444
	}
	return 7443
}

func (e Environment) String() string {
	return string(e)
}
