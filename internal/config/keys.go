package config

import "time"

// Configuration key constants to prevent typos and enable autocomplete.
// Keys double as viper paths, config file fields and (upper-cased, prefixed
// with NIXOPUS_, dots as underscores) environment variable names.
const (
	// Deployment selection
	KeyEnv         = "env"
	KeyProjectRoot = "project_root"
	KeyRepoURL     = "repo_url"
	KeyRepoBranch  = "repo_branch"
	KeyAPIPort     = "api_port"

	// Operator input
	KeyAPIDomain     = "domains.api"
	KeyAppDomain     = "domains.app"
	KeyAdminEmail    = "admin.email"
	KeyAdminPassword = "admin.password"

	// Docker endpoint handed to compose and the engine API client
	KeyDockerHost      = "docker.host"
	KeyDockerTLSVerify = "docker.tls_verify"
	KeyDockerCertPath  = "docker.cert_path"

	// Reverse proxy
	KeyProxyAdminURL = "proxy.admin_url"
	KeyProxyTemplate = "proxy.template"
	KeyProxySettle   = "proxy.settle_delay"
	KeyProxyTimeout  = "proxy.timeout"

	// Health polling
	KeyHealthAttempts = "health.max_attempts"
	KeyHealthDelay    = "health.delay"
	KeyHealthMaxDelay = "health.max_delay"
	KeyHealthStrategy = "health.strategy"
	KeyHealthTimeout  = "health.timeout"

	// Prerequisites
	KeyMinDocker  = "requirements.docker"
	KeyMinCompose = "requirements.compose"

	// Behaviour
	KeyNonInteractive = "non_interactive"
	KeySkipRootCheck  = "skip_root_check"
	KeySaveAnswers    = "save_answers"
	KeyLogLevel       = "log_level"
)

// EnvPrefix is prepended to every environment variable the installer reads
const EnvPrefix = "NIXOPUS"

// DefaultConfigPath is where answers are read from and saved to
const DefaultConfigPath = "/etc/nixopus/installer.yaml"

// Defaults holds the value for every key. Registering a default for each key
// is what lets viper resolve environment variables during Unmarshal.
var Defaults = map[string]any{
	KeyEnv:         string(Production),
	KeyProjectRoot: "/etc/nixopus/source",
	KeyRepoURL:     "https://github.com/raghavyuva/nixopus.git",
	KeyRepoBranch:  "master",
	KeyAPIPort:     0,

	KeyAPIDomain:     "",
	KeyAppDomain:     "",
	KeyAdminEmail:    "",
	KeyAdminPassword: "",

	KeyDockerHost:      "tcp://localhost:2376",
	KeyDockerTLSVerify: true,
	KeyDockerCertPath:  "/etc/nixopus/docker-certs",

	KeyProxyAdminURL: "http://localhost:2019",
	KeyProxyTemplate: "",
	KeyProxySettle:   10 * time.Second,
	KeyProxyTimeout:  30 * time.Second,

	KeyHealthAttempts: 3,
	KeyHealthDelay:    2 * time.Second,
	KeyHealthMaxDelay: 2 * time.Second,
	KeyHealthStrategy: "fixed",
	KeyHealthTimeout:  10 * time.Second,

	KeyMinDocker:  "20.10.0",
	KeyMinCompose: "2.0.0",

	KeyNonInteractive: false,
	KeySkipRootCheck:  false,
	KeySaveAnswers:    false,
	KeyLogLevel:       "warn",
}
