// Package config resolves the installer configuration. Values are layered the
// usual viper way: built-in defaults, an optional YAML answers file,
// NIXOPUS_* environment variables, then command-line flags. The resolved
// configuration is immutable for the rest of the run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Domains are the public hostnames the proxy serves
type Domains struct {
	API string `mapstructure:"api" yaml:"api"`
	App string `mapstructure:"app" yaml:"app"`
}

// Admin holds the initial administrator credentials
type Admin struct {
	Email    string `mapstructure:"email" yaml:"email"`
	Password string `mapstructure:"password" yaml:"-"`
}

// Username is the part of the email before the first '@'
func (a Admin) Username() string {
	name, _, _ := strings.Cut(a.Email, "@")
	return name
}

// DockerConfig describes the daemon the deployment runs on
type DockerConfig struct {
	Host      string `mapstructure:"host"`
	TLSVerify bool   `mapstructure:"tls_verify"`
	CertPath  string `mapstructure:"cert_path"`
}

// ProxyConfig describes the Caddy admin endpoint and routing template
type ProxyConfig struct {
	AdminURL    string        `mapstructure:"admin_url"`
	Template    string        `mapstructure:"template"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// HealthConfig is the retry policy for the API health check
type HealthConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Delay       time.Duration `mapstructure:"delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
	Strategy    string        `mapstructure:"strategy"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Requirements are the minimum tool versions, as X.Y.Z
type Requirements struct {
	Docker  string `mapstructure:"docker"`
	Compose string `mapstructure:"compose"`
}

// Config is the fully resolved installer configuration
type Config struct {
	Environment    Environment  `mapstructure:"env"`
	ProjectRoot    string       `mapstructure:"project_root"`
	RepoURL        string       `mapstructure:"repo_url"`
	RepoBranch     string       `mapstructure:"repo_branch"`
	APIPort        int          `mapstructure:"api_port"`
	Domains        Domains      `mapstructure:"domains"`
	Admin          Admin        `mapstructure:"admin"`
	Docker         DockerConfig `mapstructure:"docker"`
	Proxy          ProxyConfig  `mapstructure:"proxy"`
	Health         HealthConfig `mapstructure:"health"`
	Requirements   Requirements `mapstructure:"requirements"`
	NonInteractive bool         `mapstructure:"non_interactive"`
	SkipRootCheck  bool         `mapstructure:"skip_root_check"`
	SaveAnswers    bool         `mapstructure:"save_answers"`
	LogLevel       string       `mapstructure:"log_level"`

	filePath string
}

// NewViper returns a viper instance with defaults and environment binding
// applied. Callers bind their flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the answers file at path (DefaultConfigPath when empty) and
// resolves the configuration. A missing file is only an error when the
// caller asked for a specific path.
func Load(v *viper.Viper, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing || explicit {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.filePath = path

	env, err := ParseEnvironment(string(cfg.Environment))
	if err != nil {
		return nil, err
	}
	cfg.Environment = env

	cfg.Domains.API = strings.TrimSpace(cfg.Domains.API)
	cfg.Domains.App = strings.TrimSpace(cfg.Domains.App)
	cfg.Admin.Email = strings.TrimSpace(cfg.Admin.Email)

	return &cfg, nil
}

// FilePath returns the answers file path
func (c *Config) FilePath() string {
	return c.filePath
}

// ResolvedAPIPort returns the configured API port or the environment default
func (c *Config) ResolvedAPIPort() int {
	if c.APIPort > 0 {
		return c.APIPort
	}
	return c.Environment.DefaultAPIPort()
}

// ComposeFilePath is the environment compose file inside the project root
func (c *Config) ComposeFilePath() string {
	return filepath.Join(c.ProjectRoot, c.Environment.ComposeFile())
}

// ProxyTemplatePath is the routing template to render. An empty result means
// the built-in template should be used.
func (c *Config) ProxyTemplatePath() string {
	if c.Proxy.Template != "" {
		return c.Proxy.Template
	}
	candidate := filepath.Join(c.ProjectRoot, "helpers", "caddy.json")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// Validate checks the values every step relies on. Operator input (domains
// and admin credentials) is checked separately once prompting is done.
func (c *Config) Validate() error {
	if c.ProjectRoot == "" {
		return fmt.Errorf("project root cannot be empty")
	}
	if !filepath.IsAbs(c.ProjectRoot) {
		return fmt.Errorf("project root must be absolute: %s", c.ProjectRoot)
	}
	if c.Health.MaxAttempts < 1 {
		return fmt.Errorf("health.max_attempts must be at least 1, got %d", c.Health.MaxAttempts)
	}
	if c.APIPort < 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port must be between 0 and 65535, got %d", c.APIPort)
	}
	return nil
}

// answers is the subset of the configuration worth remembering between runs.
// The admin password is never written.
type answers struct {
	Env         string  `yaml:"env"`
	ProjectRoot string  `yaml:"project_root"`
	APIPort     int     `yaml:"api_port,omitempty"`
	Domains     Domains `yaml:"domains"`
	Admin       struct {
		Email string `yaml:"email"`
	} `yaml:"admin"`
}

// Save writes the operator's answers to the config file using an atomic
// write so a failed run never leaves a truncated file behind.
func (c *Config) Save() error {
	a := answers{
		Env:         string(c.Environment),
		ProjectRoot: c.ProjectRoot,
		APIPort:     c.APIPort,
		Domains:     c.Domains,
	}
	a.Admin.Email = c.Admin.Email

	data, err := yaml.Marshal(&a)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	dir := filepath.Dir(c.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".installer.yaml.tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}

	header := fmt.Sprintf("# Nixopus installer answers\n# Generated: %s\n", time.Now().Format(time.RFC3339))
	if _, err := tmpFile.WriteString(header); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file to config: %w", err)
	}

	return nil
}
