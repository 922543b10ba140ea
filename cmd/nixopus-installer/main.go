package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/log"
	"github.com/nixopus/installer/pkg/version"
)

var (
	settings   = config.NewViper()
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "nixopus-installer",
	Short: "Nixopus installation wizard",
	Long: `Installs Nixopus on this host.

The wizard checks prerequisites, fetches the project source, writes the
environment file, starts the services with docker compose, configures the
Caddy reverse proxy and creates the first admin account.

Answers can be given as flags, as NIXOPUS_* environment variables or in a
YAML answers file. Anything still missing is asked for interactively.

Run without a subcommand to install.`,
	SilenceUsage:      true, // We handle errors manually, but silence usage on error
	SilenceErrors:     true, // We format errors ourselves for consistent output
	PersistentPreRunE: initSettings,
	RunE:              runInstall,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

// flagKeys binds each persistent flag to its configuration key
var flagKeys = map[string]string{
	"env":             config.KeyEnv,
	"project-root":    config.KeyProjectRoot,
	"repo-url":        config.KeyRepoURL,
	"repo-branch":     config.KeyRepoBranch,
	"api-port":        config.KeyAPIPort,
	"api-domain":      config.KeyAPIDomain,
	"app-domain":      config.KeyAppDomain,
	"admin-email":     config.KeyAdminEmail,
	"admin-password":  config.KeyAdminPassword,
	"docker-host":     config.KeyDockerHost,
	"proxy-admin-url": config.KeyProxyAdminURL,
	"proxy-template":  config.KeyProxyTemplate,
	"health-attempts": config.KeyHealthAttempts,
	"non-interactive": config.KeyNonInteractive,
	"skip-root-check": config.KeySkipRootCheck,
	"save-answers":    config.KeySaveAnswers,
	"log-level":       config.KeyLogLevel,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", fmt.Sprintf("answers file (default %s)", config.DefaultConfigPath))
	flags.BoolVar(&debug, "debug", false, "enable debug logging")

	flags.String("env", "", "deployment environment (production or staging)")
	flags.String("project-root", "", "directory holding the Nixopus source")
	flags.String("repo-url", "", "repository cloned when the project root has no compose file")
	flags.String("repo-branch", "", "branch to clone")
	flags.Int("api-port", 0, "API port (default taken from the environment)")
	flags.String("api-domain", "", "public domain of the API")
	flags.String("app-domain", "", "public domain of the web app")
	flags.String("admin-email", "", "admin account email")
	flags.String("admin-password", "", "admin account password")
	flags.String("docker-host", "", "Docker daemon address")
	flags.String("proxy-admin-url", "", "Caddy admin API address")
	flags.String("proxy-template", "", "Caddy JSON routing template")
	flags.Int("health-attempts", 0, "API health check attempts")
	flags.Bool("non-interactive", false, "fail instead of prompting for missing answers")
	flags.Bool("skip-root-check", false, "do not require root privileges")
	flags.Bool("save-answers", false, "write the answers to the config file after a successful install")
	flags.String("log-level", "", "diagnostic log level (debug, info, warn, error)")

	for name, key := range flagKeys {
		if err := settings.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", name, err))
		}
	}

	rootCmd.AddCommand(versionCmd)
}

func initSettings(cmd *cobra.Command, args []string) error {
	level := settings.GetString(config.KeyLogLevel)
	if debug {
		level = "debug"
	}
	log.InitLog(level)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
