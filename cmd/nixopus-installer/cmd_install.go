package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nixopus/installer/internal/cli"
	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/ui"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install Nixopus",
	Long:  `Run the full installation. This is also what the bare command does.`,
	RunE:  runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

// newSetupContext resolves the configuration for a command
func newSetupContext() (*cli.SetupContext, error) {
	cfg, err := config.Load(settings, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cli.NewSetupContext(cfg, ui.New()), nil
}

// environmentChosen reports whether the environment was given explicitly,
// as opposed to coming from the built-in default
func environmentChosen(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("env") || settings.InConfig(config.KeyEnv) {
		return true
	}
	_, ok := os.LookupEnv(cli.EnvVar(config.KeyEnv))
	return ok
}

func runInstall(cmd *cobra.Command, args []string) error {
	sc, err := newSetupContext()
	if err != nil {
		return err
	}

	sc.UI.Banner()
	opts := cli.InputOptions{EnvironmentChosen: environmentChosen(cmd), NeedAdmin: true}
	if err := cli.CollectInput(sc, sc.UI, opts); err != nil {
		return err
	}

	installer := cli.NewInstaller(sc, cli.DefaultDependencies(sc))
	if err := installer.Run(cmd.Context()); err != nil {
		return err
	}

	cli.SaveAnswers(sc, sc.UI)
	return nil
}
