package main

import (
	"github.com/spf13/cobra"

	"github.com/nixopus/installer/internal/cli"
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Configure the Caddy reverse proxy",
	Long: `Push the Nixopus routes to the Caddy admin API without touching
the containers. Useful after changing domains.`,
	RunE: runProxy,
}

func init() {
	rootCmd.AddCommand(proxyCmd)
}

func runProxy(cmd *cobra.Command, args []string) error {
	sc, err := newSetupContext()
	if err != nil {
		return err
	}

	opts := cli.InputOptions{EnvironmentChosen: environmentChosen(cmd)}
	if err := cli.CollectInput(sc, sc.UI, opts); err != nil {
		return err
	}

	sc.UI.Step("Configuring proxy")
	_, err = cli.ConfigureProxy(cmd.Context(), sc, cli.DefaultDependencies(sc).Proxy)
	return err
}
