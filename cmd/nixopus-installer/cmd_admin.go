package main

import (
	"github.com/spf13/cobra"

	"github.com/nixopus/installer/internal/cli"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create the Nixopus admin account",
	Long: `Wait for the API to report healthy, then register the admin account.
Use this when the install finished before the API came up.`,
	RunE: runAdmin,
}

func init() {
	rootCmd.AddCommand(adminCmd)
}

func runAdmin(cmd *cobra.Command, args []string) error {
	sc, err := newSetupContext()
	if err != nil {
		return err
	}

	opts := cli.InputOptions{EnvironmentChosen: environmentChosen(cmd), NeedAdmin: true}
	if err := cli.CollectInput(sc, sc.UI, opts); err != nil {
		return err
	}

	port, err := sc.APIPort()
	if err != nil {
		return err
	}
	deps := cli.DefaultDependencies(sc)

	sc.UI.Step("Waiting for API")
	if err := cli.WaitForAPI(cmd.Context(), sc, deps, port); err != nil {
		return err
	}

	sc.UI.Step("Creating admin account")
	created, err := cli.BootstrapAdmin(cmd.Context(), sc, deps, port)
	if err != nil {
		return err
	}
	if created {
		sc.UI.KeyValue("Email", sc.Config.Admin.Email)
		sc.UI.KeyValue("Username", sc.Config.Admin.Username())
	}
	return nil
}
