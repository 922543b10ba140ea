package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nixopus/installer/internal/cli"
	"github.com/nixopus/installer/internal/steps"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the Nixopus containers",
	Long:  `List the containers the installation requires and whether they are running.`,
	RunE:  showStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func showStatus(cmd *cobra.Command, args []string) error {
	sc, err := newSetupContext()
	if err != nil {
		return err
	}

	sc.UI.Header(fmt.Sprintf("Nixopus Status (%s)", sc.Config.Environment))

	states, err := cli.ServiceStatus(cmd.Context(), sc, cli.DefaultDependencies(sc))
	if err != nil {
		return fmt.Errorf("failed to query containers: %w", err)
	}
	cli.PrintServiceStates(sc, states)

	sc.UI.Print("")
	if missing := steps.MissingLabels(states); len(missing) > 0 {
		sc.UI.Warningf("%d of %d services are not running", len(missing), len(states))
	} else {
		sc.UI.Success("All services are running")
	}
	return nil
}
