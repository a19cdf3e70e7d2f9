package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newServerCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Inspect the configured AzuraCast install",
	}

	cmd.AddCommand(
		newServerTestCmd(app),
		newServerURLCmd(app),
	)

	return cmd
}

func newServerTestCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Probe connectivity against the admin API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provisioner, err := app.newProvisioner(cmd.Context())
			if err != nil {
				return err
			}

			if err := provisioner.TestConnection(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "connection ok")
			return nil
		},
	}
}

func newServerURLCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the panel address",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provisioner, err := app.newProvisioner(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), provisioner.PanelURL())
			return nil
		},
	}
}
