package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the admin API token",
	}

	cmd.AddCommand(
		newAuthSetTokenCmd(app),
		newAuthClearTokenCmd(app),
	)

	return cmd
}

func newAuthSetTokenCmd(app *app) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "set-token",
		Short: "Store the admin API token in the secret store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.secretStore.Put(cmd.Context(), accessHashSecretKey, token); err != nil {
				return fmt.Errorf("store admin token: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "token stored")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "admin API token")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newAuthClearTokenCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-token",
		Short: "Remove the stored admin API token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.secretStore.Delete(cmd.Context(), accessHashSecretKey); err != nil {
				return fmt.Errorf("delete admin token: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "token removed")
			return nil
		},
	}
}
