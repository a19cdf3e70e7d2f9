package cmd

import "github.com/spf13/cobra"

func Execute() error {
	root, cleanup := newRootCmd()
	defer cleanup()
	return root.Execute()
}

func newRootCmd() (*cobra.Command, func()) {
	rootCmd := &cobra.Command{
		Use:           "azprov",
		Short:         "Provision AzuraCast stations for billing accounts",
		Long:          "azprov maps billing account lifecycle events (create, suspend, cancel, password change) onto AzuraCast stations, roles and users through the admin API.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, func() {}
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServerCmd(app),
		newAccountCmd(app),
		newAuthCmd(app),
		newResolveCmd(app),
		newStatusCmd(app),
	)

	return rootCmd, app.close
}
