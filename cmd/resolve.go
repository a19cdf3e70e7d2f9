package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casthost/azuracast-provisioner/internal/domain"
)

func newResolveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <email>",
		Short: "Map a client email onto remote user, role and station ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := app.newResolver(cmd.Context())
			if err != nil {
				return err
			}

			binding, err := resolver.Resolve(cmd.Context(), args[0])
			if errors.Is(err, domain.ErrUserNotFound) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no remote user")
				return nil
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "user: %d\nroles: %v\nstations: %v\n",
				binding.UserID, binding.RoleIDs, binding.StationIDs)
			return nil
		},
	}
}
