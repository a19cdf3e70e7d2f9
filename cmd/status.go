package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	statusadapter "github.com/casthost/azuracast-provisioner/internal/adapters/render/status"
	"github.com/casthost/azuracast-provisioner/internal/application"
	"github.com/casthost/azuracast-provisioner/internal/domain"
)

func newStatusCmd(app *app) *cobra.Command {
	var accountID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show accounts and their remote resources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.newStatusService(cmd.Context())
			if err != nil {
				return err
			}

			statuses, err := loadStatuses(cmd, svc, accountID)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}

			rendered, err := app.statusRenderer(statuses, statusadapter.RenderOptions{Now: app.clock.Now()})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "limit to one billing account id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit raw JSON instead of the rendered view")
	return cmd
}

func loadStatuses(cmd *cobra.Command, svc *application.StatusService, accountID string) ([]application.Status, error) {
	if accountID == "" {
		return svc.GetStatusAll(cmd.Context())
	}

	status, err := svc.GetStatus(cmd.Context(), domain.AccountID(accountID))
	if err != nil {
		return nil, err
	}
	return []application.Status{status}, nil
}
