package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casthost/azuracast-provisioner/internal/application"
	"github.com/casthost/azuracast-provisioner/internal/domain"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Run lifecycle operations for billing accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountCreateCmd(app),
		newAccountSuspendCmd(app),
		newAccountUnsuspendCmd(app),
		newAccountCancelCmd(app),
		newAccountPasswdCmd(app),
		newAccountSyncCmd(app),
		newAccountLoginCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := app.repo.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, account := range accounts {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
					account.ID, account.Domain, account.Client.Email)
			}

			return nil
		},
	}
}

func newAccountCreateCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a station, role and user for an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := app.repo.GetByID(cmd.Context(), domain.AccountID(accountID))
			if err != nil {
				return fmt.Errorf("load account: %w", err)
			}

			provisioner, err := app.newProvisioner(cmd.Context())
			if err != nil {
				return err
			}

			result, err := provisioner.Create(cmd.Context(), account)
			if err != nil {
				return err
			}

			account.StationID = result.Station.ID
			if err := app.repo.Save(cmd.Context(), account); err != nil {
				return fmt.Errorf("record station id: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "station %d\trole %d\tuser %d\n",
				result.Station.ID, result.Role.ID, result.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "billing account id")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newAccountSuspendCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "suspend",
		Short: "Suspend an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLifecycleOp(cmd, app, accountID, func(p *application.Provisioner, account domain.Account) error {
				return p.Suspend(cmd.Context(), account)
			})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "billing account id")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newAccountUnsuspendCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "unsuspend",
		Short: "Re-enable an account's station",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLifecycleOp(cmd, app, accountID, func(p *application.Provisioner, account domain.Account) error {
				return p.Unsuspend(cmd.Context(), account)
			})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "billing account id")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newAccountCancelCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Delete the account's remote user, roles and stations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := app.repo.GetByID(cmd.Context(), domain.AccountID(accountID))
			if err != nil {
				return fmt.Errorf("load account: %w", err)
			}

			provisioner, err := app.newProvisioner(cmd.Context())
			if err != nil {
				return err
			}

			if err := provisioner.Cancel(cmd.Context(), account); err != nil {
				return err
			}

			account.StationID = 0
			if err := app.repo.Save(cmd.Context(), account); err != nil {
				return fmt.Errorf("clear station id: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "billing account id")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newAccountPasswdCmd(app *app) *cobra.Command {
	var accountID string
	var password string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the panel password of the account's user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLifecycleOp(cmd, app, accountID, func(p *application.Provisioner, account domain.Account) error {
				return p.ChangePassword(cmd.Context(), account, password)
			})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "billing account id")
	cmd.Flags().StringVar(&password, "password", "", "new panel password")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAccountSyncCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Align the stored account with its remote identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := app.repo.GetByID(cmd.Context(), domain.AccountID(accountID))
			if err != nil {
				return fmt.Errorf("load account: %w", err)
			}

			provisioner, err := app.newProvisioner(cmd.Context())
			if err != nil {
				return err
			}

			synced, err := provisioner.Synchronize(cmd.Context(), account)
			if err != nil {
				return err
			}
			if err := app.repo.Save(cmd.Context(), synced); err != nil {
				return fmt.Errorf("save account: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "username: %s\n", synced.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "billing account id")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newAccountLoginCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Print a single-use panel login link for the account's user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := app.repo.GetByID(cmd.Context(), domain.AccountID(accountID))
			if err != nil {
				return fmt.Errorf("load account: %w", err)
			}

			provisioner, err := app.newProvisioner(cmd.Context())
			if err != nil {
				return err
			}

			loginURL, err := provisioner.LoginURL(cmd.Context(), account)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), loginURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "billing account id")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func runLifecycleOp(cmd *cobra.Command, app *app, accountID string, op func(*application.Provisioner, domain.Account) error) error {
	account, err := app.repo.GetByID(cmd.Context(), domain.AccountID(accountID))
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	provisioner, err := app.newProvisioner(cmd.Context())
	if err != nil {
		return err
	}

	return op(provisioner, account)
}
