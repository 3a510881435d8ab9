package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/rentalmanager/internal/identity"
)

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage sign-in accounts",
	}
	cmd.AddCommand(accountCreateCmd(), accountDisableCmd(), accountResetCmd())
	return cmd
}

func accountCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create EMAIL PASSWORD",
		Short: "Create an account, even when self sign-up is off",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			provider, accounts, err := openProvider(cfg, logger)
			if err != nil {
				return err
			}
			defer accounts.Close()

			account, err := provider.CreateAccount(cmd.Context(), args[0], args[1], name)
			if err != nil {
				return errors.New(identity.UserMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (uid %s)\n", account.Email, account.UID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func accountDisableCmd() *cobra.Command {
	var enable bool

	cmd := &cobra.Command{
		Use:   "disable EMAIL",
		Short: "Block an account from signing in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			provider, accounts, err := openProvider(cfg, logger)
			if err != nil {
				return err
			}
			defer accounts.Close()

			if err := provider.DisableAccount(cmd.Context(), args[0], !enable); err != nil {
				return errors.New(identity.UserMessage(err))
			}
			state := "disabled"
			if enable {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&enable, "enable", false, "re-enable the account instead")
	return cmd
}

func accountResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password TOKEN NEW_PASSWORD",
		Short: "Set a new password using a reset token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			provider, accounts, err := openProvider(cfg, logger)
			if err != nil {
				return err
			}
			defer accounts.Close()

			if err := provider.ConfirmPasswordReset(cmd.Context(), args[0], args[1]); err != nil {
				return errors.New(identity.UserMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "password updated")
			return nil
		},
	}
}
