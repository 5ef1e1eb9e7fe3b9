// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"

	"github.com/TechWithTyler/randofacto/internal/client"
	"github.com/spf13/cobra"
)

func newAccountCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the signed-in account",
	}

	cmd.AddCommand(newAccountDeleteCommand(opts))
	cmd.AddCommand(newPasswordResetCommand(opts))
	cmd.AddCommand(newPasswordChangeCommand(opts))

	return cmd
}

func newAccountDeleteCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the account and all of its favorites",
		Long: `Delete the account and all of its favorites.

Favorites are deleted first, then the registration, then the account
itself. A failure stops the deletion at that step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirm(cmd, "Delete your account and all favorites?")
				if err != nil || !ok {
					return err
				}
			}

			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.DeleteAccount(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newPasswordResetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "password-reset EMAIL",
		Short: "Send a password reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.SendPasswordReset(ctx, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Password reset sent to %s\n", args[0])
				return err
			})
		},
	}
}

func newPasswordChangeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "password-change",
		Short: "Change the password of the signed-in account",
		Long: `Change the password of the signed-in account.

The change requires a recent sign-in. When the session is too old it is
ended and you need to log in again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptNewPassword(cmd)
			if err != nil {
				return err
			}

			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.ChangePassword(ctx, password); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
				return err
			})
		},
	}
}
