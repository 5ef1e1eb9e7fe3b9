// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/TechWithTyler/randofacto/internal/client"
	"github.com/spf13/cobra"
)

// ErrPasswordMismatch is returned when a password confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

func newSignupCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "signup EMAIL",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptNewPassword(cmd)
			if err != nil {
				return err
			}

			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				account, err := c.Signup(ctx, args[0], password)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s\n", account.Email)
				return err
			})
		},
	}
}

func newLoginCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login EMAIL",
		Short: "Sign in to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd, "Password: ")
			if err != nil {
				return err
			}

			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				account, err := c.Login(ctx, args[0], password)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", account.Email)
				return err
			})
		},
	}
}

func newLogoutCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget local account data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if _, ok := c.CurrentAccount(); !ok {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
					return err
				}
				if err := c.Logout(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return err
			})
		},
	}
}

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the account and connectivity state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.Settle(ctx); err != nil {
					return err
				}

				state := c.State()
				out := cmd.OutOrStdout()

				connectivity := "offline"
				if state.Online {
					connectivity = "online"
				}
				account := "not logged in"
				if a, ok := c.CurrentAccount(); ok {
					account = a.Email
				}

				_, err := fmt.Fprintf(out, "Account:      %s\nAuth:         %s\nConnectivity: %s\nFavorites:    %d\n",
					account, state.Auth, connectivity, state.FavoritesCount)
				return err
			})
		},
	}
}
