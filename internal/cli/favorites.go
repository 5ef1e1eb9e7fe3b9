// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/TechWithTyler/randofacto/internal/client"
	"github.com/spf13/cobra"
)

func newFavoritesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage the favorites of the signed-in account",
	}

	cmd.AddCommand(newFavoritesListCommand(opts))
	cmd.AddCommand(newFavoritesAddCommand(opts))
	cmd.AddCommand(newFavoritesRemoveCommand(opts))
	cmd.AddCommand(newFavoritesClearCommand(opts))
	cmd.AddCommand(newFavoritesRandomCommand(opts))

	return cmd
}

func newFavoritesListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				favorites, err := c.Favorites(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(favorites) == 0 {
					_, err := fmt.Fprintln(out, "No favorites")
					return err
				}
				for i, fav := range favorites {
					if _, err := fmt.Fprintf(out, "%d. %s\n", i+1, fav.Text); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newFavoritesAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add TEXT",
		Short: "Save a fact as a favorite",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.AddFavorite(ctx, text); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Saved")
				return err
			})
		},
	}
}

func newFavoritesRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove TEXT",
		Aliases: []string{"rm"},
		Short:   "Remove a favorite by its text",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.RemoveFavorite(ctx, text); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Removed")
				return err
			})
		},
	}
}

func newFavoritesClearCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every favorite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirm(cmd, "Delete all favorites?")
				if err != nil || !ok {
					return err
				}
			}

			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.ClearFavorites(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "All favorites deleted")
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newFavoritesRandomCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Show a random favorite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				favorites, err := c.Favorites(ctx)
				if err != nil {
					return err
				}
				if len(favorites) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "No favorites")
					return err
				}
				return printFact(cmd, favorites[pick(len(favorites))].Text, true)
			})
		},
	}
}
