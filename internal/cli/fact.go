// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"

	"github.com/TechWithTyler/randofacto/internal/client"
	"github.com/spf13/cobra"
)

func newFactCommand(opts *rootOptions) *cobra.Command {
	var favorite bool

	cmd := &cobra.Command{
		Use:   "fact",
		Short: "Generate a new random fact",
		Long: `Generate a new random fact.

Facts containing inappropriate words are skipped. With --favorite the fact
is saved to the favorites of the signed-in account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				fact, err := c.GenerateFact(ctx)
				if err != nil {
					return err
				}

				if favorite {
					if err := c.AddFavorite(ctx, fact.Text); err != nil {
						return err
					}
				}
				return printFact(cmd, fact.Text, favorite || c.State().IsFavorite)
			})
		},
	}

	cmd.Flags().BoolVarP(&favorite, "favorite", "f", false, "save the fact as a favorite")
	return cmd
}

func printFact(cmd *cobra.Command, text string, isFavorite bool) error {
	marker := ""
	if isFavorite {
		marker = " ★"
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", text, marker)
	return err
}
