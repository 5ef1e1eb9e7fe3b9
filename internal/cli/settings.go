// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/TechWithTyler/randofacto/internal/client"
	"github.com/spf13/cobra"
)

func newSettingsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change device settings",
	}

	cmd.AddCommand(newFavoritesOnLaunchCommand(opts))
	return cmd
}

func newFavoritesOnLaunchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "favorites-on-launch [on|off]",
		Short:     "Show a random favorite instead of a new fact at launch",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				enabled bool
				set     = len(args) == 1
			)
			if set {
				v, err := parseSwitch(args[0])
				if err != nil {
					return err
				}
				enabled = v
			}

			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if set {
					if err := c.SetFavoritesOnLaunch(ctx, enabled); err != nil {
						return err
					}
				} else {
					v, err := c.FavoritesOnLaunch(ctx)
					if err != nil {
						return err
					}
					enabled = v
				}

				_, err := fmt.Fprintf(cmd.OutOrStdout(), "favorites-on-launch: %s\n", switchText(enabled))
				return err
			})
		},
	}
}

func parseSwitch(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid value %q: want on or off", s)
	}
	return v, nil
}

func switchText(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
