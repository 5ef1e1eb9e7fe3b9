// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/TechWithTyler/randofacto/internal/app"
	"github.com/TechWithTyler/randofacto/internal/client"
	"github.com/TechWithTyler/randofacto/internal/config"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/models"
	"github.com/spf13/cobra"
)

const clientRole = "randofacto-client"

// Opener builds the client for one command invocation.
type Opener func(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (client.Client, error)

// OpenApp is the [Opener] backed by [client.NewApp].
func OpenApp(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (client.Client, error) {
	return client.NewApp(ctx, cfg, log)
}

// rootOptions holds the state shared by every command.
type rootOptions struct {
	overrides *config.Overrides
	open      Opener
	buildInfo models.AppBuildInfo
}

// NewRootCommand creates the root command. Run without a subcommand it
// shows the launch fact: a random favorite when favorites-on-launch is on,
// a newly generated fact otherwise.
func NewRootCommand(open Opener, buildInfo models.AppBuildInfo) *cobra.Command {
	opts := &rootOptions{open: open, buildInfo: buildInfo}

	cmd := &cobra.Command{
		Use:           "randofacto",
		Short:         "RandoFacto - random facts with synced favorites",
		Long:          "Fetch random facts and keep your favorites in sync across devices.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				fact, err := c.InitialFact(ctx)
				if err != nil {
					return err
				}
				return printFact(cmd, fact.Text, c.State().IsFavorite)
			})
		},
	}

	opts.overrides = config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newFactCommand(opts))
	cmd.AddCommand(newSignupCommand(opts))
	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newLogoutCommand(opts))
	cmd.AddCommand(newStatusCommand(opts))
	cmd.AddCommand(newFavoritesCommand(opts))
	cmd.AddCommand(newAccountCommand(opts))
	cmd.AddCommand(newSettingsCommand(opts))
	cmd.AddCommand(newVersionCommand(opts))

	return cmd
}

// withClient loads the configuration, opens and starts the client, runs fn
// and closes the client.
func (o *rootOptions) withClient(cmd *cobra.Command, fn func(ctx context.Context, c client.Client) error) (err error) {
	cfg, err := config.GetStructuredConfig(o.overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewClientLogger(clientRole, cfg.LogFile)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = log.WithContext(ctx)

	c, err := o.open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open client: %w", err)
	}
	defer func() {
		if closeErr := c.Close(); closeErr != nil {
			log.Err(closeErr).Msg("error closing client")
			err = errors.Join(err, closeErr)
		}
	}()

	if err = c.Start(ctx); err != nil {
		return err
	}

	log.Debug().Str("command", cmd.CommandPath()).Msg("running command")
	return fn(ctx, c)
}

// ErrorText returns the text printed for a failed command. Classified
// errors use the message of their kind.
func ErrorText(err error) string {
	var classified *app.Error
	if errors.As(err, &classified) {
		return classified.Message()
	}
	return err.Error()
}
