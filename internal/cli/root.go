// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"context"
	"fmt"

	"github.com/tanki-rpc/tanki-rich-presence/internal/app"
	"github.com/tanki-rpc/tanki-rich-presence/internal/config"
	"github.com/tanki-rpc/tanki-rich-presence/pkg/common"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Runner is what the show and serve commands call once config is loaded.
type Runner struct {
	LoadConfig func() (*config.Config, error)
	Show       func(ctx context.Context, cfg *config.Config, username string) error
	Serve      func(ctx context.Context, cfg *config.Config, username string) error
}

// DefaultRunner wires the commands to the real application.
func DefaultRunner() Runner {
	return Runner{
		LoadConfig: config.Load,
		Show:       app.Show,
		Serve:      serve,
	}
}

func serve(ctx context.Context, cfg *config.Config, username string) error {
	application, err := app.New(ctx, cfg, username)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(ctx)
}

// NewRootCmd builds the tanki-rpc command tree.
func NewRootCmd(r Runner) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "tanki-rpc",
		Short:         "Tanki Online rich presence for Discord",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return common.ConfigureLogger(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", common.GetEnv("LOG_LEVEL", "info"), "log level (trace, debug, info, warn, error)")

	root.AddCommand(newShowCmd(r))
	root.AddCommand(newServeCmd(r))
	return root
}

func newShowCmd(r Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Publish a player's presence until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.LoadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return r.Show(cmd.Context(), cfg, args[0])
		},
	}
}

func newServeCmd(r Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "serve <username>",
		Short: "Run the control server that starts and stops a player's presence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.LoadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateService(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			logrus.Infof("serving presence control for %s", args[0])
			return r.Serve(cmd.Context(), cfg, args[0])
		},
	}
}

// Execute runs the command tree with the real application.
func Execute(ctx context.Context) error {
	return NewRootCmd(DefaultRunner()).ExecuteContext(ctx)
}
