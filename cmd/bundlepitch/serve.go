package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/bundlepitch/internal/app"
	"github.com/MrSnakeDoc/bundlepitch/internal/config"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until SIGINT or SIGTERM.

Configuration comes from the environment only (BUNDLEPITCH_*, STRIPE_*,
SUPABASE_*, FRONTEND_URL). Missing required variables abort start-up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = log.Sync() }()

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				log.Error("failed to start", logger.Error(err))
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}
