package main

import (
	"fmt"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/app"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway HTTP server",
		Long:  `Start the gateway. Configuration is read from the environment and an optional .env file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := application.Run(); err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	return nil
}
