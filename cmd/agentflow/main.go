// Package main is the entry point for the agentflow service.
//
// The OpenAPI document served under /swagger is registered by the docs
// package.
package main

import (
	"context"

	_ "github.com/guttosm/agentflow/docs" // swagger docs

	"github.com/guttosm/agentflow/config"
	"github.com/guttosm/agentflow/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	application, err := app.InitializeApp(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server.Port,
		app.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		app.WithShutdownHook(application.Close),
	)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
