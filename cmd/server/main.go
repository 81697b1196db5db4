package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/logging"
	"aiinterviewer/internal/server"
)

// @title AI Interviewer API
// @version 1.0
// @description Adaptive research interviews: one question per turn, probing, redirects and summaries.
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey ResearcherToken
// @in header
// @name Authorization
// @securityDefinitions.apikey RespondentToken
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if err := logging.Setup(cfg.Log, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("configuring logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
