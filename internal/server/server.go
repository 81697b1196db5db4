package server

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"aiinterviewer/internal/app"
	"aiinterviewer/internal/config"
	"aiinterviewer/internal/transport/rest"
	"aiinterviewer/internal/transport/ws"
)

const shutdownTimeout = 30 * time.Second

// Run serves the API until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, cfg *config.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("closing stores")
		}
	}()

	if err := a.TemplateService.SeedBuiltins(ctx); err != nil {
		log.Warn().Err(err).Msg("seeding built-in templates failed")
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	defer wsHub.Close()
	a.InterviewService.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:      a.AuthService,
		TemplateService:  a.TemplateService,
		InterviewService: a.InterviewService,
		Health:           a,
		WSHub:            wsHub,
		Server:           cfg.Server,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.Store.Backend).
			Str("judgment", a.Evaluator.Status()).
			Int("probeBudget", cfg.Policy.ProbeBudget).
			Str("exhaustedProbeAction", cfg.Policy.ExhaustedProbeAction).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- errors.Wrap(err, "listen")
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	log.Info().Msg("server exited")
	return nil
}
