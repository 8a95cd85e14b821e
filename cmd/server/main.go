package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Radio/internal/adapters/httpapi"
	"github.com/dkeye/Radio/internal/app"
	"github.com/dkeye/Radio/internal/config"
	"github.com/dkeye/Radio/internal/core"
	"github.com/dkeye/Radio/internal/playlist"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	pl, err := playlist.LoadFile(cfg.PlaylistPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PlaylistPath).Msg("failed to load playlist")
	}
	log.Info().Int("tracks", len(pl)).Msg("playlist loaded")

	orch := &app.Orchestrator{
		Registry: app.NewRegistry(),
		Station:  core.NewStation(),
	}

	r := httpapi.SetupRouter(ctx, cfg, orch, pl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Radio server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
