// Command migrate applies the embedded schema migrations to the
// configured database.
//
// With --health it then builds the application container and probes the
// database through it, exiting non-zero when the store is unhealthy.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/labstore/internal/config"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/logger"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/deppfellow/labstore/internal/server"
	"github.com/deppfellow/labstore/internal/service"
	"github.com/spf13/pflag"
)

const shutdownTimeout = 10 * time.Second

func main() {
	to := pflag.Int32("to", database.Latest, "schema version to migrate to (-1 for latest)")
	health := pflag.Bool("health", false, "check database health through the app container after migrating")
	pflag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, &log, cfg, *to); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	if !*health {
		return
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)
	if _, err := service.NewService(srv, repos); err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	report := srv.CheckHealth(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	if !report.Healthy() {
		log.Error().Str("status", report.Status).Msg("database is unhealthy")
		os.Exit(1)
	}
	log.Info().Str("status", report.Status).Msg("database is healthy")
}
