// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool
//
// Repositories and services are built on top of it (see repository.NewRepositories
// and service.NewServices). There is no network listener: every operation
// is a plain function call.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/labstore/internal/config"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/labstore/internal/logger"
)

// HealthCheckTimeout bounds the database probe of CheckHealth.
const HealthCheckTimeout = 5 * time.Second

// Server is the application container that holds shared resources.
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	// If New Relic is disabled, this may exist but contain nil nrApp.
	LoggerService *loggerPkg.LoggerService

	// DB holds the PostgreSQL pool wrapper.
	DB *database.Database
}

// New constructs a Server and initializes core dependencies.
//
// The database pool is created and pinged here, so a Server that was
// returned without error can serve operations right away.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}, nil
}

// Shutdown closes the database pool and flushes New Relic.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	if s.LoggerService != nil {
		s.LoggerService.Shutdown()
	}

	return nil
}

// Check is the outcome of one dependency probe.
type Check struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// Health is the report returned by CheckHealth.
type Health struct {
	Status      string           `json:"status"`
	Timestamp   time.Time        `json:"timestamp"`
	Environment string           `json:"environment"`
	Checks      map[string]Check `json:"checks"`
}

// Healthy reports whether every check passed.
func (h Health) Healthy() bool {
	return h.Status == "healthy"
}

// CheckHealth verifies the database is reachable.
func (s *Server) CheckHealth(ctx context.Context) Health {
	return checkHealth(ctx, s.Logger, s.Config.Primary.Env, s.LoggerService.GetApplication(), s.DB.Pool.Ping)
}

func checkHealth(ctx context.Context, base *zerolog.Logger, env string, nrApp *newrelic.Application, ping func(context.Context) error) Health {
	start := time.Now()

	logger := base.With().
		Str("operation", "health_check").
		Logger()

	health := Health{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: env,
		Checks:      make(map[string]Check),
	}

	// ---------------- Database connectivity check ----------------------------
	ctx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	dbStart := time.Now()

	if err := ping(ctx); err != nil {
		health.Checks["database"] = Check{
			Status:       "unhealthy",
			ResponseTime: time.Since(dbStart).String(),
			Error:        err.Error(),
		}
		health.Status = "unhealthy"

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check failed")

		// Record a New Relic custom event if enabled.
		if nrApp != nil {
			nrApp.RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type":       "database",
					"operation":        "health_check",
					"error_type":       "database_unhealthy",
					"response_time_ms": time.Since(dbStart).Milliseconds(),
					"error_message":    err.Error(),
				},
			)
		}
	} else {
		health.Checks["database"] = Check{
			Status:       "healthy",
			ResponseTime: time.Since(dbStart).String(),
		}

		logger.Info().
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check passed")
	}

	// ---------------- Overall status -----------------------------------------
	if !health.Healthy() {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")
		return health
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return health
}
