package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Log output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

const envProduction = "production"

var logLevels = []string{"debug", "info", "warn", "error"}

// ObservabilityConfig configures logging and the optional New Relic agent.
// When the whole block is absent from the environment,
// DefaultObservabilityConfig is used.
type ObservabilityConfig struct {
	ServiceName string `koanf:"service_name" validate:"required"`
	Environment string `koanf:"environment" validate:"required"`

	Logging  LoggingConfig  `koanf:"logging" validate:"required"`
	NewRelic NewRelicConfig `koanf:"new_relic" validate:"required"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"required"`
	Format string `koanf:"format" validate:"required"`

	// SlowQueryThreshold marks service operations that take at least this
	// long. Zero turns the warning off.
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// NewRelicConfig is inert while LicenseKey is empty.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
	// DebugLogging sends the agent's own debug output to stdout.
	DebugLogging bool `koanf:"debug_logging"`
}

func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Level:              "info",
			Format:             FormatJSON,
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		NewRelic: NewRelicConfig{
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
		},
	}
}

// Validate checks what the struct tags cannot express.
func (c *ObservabilityConfig) Validate() error {
	switch {
	case c.ServiceName == "":
		return errors.New("service_name is required")
	case !slices.Contains(logLevels, c.Logging.Level):
		return fmt.Errorf("invalid logging level: %s (must be one of: %s)", c.Logging.Level, strings.Join(logLevels, ", "))
	case c.Logging.Format != FormatJSON && c.Logging.Format != FormatConsole:
		return fmt.Errorf("invalid logging format: %s (must be one of: %s, %s)", c.Logging.Format, FormatJSON, FormatConsole)
	case c.Logging.SlowQueryThreshold < 0:
		return errors.New("logging slow_query_threshold must be non-negative")
	}
	return nil
}

// GetLogLevel is the configured level, or info in production and debug
// elsewhere when none is set.
func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	if c.IsProduction() {
		return "info"
	}
	return "debug"
}

func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == envProduction
}
