package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"milestone-escrow/internal/config/configs"
)

// Store backends selectable through STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// Config aggregates all configuration sections for the application. Fields
// are populated from environment variables using the caarlos0/env library. The
// nested structs are tagged with envPrefix so their fields are parsed with
// the given prefix. See the individual types in the configs package for
// default values and options. Use Load to construct a Config.
type Config struct {
	// Env specifies the deployment environment (e.g. prod, dev). It is
	// attached to every log record.
	Env string `env:"ENV" envDefault:"prod"`

	// StoreBackend selects the KV store: memory, postgres, sqlite or redis.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`

	// SeedDemo creates a couple of sample campaigns on startup.
	SeedDemo bool `env:"SEED_DEMO" envDefault:"false"`

	// HTTP holds configuration for the HTTP server. Environment variables
	// prefixed with HTTP_ will populate this struct.
	HTTP configs.HTTP `envPrefix:"HTTP_"`

	// Log configures the structured logger. Environment variables prefixed
	// with LOG_ will populate this struct.
	Log configs.Logger `envPrefix:"LOG_"`

	// Psql configures the PostgreSQL connection. Environment variables
	// prefixed with PSQL_ will populate this struct.
	Psql configs.Postgres `envPrefix:"PSQL_"`

	SQLite configs.SQLite `envPrefix:"SQLITE_"`
	Redis  configs.Redis  `envPrefix:"REDIS_"`
	AMQP   configs.AMQP   `envPrefix:"AMQP_"`
	Auth   configs.Auth   `envPrefix:"AUTH_"`
	Escrow configs.Escrow `envPrefix:"ESCROW_"`
}

// Load reads configuration from environment variables into a Config. If
// parsing or validation fails, an error is returned. All fields are loaded
// with their specified defaults when no environment variable is provided.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendPostgres, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if _, err := c.Escrow.Policy(); err != nil {
		return err
	}
	if c.Escrow.MaxMilestones == 0 {
		return errors.New("ESCROW_MAX_MILESTONES must be positive")
	}
	if !c.Auth.Permissive && c.Auth.Secret == "" {
		return errors.New("AUTH_JWT_SECRET is required unless AUTH_PERMISSIVE is set")
	}
	return nil
}
