// Package config loads service settings from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Port            string        `env:"PORT"             envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES"   envDefault:"1048576"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"15s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT"     envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Store    Store
	Postgres Postgres `envPrefix:"DB_"`
	SQLite   SQLite   `envPrefix:"SQLITE_"`
}

// Store selects the backing document store and names the database and
// container that hold event documents.
type Store struct {
	Driver    string `env:"STORE_DRIVER"   envDefault:"postgres"`
	Database  string `env:"DATABASE_NAME"  envDefault:"test_db"`
	Container string `env:"CONTAINER_NAME" envDefault:"events"`
}

// Postgres holds PostgreSQL connection settings.
type Postgres struct {
	Host            string `env:"HOST"             envDefault:"localhost"`
	Port            string `env:"PORT"             envDefault:"5432"`
	User            string `env:"USER"             envDefault:"postgres"`
	Password        string `env:"PASSWORD"         envDefault:"postgres"`
	DBName          string `env:"NAME"             envDefault:"eventbooking"`
	SSLMode         string `env:"SSLMODE"          envDefault:"disable"`
	MaxConns        int32  `env:"MAX_CONNS"        envDefault:"20"`
	MinConns        int32  `env:"MIN_CONNS"        envDefault:"2"`
	ConnectAttempts int    `env:"CONNECT_ATTEMPTS" envDefault:"5"`
}

// DSN builds a libpq-compatible connection string.
func (c Postgres) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// SQLite holds the embedded store settings.
type SQLite struct {
	Path string `env:"PATH" envDefault:"events.db"`
}

// Load parses the process environment and validates the result.
func Load() (Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom parses settings from environ only, ignoring the process
// environment, and validates the result.
func LoadFrom(environ map[string]string) (Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if strings.TrimSpace(c.Store.Container) == "" {
		return fmt.Errorf("CONTAINER_NAME is required")
	}
	if c.Store.Driver == DriverPostgres && strings.TrimSpace(c.Store.Database) == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts LOG_LEVEL into a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
}
