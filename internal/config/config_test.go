package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "test_db", cfg.Store.Database)
	assert.Equal(t, "events", cfg.Store.Container)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, "events.db", cfg.SQLite.Path)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFrom_IgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORE_DRIVER", "cosmos")

	cfg, err := LoadFrom(nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"PORT":           "9090",
		"STORE_DRIVER":   "sqlite",
		"SQLITE_PATH":    "/tmp/x.db",
		"CONTAINER_NAME": "meetups",
		"DB_HOST":        "db.internal",
		"DB_PORT":        "6543",
		"LOG_LEVEL":      "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.SQLite.Path)
	assert.Equal(t, "meetups", cfg.Store.Container)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "6543", cfg.Postgres.Port)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "cosmos"}, "STORE_DRIVER"},
		{"unknown log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"empty container", map[string]string{"CONTAINER_NAME": " "}, "CONTAINER_NAME"},
		{"body limit", map[string]string{"MAX_BODY_BYTES": "0"}, "MAX_BODY_BYTES"},
		{"bad duration", map[string]string{"READ_TIMEOUT": "soon"}, "ReadTimeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
}

func TestPostgresDSN(t *testing.T) {
	c := Postgres{Host: "h", Port: "1", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.DSN())
}
