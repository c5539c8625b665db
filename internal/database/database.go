// Package database opens the backing document stores: a PostgreSQL pool
// holding events as JSONB documents, or an embedded SQLite file.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/event-participants/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

// NewPool creates and validates a pgxpool connection pool.
// It retries cfg.ConnectAttempts times to accommodate containers starting up.
func NewPool(ctx context.Context, cfg config.Postgres) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= attempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		slog.Warn("db connect attempt failed", "attempt", attempt, "of", attempts, "err", err)
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// EnsureContainer creates the database (a schema) and the container (a
// table keyed by document id) when they do not exist yet, and returns the
// qualified container identifier.
func EnsureContainer(ctx context.Context, pool *pgxpool.Pool, database, container string) (pgx.Identifier, error) {
	if err := checkName(database); err != nil {
		return nil, fmt.Errorf("database name: %w", err)
	}
	if err := checkName(container); err != nil {
		return nil, fmt.Errorf("container name: %w", err)
	}
	schema := pgx.Identifier{database}
	table := pgx.Identifier{database, container}

	if _, err := pool.Exec(ctx, `CREATE SCHEMA IF NOT EXISTS `+schema.Sanitize()); err != nil {
		return nil, fmt.Errorf("create database: %w", err)
	}
	_, err := pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS `+table.Sanitize()+` (
		   id       TEXT PRIMARY KEY,
		   document JSONB NOT NULL
		 )`,
	)
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}
	return table, nil
}

// OpenSQLite opens (or creates) the SQLite file at path and ensures the
// container table exists.
func OpenSQLite(ctx context.Context, path, container string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if err := checkName(container); err != nil {
		return nil, fmt.Errorf("container name: %w", err)
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS "`+container+`" (
		   id       TEXT PRIMARY KEY,
		   document TEXT NOT NULL
		 )`,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create container: %w", err)
	}
	return db, nil
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

func checkName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%q must match %s", name, namePattern.String())
	}
	return nil
}
