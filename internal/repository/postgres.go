package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/event-participants/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PostgresStore keeps event documents in a JSONB column.
// It uses pgx directly (no ORM).
type PostgresStore struct {
	db    *pgxpool.Pool
	table string
}

// NewPostgresStore constructs a PostgresStore over an existing container
// table (see database.EnsureContainer).
func NewPostgresStore(db *pgxpool.Pool, table pgx.Identifier) *PostgresStore {
	return &PostgresStore{db: db, table: table.Sanitize()}
}

// Create inserts a new document or returns ErrAlreadyExists.
func (s *PostgresStore) Create(ctx context.Context, event *model.Event) error {
	doc, err := encodeEvent(event)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO `+s.table+` (id, document) VALUES ($1, $2::jsonb)`,
		event.ID, string(doc),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Read returns a single document or ErrNotFound.
func (s *PostgresStore) Read(ctx context.Context, id string) (*model.Event, error) {
	var doc []byte
	err := s.db.QueryRow(ctx,
		`SELECT document FROM `+s.table+` WHERE id = $1`,
		id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read event: %w", err)
	}
	return decodeEvent(doc)
}

// Replace overwrites the stored document with the same id.
func (s *PostgresStore) Replace(ctx context.Context, event *model.Event) error {
	doc, err := encodeEvent(event)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE `+s.table+` SET document = $2::jsonb WHERE id = $1`,
		event.ID, string(doc),
	)
	if err != nil {
		return fmt.Errorf("replace event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document or returns ErrNotFound.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM `+s.table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Scan returns every stored document in no particular order.
func (s *PostgresStore) Scan(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.Query(ctx, `SELECT document FROM `+s.table)
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e, err := decodeEvent(doc)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}
