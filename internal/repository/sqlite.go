package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/event-participants/internal/model"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteStore keeps event documents as JSON text in an embedded SQLite file.
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// NewSQLiteStore constructs a SQLiteStore over an existing container table
// (see database.OpenSQLite).
func NewSQLiteStore(db *sql.DB, table string) *SQLiteStore {
	return &SQLiteStore{db: db, table: `"` + table + `"`}
}

// Create inserts a new document or returns ErrAlreadyExists.
func (s *SQLiteStore) Create(ctx context.Context, event *model.Event) error {
	doc, err := encodeEvent(event)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+s.table+` (id, document) VALUES (?, ?)`,
		event.ID, string(doc),
	)
	if err != nil {
		if isPrimaryKeyViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Read returns a single document or ErrNotFound.
func (s *SQLiteStore) Read(ctx context.Context, id string) (*model.Event, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM `+s.table+` WHERE id = ?`,
		id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read event: %w", err)
	}
	return decodeEvent([]byte(doc))
}

// Replace overwrites the stored document with the same id.
func (s *SQLiteStore) Replace(ctx context.Context, event *model.Event) error {
	doc, err := encodeEvent(event)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE `+s.table+` SET document = ? WHERE id = ?`,
		string(doc), event.ID,
	)
	if err != nil {
		return fmt.Errorf("replace event: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a document or returns ErrNotFound.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return requireAffected(res)
}

// Scan returns every stored document in no particular order.
func (s *SQLiteStore) Scan(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM `+s.table)
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e, err := decodeEvent([]byte(doc))
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
