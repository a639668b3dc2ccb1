// Package datastore keeps uploaded transceiver datasets in SQLite so
// the server can answer many point-pair queries against one upload.
// Query results are never stored, only the datasets themselves.
package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no dataset has the requested ID.
var ErrNotFound = errors.New("dataset not found")

// Record is one stored dataset. Body is the raw JSON document exactly
// as uploaded; it is re-parsed and re-validated on every query so the
// store never has to understand the wire format.
type Record struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	TransceiverCount int       `json:"transceiver_count"`
	CreatedAt        time.Time `json:"created_at"`
	Body             []byte    `json:"-"`
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and runs
// the schema migration. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	// WAL improves concurrent reader behaviour.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		body BLOB NOT NULL,
		transceiver_count INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate datasets table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a new dataset and returns its record. The caller is
// responsible for having validated body as a loadable dataset.
func (s *Store) Put(ctx context.Context, name string, body []byte, transceiverCount int) (Record, error) {
	rec := Record{
		ID:               uuid.NewString(),
		Name:             name,
		TransceiverCount: transceiverCount,
		CreatedAt:        time.Now().UTC(),
		Body:             body,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO datasets (id, name, body, transceiver_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Body, rec.TransceiverCount, rec.CreatedAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert dataset: %w", err)
	}
	return rec, nil
}

// Get returns one dataset including its body.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, body, transceiver_count, created_at FROM datasets WHERE id = ?`, id)

	var rec Record
	err := row.Scan(&rec.ID, &rec.Name, &rec.Body, &rec.TransceiverCount, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("scan dataset: %w", err)
	}
	return rec, nil
}

// List returns all dataset records, newest first, without bodies.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, transceiver_count, created_at FROM datasets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.TransceiverCount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a dataset by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// Count returns the number of stored datasets.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM datasets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count datasets: %w", err)
	}
	return n, nil
}
