// Package sql runs queries against a SQL database.
package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/jacobpatterson1549/picture-puzzle/db"
)

// Database runs queries with a time limit.
type Database struct {
	db  *sql.DB
	cfg db.Config
}

// ErrNoRows is returned by Query when there are no rows to scan.
var ErrNoRows = sql.ErrNoRows

// NewDatabase wraps the SQL database.
func NewDatabase(sqlDB *sql.DB, cfg db.Config) (*Database, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("creating sql database: validation: database required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating sql database: validation: %w", err)
	}
	d := Database{
		db:  sqlDB,
		cfg: cfg,
	}
	return &d, nil
}

// Setup runs the contents of each file as a raw query in a single transaction.
func (d Database) Setup(ctx context.Context, files []io.Reader) error {
	queries := make([]Query, len(files))
	for i, f := range files {
		b, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("reading setup query %v: %w", i, err)
		}
		queries[i] = RawQuery(b)
	}
	if err := d.Exec(ctx, queries...); err != nil {
		return fmt.Errorf("running setup queries: %w", err)
	}
	return nil
}

// Query reads a single row into the destinations.
func (d Database) Query(ctx context.Context, q Query, dest ...any) error {
	ctx, cancelFunc := context.WithTimeout(ctx, d.cfg.QueryPeriod)
	defer cancelFunc()
	row := d.db.QueryRowContext(ctx, q.Cmd(), q.Args()...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoRows
		}
		return fmt.Errorf("scanning row: %w", err)
	}
	return nil
}

// Exec runs the queries in a transaction.  Each ExecFunction must change exactly one row.
func (d Database) Exec(ctx context.Context, queries ...Query) error {
	ctx, cancelFunc := context.WithTimeout(ctx, d.cfg.QueryPeriod)
	defer cancelFunc()
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for i, q := range queries {
		if err := exec(ctx, tx, q); err != nil {
			err = fmt.Errorf("executing query %v: %w", i, err)
			if err2 := tx.Rollback(); err2 != nil {
				return fmt.Errorf("rolling back transaction after %v: %w", err, err2)
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func exec(ctx context.Context, tx *sql.Tx, q Query) error {
	result, err := tx.ExecContext(ctx, q.Cmd(), q.Args()...)
	if err != nil {
		return err
	}
	f, ok := q.(ExecFunction)
	if !ok {
		return nil
	}
	n, err := result.RowsAffected()
	switch {
	case err != nil:
		return fmt.Errorf("counting rows affected: %w", err)
	case n != 1:
		return fmt.Errorf("wanted to update 1 row, but updated %d when calling %s", n, f.name)
	}
	return nil
}
