package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meikuraledutech/graphrel"
)

// DB is the subset of *pgxpool.Pool used by PGStore.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore implements graphrel.Store using PostgreSQL via pgx.
type PGStore struct {
	db DB
}

var _ graphrel.Store = (*PGStore)(nil)

// New creates a new PGStore backed by the given pgx connection pool.
func New(db DB) *PGStore {
	return &PGStore{db: db}
}

// isNoRows checks if the error is pgx's "no rows" error.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
