package repository

import (
	"context"
	"errors"
	"fmt"

	"tasker_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx.
// Repositories run against either, so a service can scope a repository to a
// transaction with WithTx without duplicating SQL.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolationCode = "23505"

// mapConstraintErr translates a Postgres unique violation into the domain
// constraint error; everything else passes through untouched.
func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s", domain.ErrConstraintViolation, pgErr.ConstraintName)
	}
	return err
}
