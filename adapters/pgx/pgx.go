// Package pgx implements the storage ports on a Postgres pool.
package pgx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vs-wedding/backend/core"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var (
	_ core.AuthStorage    = (*Adapter)(nil)
	_ core.WeddingStorage = (*Adapter)(nil)
)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}

// isDuplicate reports whether err is a Postgres unique-constraint violation
// (SQLSTATE 23505). The resolver relies on this signal to re-read rows
// created by a concurrent invocation.
func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
