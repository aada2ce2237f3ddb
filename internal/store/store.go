// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the taxonomy data layer: the category tree,
// the tag catalog, and the article associations that keep the denormalized
// counters in sync. All multi-step mutations run in a single transaction.
package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so helpers can run
// standalone or inside a transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// maxTreeDepth caps every ancestor/descendant walk. Acyclicity is enforced
// by Move, but a corrupted parent chain must not hang a request.
const maxTreeDepth = 32

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (duplicate name or slug).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
