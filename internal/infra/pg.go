package infra

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// WrapPgErr classifies a pgx error into a repository error kind.
func WrapPgErr(msg string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return WrapRepoErr(msg, err, KindNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return WrapRepoErr(msg, err, KindDuplicateKey)
		case pgForeignKeyViolation:
			return WrapRepoErr(msg, err, KindForeignKeyViolated)
		}
	}

	return WrapRepoErr(msg, err)
}
