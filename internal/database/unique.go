package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/uptrace/bun/driver/pgdriver"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint failure from any of
// the supported drivers (lib/pq, pgx, pgdriver, sqlite).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == uniqueViolation
	}

	var bunErr pgdriver.Error
	if errors.As(err, &bunErr) {
		return bunErr.Field('C') == uniqueViolation
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
