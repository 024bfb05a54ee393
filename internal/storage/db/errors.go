package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally on the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	return isPgError(err, uniqueViolationCode, constraint)
}

// IsForeignKeyViolation reports whether err is a foreign key violation,
// optionally on the named constraint.
func IsForeignKeyViolation(err error, constraint string) bool {
	return isPgError(err, foreignKeyViolationCode, constraint)
}

// IsCheckViolation reports whether err is a CHECK constraint violation,
// optionally on the named constraint.
func IsCheckViolation(err error, constraint string) bool {
	return isPgError(err, checkViolationCode, constraint)
}

func isPgError(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
