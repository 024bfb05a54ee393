package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when an insert or update hits a unique constraint.
	ErrAlreadyExists = errors.New("already exists")
	// ErrReferenced is returned when a delete is blocked by a foreign key.
	ErrReferenced = errors.New("referenced by other rows")
)

type rowScanner interface {
	Scan(dest ...any) error
}

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ListParams is a zero-based offset window.
type ListParams struct {
	Limit  int
	Offset int
}
