package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConflict marks a unique constraint violation (duplicate slug, ...).
	ErrConflict = errors.New("unique constraint violated")
	// ErrReference marks a foreign key pointing at a row that does not exist.
	ErrReference = errors.New("referenced row does not exist")
)

// SQLSTATE codes this package classifies.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// ConstraintError reports which constraint rejected a write.
type ConstraintError struct {
	Kind       error
	Constraint string
}

func (e *ConstraintError) Error() string {
	if e.Constraint == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() error {
	return e.Kind
}

// classify turns Postgres integrity errors into ConstraintError and passes
// everything else through untouched.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return &ConstraintError{Kind: ErrConflict, Constraint: pgErr.ConstraintName}
	case codeForeignKeyViolation:
		return &ConstraintError{Kind: ErrReference, Constraint: pgErr.ConstraintName}
	default:
		return err
	}
}
