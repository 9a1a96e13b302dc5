package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// postgres unique_violation
const pgUniqueViolation = "23505"

var ErrNotFound = errors.New("record not found")

// DuplicateError reports that a write was rejected by a uniqueness constraint: a second
// lending or holding for a stock, a second reservation for the same (stock, user) pair,
// a second renewing for a lending.
type DuplicateError struct {
	Entity string
	Err    error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists: %v", e.Entity, e.Err)
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}

// QueryError wraps any other persistence failure
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsDuplicate reports whether err carries a DuplicateError
func IsDuplicate(err error) bool {
	var dup *DuplicateError
	return errors.As(err, &dup)
}

// translate maps driver and gorm errors onto DuplicateError / QueryError.
// Errors that are already translated pass through untouched.
func translate(op, entity string, err error) error {
	if err == nil {
		return nil
	}

	var dup *DuplicateError
	var qe *QueryError
	if errors.As(err, &dup) || errors.As(err, &qe) {
		return err
	}

	switch {
	case isUniqueViolation(err):
		return &DuplicateError{Entity: entity, Err: err}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &QueryError{Op: op, Err: fmt.Errorf("%s: %w", entity, ErrNotFound)}
	default:
		return &QueryError{Op: op, Err: err}
	}
}

func notFound(op, entity string) error {
	return &QueryError{Op: op, Err: fmt.Errorf("%s: %w", entity, ErrNotFound)}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}
