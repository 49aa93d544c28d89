package pgsql

import (
	"errors"
	"fmt"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the repositories react to.
const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgLockNotAvailable     = "55P03"
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
)

// classifyError maps a driver error to the application error kinds.
// Lock timeouts, deadlocks and serialization failures surface as ErrConcurrency.
func classifyError(message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", message, apperrors.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFailure:
			return apperrors.NewConcurrencyError(message, err)
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w: %s", message, apperrors.ErrDuplicate, pgErr.Detail)
		case pgCheckViolation:
			return apperrors.NewStorageError(message+": constraint "+pgErr.ConstraintName+" violated", err)
		}
	}
	return apperrors.NewStorageError(message, err)
}
