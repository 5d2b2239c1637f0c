package pgutils

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repos and the coordinator react to.
const (
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeCheckViolation       = "23514"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeLockNotAvailable     = "55P03"
)

// Code returns the SQLSTATE of err, or "" when err is not a server error.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

func IsUniqueViolation(err error) bool {
	return Code(err) == CodeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return Code(err) == CodeForeignKeyViolation
}

func IsCheckViolation(err error) bool {
	return Code(err) == CodeCheckViolation
}

// IsRetryable reports whether running the whole transaction again may
// succeed: serialization failures, deadlocks and lock timeouts.
func IsRetryable(err error) bool {
	switch Code(err) {
	case CodeSerializationFailure, CodeDeadlockDetected, CodeLockNotAvailable:
		return true
	default:
		return false
	}
}
