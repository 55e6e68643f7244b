package errors

// postgres (device registry) error mapping

import (
	"context"
	stderrs "errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func sqlState(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr.Code, true
	}
	return "", false
}

// PostgresErrorCode maps a postgres failure to an ErrorCode
// !ok means err carries no SQLSTATE
func PostgresErrorCode(err error) (ErrorCode, bool) {
	state, ok := sqlState(err)
	switch {
	case !ok:
		return ErrorCodeUnknown, false
	case pgerrcode.IsDataException(state):
		return ErrorCodeInvalidArgument, true
	case state == pgerrcode.UndefinedTable:
		return ErrorCodeNotFound, true
	case state == pgerrcode.AdminShutdown, state == pgerrcode.CannotConnectNow:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a driver error with its mapped code; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, _ := PostgresErrorCode(err)
	if code == ErrorCodeUnknown {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// IsUndefinedTable is true before the devices table has been migrated
func IsUndefinedTable(err error) bool {
	state, _ := sqlState(err)
	return state == pgerrcode.UndefinedTable
}

// IsPostgresRetryable reports lock contention and server restarts
func IsPostgresRetryable(err error) bool {
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	state, ok := sqlState(err)
	if !ok {
		return false
	}
	switch state {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable,
		pgerrcode.AdminShutdown, pgerrcode.CannotConnectNow:
		return true
	}
	return false
}
