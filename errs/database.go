package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Postgres SQLSTATE codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	// class 22: numeric out of range, invalid text representation and so on
	pgDataExceptionClass = "22"
)

// DatabaseError is what the access layer returns for any driver failure.
// It carries no HTTP semantics; NewDatabaseError does the translation.
type DatabaseError struct {
	Operation string
	Err       error
}

func (e *DatabaseError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("database error: %v", e.Err)
	}
	return fmt.Sprintf("database error during %s: %v", e.Operation, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func WrapDatabaseError(operation string, err error) error {
	if err == nil {
		return nil
	}
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}
	return &DatabaseError{Operation: operation, Err: err}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		var apiErr *ApiErr
		if errors.As(cause, &apiErr) {
			return apiErr
		}

		var pgErr *pgconn.PgError
		if errors.As(cause, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return &ApiErr{
					StatusCode: http.StatusConflict,
					err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
					Details:    details,
					Field:      pgErr.ColumnName,
					Cause:      cause,
				}
			case pgForeignKeyViolation:
				return &ApiErr{
					StatusCode: http.StatusBadRequest,
					err:        fmt.Errorf("invalid reference in %s", entity),
					Details:    details,
					Cause:      cause,
				}
			case pgCheckViolation, pgNotNullViolation:
				return &ApiErr{
					StatusCode: http.StatusBadRequest,
					err:        fmt.Errorf("invalid %s", entity),
					Details:    details,
					Field:      pgErr.ColumnName,
					Cause:      cause,
				}
			}
			if strings.HasPrefix(pgErr.Code, pgDataExceptionClass) {
				return &ApiErr{
					StatusCode: http.StatusBadRequest,
					err:        fmt.Errorf("invalid %s", entity),
					Details:    details,
					Field:      pgErr.ColumnName,
					Cause:      cause,
				}
			}
		}

		switch {
		case errors.Is(cause, gorm.ErrDuplicatedKey):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
				Details:    details,
				Cause:      cause,
			}
		case errors.Is(cause, gorm.ErrRecordNotFound):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        fmt.Errorf("%s %w", entity, ErrNotFound),
				Details:    details,
				Cause:      cause,
			}
		case errors.Is(cause, ErrDatabaseConnection),
			errors.Is(cause, context.DeadlineExceeded),
			errors.Is(cause, context.Canceled):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    details,
				Cause:      cause,
			}
		case isConnectionFailure(cause):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func isConnectionFailure(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "failed to connect") ||
		strings.Contains(msg, "conn closed")
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsDatabaseConnectionError(err error) bool {
	return errors.Is(err, ErrDatabaseConnection)
}
