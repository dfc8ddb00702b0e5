package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrTransactionFailed  = errors.New("transaction failed")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        tagged(entity+" already exists", ErrAlreadyExists, ErrConflict),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	// Errors that already carry a status pass through untouched
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	if cause != nil {
		errStr := cause.Error()
		switch {
		case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "UNIQUE constraint failed"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        tagged(entity+" already exists", ErrAlreadyExists, ErrConflict),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "record not found"):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        fmt.Errorf("%s %w", entity, ErrNotFound),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "failed to connect"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func NewTransactionFailedError(operation string, cause error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrTransactionFailed,
		Details:    fmt.Sprintf("Transaction failed during %s", operation),
		Cause:      cause,
		Field:      "transaction",
	}
}

func IsTransactionFailedError(err error) bool {
	return errors.Is(err, ErrTransactionFailed)
}
