package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrBadRequest   = errors.New("malformed request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("resource conflict")
)

type ApiErr struct {
	StatusCode int
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        errors.New(message),
	}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		if apiErr, ok := e.Cause.(*ApiErr); ok {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: tagged(message, ErrNotFound)}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: tagged(message, ErrBadRequest)}
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// taggedErr keeps its own message while matching every sentinel it was tagged with.
type taggedErr struct {
	msg       string
	sentinels []error
}

func (t taggedErr) Error() string   { return t.msg }
func (t taggedErr) Unwrap() []error { return t.sentinels }

func tagged(msg string, sentinels ...error) error {
	return taggedErr{msg: msg, sentinels: sentinels}
}

// StatusCode returns the HTTP status carried by err, or 500 for anything that is not an ApiErr.
func StatusCode(err error) int {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}
