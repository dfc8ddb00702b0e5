package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Authentication & Authorization Errors
var (
	ErrMissingToken            = errors.New("missing access token")
	ErrInvalidToken            = errors.New("invalid access token")
	ErrExpiredToken            = errors.New("expired access token")
	ErrNotAdmin                = errors.New("admin privileges required")
	ErrVerificationUnavailable = errors.New("token verification unavailable")
)

func newAuthErr(sentinel error, details string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        tagged(sentinel.Error(), ErrUnauthorized, sentinel),
		Details:    details,
		Field:      "authorization",
		Cause:      cause,
	}
}

func NewMissingTokenError() *ApiErr {
	return newAuthErr(ErrMissingToken, "Missing access token", nil)
}

func NewExpiredTokenError() *ApiErr {
	return newAuthErr(ErrExpiredToken, "Access token has expired", nil)
}

// NewVerificationRejectedError is returned when the verification service answers with a non-200 status.
func NewVerificationRejectedError(status int) *ApiErr {
	return newAuthErr(ErrInvalidToken, fmt.Sprintf("Verification service rejected token with status %d", status), nil)
}

func NewNotAdminError(username string) *ApiErr {
	return newAuthErr(ErrNotAdmin, fmt.Sprintf("User %q is not an administrator", username), nil)
}

// NewVerificationUnavailableError denies access when the verifier cannot be reached in time.
func NewVerificationUnavailableError(cause error) *ApiErr {
	return newAuthErr(ErrVerificationUnavailable, "Token verification service unavailable", cause)
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsExpiredTokenError(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}

func IsNotAdminError(err error) bool {
	return errors.Is(err, ErrNotAdmin)
}

func IsVerificationUnavailableError(err error) bool {
	return errors.Is(err, ErrVerificationUnavailable)
}
