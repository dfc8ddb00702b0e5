package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Request & Input-Validation Errors
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrEmptyUpdate          = errors.New("empty update")
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
)

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tagged(ErrMalformedPayload.Error(), ErrBadRequest, ErrMalformedPayload),
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tagged(ErrMissingRequiredField.Error(), ErrBadRequest, ErrMissingRequiredField),
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tagged(ErrInvalidField.Error(), ErrBadRequest, ErrInvalidField),
		Details:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Field:      fieldName,
	}
}

func NewEmptyUpdateError(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tagged(ErrEmptyUpdate.Error(), ErrBadRequest, ErrEmptyUpdate),
		Details:    fmt.Sprintf("Request body contains no %s fields to update", entity),
		Field:      "payload",
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrMaxBodySizeExceeded,
		Details:    fmt.Sprintf("Request body size exceeded maximum allowed size of %d bytes", maxSize),
		Field:      "body_size",
	}
}

func IsMissingRequiredFieldError(err error) bool {
	return errors.Is(err, ErrMissingRequiredField)
}

func IsInvalidFieldError(err error) bool {
	return errors.Is(err, ErrInvalidField)
}

func IsEmptyUpdateError(err error) bool {
	return errors.Is(err, ErrEmptyUpdate)
}
