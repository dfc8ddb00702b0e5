package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/devfolio/projects-api/errs"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes data with a 200 status.
func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	// Marshal the data first so a failure can still produce a clean 500
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		r.WriteError(w, errs.NewApiErr(http.StatusInternalServerError, "response too large"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("request failed")
	}

	response := ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	// Add full error chain for debugging (especially useful for database errors)
	if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}
