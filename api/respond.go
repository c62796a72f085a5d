package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ProNexus-Startup/ProjectHub/backend/errs"
	"github.com/rs/zerolog"
)

const maxRequestBody = 1 << 20 // 1MB

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.writeJSON(w, http.StatusOK, data)
}

// WriteCreated writes data with a 201 status.
func (r Responder) WriteCreated(w http.ResponseWriter, data any) {
	r.writeJSON(w, http.StatusCreated, data)
}

// writeJSON marshals data before anything is written so a marshal failure
// can still become a 500.
func (r Responder) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")

		w.WriteHeader(http.StatusRequestEntityTooLarge)
		truncated, _ := json.Marshal(map[string]any{
			"error":        "Response too large",
			"message":      "The requested data exceeds the maximum response size",
			"maxSizeMB":    maxResponseSize / (1024 * 1024),
			"actualSizeMB": len(jsonData) / (1024 * 1024),
		})
		w.Write(truncated)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Status:  "error",
			Details: "An unexpected error occurred",
		})
		return
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
	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("request failed")
	}

	r.writeJSON(w, apiErr.StatusCode, response)
}

// DecodeJSON reads the request body into dest, logging the raw body when it
// cannot be decoded.
func (r Responder) DecodeJSON(req *http.Request, dest any) error {
	bodyBytes, err := io.ReadAll(io.LimitReader(req.Body, maxRequestBody))
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to read request body")
		return errs.NewBadRequestError("failed to read request body")
	}
	if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(dest); err != nil {
		r.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode request body")
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// DecodeChanges reads a partial update: a JSON object of column names to
// new values. An empty object is rejected.
func (r Responder) DecodeChanges(req *http.Request) (map[string]any, error) {
	changes := map[string]any{}
	if err := r.DecodeJSON(req, &changes); err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, errs.NewBadRequestError("no fields to update")
	}
	return changes, nil
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
