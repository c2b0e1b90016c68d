package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
)

// envelope is the body of every JSON response. ok is always set.
type envelope map[string]any

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes {"ok":true, ...data} with status 200 unless the caller
// has already written a header.
func (r Responder) WriteJSON(w http.ResponseWriter, data envelope) {
	r.writeJSON(w, http.StatusOK, withOK(data, true))
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data envelope) {
	r.writeJSON(w, status, withOK(data, true))
}

func withOK(data envelope, ok bool) envelope {
	out := make(envelope, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["ok"] = ok
	return out
}

func (r Responder) writeJSON(w http.ResponseWriter, status int, body envelope) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"ok":false,"error":"Server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError is the single place errors become HTTP responses. Anything that
// is not an *errs.ApiErr is treated as a 500.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		apiErr = errs.NewInternalErrorWithCause("unexpected error", err)
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().
			Int("status", apiErr.StatusCode).
			Str("error", apiErr.GetFullError()).
			Msg("request failed")
	} else {
		r.logger.Debug().
			Int("status", apiErr.StatusCode).
			Str("error", apiErr.Error()).
			Msg("request rejected")
	}

	response := envelope{"error": apiErr.Message()}
	if apiErr.Field != "" && apiErr.StatusCode < http.StatusInternalServerError {
		response["field"] = apiErr.Field
	}
	r.writeJSON(w, apiErr.StatusCode, withOK(response, false))
}

// decodeJSON reads a JSON body into dst. An empty body decodes as {}.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewMalformedPayloadError(err)
	}
	return nil
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
