package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/rauzy/pkg/errors"
)

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an engine error to an HTTP status.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return 499 // client closed request
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeMalformedPermutation, errors.ErrCodeReducibleSeed,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLengths, errors.ErrCodeInvalidCover,
		errors.ErrCodeNotOrientable, errors.ErrCodeNotFlipped:
		return http.StatusBadRequest
	case errors.ErrCodeDegenerateInduction:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeLimitExceeded:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(err error) errors.Code {
	if c := errors.GetCode(err); c != "" {
		return c
	}
	return errors.ErrCodeInternal
}

// writeEngineError writes err with the status and code it maps to.
// Internal errors are reported without their message.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, r, status, codeFor(err), msg)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code errors.Code, msg string) {
	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: msg},
		RequestID: requestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, errors.ErrCodeNotFound, "no route for "+r.URL.Path)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeInvalidInput, r.Method+" not allowed on "+r.URL.Path)
}
