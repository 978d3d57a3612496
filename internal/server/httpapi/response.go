// Package httpapi exposes the REST surface: chi router, auth middleware,
// handlers and the uniform response envelope.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// envelope is the uniform response body. Success responses carry Data,
// error responses carry Errors; the other field is omitted.
type envelope struct {
	Status    bool   `json:"status"`
	Code      int    `json:"code"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	body.Code = code
	body.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, code int, data any, message string) {
	writeJSON(w, code, envelope{Status: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, code int, errs any, message string) {
	writeJSON(w, code, envelope{Status: false, Errors: errs, Message: message})
}

// statusFromError maps domain sentinels to HTTP statuses.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError renders err with its mapped status. Internal failures are
// not echoed back to the client.
func writeDomainError(w http.ResponseWriter, err error, message string) {
	code := statusFromError(err)
	if code == http.StatusInternalServerError {
		writeError(w, code, "internal server error", message)
		return
	}
	writeError(w, code, err.Error(), message)
}
