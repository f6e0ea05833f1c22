// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Services wrap these so handlers can map
// any failure to a response without knowing the concrete cause.
var (
	// ErrValidation marks malformed or missing event fields.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown account, counterparty, or document id.
	ErrNotFound = errors.New("resource not found")
	// ErrNotConfigured marks a required chart-of-accounts code that is absent.
	ErrNotConfigured = errors.New("account not configured")
	// ErrConflict marks a uniqueness conflict such as a duplicate entry number.
	ErrConflict = errors.New("duplicate entry")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Anything unrecognised is treated as a persistence failure: the transaction
// has already rolled back, so the caller only learns that nothing was posted.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrNotConfigured):
		Problem(w, http.StatusBadRequest, "Account Not Configured", err.Error())
	case errors.Is(err, ErrConflict):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
