// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// ErrDuplicate indicates a conflicting write (duplicate idempotency key).
var ErrDuplicate = errors.New("duplicate entry")

// RespondError maps engine errors to HTTP responses using RFC7807.
// Validation failures are caller-correctable; integrity faults signal
// drifted records and map to 409 so clients do not blindly retry.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidRef):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrDataIntegrity):
		Problem(w, http.StatusConflict, "Data Integrity Fault", err.Error())
	case errors.Is(err, ErrDuplicate), errors.Is(err, shared.ErrIdempotencyConflict):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
