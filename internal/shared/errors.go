package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks caller-correctable input failures. No write is
	// attempted once a validation failure is detected.
	ErrValidation = errors.New("validation failed")
	// ErrDataIntegrity marks impossible states discovered during reversal
	// or AR/AP bookkeeping. Always fatal, never silently clamped.
	ErrDataIntegrity = errors.New("data integrity violation")
)

// IntegrityFault reports the offending entity alongside the expected and
// observed values, so drifted records can be traced from the error alone.
type IntegrityFault struct {
	Entity   string
	EntityID string
	Detail   string
	Expected string
	Actual   string
}

func (e *IntegrityFault) Error() string {
	return fmt.Sprintf("integrity fault on %s %s: %s (expected %s, actual %s)",
		e.Entity, e.EntityID, e.Detail, e.Expected, e.Actual)
}

func (e *IntegrityFault) Unwrap() error { return ErrDataIntegrity }
