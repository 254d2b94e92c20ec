package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel outcomes the handlers translate into HTTP responses. None of
// these is fatal to the process; every operation either commits fully or
// leaves state untouched.
var (
	// ErrAlreadyTaken means the caller lost the race for a searching request
	ErrAlreadyTaken = errors.New("request has already been taken by another helper")

	// ErrNotEligible means the helper may not act on this request
	ErrNotEligible = errors.New("helper is not eligible for this request")

	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("action not permitted for this user")
)

// ValidationError carries every violated rule at once rather than failing
// on the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// IllegalTransitionError rejects a status move outside the legal edges.
type IllegalTransitionError struct {
	From, To string
	Actor    string
	Allowed  []string
}

func (e *IllegalTransitionError) Error() string {
	msg := fmt.Sprintf("invalid transition: %s → %s is not allowed for actor '%s'", e.From, e.To, e.Actor)
	if len(e.Allowed) == 0 {
		return msg + " (terminal state)"
	}
	return msg + ". Valid next states: " + strings.Join(e.Allowed, ", ")
}
