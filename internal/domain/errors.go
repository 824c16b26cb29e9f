package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrValidation   = errors.New("validation error")

	// ErrIntegrity means a store invariant was observed broken (negative
	// availability, a cascade that only half applied). It is never retried.
	ErrIntegrity = errors.New("integrity error")
)

// Booking conflicts. Both match ErrConflict with errors.Is.
var (
	ErrAlreadyBooked = fmt.Errorf("already booked: %w", ErrConflict)
	ErrSessionFull   = fmt.Errorf("session full: %w", ErrConflict)
)
