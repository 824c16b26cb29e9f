package domain

import (
	"fmt"
	"time"
)

type ClassSession struct {
	SessionID   string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"start"`
	EndsAt      time.Time `json:"end"`
	TrainerID   string    `json:"trainer"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created"`
	UpdatedAt   time.Time `json:"updated"`
}

// ClassSessionInput is the body for creating or replacing a class session.
// Capacity is a pointer so a missing value fails validation instead of
// silently becoming zero.
type ClassSessionInput struct {
	Name        string    `json:"name" validate:"required,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	StartsAt    time.Time `json:"start" validate:"required"`
	EndsAt      time.Time `json:"end" validate:"required,gtfield=StartsAt"`
	TrainerID   string    `json:"trainer" validate:"required"`
	Capacity    *int      `json:"capacity" validate:"required,min=0"`
}

// Availability is derived from the live reservation count, never stored.
type Availability struct {
	SessionID     string    `json:"session_id"`
	Capacity      int       `json:"capacity"`
	ReservedCount int       `json:"reserved"`
	Available     int       `json:"available"`
	SessionStart  time.Time `json:"start"`
}

// NewAvailability computes the free seats of a session. A reserved count
// above capacity means the no-overbooking invariant was broken.
func NewAvailability(sessionID string, capacity, reserved int, start time.Time) (Availability, error) {
	a := Availability{
		SessionID:     sessionID,
		Capacity:      capacity,
		ReservedCount: reserved,
		Available:     capacity - reserved,
		SessionStart:  start,
	}
	if capacity < 0 || reserved < 0 || a.Available < 0 {
		return a, fmt.Errorf("session %s: capacity %d, reserved %d: %w", sessionID, capacity, reserved, ErrIntegrity)
	}
	return a, nil
}

// AvailableClass is one row of the available-classes listing.
type AvailableClass struct {
	ClassSession
	Available int `json:"available"`
}

type ReservationStatus string

const (
	ReservationReserved  ReservationStatus = "reserved"
	ReservationCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	ReservationID string            `json:"id"`
	UserID        string            `json:"user_id"`
	SessionID     string            `json:"session_id"`
	Status        ReservationStatus `json:"status"`
	CreatedAt     time.Time         `json:"created"`
	UpdatedAt     time.Time         `json:"updated"`
}
