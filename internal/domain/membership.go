package domain

import "time"

type MembershipType string

const (
	MembershipBasic     MembershipType = "basic"
	MembershipClasses   MembershipType = "classes"
	MembershipUnlimited MembershipType = "unlimited"
)

// Membership is owned by billing; this service only reads it.
type Membership struct {
	UserID    string         `json:"user_id"`
	Active    bool           `json:"active"`
	Type      MembershipType `json:"type"`
	UpdatedAt time.Time      `json:"updated"`
}
