// Package access decides what a caller may see based on role and membership.
// Every function here is pure; callers branch on the returned Decision.
package access

import "github.com/go-gym-api/internal/domain"

// Reason is the machine-readable cause of a denial.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonNoMembership        Reason = "no_membership"
	ReasonWrongMembershipType Reason = "wrong_membership_type"
)

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason,omitempty"`
}

func allow() Decision { return Decision{Allowed: true} }

func deny(r Reason) Decision { return Decision{Reason: r} }

// CanViewRoutines requires an active membership of any type.
func CanViewRoutines(role string, m *domain.Membership) Decision {
	if domain.IsStaff(role) {
		return allow()
	}
	if m == nil || !m.Active {
		return deny(ReasonNoMembership)
	}
	return allow()
}

// CanViewClasses additionally requires a membership type that includes classes.
func CanViewClasses(role string, m *domain.Membership) Decision {
	if d := CanViewRoutines(role, m); !d.Allowed || domain.IsStaff(role) {
		return d
	}
	switch m.Type {
	case domain.MembershipClasses, domain.MembershipUnlimited:
		return allow()
	default:
		return deny(ReasonWrongMembershipType)
	}
}

// Summary bundles every gate decision for one caller.
type Summary struct {
	Classes  Decision `json:"classes"`
	Routines Decision `json:"routines"`
}

func Summarize(role string, m *domain.Membership) Summary {
	return Summary{
		Classes:  CanViewClasses(role, m),
		Routines: CanViewRoutines(role, m),
	}
}

// DeniedError carries a denial reason and matches domain.ErrForbidden.
type DeniedError struct {
	Reason Reason
}

func (e *DeniedError) Error() string { return "access denied: " + string(e.Reason) }

func (e *DeniedError) Unwrap() error { return domain.ErrForbidden }

// Err converts a denial into a *DeniedError; an allowed decision yields nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason}
}
