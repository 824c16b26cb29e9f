package domain

// Role names carried in the bearer token.
const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
	RoleClient  = "client"
)

// IsStaff reports whether role manages classes and bypasses membership checks.
func IsStaff(role string) bool {
	return role == RoleAdmin || role == RoleTrainer
}

// Caller is the verified identity behind a request.
type Caller struct {
	UserID string
	Role   string
}
