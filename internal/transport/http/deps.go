package http

import (
	"context"
	"time"

	"github.com/go-gym-api/internal/domain"
	jwtinfra "github.com/go-gym-api/internal/infrastructure/jwt"
)

// ClassRepository is the minimal interface the router requires from the
// relational class store.
type ClassRepository interface {
	CreateSession(ctx context.Context, s *domain.ClassSession) error
	GetSession(ctx context.Context, sessionID string) (*domain.ClassSession, domain.Availability, error)
	UpdateSession(ctx context.Context, s *domain.ClassSession) error
	DeleteSession(ctx context.Context, sessionID string) error
	ListAvailable(ctx context.Context, now time.Time) ([]domain.AvailableClass, error)
	Book(ctx context.Context, r *domain.Reservation) error
	Cancel(ctx context.Context, userID, sessionID string, at time.Time) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error)
}

// MembershipRepository is the minimal interface the router requires from a membership store.
type MembershipRepository interface {
	Get(ctx context.Context, userID string) (*domain.Membership, error)
}

// NotificationRepository is the minimal interface the router requires from a notification store.
type NotificationRepository interface {
	NextID(ctx context.Context) (int64, error)
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID int64) (*domain.Notification, error)
	List(ctx context.Context) ([]domain.Notification, error)
	Update(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	Delete(ctx context.Context, notificationID int64) error
}

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	ClassRepo        ClassRepository
	MembershipRepo   MembershipRepository
	NotificationRepo NotificationRepository
	Verifier         TokenVerifier
	// Now defaults to time.Now.
	Now func() time.Time
}
