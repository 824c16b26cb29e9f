// Package class is the reservation engine: class sessions, bookings and
// cancellations, gated by role and membership.
package class

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gym-api/internal/application/access"
	"github.com/go-gym-api/internal/application/capacity"
	"github.com/go-gym-api/internal/domain"
	"github.com/go-gym-api/internal/pkg/id"
	"github.com/go-gym-api/internal/pkg/validate"
)

type Service interface {
	ListAvailable(ctx context.Context, caller domain.Caller, now time.Time) ([]domain.AvailableClass, error)
	Get(ctx context.Context, caller domain.Caller, sessionID string) (*SessionDetail, error)
	Create(ctx context.Context, input domain.ClassSessionInput) (*domain.ClassSession, error)
	Update(ctx context.Context, sessionID string, input domain.ClassSessionInput) (*domain.ClassSession, error)
	Delete(ctx context.Context, sessionID string) error
	Book(ctx context.Context, caller domain.Caller, sessionID string) (*domain.Reservation, error)
	Cancel(ctx context.Context, caller domain.Caller, sessionID string) error
	Roster(ctx context.Context, sessionID string) ([]domain.Reservation, error)
	MyReservations(ctx context.Context, caller domain.Caller) ([]domain.Reservation, error)
	Access(ctx context.Context, caller domain.Caller) (access.Summary, error)
}

// SessionDetail is a session with its live availability.
type SessionDetail struct {
	Session      *domain.ClassSession `json:"session"`
	Availability domain.Availability  `json:"availability"`
}

type classStore interface {
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

type membershipStore interface {
	Get(ctx context.Context, userID string) (*domain.Membership, error)
}

// ServiceDeps groups the collaborators of the reservation engine.
type ServiceDeps struct {
	ClassRepo      classStore
	MembershipRepo membershipStore
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	classRepo      classStore
	membershipRepo membershipStore
	ledger         *capacity.Ledger
	now            func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		classRepo:      deps.ClassRepo,
		membershipRepo: deps.MembershipRepo,
		ledger:         capacity.NewLedger(deps.ClassRepo),
		now:            now,
	}
}

// membership returns nil when the user has none on file.
func (s *service) membership(ctx context.Context, userID string) (*domain.Membership, error) {
	m, err := s.membershipRepo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load membership: %w", err)
	}
	return m, nil
}

func (s *service) Access(ctx context.Context, caller domain.Caller) (access.Summary, error) {
	if domain.IsStaff(caller.Role) {
		return access.Summarize(caller.Role, nil), nil
	}
	m, err := s.membership(ctx, caller.UserID)
	if err != nil {
		return access.Summary{}, err
	}
	return access.Summarize(caller.Role, m), nil
}

func (s *service) requireClasses(ctx context.Context, caller domain.Caller) error {
	if domain.IsStaff(caller.Role) {
		return nil
	}
	m, err := s.membership(ctx, caller.UserID)
	if err != nil {
		return err
	}
	return access.CanViewClasses(caller.Role, m).Err()
}

func (s *service) ListAvailable(ctx context.Context, caller domain.Caller, now time.Time) ([]domain.AvailableClass, error) {
	if err := s.requireClasses(ctx, caller); err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = s.now()
	}
	return s.classRepo.ListAvailable(ctx, now)
}

func (s *service) Get(ctx context.Context, caller domain.Caller, sessionID string) (*SessionDetail, error) {
	if err := s.requireClasses(ctx, caller); err != nil {
		return nil, err
	}
	session, av, err := s.ledger.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: session, Availability: av}, nil
}

func validateInput(input domain.ClassSessionInput) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func (s *service) Create(ctx context.Context, input domain.ClassSessionInput) (*domain.ClassSession, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	session := &domain.ClassSession{
		SessionID:   id.New(),
		Name:        input.Name,
		Description: input.Description,
		StartsAt:    input.StartsAt.UTC(),
		EndsAt:      input.EndsAt.UTC(),
		TrainerID:   input.TrainerID,
		Capacity:    *input.Capacity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.classRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) Update(ctx context.Context, sessionID string, input domain.ClassSessionInput) (*domain.ClassSession, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	session := &domain.ClassSession{
		SessionID:   sessionID,
		Name:        input.Name,
		Description: input.Description,
		StartsAt:    input.StartsAt.UTC(),
		EndsAt:      input.EndsAt.UTC(),
		TrainerID:   input.TrainerID,
		Capacity:    *input.Capacity,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.classRepo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	updated, _, err := s.classRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, sessionID string) error {
	return s.classRepo.DeleteSession(ctx, sessionID)
}

func (s *service) Book(ctx context.Context, caller domain.Caller, sessionID string) (*domain.Reservation, error) {
	if err := s.requireClasses(ctx, caller); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	r := &domain.Reservation{
		ReservationID: id.New(),
		UserID:        caller.UserID,
		SessionID:     sessionID,
		Status:        domain.ReservationReserved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.classRepo.Book(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Cancel needs no membership check: a lapsed member may still release a seat.
func (s *service) Cancel(ctx context.Context, caller domain.Caller, sessionID string) error {
	return s.classRepo.Cancel(ctx, caller.UserID, sessionID, s.now().UTC())
}

// Roster stays readable for an overbooked session so staff can investigate it.
func (s *service) Roster(ctx context.Context, sessionID string) ([]domain.Reservation, error) {
	if _, _, err := s.classRepo.GetSession(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrIntegrity) {
		return nil, err
	}
	return s.classRepo.ListBySession(ctx, sessionID)
}

func (s *service) MyReservations(ctx context.Context, caller domain.Caller) ([]domain.Reservation, error) {
	return s.classRepo.ListByUser(ctx, caller.UserID)
}

// IsRetrySuccess reports whether err from a repeated Book means the caller
// already holds the seat, so a client retry can treat it as success.
func IsRetrySuccess(err error) bool {
	return errors.Is(err, domain.ErrAlreadyBooked)
}
