// Package notification classifies broadcast notifications by delivery time
// and scopes them to the caller's role.
package notification

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-gym-api/internal/domain"
	"github.com/go-gym-api/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context, caller domain.Caller, at time.Time) ([]domain.NotificationView, error)
	Get(ctx context.Context, notificationID int64) (*domain.NotificationView, error)
	Create(ctx context.Context, input domain.NotificationInput) (*domain.Notification, error)
	Update(ctx context.Context, notificationID int64, input domain.NotificationInput) (*domain.Notification, error)
	Delete(ctx context.Context, notificationID int64) error
}

type notificationStore interface {
	NextID(ctx context.Context) (int64, error)
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID int64) (*domain.Notification, error)
	List(ctx context.Context) ([]domain.Notification, error)
	Update(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	Delete(ctx context.Context, notificationID int64) error
}

// ServiceDeps groups the collaborators of the notification service.
type ServiceDeps struct {
	Repo notificationStore
	// Freshness defaults to domain.DefaultFreshness.
	Freshness time.Duration
	Now       func() time.Time
}

type service struct {
	repo      notificationStore
	freshness time.Duration
	now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{repo: deps.Repo, freshness: deps.Freshness, now: deps.Now}
	if s.freshness <= 0 {
		s.freshness = domain.DefaultFreshness
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Visible reports whether a notification in state addressed to audience
// is shown to role.
func Visible(role string, state domain.NotificationState, audience string) bool {
	if role == domain.RoleAdmin {
		return true
	}
	if audience != "" && audience != role {
		return false
	}
	switch role {
	case domain.RoleTrainer:
		return state != domain.NotificationProgrammed
	default:
		return state == domain.NotificationDueFresh
	}
}

// List returns the notifications the caller may see, newest delivery first.
func (s *service) List(ctx context.Context, caller domain.Caller, at time.Time) ([]domain.NotificationView, error) {
	if at.IsZero() {
		at = s.now()
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	views := make([]domain.NotificationView, 0, len(all))
	for _, n := range all {
		state := domain.ClassifyNotification(n.DeliverAt, at, s.freshness)
		if !Visible(caller.Role, state, n.Audience) {
			continue
		}
		views = append(views, domain.NotificationView{Notification: n, State: state})
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].DeliverAt.Equal(views[j].DeliverAt) {
			return views[i].DeliverAt.After(views[j].DeliverAt)
		}
		return views[i].NotificationID > views[j].NotificationID
	})
	return views, nil
}

// Get returns one notification with its state at the service clock,
// regardless of audience.
func (s *service) Get(ctx context.Context, notificationID int64) (*domain.NotificationView, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, fmt.Errorf("get notification %d: %w", notificationID, err)
	}
	return &domain.NotificationView{
		Notification: *n,
		State:        domain.ClassifyNotification(n.DeliverAt, s.now(), s.freshness),
	}, nil
}

func validateInput(input domain.NotificationInput) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func (s *service) Create(ctx context.Context, input domain.NotificationInput) (*domain.Notification, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	nid, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	n := &domain.Notification{
		NotificationID: nid,
		Title:          input.Title,
		Message:        input.Message,
		DeliverAt:      input.DeliverAt.UTC(),
		Audience:       input.Audience,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("put notification: %w", err)
	}
	return n, nil
}

func (s *service) Update(ctx context.Context, notificationID int64, input domain.NotificationInput) (*domain.Notification, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, &domain.Notification{
		NotificationID: notificationID,
		Title:          input.Title,
		Message:        input.Message,
		DeliverAt:      input.DeliverAt.UTC(),
		Audience:       input.Audience,
		UpdatedAt:      s.now().UTC(),
	})
}

func (s *service) Delete(ctx context.Context, notificationID int64) error {
	return s.repo.Delete(ctx, notificationID)
}
