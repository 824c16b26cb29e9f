package class

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-gym-api/internal/application/access"
	"github.com/go-gym-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockClassStore struct{ mock.Mock }

func (m *mockClassStore) CreateSession(ctx context.Context, s *domain.ClassSession) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockClassStore) GetSession(ctx context.Context, sessionID string) (*domain.ClassSession, domain.Availability, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(*domain.ClassSession)
	av, _ := args.Get(1).(domain.Availability)
	return s, av, args.Error(2)
}
func (m *mockClassStore) UpdateSession(ctx context.Context, s *domain.ClassSession) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockClassStore) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}
func (m *mockClassStore) ListAvailable(ctx context.Context, now time.Time) ([]domain.AvailableClass, error) {
	args := m.Called(ctx, now)
	classes, _ := args.Get(0).([]domain.AvailableClass)
	return classes, args.Error(1)
}
func (m *mockClassStore) Book(ctx context.Context, r *domain.Reservation) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockClassStore) Cancel(ctx context.Context, userID, sessionID string, at time.Time) error {
	return m.Called(ctx, userID, sessionID, at).Error(0)
}
func (m *mockClassStore) ListBySession(ctx context.Context, sessionID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, sessionID)
	rs, _ := args.Get(0).([]domain.Reservation)
	return rs, args.Error(1)
}
func (m *mockClassStore) ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID)
	rs, _ := args.Get(0).([]domain.Reservation)
	return rs, args.Error(1)
}

type mockMembershipStore struct{ mock.Mock }

func (m *mockMembershipStore) Get(ctx context.Context, userID string) (*domain.Membership, error) {
	args := m.Called(ctx, userID)
	if mb, _ := args.Get(0).(*domain.Membership); mb != nil {
		return mb, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

var fixedNow = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func newSvc(cs *mockClassStore, ms *mockMembershipStore) Service {
	return NewService(ServiceDeps{
		ClassRepo:      cs,
		MembershipRepo: ms,
		Now:            func() time.Time { return fixedNow },
	})
}

var (
	client  = domain.Caller{UserID: "u1", Role: domain.RoleClient}
	admin   = domain.Caller{UserID: "a1", Role: domain.RoleAdmin}
	trainer = domain.Caller{UserID: "t1", Role: domain.RoleTrainer}
)

func activeMembership(t domain.MembershipType) *domain.Membership {
	return &domain.Membership{UserID: "u1", Active: true, Type: t}
}

func intPtr(v int) *int { return &v }

func validInput() domain.ClassSessionInput {
	return domain.ClassSessionInput{
		Name:      "HIIT",
		StartsAt:  fixedNow.Add(24 * time.Hour),
		EndsAt:    fixedNow.Add(25 * time.Hour),
		TrainerID: "t1",
		Capacity:  intPtr(12),
	}
}

// --- ListAvailable ---

func TestListAvailable_ClientWithClassesMembership(t *testing.T) {
	cs, ms := &mockClassStore{}, &mockMembershipStore{}
	at := fixedNow.Add(time.Hour)
	ms.On("Get", mock.Anything, "u1").Return(activeMembership(domain.MembershipClasses), nil)
	cs.On("ListAvailable", mock.Anything, at).Return([]domain.AvailableClass{{Available: 3}}, nil)

	classes, err := newSvc(cs, ms).ListAvailable(context.Background(), client, at)

	require.NoError(t, err)
	assert.Len(t, classes, 1)
	cs.AssertExpectations(t)
}

func TestListAvailable_ZeroTimeUsesClock(t *testing.T) {
	cs, ms := &mockClassStore{}, &mockMembershipStore{}
	cs.On("ListAvailable", mock.Anything, fixedNow).Return([]domain.AvailableClass{}, nil)

	_, err := newSvc(cs, ms).ListAvailable(context.Background(), admin, time.Time{})

	require.NoError(t, err)
	cs.AssertExpectations(t)
	ms.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestListAvailable_BasicMembershipDenied(t *testing.T) {
	cs, ms := &mockClassStore{}, &mockMembershipStore{}
	ms.On("Get", mock.Anything, "u1").Return(activeMembership(domain.MembershipBasic), nil)

	_, err := newSvc(cs, ms).ListAvailable(context.Background(), client, fixedNow)

	var denied *access.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, access.ReasonWrongMembershipType, denied.Reason)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	cs.AssertNotCalled(t, "ListAvailable", mock.Anything, mock.Anything)
}

func TestListAvailable_NoMembershipOnFile(t *testing.T) {
	cs, ms := &mockClassStore{}, &mockMembershipStore{}
	ms.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	_, err := newSvc(cs, ms).ListAvailable(context.Background(), client, fixedNow)

	var denied *access.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, access.ReasonNoMembership, denied.Reason)
}

func TestListAvailable_MembershipStoreFailure(t *testing.T) {
	cs, ms := &mockClassStore{}, &mockMembershipStore{}
	ms.On("Get", mock.Anything, "u1").Return(nil, errors.New("connection reset"))

	_, err := newSvc(cs, ms).ListAvailable(context.Background(), client, fixedNow)

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrForbidden))
}

// --- Book / Cancel ---

func TestBook_Success(t *testing.T) {
	cs, ms := &mockClassStore{}, &mockMembershipStore{}
	ms.On("Get", mock.Anything, "u1").Return(activeMembership(domain.MembershipUnlimited), nil)
	cs.On("Book", mock.Anything, mock.AnythingOfType("*domain.Reservation")).Return(nil)

	r, err := newSvc(cs, ms).Book(context.Background(), client, "s1")

	require.NoError(t, err)
	assert.NotEmpty(t, r.ReservationID)
	assert.Equal(t, "u1", r.UserID)
	assert.Equal(t, "s1", r.SessionID)
	assert.Equal(t, domain.ReservationReserved, r.Status)
	assert.Equal(t, fixedNow, r.CreatedAt)
}

func TestBook_PropagatesConflicts(t *testing.T) {
	for _, conflict := range []error{domain.ErrSessionFull, domain.ErrAlreadyBooked, domain.ErrNotFound} {
		cs, ms := &mockClassStore{}, &mockMembershipStore{}
		ms.On("Get", mock.Anything, "u1").Return(activeMembership(domain.MembershipClasses), nil)
		cs.On("Book", mock.Anything, mock.Anything).Return(conflict)

		_, err := newSvc(cs, ms).Book(context.Background(), client, "s1")

		assert.True(t, errors.Is(err, conflict), "want %v", conflict)
	}
}

func TestBook_InactiveMembershipNeverReachesStore(t *testing.T) {
	cs, ms := &mockClassStore{}, &mockMembershipStore{}
	ms.On("Get", mock.Anything, "u1").Return(&domain.Membership{UserID: "u1", Active: false, Type: domain.MembershipUnlimited}, nil)

	_, err := newSvc(cs, ms).Book(context.Background(), client, "s1")

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	cs.AssertNotCalled(t, "Book", mock.Anything, mock.Anything)
}

func TestBook_TrainerSkipsMembership(t *testing.T) {
	cs, ms := &mockClassStore{}, &mockMembershipStore{}
	cs.On("Book", mock.Anything, mock.Anything).Return(nil)

	_, err := newSvc(cs, ms).Book(context.Background(), trainer, "s1")

	require.NoError(t, err)
	ms.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCancel_PassesCallerAndClock(t *testing.T) {
	cs, ms := &mockClassStore{}, &mockMembershipStore{}
	cs.On("Cancel", mock.Anything, "u1", "s1", fixedNow).Return(nil)

	require.NoError(t, newSvc(cs, ms).Cancel(context.Background(), client, "s1"))
	cs.AssertExpectations(t)
	ms.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCancel_NotFound(t *testing.T) {
	cs, ms := &mockClassStore{}, &mockMembershipStore{}
	cs.On("Cancel", mock.Anything, "u1", "s1", fixedNow).Return(domain.ErrNotFound)

	err := newSvc(cs, ms).Cancel(context.Background(), client, "s1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- Create / Update / Delete ---

func TestCreate_Valid(t *testing.T) {
	cs := &mockClassStore{}
	cs.On("CreateSession", mock.Anything, mock.AnythingOfType("*domain.ClassSession")).Return(nil)

	s, err := newSvc(cs, nil).Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotEmpty(t, s.SessionID)
	assert.Equal(t, 12, s.Capacity)
	assert.Equal(t, fixedNow, s.CreatedAt)
}

func TestCreate_MissingCapacity(t *testing.T) {
	cs := &mockClassStore{}
	in := validInput()
	in.Capacity = nil

	_, err := newSvc(cs, nil).Create(context.Background(), in)

	assert.True(t, errors.Is(err, domain.ErrValidation))
	cs.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestCreate_ZeroCapacityAllowed(t *testing.T) {
	cs := &mockClassStore{}
	cs.On("CreateSession", mock.Anything, mock.Anything).Return(nil)
	in := validInput()
	in.Capacity = intPtr(0)

	s, err := newSvc(cs, nil).Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, 0, s.Capacity)
}

func TestCreate_InvalidInputs(t *testing.T) {
	cases := map[string]func(*domain.ClassSessionInput){
		"negative capacity": func(in *domain.ClassSessionInput) { in.Capacity = intPtr(-1) },
		"missing name":      func(in *domain.ClassSessionInput) { in.Name = "" },
		"end before start":  func(in *domain.ClassSessionInput) { in.EndsAt = in.StartsAt.Add(-time.Minute) },
		"missing trainer":   func(in *domain.ClassSessionInput) { in.TrainerID = "" },
	}
	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		_, err := newSvc(&mockClassStore{}, nil).Create(context.Background(), in)
		assert.True(t, errors.Is(err, domain.ErrValidation), name)
	}
}

func TestUpdate_ReturnsStoredSession(t *testing.T) {
	cs := &mockClassStore{}
	stored := &domain.ClassSession{SessionID: "s1", Name: "HIIT", Capacity: 12}
	cs.On("UpdateSession", mock.Anything, mock.MatchedBy(func(s *domain.ClassSession) bool {
		return s.SessionID == "s1" && s.Capacity == 12 && s.UpdatedAt.Equal(fixedNow)
	})).Return(nil)
	cs.On("GetSession", mock.Anything, "s1").Return(stored, domain.Availability{}, nil)

	got, err := newSvc(cs, nil).Update(context.Background(), "s1", validInput())

	require.NoError(t, err)
	assert.Equal(t, stored, got)
	cs.AssertExpectations(t)
}

func TestUpdate_CapacityBelowReserved(t *testing.T) {
	cs := &mockClassStore{}
	cs.On("UpdateSession", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	_, err := newSvc(cs, nil).Update(context.Background(), "s1", validInput())

	assert.True(t, errors.Is(err, domain.ErrConflict))
	cs.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
}

func TestDelete_PropagatesIntegrityError(t *testing.T) {
	cs := &mockClassStore{}
	cs.On("DeleteSession", mock.Anything, "s1").Return(domain.ErrIntegrity)

	err := newSvc(cs, nil).Delete(context.Background(), "s1")
	assert.True(t, errors.Is(err, domain.ErrIntegrity))
}

// --- Get / Roster / Access ---

func TestGet_ReturnsAvailability(t *testing.T) {
	cs, ms := &mockClassStore{}, &mockMembershipStore{}
	av := domain.Availability{SessionID: "s1", Capacity: 5, ReservedCount: 2, Available: 3}
	cs.On("GetSession", mock.Anything, "s1").Return(&domain.ClassSession{SessionID: "s1"}, av, nil)

	d, err := newSvc(cs, ms).Get(context.Background(), admin, "s1")

	require.NoError(t, err)
	assert.Equal(t, 3, d.Availability.Available)
	assert.Equal(t, "s1", d.Session.SessionID)
}

func TestRoster_UnknownSession(t *testing.T) {
	cs := &mockClassStore{}
	cs.On("GetSession", mock.Anything, "s1").Return(nil, domain.Availability{}, domain.ErrNotFound)

	_, err := newSvc(cs, nil).Roster(context.Background(), "s1")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	cs.AssertNotCalled(t, "ListBySession", mock.Anything, mock.Anything)
}

func TestRoster_OverbookedSessionStillListed(t *testing.T) {
	cs := &mockClassStore{}
	cs.On("GetSession", mock.Anything, "s1").Return(nil, domain.Availability{}, domain.ErrIntegrity)
	cs.On("ListBySession", mock.Anything, "s1").Return([]domain.Reservation{{ReservationID: "r1"}, {ReservationID: "r2"}}, nil)

	rs, err := newSvc(cs, nil).Roster(context.Background(), "s1")

	require.NoError(t, err)
	assert.Len(t, rs, 2)
}

func TestAccess_Client(t *testing.T) {
	ms := &mockMembershipStore{}
	ms.On("Get", mock.Anything, "u1").Return(activeMembership(domain.MembershipBasic), nil)

	sum, err := newSvc(nil, ms).Access(context.Background(), client)

	require.NoError(t, err)
	assert.Equal(t, access.ReasonWrongMembershipType, sum.Classes.Reason)
	assert.True(t, sum.Routines.Allowed)
}

func TestAccess_AdminWithoutMembership(t *testing.T) {
	ms := &mockMembershipStore{}

	sum, err := newSvc(nil, ms).Access(context.Background(), admin)

	require.NoError(t, err)
	assert.True(t, sum.Classes.Allowed)
	assert.True(t, sum.Routines.Allowed)
	ms.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestIsRetrySuccess(t *testing.T) {
	assert.True(t, IsRetrySuccess(domain.ErrAlreadyBooked))
	assert.True(t, IsRetrySuccess(fmt.Errorf("book: %w", domain.ErrAlreadyBooked)))
	assert.False(t, IsRetrySuccess(domain.ErrSessionFull))
	assert.False(t, IsRetrySuccess(nil))
}
