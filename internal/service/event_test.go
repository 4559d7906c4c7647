package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/service/ports/mocks"
)

type eventFixture struct {
	events   *mocks.MockEventRepo
	payments *mocks.MockPaymentRepo
	tokens   *mocks.MockAdminTokenRepo
	audit    *mocks.MockAuditLogRepo
	svc      *EventService
}

func newEventFixture(t *testing.T) *eventFixture {
	f := &eventFixture{
		events:   mocks.NewMockEventRepo(t),
		payments: mocks.NewMockPaymentRepo(t),
		tokens:   mocks.NewMockAdminTokenRepo(t),
		audit:    mocks.NewMockAuditLogRepo(t),
	}
	f.svc = NewEventService(
		f.events, f.payments, f.tokens, f.audit,
		90*24*time.Hour, newTestLogger(t),
	)
	return f
}

func TestEventService_CreateEvent(t *testing.T) {
	f := newEventFixture(t)

	var storedHash string
	f.events.EXPECT().Create(mock.Anything, mock.MatchedBy(func(e *domain.Event) bool {
		return e.Title == "Pottery night" && e.Slug != "" && e.ID != ""
	})).Return(nil)
	f.tokens.EXPECT().Create(mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			storedHash = args.Get(1).(*domain.AdminToken).TokenHash
		}).
		Return(nil)

	created, err := f.svc.CreateEvent(context.Background(), domain.CreateEventInput{
		Title:          "  Pottery night  ",
		OrganiserEmail: "Org@Example.com",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.AdminToken)
	assert.Equal(t, "org@example.com", created.Event.OrganiserEmail)
	// Only the hash is persisted; the raw token goes to the organiser once.
	assert.NotEqual(t, created.AdminToken, storedHash)
	assert.Equal(t, HashToken(created.AdminToken), storedHash)
}

func TestEventService_CreateEvent_Validation(t *testing.T) {
	f := newEventFixture(t)

	cases := []domain.CreateEventInput{
		{Title: "", OrganiserEmail: "org@example.com"},
		{Title: "Gig", OrganiserEmail: "nope"},
		{Title: "Gig", OrganiserEmail: "org@example.com", PricePence: pricePence(-1)},
	}
	for _, input := range cases {
		_, err := f.svc.CreateEvent(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestEventService_UpdatePrice(t *testing.T) {
	f := newEventFixture(t)

	f.events.EXPECT().UpdatePrice(mock.Anything, "e1", int64(2000)).Return(nil)
	f.audit.EXPECT().Append(mock.Anything, mock.MatchedBy(func(a *domain.AdminAction) bool {
		return a.Action == domain.ActionPriceUpdated && a.TokenHash == "hash"
	})).Return(nil)

	err := f.svc.UpdatePrice(context.Background(), "e1", 2000, "hash")

	assert.NoError(t, err)
}

func TestEventService_UpdatePrice_Locked(t *testing.T) {
	f := newEventFixture(t)

	f.events.EXPECT().UpdatePrice(mock.Anything, "e1", int64(2000)).
		Return(domain.ErrPriceLocked)

	err := f.svc.UpdatePrice(context.Background(), "e1", 2000, "hash")

	assert.ErrorIs(t, err, domain.ErrPriceLocked)
	f.audit.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestEventService_SetMaxSpots_BelowActive(t *testing.T) {
	f := newEventFixture(t)

	two := 2
	f.events.EXPECT().SetMaxSpots(mock.Anything, "e1", &two).
		Return(domain.ErrCapacityBelowActive)

	err := f.svc.SetMaxSpots(context.Background(), "e1", &two, "hash")

	assert.ErrorIs(t, err, domain.ErrCapacityBelowActive)
}

func TestEventService_CloseEvent(t *testing.T) {
	f := newEventFixture(t)

	f.events.EXPECT().Close(mock.Anything, "e1").Return(nil)
	f.audit.EXPECT().Append(mock.Anything, mock.MatchedBy(func(a *domain.AdminAction) bool {
		return a.Action == domain.ActionEventClosed
	})).Return(nil)

	err := f.svc.CloseEvent(context.Background(), "e1", "hash")

	assert.NoError(t, err)
}

func TestEventService_RotateToken(t *testing.T) {
	f := newEventFixture(t)

	var rotated *domain.AdminToken
	f.tokens.EXPECT().Rotate(mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			rotated = args.Get(1).(*domain.AdminToken)
		}).
		Return(nil)
	f.audit.EXPECT().Append(mock.Anything, mock.MatchedBy(func(a *domain.AdminAction) bool {
		return a.Action == domain.ActionTokenRotated
	})).Return(nil)

	raw, err := f.svc.RotateToken(context.Background(), "e1", "oldhash")

	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	require.NotNil(t, rotated)
	assert.Equal(t, HashToken(raw), rotated.TokenHash)
	assert.Equal(t, "e1", rotated.EventID)
}

func TestEventService_ResolveToken(t *testing.T) {
	f := newEventFixture(t)

	token := &domain.AdminToken{
		ID:        "t1",
		EventID:   "e1",
		TokenHash: HashToken("raw-token"),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.tokens.EXPECT().GetByHash(mock.Anything, HashToken("raw-token")).Return(token, nil)

	resolved, err := f.svc.ResolveToken(context.Background(), "raw-token")

	require.NoError(t, err)
	assert.Equal(t, "e1", resolved.EventID)
}

func TestEventService_ResolveToken_Expired(t *testing.T) {
	f := newEventFixture(t)

	token := &domain.AdminToken{
		ID:        "t1",
		EventID:   "e1",
		TokenHash: HashToken("raw-token"),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	f.tokens.EXPECT().GetByHash(mock.Anything, HashToken("raw-token")).Return(token, nil)

	_, err := f.svc.ResolveToken(context.Background(), "raw-token")

	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestEventService_ResolveToken_Unknown(t *testing.T) {
	f := newEventFixture(t)

	f.tokens.EXPECT().GetByHash(mock.Anything, mock.Anything).
		Return(nil, domain.ErrInvalidToken)

	_, err := f.svc.ResolveToken(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = f.svc.ResolveToken(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
