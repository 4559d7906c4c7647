package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/CamMacB17/spotpay/internal/domain"
)

type MockEventRepo struct {
	mock.Mock
}

func NewMockEventRepo(t *testing.T) *MockEventRepo {
	m := &MockEventRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEventRepo) EXPECT() *MockEventRepoExpecter {
	return &MockEventRepoExpecter{mock: &m.Mock}
}

func (m *MockEventRepo) Create(ctx context.Context, e *domain.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	return event(args.Get(0)), args.Error(1)
}

func (m *MockEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	args := m.Called(ctx, slug)
	return event(args.Get(0)), args.Error(1)
}

func (m *MockEventRepo) GetDetails(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	args := m.Called(ctx, eventID)
	var d *domain.EventDetails
	if args.Get(0) != nil {
		d = args.Get(0).(*domain.EventDetails)
	}
	return d, args.Error(1)
}

func (m *MockEventRepo) UpdatePrice(ctx context.Context, eventID string, pricePence int64) error {
	return m.Called(ctx, eventID, pricePence).Error(0)
}

func (m *MockEventRepo) SetMaxSpots(ctx context.Context, eventID string, maxSpots *int) error {
	return m.Called(ctx, eventID, maxSpots).Error(0)
}

func (m *MockEventRepo) Close(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

func event(v any) *domain.Event {
	if v == nil {
		return nil
	}
	return v.(*domain.Event)
}

type MockEventRepoExpecter struct {
	mock *mock.Mock
}

func (e *MockEventRepoExpecter) Create(ctx, ev any) *mock.Call {
	return e.mock.On("Create", ctx, ev)
}

func (e *MockEventRepoExpecter) GetByID(ctx, id any) *mock.Call {
	return e.mock.On("GetByID", ctx, id)
}

func (e *MockEventRepoExpecter) GetBySlug(ctx, slug any) *mock.Call {
	return e.mock.On("GetBySlug", ctx, slug)
}

func (e *MockEventRepoExpecter) GetDetails(ctx, eventID any) *mock.Call {
	return e.mock.On("GetDetails", ctx, eventID)
}

func (e *MockEventRepoExpecter) UpdatePrice(ctx, eventID, pricePence any) *mock.Call {
	return e.mock.On("UpdatePrice", ctx, eventID, pricePence)
}

func (e *MockEventRepoExpecter) SetMaxSpots(ctx, eventID, maxSpots any) *mock.Call {
	return e.mock.On("SetMaxSpots", ctx, eventID, maxSpots)
}

func (e *MockEventRepoExpecter) Close(ctx, eventID any) *mock.Call {
	return e.mock.On("Close", ctx, eventID)
}
