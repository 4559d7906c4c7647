// Package mocks holds testify mocks for the handler's service interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/service"
)

type MockEventSvc struct {
	mock.Mock
}

func NewMockEventSvc(t *testing.T) *MockEventSvc {
	m := &MockEventSvc{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEventSvc) EXPECT() *MockEventSvcExpecter {
	return &MockEventSvcExpecter{mock: &m.Mock}
}

func (m *MockEventSvc) CreateEvent(ctx context.Context, input domain.CreateEventInput) (*service.CreatedEvent, error) {
	args := m.Called(ctx, input)
	var created *service.CreatedEvent
	if args.Get(0) != nil {
		created = args.Get(0).(*service.CreatedEvent)
	}
	return created, args.Error(1)
}

func (m *MockEventSvc) PublicDetails(ctx context.Context, slug string) (*domain.EventDetails, error) {
	args := m.Called(ctx, slug)
	return details(args.Get(0)), args.Error(1)
}

func (m *MockEventSvc) AdminDetails(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	args := m.Called(ctx, eventID)
	return details(args.Get(0)), args.Error(1)
}

func (m *MockEventSvc) UpdatePrice(ctx context.Context, eventID string, pricePence int64, tokenHash string) error {
	return m.Called(ctx, eventID, pricePence, tokenHash).Error(0)
}

func (m *MockEventSvc) SetMaxSpots(ctx context.Context, eventID string, maxSpots *int, tokenHash string) error {
	return m.Called(ctx, eventID, maxSpots, tokenHash).Error(0)
}

func (m *MockEventSvc) CloseEvent(ctx context.Context, eventID, tokenHash string) error {
	return m.Called(ctx, eventID, tokenHash).Error(0)
}

func (m *MockEventSvc) RotateToken(ctx context.Context, eventID, tokenHash string) (string, error) {
	args := m.Called(ctx, eventID, tokenHash)
	return args.String(0), args.Error(1)
}

func (m *MockEventSvc) ActionLog(ctx context.Context, eventID string) ([]*domain.AdminAction, error) {
	args := m.Called(ctx, eventID)
	var actions []*domain.AdminAction
	if args.Get(0) != nil {
		actions = args.Get(0).([]*domain.AdminAction)
	}
	return actions, args.Error(1)
}

func details(v any) *domain.EventDetails {
	if v == nil {
		return nil
	}
	return v.(*domain.EventDetails)
}

type MockEventSvcExpecter struct {
	mock *mock.Mock
}

func (e *MockEventSvcExpecter) CreateEvent(ctx, input any) *mock.Call {
	return e.mock.On("CreateEvent", ctx, input)
}

func (e *MockEventSvcExpecter) PublicDetails(ctx, slug any) *mock.Call {
	return e.mock.On("PublicDetails", ctx, slug)
}

func (e *MockEventSvcExpecter) AdminDetails(ctx, eventID any) *mock.Call {
	return e.mock.On("AdminDetails", ctx, eventID)
}

func (e *MockEventSvcExpecter) UpdatePrice(ctx, eventID, pricePence, tokenHash any) *mock.Call {
	return e.mock.On("UpdatePrice", ctx, eventID, pricePence, tokenHash)
}

func (e *MockEventSvcExpecter) SetMaxSpots(ctx, eventID, maxSpots, tokenHash any) *mock.Call {
	return e.mock.On("SetMaxSpots", ctx, eventID, maxSpots, tokenHash)
}

func (e *MockEventSvcExpecter) CloseEvent(ctx, eventID, tokenHash any) *mock.Call {
	return e.mock.On("CloseEvent", ctx, eventID, tokenHash)
}

func (e *MockEventSvcExpecter) RotateToken(ctx, eventID, tokenHash any) *mock.Call {
	return e.mock.On("RotateToken", ctx, eventID, tokenHash)
}

func (e *MockEventSvcExpecter) ActionLog(ctx, eventID any) *mock.Call {
	return e.mock.On("ActionLog", ctx, eventID)
}

type MockCheckoutSvc struct {
	mock.Mock
}

func NewMockCheckoutSvc(t *testing.T) *MockCheckoutSvc {
	m := &MockCheckoutSvc{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCheckoutSvc) EXPECT() *MockCheckoutSvcExpecter {
	return &MockCheckoutSvcExpecter{mock: &m.Mock}
}

func (m *MockCheckoutSvc) PayAndJoin(ctx context.Context, slug, name, email string) (*service.JoinResult, error) {
	args := m.Called(ctx, slug, name, email)
	var result *service.JoinResult
	if args.Get(0) != nil {
		result = args.Get(0).(*service.JoinResult)
	}
	return result, args.Error(1)
}

type MockCheckoutSvcExpecter struct {
	mock *mock.Mock
}

func (e *MockCheckoutSvcExpecter) PayAndJoin(ctx, slug, name, email any) *mock.Call {
	return e.mock.On("PayAndJoin", ctx, slug, name, email)
}

type MockWebhookSvc struct {
	mock.Mock
}

func NewMockWebhookSvc(t *testing.T) *MockWebhookSvc {
	m := &MockWebhookSvc{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockWebhookSvc) EXPECT() *MockWebhookSvcExpecter {
	return &MockWebhookSvcExpecter{mock: &m.Mock}
}

func (m *MockWebhookSvc) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	return m.Called(ctx, payload, signatureHeader).Error(0)
}

type MockWebhookSvcExpecter struct {
	mock *mock.Mock
}

func (e *MockWebhookSvcExpecter) HandleWebhook(ctx, payload, signatureHeader any) *mock.Call {
	return e.mock.On("HandleWebhook", ctx, payload, signatureHeader)
}

type MockRefundSvc struct {
	mock.Mock
}

func NewMockRefundSvc(t *testing.T) *MockRefundSvc {
	m := &MockRefundSvc{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRefundSvc) EXPECT() *MockRefundSvcExpecter {
	return &MockRefundSvcExpecter{mock: &m.Mock}
}

func (m *MockRefundSvc) Refund(ctx context.Context, eventID, paymentID, tokenHash string) (*domain.Payment, error) {
	args := m.Called(ctx, eventID, paymentID, tokenHash)
	var p *domain.Payment
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Payment)
	}
	return p, args.Error(1)
}

func (m *MockRefundSvc) RefundAll(ctx context.Context, eventID, tokenHash string) (*domain.BulkRefundResult, error) {
	args := m.Called(ctx, eventID, tokenHash)
	var res *domain.BulkRefundResult
	if args.Get(0) != nil {
		res = args.Get(0).(*domain.BulkRefundResult)
	}
	return res, args.Error(1)
}

type MockRefundSvcExpecter struct {
	mock *mock.Mock
}

func (e *MockRefundSvcExpecter) Refund(ctx, eventID, paymentID, tokenHash any) *mock.Call {
	return e.mock.On("Refund", ctx, eventID, paymentID, tokenHash)
}

func (e *MockRefundSvcExpecter) RefundAll(ctx, eventID, tokenHash any) *mock.Call {
	return e.mock.On("RefundAll", ctx, eventID, tokenHash)
}
