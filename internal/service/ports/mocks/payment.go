// Package mocks holds testify mocks for the ports interfaces, exposing the
// expecter style used by the service tests.
package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/CamMacB17/spotpay/internal/domain"
)

type MockPaymentRepo struct {
	mock.Mock
}

func NewMockPaymentRepo(t *testing.T) *MockPaymentRepo {
	m := &MockPaymentRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPaymentRepo) EXPECT() *MockPaymentRepoExpecter {
	return &MockPaymentRepoExpecter{mock: &m.Mock}
}

func (m *MockPaymentRepo) CreatePledge(ctx context.Context, p *domain.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	return payment(args.Get(0)), args.Error(1)
}

func (m *MockPaymentRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	args := m.Called(ctx, sessionID)
	return payment(args.Get(0)), args.Error(1)
}

func (m *MockPaymentRepo) SetCheckoutSession(ctx context.Context, id, sessionID string) error {
	return m.Called(ctx, id, sessionID).Error(0)
}

func (m *MockPaymentRepo) MarkPaid(ctx context.Context, id, paymentIntentID string, amountCaptured int64) (*domain.Payment, error) {
	args := m.Called(ctx, id, paymentIntentID, amountCaptured)
	return payment(args.Get(0)), args.Error(1)
}

func (m *MockPaymentRepo) CancelPledge(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	return payment(args.Get(0)), args.Error(1)
}

func (m *MockPaymentRepo) RefundWithProvider(ctx context.Context, eventID, id string, refund func(paymentIntentID string) (string, error)) (*domain.Payment, error) {
	args := m.Called(ctx, eventID, id, refund)
	return payment(args.Get(0)), args.Error(1)
}

func (m *MockPaymentRepo) FindStalePledges(ctx context.Context, olderThan time.Time) ([]string, error) {
	args := m.Called(ctx, olderThan)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

func (m *MockPaymentRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, eventID)
	var ps []*domain.Payment
	if args.Get(0) != nil {
		ps = args.Get(0).([]*domain.Payment)
	}
	return ps, args.Error(1)
}

func (m *MockPaymentRepo) ClaimReceiptEmail(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepo) ClaimRefundEmail(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepo) ClaimOrganiserNotice(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func payment(v any) *domain.Payment {
	if v == nil {
		return nil
	}
	return v.(*domain.Payment)
}

type MockPaymentRepoExpecter struct {
	mock *mock.Mock
}

func (e *MockPaymentRepoExpecter) CreatePledge(ctx, p any) *mock.Call {
	return e.mock.On("CreatePledge", ctx, p)
}

func (e *MockPaymentRepoExpecter) GetByID(ctx, id any) *mock.Call {
	return e.mock.On("GetByID", ctx, id)
}

func (e *MockPaymentRepoExpecter) GetBySessionID(ctx, sessionID any) *mock.Call {
	return e.mock.On("GetBySessionID", ctx, sessionID)
}

func (e *MockPaymentRepoExpecter) SetCheckoutSession(ctx, id, sessionID any) *mock.Call {
	return e.mock.On("SetCheckoutSession", ctx, id, sessionID)
}

func (e *MockPaymentRepoExpecter) MarkPaid(ctx, id, paymentIntentID, amountCaptured any) *mock.Call {
	return e.mock.On("MarkPaid", ctx, id, paymentIntentID, amountCaptured)
}

func (e *MockPaymentRepoExpecter) CancelPledge(ctx, id any) *mock.Call {
	return e.mock.On("CancelPledge", ctx, id)
}

func (e *MockPaymentRepoExpecter) RefundWithProvider(ctx, eventID, id, refund any) *mock.Call {
	return e.mock.On("RefundWithProvider", ctx, eventID, id, refund)
}

func (e *MockPaymentRepoExpecter) FindStalePledges(ctx, olderThan any) *mock.Call {
	return e.mock.On("FindStalePledges", ctx, olderThan)
}

func (e *MockPaymentRepoExpecter) ListByEvent(ctx, eventID any) *mock.Call {
	return e.mock.On("ListByEvent", ctx, eventID)
}

func (e *MockPaymentRepoExpecter) ClaimReceiptEmail(ctx, id any) *mock.Call {
	return e.mock.On("ClaimReceiptEmail", ctx, id)
}

func (e *MockPaymentRepoExpecter) ClaimRefundEmail(ctx, id any) *mock.Call {
	return e.mock.On("ClaimRefundEmail", ctx, id)
}

func (e *MockPaymentRepoExpecter) ClaimOrganiserNotice(ctx, id any) *mock.Call {
	return e.mock.On("ClaimOrganiserNotice", ctx, id)
}
