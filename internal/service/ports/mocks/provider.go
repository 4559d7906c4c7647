package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/CamMacB17/spotpay/internal/service/ports"
)

type MockPaymentProvider struct {
	mock.Mock
}

func NewMockPaymentProvider(t *testing.T) *MockPaymentProvider {
	m := &MockPaymentProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPaymentProvider) EXPECT() *MockPaymentProviderExpecter {
	return &MockPaymentProviderExpecter{mock: &m.Mock}
}

func (m *MockPaymentProvider) CreateCheckoutSession(ctx context.Context, p ports.CheckoutParams) (*ports.CheckoutSession, error) {
	args := m.Called(ctx, p)
	var sess *ports.CheckoutSession
	if args.Get(0) != nil {
		sess = args.Get(0).(*ports.CheckoutSession)
	}
	return sess, args.Error(1)
}

func (m *MockPaymentProvider) CreateRefund(ctx context.Context, paymentIntentID string) (string, error) {
	args := m.Called(ctx, paymentIntentID)
	return args.String(0), args.Error(1)
}

type MockPaymentProviderExpecter struct {
	mock *mock.Mock
}

func (e *MockPaymentProviderExpecter) CreateCheckoutSession(ctx, params any) *mock.Call {
	return e.mock.On("CreateCheckoutSession", ctx, params)
}

func (e *MockPaymentProviderExpecter) CreateRefund(ctx, paymentIntentID any) *mock.Call {
	return e.mock.On("CreateRefund", ctx, paymentIntentID)
}

type MockMailer struct {
	mock.Mock
}

func NewMockMailer(t *testing.T) *MockMailer {
	m := &MockMailer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockMailer) EXPECT() *MockMailerExpecter {
	return &MockMailerExpecter{mock: &m.Mock}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type MockMailerExpecter struct {
	mock *mock.Mock
}

func (e *MockMailerExpecter) Send(ctx, to, subject, body any) *mock.Call {
	return e.mock.On("Send", ctx, to, subject, body)
}
