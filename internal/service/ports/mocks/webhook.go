package mocks

import (
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/CamMacB17/spotpay/internal/service/ports"
)

type MockWebhookVerifier struct {
	mock.Mock
}

func NewMockWebhookVerifier(t *testing.T) *MockWebhookVerifier {
	m := &MockWebhookVerifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockWebhookVerifier) EXPECT() *MockWebhookVerifierExpecter {
	return &MockWebhookVerifierExpecter{mock: &m.Mock}
}

func (m *MockWebhookVerifier) Verify(payload []byte, signatureHeader string) (*ports.WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	var ev *ports.WebhookEvent
	if args.Get(0) != nil {
		ev = args.Get(0).(*ports.WebhookEvent)
	}
	return ev, args.Error(1)
}

type MockWebhookVerifierExpecter struct {
	mock *mock.Mock
}

func (e *MockWebhookVerifierExpecter) Verify(payload, signatureHeader any) *mock.Call {
	return e.mock.On("Verify", payload, signatureHeader)
}
