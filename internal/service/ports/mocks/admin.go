package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/CamMacB17/spotpay/internal/domain"
)

type MockAdminTokenRepo struct {
	mock.Mock
}

func NewMockAdminTokenRepo(t *testing.T) *MockAdminTokenRepo {
	m := &MockAdminTokenRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAdminTokenRepo) EXPECT() *MockAdminTokenRepoExpecter {
	return &MockAdminTokenRepoExpecter{mock: &m.Mock}
}

func (m *MockAdminTokenRepo) Create(ctx context.Context, t *domain.AdminToken) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockAdminTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*domain.AdminToken, error) {
	args := m.Called(ctx, tokenHash)
	var t *domain.AdminToken
	if args.Get(0) != nil {
		t = args.Get(0).(*domain.AdminToken)
	}
	return t, args.Error(1)
}

func (m *MockAdminTokenRepo) Rotate(ctx context.Context, t *domain.AdminToken) error {
	return m.Called(ctx, t).Error(0)
}

type MockAdminTokenRepoExpecter struct {
	mock *mock.Mock
}

func (e *MockAdminTokenRepoExpecter) Create(ctx, token any) *mock.Call {
	return e.mock.On("Create", ctx, token)
}

func (e *MockAdminTokenRepoExpecter) GetByHash(ctx, tokenHash any) *mock.Call {
	return e.mock.On("GetByHash", ctx, tokenHash)
}

func (e *MockAdminTokenRepoExpecter) Rotate(ctx, token any) *mock.Call {
	return e.mock.On("Rotate", ctx, token)
}

type MockAuditLogRepo struct {
	mock.Mock
}

func NewMockAuditLogRepo(t *testing.T) *MockAuditLogRepo {
	m := &MockAuditLogRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuditLogRepo) EXPECT() *MockAuditLogRepoExpecter {
	return &MockAuditLogRepoExpecter{mock: &m.Mock}
}

func (m *MockAuditLogRepo) Append(ctx context.Context, a *domain.AdminAction) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAuditLogRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.AdminAction, error) {
	args := m.Called(ctx, eventID)
	var actions []*domain.AdminAction
	if args.Get(0) != nil {
		actions = args.Get(0).([]*domain.AdminAction)
	}
	return actions, args.Error(1)
}

type MockAuditLogRepoExpecter struct {
	mock *mock.Mock
}

func (e *MockAuditLogRepoExpecter) Append(ctx, action any) *mock.Call {
	return e.mock.On("Append", ctx, action)
}

func (e *MockAuditLogRepoExpecter) ListByEvent(ctx, eventID any) *mock.Call {
	return e.mock.On("ListByEvent", ctx, eventID)
}

type MockWebhookLedger struct {
	mock.Mock
}

func NewMockWebhookLedger(t *testing.T) *MockWebhookLedger {
	m := &MockWebhookLedger{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockWebhookLedger) EXPECT() *MockWebhookLedgerExpecter {
	return &MockWebhookLedgerExpecter{mock: &m.Mock}
}

func (m *MockWebhookLedger) Insert(ctx context.Context, providerEventID string) error {
	return m.Called(ctx, providerEventID).Error(0)
}

type MockWebhookLedgerExpecter struct {
	mock *mock.Mock
}

func (e *MockWebhookLedgerExpecter) Insert(ctx, providerEventID any) *mock.Call {
	return e.mock.On("Insert", ctx, providerEventID)
}
