// Package mocks holds the testify mock for the scheduler's reaper
// dependency.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

type MockPledgeReaper struct {
	mock.Mock
}

func NewMockPledgeReaper(t *testing.T) *MockPledgeReaper {
	m := &MockPledgeReaper{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPledgeReaper) EXPECT() *MockPledgeReaperExpecter {
	return &MockPledgeReaperExpecter{mock: &m.Mock}
}

func (m *MockPledgeReaper) CleanupPledges(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPledgeReaperExpecter struct {
	mock *mock.Mock
}

func (e *MockPledgeReaperExpecter) CleanupPledges(ctx any) *mock.Call {
	return e.mock.On("CleanupPledges", ctx)
}
