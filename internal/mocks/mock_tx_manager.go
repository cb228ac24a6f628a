package mocks

import (
	"context"

	"github.com/you/credsvc/domain"
)

// MockTxManager implements domain.TxManager for testing. The default
// behavior runs the function with the caller's context, so repository
// mocks observe the same calls they would inside a transaction.
type MockTxManager struct {
	WithinTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
	Calls        int
}

// NewMockTxManager creates a new MockTxManager with default behaviors
func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.WithinTxFunc != nil {
		return m.WithinTxFunc(ctx, fn)
	}
	return fn(ctx)
}

var _ domain.TxManager = (*MockTxManager)(nil)
