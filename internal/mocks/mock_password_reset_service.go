package mocks

import (
	"context"

	"github.com/you/credsvc/domain"
)

// MockPasswordResetService implements domain.PasswordResetService for testing
type MockPasswordResetService struct {
	InitiateFunc func(ctx context.Context, user *domain.User) error
	RedeemFunc   func(ctx context.Context, token string) (*domain.PasswordReset, error)
	MarkUsedFunc func(ctx context.Context, reset *domain.PasswordReset, by string) error
}

// NewMockPasswordResetService creates a new MockPasswordResetService with default behaviors
func NewMockPasswordResetService() *MockPasswordResetService {
	return &MockPasswordResetService{}
}

func (m *MockPasswordResetService) Initiate(ctx context.Context, user *domain.User) error {
	if m.InitiateFunc != nil {
		return m.InitiateFunc(ctx, user)
	}
	return nil
}

func (m *MockPasswordResetService) Redeem(ctx context.Context, token string) (*domain.PasswordReset, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, token)
	}
	return nil, domain.ErrResetNotFound
}

func (m *MockPasswordResetService) MarkUsed(ctx context.Context, reset *domain.PasswordReset, by string) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, reset, by)
	}
	return nil
}

var _ domain.PasswordResetService = (*MockPasswordResetService)(nil)
