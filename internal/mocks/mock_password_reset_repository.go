package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
)

// MockPasswordResetRepository implements domain.PasswordResetRepository for testing
type MockPasswordResetRepository struct {
	CreateFunc      func(ctx context.Context, reset *domain.PasswordReset) error
	FindByTokenFunc func(ctx context.Context, token string) (*domain.PasswordReset, error)
	MarkUsedFunc    func(ctx context.Context, id uuid.UUID, by string, now time.Time) error
}

// NewMockPasswordResetRepository creates a new MockPasswordResetRepository with default behaviors
func NewMockPasswordResetRepository() *MockPasswordResetRepository {
	return &MockPasswordResetRepository{}
}

func (m *MockPasswordResetRepository) Create(ctx context.Context, reset *domain.PasswordReset) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, reset)
	}
	return nil
}

func (m *MockPasswordResetRepository) FindByToken(ctx context.Context, token string) (*domain.PasswordReset, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token)
	}
	return nil, domain.ErrResetNotFound
}

func (m *MockPasswordResetRepository) MarkUsed(ctx context.Context, id uuid.UUID, by string, now time.Time) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, id, by, now)
	}
	return nil
}

var _ domain.PasswordResetRepository = (*MockPasswordResetRepository)(nil)
