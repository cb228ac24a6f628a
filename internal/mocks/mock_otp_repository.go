package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
)

// MockOTPRepository implements domain.OneTimePasscodeRepository for testing
type MockOTPRepository struct {
	CreateFunc            func(ctx context.Context, otp *domain.OneTimePasscode) error
	FindByUserAndCodeFunc func(ctx context.Context, userID uuid.UUID, code string) (*domain.OneTimePasscode, error)
	MarkUsedFunc          func(ctx context.Context, id uuid.UUID, by string, now time.Time) error
}

// NewMockOTPRepository creates a new MockOTPRepository with default behaviors
func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{}
}

func (m *MockOTPRepository) Create(ctx context.Context, otp *domain.OneTimePasscode) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, otp)
	}
	return nil
}

func (m *MockOTPRepository) FindByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*domain.OneTimePasscode, error) {
	if m.FindByUserAndCodeFunc != nil {
		return m.FindByUserAndCodeFunc(ctx, userID, code)
	}
	return nil, domain.ErrOTPNotFound
}

func (m *MockOTPRepository) MarkUsed(ctx context.Context, id uuid.UUID, by string, now time.Time) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, id, by, now)
	}
	return nil
}

var _ domain.OneTimePasscodeRepository = (*MockOTPRepository)(nil)
