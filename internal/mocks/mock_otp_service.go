package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
)

// MockOTPService implements domain.OTPService for testing
type MockOTPService struct {
	InitiateFunc func(ctx context.Context, user *domain.User, ip string) (*domain.OneTimePasscode, error)
	RedeemFunc   func(ctx context.Context, userID uuid.UUID, code string) (*domain.OneTimePasscode, error)
	MarkUsedFunc func(ctx context.Context, otp *domain.OneTimePasscode, by string) error
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) Initiate(ctx context.Context, user *domain.User, ip string) (*domain.OneTimePasscode, error) {
	if m.InitiateFunc != nil {
		return m.InitiateFunc(ctx, user, ip)
	}
	return &domain.OneTimePasscode{ID: uuid.New(), UserID: user.ID, Code: "123456", IPAddress: ip}, nil
}

func (m *MockOTPService) Redeem(ctx context.Context, userID uuid.UUID, code string) (*domain.OneTimePasscode, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, userID, code)
	}
	return nil, domain.ErrOTPNotFound
}

func (m *MockOTPService) MarkUsed(ctx context.Context, otp *domain.OneTimePasscode, by string) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, otp, by)
	}
	return nil
}

var _ domain.OTPService = (*MockOTPService)(nil)
