package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
)

// MockOTPThrottle implements domain.OTPThrottle for testing. Defaults allow
// every send and count a single attempt.
type MockOTPThrottle struct {
	AllowSendFunc     func(ctx context.Context, userID uuid.UUID) (bool, int64, error)
	MarkSentFunc      func(ctx context.Context, userID uuid.UUID) error
	CountAttemptFunc  func(ctx context.Context, userID uuid.UUID) (int64, error)
	ResetAttemptsFunc func(ctx context.Context, userID uuid.UUID) error
}

// NewMockOTPThrottle creates a new MockOTPThrottle with default behaviors
func NewMockOTPThrottle() *MockOTPThrottle {
	return &MockOTPThrottle{}
}

func (m *MockOTPThrottle) AllowSend(ctx context.Context, userID uuid.UUID) (bool, int64, error) {
	if m.AllowSendFunc != nil {
		return m.AllowSendFunc(ctx, userID)
	}
	return true, 0, nil
}

func (m *MockOTPThrottle) MarkSent(ctx context.Context, userID uuid.UUID) error {
	if m.MarkSentFunc != nil {
		return m.MarkSentFunc(ctx, userID)
	}
	return nil
}

func (m *MockOTPThrottle) CountAttempt(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.CountAttemptFunc != nil {
		return m.CountAttemptFunc(ctx, userID)
	}
	return 1, nil
}

func (m *MockOTPThrottle) ResetAttempts(ctx context.Context, userID uuid.UUID) error {
	if m.ResetAttemptsFunc != nil {
		return m.ResetAttemptsFunc(ctx, userID)
	}
	return nil
}

var _ domain.OTPThrottle = (*MockOTPThrottle)(nil)
