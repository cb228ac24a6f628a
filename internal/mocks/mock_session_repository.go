package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc             func(ctx context.Context, session *domain.Session) error
	FindByRefreshTokenFunc func(ctx context.Context, refreshToken string) (*domain.Session, error)
	RotateFunc             func(ctx context.Context, sessionID uuid.UUID, oldToken, newToken string, now time.Time) error
	RevokeFunc             func(ctx context.Context, sessionID uuid.UUID, by string, now time.Time) error
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if m.FindByRefreshTokenFunc != nil {
		return m.FindByRefreshTokenFunc(ctx, refreshToken)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Rotate(ctx context.Context, sessionID uuid.UUID, oldToken, newToken string, now time.Time) error {
	if m.RotateFunc != nil {
		return m.RotateFunc(ctx, sessionID, oldToken, newToken, now)
	}
	return nil
}

func (m *MockSessionRepository) Revoke(ctx context.Context, sessionID uuid.UUID, by string, now time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, sessionID, by, now)
	}
	return nil
}

var _ domain.SessionRepository = (*MockSessionRepository)(nil)
