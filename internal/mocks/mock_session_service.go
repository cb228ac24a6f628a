package mocks

import (
	"context"

	"github.com/you/credsvc/domain"
)

// MockSessionService implements domain.SessionService for testing
type MockSessionService struct {
	CreateFunc            func(ctx context.Context, user *domain.User, ip string) (*domain.Session, error)
	GetByRefreshTokenFunc func(ctx context.Context, refreshToken string) (*domain.Session, error)
	RotateFunc            func(ctx context.Context, session *domain.Session) (*domain.Session, error)
	RevokeFunc            func(ctx context.Context, session *domain.Session, by string) error
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{}
}

func (m *MockSessionService) Create(ctx context.Context, user *domain.User, ip string) (*domain.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user, ip)
	}
	return &domain.Session{UserID: user.ID, RefreshToken: "mock_refresh_token", IPAddress: ip}, nil
}

func (m *MockSessionService) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if m.GetByRefreshTokenFunc != nil {
		return m.GetByRefreshTokenFunc(ctx, refreshToken)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionService) Rotate(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if m.RotateFunc != nil {
		return m.RotateFunc(ctx, session)
	}
	rotated := *session
	rotated.RefreshToken = "rotated_" + session.RefreshToken
	return &rotated, nil
}

func (m *MockSessionService) Revoke(ctx context.Context, session *domain.Session, by string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, session, by)
	}
	return nil
}

var _ domain.SessionService = (*MockSessionService)(nil)
