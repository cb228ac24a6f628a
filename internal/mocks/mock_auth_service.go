package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, username, email, phone, password, role, ip string) (*domain.AuthResult, error)
	LoginFunc                func(ctx context.Context, username, password, ip string) (*domain.AuthResult, error)
	TwoFactorLoginFunc       func(ctx context.Context, username, code, ip string) (*domain.AuthResult, error)
	RefreshFunc              func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	RevokeFunc               func(ctx context.Context, refreshToken string) error
	ChangePasswordFunc       func(ctx context.Context, userID uuid.UUID, newPassword string) error
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error
	GetUserProfileFunc       func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func mockAuthResult(user *domain.User) *domain.AuthResult {
	return &domain.AuthResult{
		User:                  user,
		TokenType:             domain.TokenTypeBearer,
		AccessToken:           "mock_access_token",
		AccessTokenExpiresIn:  900,
		RefreshToken:          "mock_refresh_token",
		RefreshTokenExpiresIn: 604800,
	}
}

func (m *MockAuthService) Register(ctx context.Context, username, email, phone, password, role, ip string) (*domain.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, email, phone, password, role, ip)
	}
	return mockAuthResult(&domain.User{ID: uuid.New(), Username: username, Email: email, Phone: phone, Role: role}), nil
}

func (m *MockAuthService) Login(ctx context.Context, username, password, ip string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password, ip)
	}
	return mockAuthResult(&domain.User{ID: uuid.New(), Username: username, Role: "user"}), nil
}

func (m *MockAuthService) TwoFactorLogin(ctx context.Context, username, code, ip string) (*domain.AuthResult, error) {
	if m.TwoFactorLoginFunc != nil {
		return m.TwoFactorLoginFunc(ctx, username, code, ip)
	}
	return mockAuthResult(&domain.User{ID: uuid.New(), Username: username, Role: "user"}), nil
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockAuthService) Revoke(ctx context.Context, refreshToken string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, refreshToken)
	}
	return nil
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, newPassword)
	}
	return nil
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return nil
}

func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

var _ domain.AuthService = (*MockAuthService)(nil)
