package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
)

// AuthServiceImpl implements domain.AuthService, composing the hasher,
// token issuer, session manager, OTP and password-reset services into the
// user-facing flows.
type AuthServiceImpl struct {
	userRepo   domain.UserRepository
	sessionSvc domain.SessionService
	passwords  domain.PasswordHasher
	tokenSvc   domain.TokenService
	otpSvc     domain.OTPService
	resetSvc   domain.PasswordResetService
	clock      domain.Clock
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionSvc domain.SessionService,
	passwords domain.PasswordHasher,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	resetSvc domain.PasswordResetService,
	clock domain.Clock,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		sessionSvc: sessionSvc,
		passwords:  passwords,
		tokenSvc:   tokenSvc,
		otpSvc:     otpSvc,
		resetSvc:   resetSvc,
		clock:      clock,
	}
}

// Register implements domain.AuthService. A new account is logged in
// immediately, same as a successful password login.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, phone, password, role, ip string) (*domain.AuthResult, error) {
	hashed, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: hashed,
		Role:         role,
		AuditFields:  domain.NewAuditFields(username, now),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.authenticate(ctx, user, ip)
}

// Login implements domain.AuthService. For 2FA-enabled accounts a passcode
// challenge is initiated instead of a session; token issuance is deferred
// until TwoFactorLogin succeeds.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password, ip string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if _, err := s.otpSvc.Initiate(ctx, user, ip); err != nil {
			return nil, err
		}
		return nil, domain.ErrTwoFactorRequired
	}

	return s.authenticate(ctx, user, ip)
}

// TwoFactorLogin implements domain.AuthService
func (s *AuthServiceImpl) TwoFactorLogin(ctx context.Context, username, code, ip string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	otp, err := s.otpSvc.Redeem(ctx, user.ID, code)
	if err != nil {
		return nil, err
	}

	if err := s.otpSvc.MarkUsed(ctx, otp, user.Username); err != nil {
		return nil, err
	}

	return s.authenticate(ctx, user, ip)
}

// Refresh implements domain.AuthService. Expiry and revocation are checked
// explicitly on the looked-up session; both are terminal. The refresh token
// is rotated on every successful use.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	session, err := s.sessionSvc.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if session.IsRevoked {
		return nil, domain.ErrSessionRevoked
	}
	if session.Expired(s.clock.Now()) {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	rotated, err := s.sessionSvc.Rotate(ctx, session)
	if err != nil {
		return nil, err
	}

	return s.buildResult(user, rotated)
}

// Revoke implements domain.AuthService. Subsequent refresh attempts with
// the same token fail even before the session expires.
func (s *AuthServiceImpl) Revoke(ctx context.Context, refreshToken string) error {
	session, err := s.sessionSvc.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	revokedBy := domain.SystemActor
	if user, err := s.userRepo.FindByID(ctx, session.UserID); err == nil {
		revokedBy = user.Username
	}

	return s.sessionSvc.Revoke(ctx, session, revokedBy)
}

// ChangePassword implements domain.AuthService. The hasher generates a
// fresh salt on every call, so the salt is never reused across changes.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hashed, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hashed
	user.AuditFields = user.AuditFields.Touch(user.Username, s.clock.Now())

	return s.userRepo.Update(ctx, user)
}

// RequestPasswordReset implements domain.AuthService. An unknown email is
// swallowed: the caller observes the same outcome either way, so the
// endpoint cannot be used as an account-existence oracle.
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}

	return s.resetSvc.Initiate(ctx, user)
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	reset, err := s.resetSvc.Redeem(ctx, token)
	if err != nil {
		return err
	}

	if err := s.resetSvc.MarkUsed(ctx, reset, domain.SystemActor); err != nil {
		return err
	}

	return s.ChangePassword(ctx, reset.UserID, newPassword)
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// authenticate mints a session and the token pair for a verified user.
func (s *AuthServiceImpl) authenticate(ctx context.Context, user *domain.User, ip string) (*domain.AuthResult, error) {
	session, err := s.sessionSvc.Create(ctx, user, ip)
	if err != nil {
		return nil, err
	}
	return s.buildResult(user, session)
}

func (s *AuthServiceImpl) buildResult(user *domain.User, session *domain.Session) (*domain.AuthResult, error) {
	accessToken, accessExpiresIn, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domain.AuthResult{
		User:                  user,
		TokenType:             domain.TokenTypeBearer,
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  accessExpiresIn,
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresIn: int64(session.ExpiresAt.Sub(s.clock.Now()).Seconds()),
	}, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*AuthServiceImpl)(nil)
