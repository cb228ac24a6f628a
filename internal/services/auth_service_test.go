package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
	"github.com/you/credsvc/internal/mocks"
)

type authServiceMocks struct {
	userRepo   *mocks.MockUserRepository
	sessionSvc *mocks.MockSessionService
	passwords  *mocks.MockPasswordService
	tokenSvc   *mocks.MockTokenService
	otpSvc     *mocks.MockOTPService
	resetSvc   *mocks.MockPasswordResetService
	clock      *mocks.FixedClock
}

func newAuthServiceMocks() *authServiceMocks {
	return &authServiceMocks{
		userRepo:   mocks.NewMockUserRepository(),
		sessionSvc: mocks.NewMockSessionService(),
		passwords:  mocks.NewMockPasswordService(),
		tokenSvc:   mocks.NewMockTokenService(),
		otpSvc:     mocks.NewMockOTPService(),
		resetSvc:   mocks.NewMockPasswordResetService(),
		clock:      mocks.NewFixedClock(testTime),
	}
}

func (m *authServiceMocks) build() domain.AuthService {
	return NewAuthService(m.userRepo, m.sessionSvc, m.passwords, m.tokenSvc, m.otpSvc, m.resetSvc, m.clock)
}

// knownUser wires FindByUsername and FindByID to return the given user.
func (m *authServiceMocks) knownUser(user *domain.User) {
	m.userRepo.FindByUsernameFunc = func(ctx context.Context, username string) (*domain.User, error) {
		if username == user.Username {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}
	m.userRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		if id == user.ID {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}
}

func TestAuthService_Login(t *testing.T) {
	m := newAuthServiceMocks()
	user := testUser()
	user.PasswordHash = "hashed_correct-password"
	m.knownUser(user)

	m.sessionSvc.CreateFunc = func(ctx context.Context, u *domain.User, ip string) (*domain.Session, error) {
		return &domain.Session{
			ID:           uuid.New(),
			UserID:       u.ID,
			RefreshToken: "fresh-refresh-token",
			IPAddress:    ip,
			ExpiresAt:    testTime.Add(10 * time.Minute),
		}, nil
	}

	svc := m.build()
	result, err := svc.Login(context.Background(), "alice", "correct-password", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.TokenType != domain.TokenTypeBearer {
		t.Errorf("TokenType = %s, want %s", result.TokenType, domain.TokenTypeBearer)
	}
	if result.AccessToken == "" {
		t.Error("expected access token")
	}
	if result.AccessTokenExpiresIn != 900 {
		t.Errorf("AccessTokenExpiresIn = %d, want 900", result.AccessTokenExpiresIn)
	}
	if result.RefreshToken != "fresh-refresh-token" {
		t.Errorf("RefreshToken = %s, want fresh-refresh-token", result.RefreshToken)
	}
	if result.RefreshTokenExpiresIn != 600 {
		t.Errorf("RefreshTokenExpiresIn = %d, want 600", result.RefreshTokenExpiresIn)
	}
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", "whatever"},
		{"wrong password", "alice", "wrong-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAuthServiceMocks()
			user := testUser()
			user.PasswordHash = "hashed_correct-password"
			m.knownUser(user)

			sessionCreated := false
			m.sessionSvc.CreateFunc = func(ctx context.Context, u *domain.User, ip string) (*domain.Session, error) {
				sessionCreated = true
				return &domain.Session{}, nil
			}

			svc := m.build()
			_, err := svc.Login(context.Background(), tt.username, tt.password, "10.0.0.1")
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
			}
			if sessionCreated {
				t.Error("no session may be created on failed login")
			}
		})
	}
}

func TestAuthService_LoginTwoFactorChallenge(t *testing.T) {
	m := newAuthServiceMocks()
	user := testUser()
	user.PasswordHash = "hashed_correct-password"
	user.TwoFactorEnabled = true
	m.knownUser(user)

	initiated := false
	m.otpSvc.InitiateFunc = func(ctx context.Context, u *domain.User, ip string) (*domain.OneTimePasscode, error) {
		initiated = true
		return &domain.OneTimePasscode{ID: uuid.New(), UserID: u.ID}, nil
	}

	sessionCreated := false
	m.sessionSvc.CreateFunc = func(ctx context.Context, u *domain.User, ip string) (*domain.Session, error) {
		sessionCreated = true
		return &domain.Session{}, nil
	}

	svc := m.build()
	_, err := svc.Login(context.Background(), "alice", "correct-password", "10.0.0.1")
	if !errors.Is(err, domain.ErrTwoFactorRequired) {
		t.Fatalf("Login() error = %v, want ErrTwoFactorRequired", err)
	}
	if !initiated {
		t.Error("expected a passcode challenge to be initiated")
	}
	if sessionCreated {
		t.Error("no session may be created before the passcode is verified")
	}
}

func TestAuthService_TwoFactorLogin(t *testing.T) {
	m := newAuthServiceMocks()
	user := testUser()
	m.knownUser(user)

	otp := &domain.OneTimePasscode{ID: uuid.New(), UserID: user.ID, Code: "123456"}
	m.otpSvc.RedeemFunc = func(ctx context.Context, userID uuid.UUID, code string) (*domain.OneTimePasscode, error) {
		if code != "123456" {
			return nil, domain.ErrOTPNotFound
		}
		return otp, nil
	}

	var markedBy string
	m.otpSvc.MarkUsedFunc = func(ctx context.Context, o *domain.OneTimePasscode, by string) error {
		markedBy = by
		return nil
	}

	svc := m.build()
	result, err := svc.TwoFactorLogin(context.Background(), "alice", "123456", "10.0.0.1")
	if err != nil {
		t.Fatalf("TwoFactorLogin() error = %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("expected full token pair after 2FA")
	}
	if markedBy != user.Username {
		t.Errorf("passcode marked used by %s, want %s", markedBy, user.Username)
	}
}

func TestAuthService_TwoFactorLoginSingleUse(t *testing.T) {
	m := newAuthServiceMocks()
	user := testUser()
	m.knownUser(user)

	m.otpSvc.RedeemFunc = func(ctx context.Context, userID uuid.UUID, code string) (*domain.OneTimePasscode, error) {
		return nil, domain.ErrOTPAlreadyUsed
	}

	sessionCreated := false
	m.sessionSvc.CreateFunc = func(ctx context.Context, u *domain.User, ip string) (*domain.Session, error) {
		sessionCreated = true
		return &domain.Session{}, nil
	}

	svc := m.build()
	_, err := svc.TwoFactorLogin(context.Background(), "alice", "123456", "10.0.0.1")
	if !errors.Is(err, domain.ErrOTPAlreadyUsed) {
		t.Fatalf("expected ErrOTPAlreadyUsed, got %v", err)
	}
	if sessionCreated {
		t.Error("a used passcode must not authenticate")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	user := testUser()
	session := &domain.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: "current-token",
		ExpiresAt:    testTime.Add(10 * time.Minute),
	}

	tests := []struct {
		name    string
		advance time.Duration
		revoked bool
		wantErr error
	}{
		{"inside lifetime", 9 * time.Minute, false, nil},
		{"past lifetime", 11 * time.Minute, false, domain.ErrSessionExpired},
		{"revoked before expiry", time.Minute, true, domain.ErrSessionRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAuthServiceMocks()
			m.knownUser(user)
			m.clock.Advance(tt.advance)

			current := *session
			current.IsRevoked = tt.revoked
			m.sessionSvc.GetByRefreshTokenFunc = func(ctx context.Context, refreshToken string) (*domain.Session, error) {
				if refreshToken != "current-token" {
					return nil, domain.ErrSessionNotFound
				}
				return &current, nil
			}

			rotated := false
			m.sessionSvc.RotateFunc = func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
				rotated = true
				next := *s
				next.RefreshToken = "next-token"
				return &next, nil
			}

			svc := m.build()
			result, err := svc.Refresh(context.Background(), "current-token")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Refresh() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if rotated {
					t.Error("a rejected refresh must not rotate the token")
				}
				return
			}
			if !rotated {
				t.Error("a successful refresh must rotate the token")
			}
			if result.RefreshToken != "next-token" {
				t.Errorf("RefreshToken = %s, want next-token", result.RefreshToken)
			}
		})
	}
}

func TestAuthService_RevokeThenRefresh(t *testing.T) {
	m := newAuthServiceMocks()
	user := testUser()
	m.knownUser(user)

	session := &domain.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: "the-token",
		ExpiresAt:    testTime.Add(10 * time.Minute),
	}

	m.sessionSvc.GetByRefreshTokenFunc = func(ctx context.Context, refreshToken string) (*domain.Session, error) {
		return session, nil
	}

	var revokedBy string
	m.sessionSvc.RevokeFunc = func(ctx context.Context, s *domain.Session, by string) error {
		revokedBy = by
		revoked := s.Revoke(by, testTime)
		session = &revoked
		return nil
	}

	svc := m.build()
	if err := svc.Revoke(context.Background(), "the-token"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if revokedBy != user.Username {
		t.Errorf("revoked by %s, want %s", revokedBy, user.Username)
	}

	// The same token must now be rejected even though the session has not expired.
	_, err := svc.Refresh(context.Background(), "the-token")
	if !errors.Is(err, domain.ErrSessionRevoked) {
		t.Errorf("Refresh() after revoke error = %v, want ErrSessionRevoked", err)
	}
}

func TestAuthService_Register(t *testing.T) {
	m := newAuthServiceMocks()

	var created *domain.User
	m.userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
		created = user
		return nil
	}

	svc := m.build()
	result, err := svc.Register(context.Background(), "bob", "bob@example.com", "+15550002222", "secret123", "user", "10.0.0.2")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if created == nil {
		t.Fatal("expected user to be created")
	}
	if created.Phone != "+15550002222" {
		t.Errorf("Phone = %s, want +15550002222", created.Phone)
	}
	if created.PasswordHash != "hashed_secret123" {
		t.Errorf("PasswordHash = %s, want hashed_secret123", created.PasswordHash)
	}
	if created.PasswordHash == "secret123" {
		t.Error("plaintext password must never be stored")
	}
	if created.CreatedBy != "bob" {
		t.Errorf("CreatedBy = %s, want bob", created.CreatedBy)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("registration must log the new account in")
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	m := newAuthServiceMocks()
	m.userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
		return domain.ErrUserAlreadyExists
	}

	svc := m.build()
	_, err := svc.Register(context.Background(), "bob", "bob@example.com", "+15550002222", "secret123", "user", "10.0.0.2")
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	m := newAuthServiceMocks()
	user := testUser()
	user.PasswordHash = "hashed_old-password"
	m.knownUser(user)

	var updated *domain.User
	m.userRepo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
		updated = u
		return nil
	}

	svc := m.build()
	if err := svc.ChangePassword(context.Background(), user.ID, "new-password"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if updated == nil {
		t.Fatal("expected user to be updated")
	}
	if updated.PasswordHash != "hashed_new-password" {
		t.Errorf("PasswordHash = %s, want hashed_new-password", updated.PasswordHash)
	}
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	tests := []struct {
		name         string
		exists       bool
		wantInitiate bool
	}{
		{"known email", true, true},
		{"unknown email", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAuthServiceMocks()
			user := testUser()

			m.userRepo.ExistsByEmailFunc = func(ctx context.Context, email string) (bool, error) {
				return tt.exists, nil
			}
			m.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
				if tt.exists {
					return user, nil
				}
				return nil, domain.ErrUserNotFound
			}

			initiated := false
			m.resetSvc.InitiateFunc = func(ctx context.Context, u *domain.User) error {
				initiated = true
				return nil
			}

			svc := m.build()
			// The outcome is identical for known and unknown emails.
			if err := svc.RequestPasswordReset(context.Background(), "someone@example.com"); err != nil {
				t.Fatalf("RequestPasswordReset() error = %v", err)
			}
			if initiated != tt.wantInitiate {
				t.Errorf("reset initiated = %v, want %v", initiated, tt.wantInitiate)
			}
		})
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	m := newAuthServiceMocks()
	user := testUser()
	m.knownUser(user)

	reset := &domain.PasswordReset{
		ID:     uuid.New(),
		UserID: user.ID,
		Token:  "reset-token",
	}
	m.resetSvc.RedeemFunc = func(ctx context.Context, token string) (*domain.PasswordReset, error) {
		if token != "reset-token" {
			return nil, domain.ErrResetNotFound
		}
		return reset, nil
	}

	var markedBy string
	m.resetSvc.MarkUsedFunc = func(ctx context.Context, r *domain.PasswordReset, by string) error {
		markedBy = by
		return nil
	}

	var updated *domain.User
	m.userRepo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
		updated = u
		return nil
	}

	svc := m.build()
	if err := svc.ResetPassword(context.Background(), "reset-token", "brand-new-password"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if markedBy != domain.SystemActor {
		t.Errorf("reset marked used by %s, want %s", markedBy, domain.SystemActor)
	}
	if updated == nil || updated.PasswordHash != "hashed_brand-new-password" {
		t.Error("expected the password to be rehashed and stored")
	}
}

func TestAuthService_ResetPasswordSingleUse(t *testing.T) {
	m := newAuthServiceMocks()

	m.resetSvc.RedeemFunc = func(ctx context.Context, token string) (*domain.PasswordReset, error) {
		return nil, domain.ErrResetAlreadyUsed
	}

	changed := false
	m.userRepo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
		changed = true
		return nil
	}

	svc := m.build()
	err := svc.ResetPassword(context.Background(), "used-token", "whatever")
	if !errors.Is(err, domain.ErrResetAlreadyUsed) {
		t.Fatalf("expected ErrResetAlreadyUsed, got %v", err)
	}
	if changed {
		t.Error("a used reset token must not change the password")
	}
}
