package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
)

// tokenGenerationRetries bounds the collision-retry loop when minting
// refresh tokens. A collision on 32 random bytes is effectively impossible;
// the retry only guards against it surfacing to callers as an error.
const tokenGenerationRetries = 3

// SessionServiceImpl implements domain.SessionService
type SessionServiceImpl struct {
	sessionRepo domain.SessionRepository
	clock       domain.Clock
	refreshTTL  time.Duration
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo domain.SessionRepository, clock domain.Clock, refreshTTL time.Duration) domain.SessionService {
	return &SessionServiceImpl{
		sessionRepo: sessionRepo,
		clock:       clock,
		refreshTTL:  refreshTTL,
	}
}

// generateRefreshToken mints an opaque random token. Uniqueness is enforced
// by the store; Create retries on conflict.
func generateRefreshToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Create implements domain.SessionService
func (s *SessionServiceImpl) Create(ctx context.Context, user *domain.User, ip string) (*domain.Session, error) {
	now := s.clock.Now()

	var lastErr error
	for i := 0; i < tokenGenerationRetries; i++ {
		token, err := generateRefreshToken()
		if err != nil {
			return nil, err
		}

		session := &domain.Session{
			ID:           uuid.New(),
			UserID:       user.ID,
			RefreshToken: token,
			IPAddress:    ip,
			ExpiresAt:    now.Add(s.refreshTTL),
			AuditFields:  domain.NewAuditFields(user.Username, now),
		}

		err = s.sessionRepo.Create(ctx, session)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed to create session after retries: %w", lastErr)
}

// GetByRefreshToken implements domain.SessionService. No validity filtering
// here: callers check expiry and revocation explicitly, which keeps the
// contract auditable.
func (s *SessionServiceImpl) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	return s.sessionRepo.FindByRefreshToken(ctx, refreshToken)
}

// Rotate implements domain.SessionService. A successful refresh re-keys the
// session with a fresh opaque token, narrowing the replay window of the old
// one.
func (s *SessionServiceImpl) Rotate(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	now := s.clock.Now()

	newToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Rotate(ctx, session.ID, session.RefreshToken, newToken, now); err != nil {
		return nil, err
	}

	rotated := *session
	rotated.RefreshToken = newToken
	rotated.AuditFields = rotated.AuditFields.Touch(domain.SystemActor, now)
	return &rotated, nil
}

// Revoke implements domain.SessionService. Idempotent.
func (s *SessionServiceImpl) Revoke(ctx context.Context, session *domain.Session, by string) error {
	return s.sessionRepo.Revoke(ctx, session.ID, by, s.clock.Now())
}

// Compile-time interface compliance verification
var _ domain.SessionService = (*SessionServiceImpl)(nil)
