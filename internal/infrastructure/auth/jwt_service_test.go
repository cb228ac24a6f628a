package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
	"github.com/you/credsvc/internal/mocks"
)

const testSecret = "test-secret-key-for-jwt-signing"

func newTestJWTService(clock domain.Clock) domain.TokenService {
	return NewJWTService(testSecret, "credsvc", "credsvc-clients", 15*time.Minute, clock)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	clock := mocks.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestJWTService(clock)
	userID := uuid.New()

	token, expiresIn, err := svc.GenerateAccessToken(userID, "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if expiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("expiresIn = %d, want %d", expiresIn, int64((15*time.Minute).Seconds()))
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %s, want admin", claims.Role)
	}
	if claims.ExpiresAt-claims.IssuedAt != int64((15 * time.Minute).Seconds()) {
		t.Errorf("claims lifetime = %d seconds, want %d", claims.ExpiresAt-claims.IssuedAt, int64((15*time.Minute).Seconds()))
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	clock := mocks.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestJWTService(clock)

	token, _, err := svc.GenerateAccessToken(uuid.New(), "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	// Still valid one minute before expiry.
	clock.Advance(14 * time.Minute)
	if _, err := svc.ValidateAccessToken(token); err != nil {
		t.Fatalf("token should still be valid at T+14m, got %v", err)
	}

	// Rejected past expiry.
	clock.Advance(2 * time.Minute)
	_, err = svc.ValidateAccessToken(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired at T+16m, got %v", err)
	}
}

func TestJWTService_InvalidTokens(t *testing.T) {
	clock := mocks.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestJWTService(clock)

	goodToken, _, err := svc.GenerateAccessToken(uuid.New(), "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	otherSvc := NewJWTService("a-different-secret", "credsvc", "credsvc-clients", 15*time.Minute, clock)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"garbage", "not.a.token", domain.ErrTokenMalformed},
		{"empty", "", domain.ErrTokenMalformed},
		{"tampered signature", goodToken + "x", domain.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateAccessToken(tt.token); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAccessToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("wrong signing key", func(t *testing.T) {
		if _, err := otherSvc.ValidateAccessToken(goodToken); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("expected ErrTokenInvalid for foreign key, got %v", err)
		}
	})
}
