package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/you/credsvc/domain"
)

// OTPThrottleImpl implements domain.OTPThrottle using Redis. Resend windows
// and attempt counters ride on Redis TTLs; the passcodes themselves live in
// the database.
type OTPThrottleImpl struct {
	client       *redis.Client
	resendWindow time.Duration
	attemptTTL   time.Duration
}

// NewOTPThrottle creates a new Redis-based OTP throttle
func NewOTPThrottle(client *redis.Client, resendWindow, attemptTTL time.Duration) domain.OTPThrottle {
	return &OTPThrottleImpl{
		client:       client,
		resendWindow: resendWindow,
		attemptTTL:   attemptTTL,
	}
}

func (t *OTPThrottleImpl) resendKey(userID uuid.UUID) string {
	return fmt.Sprintf("otp:res:%s", userID)
}

func (t *OTPThrottleImpl) attemptsKey(userID uuid.UUID) string {
	return fmt.Sprintf("otp:att:%s", userID)
}

// AllowSend implements domain.OTPThrottle
func (t *OTPThrottleImpl) AllowSend(ctx context.Context, userID uuid.UUID) (bool, int64, error) {
	ttl, err := t.client.TTL(ctx, t.resendKey(userID)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	// TTL <= 0 means the key is absent or expired
	if ttl <= 0 {
		return true, 0, nil
	}
	return false, int64(ttl.Seconds()), nil
}

// MarkSent implements domain.OTPThrottle
func (t *OTPThrottleImpl) MarkSent(ctx context.Context, userID uuid.UUID) error {
	if err := t.client.Set(ctx, t.resendKey(userID), 1, t.resendWindow).Err(); err != nil {
		return fmt.Errorf("failed to set resend throttle: %w", err)
	}
	return nil
}

// CountAttempt implements domain.OTPThrottle
func (t *OTPThrottleImpl) CountAttempt(ctx context.Context, userID uuid.UUID) (int64, error) {
	key := t.attemptsKey(userID)
	attempts, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment attempts: %w", err)
	}
	if attempts == 1 {
		t.client.Expire(ctx, key, t.attemptTTL)
	}
	return attempts, nil
}

// ResetAttempts implements domain.OTPThrottle
func (t *OTPThrottleImpl) ResetAttempts(ctx context.Context, userID uuid.UUID) error {
	return t.client.Del(ctx, t.attemptsKey(userID)).Err()
}

// Compile-time interface compliance verification
var _ domain.OTPThrottle = (*OTPThrottleImpl)(nil)
