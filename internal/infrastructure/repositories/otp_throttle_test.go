package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestThrottle(t *testing.T) (*OTPThrottleImpl, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	throttle := NewOTPThrottle(client, 60*time.Second, 5*time.Minute).(*OTPThrottleImpl)
	return throttle, mr
}

func TestOTPThrottle_AllowSend(t *testing.T) {
	throttle, mr := newTestThrottle(t)
	ctx := context.Background()
	userID := uuid.New()

	// First send is always allowed.
	allowed, wait, err := throttle.AllowSend(ctx, userID)
	if err != nil {
		t.Fatalf("AllowSend() error = %v", err)
	}
	if !allowed || wait != 0 {
		t.Errorf("AllowSend() = (%v, %d), want (true, 0)", allowed, wait)
	}

	if err := throttle.MarkSent(ctx, userID); err != nil {
		t.Fatalf("MarkSent() error = %v", err)
	}

	// Inside the resend window the send is rejected with the remaining wait.
	allowed, wait, err = throttle.AllowSend(ctx, userID)
	if err != nil {
		t.Fatalf("AllowSend() error = %v", err)
	}
	if allowed {
		t.Error("AllowSend() = true inside resend window")
	}
	if wait <= 0 || wait > 60 {
		t.Errorf("wait = %d, want within (0, 60]", wait)
	}

	// After the window elapses the send is allowed again.
	mr.FastForward(61 * time.Second)
	allowed, _, err = throttle.AllowSend(ctx, userID)
	if err != nil {
		t.Fatalf("AllowSend() error = %v", err)
	}
	if !allowed {
		t.Error("AllowSend() = false after resend window elapsed")
	}
}

func TestOTPThrottle_AllowSendPerUser(t *testing.T) {
	throttle, _ := newTestThrottle(t)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()

	if err := throttle.MarkSent(ctx, first); err != nil {
		t.Fatalf("MarkSent() error = %v", err)
	}

	allowed, _, err := throttle.AllowSend(ctx, second)
	if err != nil {
		t.Fatalf("AllowSend() error = %v", err)
	}
	if !allowed {
		t.Error("throttle for one user must not affect another")
	}
}

func TestOTPThrottle_CountAttempt(t *testing.T) {
	throttle, mr := newTestThrottle(t)
	ctx := context.Background()
	userID := uuid.New()

	for want := int64(1); want <= 3; want++ {
		got, err := throttle.CountAttempt(ctx, userID)
		if err != nil {
			t.Fatalf("CountAttempt() error = %v", err)
		}
		if got != want {
			t.Errorf("CountAttempt() = %d, want %d", got, want)
		}
	}

	// The counter expires on its own TTL.
	mr.FastForward(6 * time.Minute)
	got, err := throttle.CountAttempt(ctx, userID)
	if err != nil {
		t.Fatalf("CountAttempt() error = %v", err)
	}
	if got != 1 {
		t.Errorf("CountAttempt() after TTL = %d, want 1", got)
	}
}

func TestOTPThrottle_ResetAttempts(t *testing.T) {
	throttle, _ := newTestThrottle(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 4; i++ {
		if _, err := throttle.CountAttempt(ctx, userID); err != nil {
			t.Fatalf("CountAttempt() error = %v", err)
		}
	}

	if err := throttle.ResetAttempts(ctx, userID); err != nil {
		t.Fatalf("ResetAttempts() error = %v", err)
	}

	got, err := throttle.CountAttempt(ctx, userID)
	if err != nil {
		t.Fatalf("CountAttempt() error = %v", err)
	}
	if got != 1 {
		t.Errorf("CountAttempt() after reset = %d, want 1", got)
	}
}
