package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
)

// OTPServiceImpl implements domain.OTPService. Passcodes are persisted
// rows; Redis only backs the resend throttle and attempt counters.
type OTPServiceImpl struct {
	otpRepo         domain.OneTimePasscodeRepository
	throttle        domain.OTPThrottle
	notificationSvc domain.NotificationService
	clock           domain.Clock
	config          OTPConfig
}

type OTPConfig struct {
	Length      int
	TTL         time.Duration
	MaxAttempts int
}

// NewOTPService creates a new OTP service
func NewOTPService(
	otpRepo domain.OneTimePasscodeRepository,
	throttle domain.OTPThrottle,
	notificationSvc domain.NotificationService,
	clock domain.Clock,
	config OTPConfig,
) domain.OTPService {
	return &OTPServiceImpl{
		otpRepo:         otpRepo,
		throttle:        throttle,
		notificationSvc: notificationSvc,
		clock:           clock,
		config:          config,
	}
}

// Initiate implements domain.OTPService. Issuing a new code does not
// invalidate outstanding ones; each expires independently. The resend
// window bounds issuance rate per user.
func (s *OTPServiceImpl) Initiate(ctx context.Context, user *domain.User, ip string) (*domain.OneTimePasscode, error) {
	canSend, waitSeconds, err := s.throttle.AllowSend(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !canSend {
		return nil, fmt.Errorf("%w: wait %d seconds", domain.ErrOTPResendLimit, waitSeconds)
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	now := s.clock.Now()
	otp := &domain.OneTimePasscode{
		ID:          uuid.New(),
		UserID:      user.ID,
		Code:        code,
		IPAddress:   ip,
		ExpiresAt:   now.Add(s.config.TTL),
		AuditFields: domain.NewAuditFields(user.Username, now),
	}

	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.throttle.MarkSent(ctx, user.ID); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.notificationSvc.SendSMS(user.Phone, message); err != nil {
		return nil, fmt.Errorf("failed to send OTP SMS: %w", err)
	}

	return otp, nil
}

// Redeem implements domain.OTPService. On success the passcode is returned
// still unused; the orchestrator marks it used so redemption composes with
// session creation at the storage layer.
func (s *OTPServiceImpl) Redeem(ctx context.Context, userID uuid.UUID, code string) (*domain.OneTimePasscode, error) {
	attempts, err := s.throttle.CountAttempt(ctx, userID)
	if err != nil {
		return nil, err
	}
	if attempts > int64(s.config.MaxAttempts) {
		return nil, domain.ErrOTPMaxAttempts
	}

	otp, err := s.otpRepo.FindByUserAndCode(ctx, userID, code)
	if err != nil {
		return nil, err
	}

	if otp.IsUsed {
		return nil, domain.ErrOTPAlreadyUsed
	}
	if otp.Expired(s.clock.Now()) {
		return nil, domain.ErrOTPExpired
	}

	if err := s.throttle.ResetAttempts(ctx, userID); err != nil {
		return nil, err
	}

	return otp, nil
}

// MarkUsed implements domain.OTPService. The conditional update in the
// repository rejects a second redemption that raced this one.
func (s *OTPServiceImpl) MarkUsed(ctx context.Context, otp *domain.OneTimePasscode, by string) error {
	return s.otpRepo.MarkUsed(ctx, otp.ID, by, s.clock.Now())
}

// generateSecureCode generates a cryptographically secure numeric code
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*OTPServiceImpl)(nil)
