package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
)

// PasswordResetServiceImpl implements domain.PasswordResetService. Issuing
// a reset writes the reset record and the outbox notification in one
// transaction: neither exists without the other.
type PasswordResetServiceImpl struct {
	resetRepo  domain.PasswordResetRepository
	outboxRepo domain.OutboxRepository
	txManager  domain.TxManager
	clock      domain.Clock
	config     PasswordResetConfig
}

type PasswordResetConfig struct {
	TTL      time.Duration
	ResetURL string
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(
	resetRepo domain.PasswordResetRepository,
	outboxRepo domain.OutboxRepository,
	txManager domain.TxManager,
	clock domain.Clock,
	config PasswordResetConfig,
) domain.PasswordResetService {
	return &PasswordResetServiceImpl{
		resetRepo:  resetRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		clock:      clock,
		config:     config,
	}
}

// Initiate implements domain.PasswordResetService
func (s *PasswordResetServiceImpl) Initiate(ctx context.Context, user *domain.User) error {
	now := s.clock.Now()

	reset := &domain.PasswordReset{
		ID:          uuid.New(),
		UserID:      user.ID,
		Token:       strings.ReplaceAll(uuid.New().String(), "-", ""),
		ExpiresAt:   now.Add(s.config.TTL),
		AuditFields: domain.NewAuditFields(user.Username, now),
	}

	resetURL := fmt.Sprintf("%s?token=%s", s.config.ResetURL, reset.Token)
	message := &domain.OutboxMessage{
		ID:           uuid.New(),
		EmailAddress: user.Email,
		Subject:      "Password Reset",
		Body:         fmt.Sprintf("Please reset your password by clicking <a href=%s>here</a>", resetURL),
		AuditFields:  domain.NewAuditFields(user.Username, now),
	}

	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.resetRepo.Create(ctx, reset); err != nil {
			return fmt.Errorf("failed to create password reset: %w", err)
		}
		if err := s.outboxRepo.Enqueue(ctx, message); err != nil {
			return fmt.Errorf("failed to enqueue reset notification: %w", err)
		}
		return nil
	})
}

// Redeem implements domain.PasswordResetService. The caller marks the
// reset used and runs the password change.
func (s *PasswordResetServiceImpl) Redeem(ctx context.Context, token string) (*domain.PasswordReset, error) {
	reset, err := s.resetRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if reset.IsUsed {
		return nil, domain.ErrResetAlreadyUsed
	}
	if reset.Expired(s.clock.Now()) {
		return nil, domain.ErrResetExpired
	}

	return reset, nil
}

// MarkUsed implements domain.PasswordResetService
func (s *PasswordResetServiceImpl) MarkUsed(ctx context.Context, reset *domain.PasswordReset, by string) error {
	return s.resetRepo.MarkUsed(ctx, reset.ID, by, s.clock.Now())
}

// Compile-time interface compliance verification
var _ domain.PasswordResetService = (*PasswordResetServiceImpl)(nil)
