package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/credsvc/domain"
)

// PasswordResetRepositoryImpl implements domain.PasswordResetRepository using GORM
type PasswordResetRepositoryImpl struct {
	db *gorm.DB
}

// DBPasswordReset represents the database model for PasswordReset
type DBPasswordReset struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID `gorm:"index;type:uuid"`
	Token     string    `gorm:"uniqueIndex;size:64"`
	ExpiresAt time.Time
	IsUsed    bool
	CreatedBy string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedBy string `gorm:"size:255"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBPasswordReset) TableName() string {
	return "password_resets"
}

// NewPasswordResetRepository creates a new password reset repository
func NewPasswordResetRepository(db *gorm.DB) domain.PasswordResetRepository {
	return &PasswordResetRepositoryImpl{db: db}
}

// Create implements domain.PasswordResetRepository
func (r *PasswordResetRepositoryImpl) Create(ctx context.Context, reset *domain.PasswordReset) error {
	if err := dbFromContext(ctx, r.db).WithContext(ctx).Create(resetToDB(reset)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

// FindByToken implements domain.PasswordResetRepository
func (r *PasswordResetRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.PasswordReset, error) {
	var dbReset DBPasswordReset
	err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("token = ?", token).
		First(&dbReset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResetNotFound
		}
		return nil, err
	}
	return resetToDomain(&dbReset), nil
}

// MarkUsed implements domain.PasswordResetRepository. Conditional on the
// used flag still being false; the loser of a redemption race gets
// ErrResetAlreadyUsed.
func (r *PasswordResetRepositoryImpl) MarkUsed(ctx context.Context, id uuid.UUID, by string, now time.Time) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Model(&DBPasswordReset{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]interface{}{
			"is_used":    true,
			"updated_by": by,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrResetAlreadyUsed
	}
	return nil
}

func resetToDB(reset *domain.PasswordReset) *DBPasswordReset {
	return &DBPasswordReset{
		ID:        reset.ID,
		UserID:    reset.UserID,
		Token:     reset.Token,
		ExpiresAt: reset.ExpiresAt,
		IsUsed:    reset.IsUsed,
		CreatedBy: reset.CreatedBy,
		CreatedAt: reset.CreatedAt,
		UpdatedBy: reset.UpdatedBy,
		UpdatedAt: reset.UpdatedAt,
	}
}

func resetToDomain(dbReset *DBPasswordReset) *domain.PasswordReset {
	return &domain.PasswordReset{
		ID:        dbReset.ID,
		UserID:    dbReset.UserID,
		Token:     dbReset.Token,
		ExpiresAt: dbReset.ExpiresAt,
		IsUsed:    dbReset.IsUsed,
		AuditFields: domain.AuditFields{
			CreatedBy: dbReset.CreatedBy,
			CreatedAt: dbReset.CreatedAt,
			UpdatedBy: dbReset.UpdatedBy,
			UpdatedAt: dbReset.UpdatedAt,
		},
	}
}

// Compile-time interface compliance verification
var _ domain.PasswordResetRepository = (*PasswordResetRepositoryImpl)(nil)
