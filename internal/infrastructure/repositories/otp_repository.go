package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/credsvc/domain"
)

// OTPRepositoryImpl implements domain.OneTimePasscodeRepository using GORM
type OTPRepositoryImpl struct {
	db *gorm.DB
}

// DBOneTimePasscode represents the database model for OneTimePasscode
type DBOneTimePasscode struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID `gorm:"index;type:uuid"`
	Code      string    `gorm:"index;size:16"`
	IPAddress string    `gorm:"size:64"`
	ExpiresAt time.Time
	IsUsed    bool
	CreatedBy string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedBy string `gorm:"size:255"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBOneTimePasscode) TableName() string {
	return "one_time_passcodes"
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *gorm.DB) domain.OneTimePasscodeRepository {
	return &OTPRepositoryImpl{db: db}
}

// Create implements domain.OneTimePasscodeRepository
func (r *OTPRepositoryImpl) Create(ctx context.Context, otp *domain.OneTimePasscode) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Create(otpToDB(otp)).Error
}

// FindByUserAndCode implements domain.OneTimePasscodeRepository. Multiple
// outstanding codes may coexist; the most recently issued match wins.
func (r *OTPRepositoryImpl) FindByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*domain.OneTimePasscode, error) {
	var dbOTP DBOneTimePasscode
	err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND code = ?", userID, code).
		Order("created_at DESC").
		First(&dbOTP).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}
	return otpToDomain(&dbOTP), nil
}

// MarkUsed implements domain.OneTimePasscodeRepository. The guard on
// is_used makes the flag monotonic under concurrent redemption: the loser
// of the race gets ErrOTPAlreadyUsed instead of a second success.
func (r *OTPRepositoryImpl) MarkUsed(ctx context.Context, id uuid.UUID, by string, now time.Time) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Model(&DBOneTimePasscode{}).
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
		return domain.ErrOTPAlreadyUsed
	}
	return nil
}

func otpToDB(otp *domain.OneTimePasscode) *DBOneTimePasscode {
	return &DBOneTimePasscode{
		ID:        otp.ID,
		UserID:    otp.UserID,
		Code:      otp.Code,
		IPAddress: otp.IPAddress,
		ExpiresAt: otp.ExpiresAt,
		IsUsed:    otp.IsUsed,
		CreatedBy: otp.CreatedBy,
		CreatedAt: otp.CreatedAt,
		UpdatedBy: otp.UpdatedBy,
		UpdatedAt: otp.UpdatedAt,
	}
}

func otpToDomain(dbOTP *DBOneTimePasscode) *domain.OneTimePasscode {
	return &domain.OneTimePasscode{
		ID:        dbOTP.ID,
		UserID:    dbOTP.UserID,
		Code:      dbOTP.Code,
		IPAddress: dbOTP.IPAddress,
		ExpiresAt: dbOTP.ExpiresAt,
		IsUsed:    dbOTP.IsUsed,
		AuditFields: domain.AuditFields{
			CreatedBy: dbOTP.CreatedBy,
			CreatedAt: dbOTP.CreatedAt,
			UpdatedBy: dbOTP.UpdatedBy,
			UpdatedAt: dbOTP.UpdatedAt,
		},
	}
}

// Compile-time interface compliance verification
var _ domain.OneTimePasscodeRepository = (*OTPRepositoryImpl)(nil)
