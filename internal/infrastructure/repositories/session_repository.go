package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/credsvc/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM.
// Rotate and Revoke are conditional single-row updates: two concurrent
// callers racing on the same token cannot both succeed.
type SessionRepositoryImpl struct {
	db *gorm.DB
}

// DBSession represents the database model for Session (with GORM tags)
type DBSession struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	UserID       uuid.UUID `gorm:"index;type:uuid"`
	RefreshToken string    `gorm:"uniqueIndex;size:128"`
	IPAddress    string    `gorm:"size:64"`
	ExpiresAt    time.Time `gorm:"index"`
	IsRevoked    bool      `gorm:"index"`
	RevokedBy    string    `gorm:"size:255"`
	RevokedAt    *time.Time
	CreatedBy    string `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedBy    string `gorm:"size:255"`
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	dbSession := sessionToDB(session)
	if err := dbFromContext(ctx, r.db).WithContext(ctx).Create(dbSession).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

// FindByRefreshToken implements domain.SessionRepository. No implicit
// expiry or revocation filtering: callers check validity explicitly.
func (r *SessionRepositoryImpl) FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	var dbSession DBSession
	err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		First(&dbSession).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return sessionToDomain(&dbSession), nil
}

// Rotate implements domain.SessionRepository. The update only applies while
// the session still carries oldToken and is not revoked, so a replayed old
// token loses the race.
func (r *SessionRepositoryImpl) Rotate(ctx context.Context, sessionID uuid.UUID, oldToken, newToken string, now time.Time) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Model(&DBSession{}).
		Where("id = ? AND refresh_token = ? AND is_revoked = ?", sessionID, oldToken, false).
		Updates(map[string]interface{}{
			"refresh_token": newToken,
			"updated_by":    domain.SystemActor,
			"updated_at":    now,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConcurrentRefresh
	}
	return nil
}

// Revoke implements domain.SessionRepository. Idempotent: zero affected
// rows for an already revoked session is success.
func (r *SessionRepositoryImpl) Revoke(ctx context.Context, sessionID uuid.UUID, by string, now time.Time) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Model(&DBSession{}).
		Where("id = ? AND is_revoked = ?", sessionID, false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"revoked_by": by,
			"revoked_at": now,
			"updated_by": by,
			"updated_at": now,
		})
	return result.Error
}

func sessionToDB(session *domain.Session) *DBSession {
	return &DBSession{
		ID:           session.ID,
		UserID:       session.UserID,
		RefreshToken: session.RefreshToken,
		IPAddress:    session.IPAddress,
		ExpiresAt:    session.ExpiresAt,
		IsRevoked:    session.IsRevoked,
		RevokedBy:    session.RevokedBy,
		RevokedAt:    session.RevokedAt,
		CreatedBy:    session.CreatedBy,
		CreatedAt:    session.CreatedAt,
		UpdatedBy:    session.UpdatedBy,
		UpdatedAt:    session.UpdatedAt,
	}
}

func sessionToDomain(dbSession *DBSession) *domain.Session {
	return &domain.Session{
		ID:           dbSession.ID,
		UserID:       dbSession.UserID,
		RefreshToken: dbSession.RefreshToken,
		IPAddress:    dbSession.IPAddress,
		ExpiresAt:    dbSession.ExpiresAt,
		IsRevoked:    dbSession.IsRevoked,
		RevokedBy:    dbSession.RevokedBy,
		RevokedAt:    dbSession.RevokedAt,
		AuditFields: domain.AuditFields{
			CreatedBy: dbSession.CreatedBy,
			CreatedAt: dbSession.CreatedAt,
			UpdatedBy: dbSession.UpdatedBy,
			UpdatedAt: dbSession.UpdatedAt,
		},
	}
}

// Compile-time interface compliance verification
var _ domain.SessionRepository = (*SessionRepositoryImpl)(nil)
