package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/credsvc/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID               uuid.UUID `gorm:"primaryKey;type:uuid"`
	Username         string    `gorm:"uniqueIndex;size:255"`
	Email            string    `gorm:"uniqueIndex;size:255"`
	Phone            string    `gorm:"size:32"`
	PasswordHash     string    `gorm:"column:password;size:255"`
	Role             string    `gorm:"index;size:64"`
	TwoFactorEnabled bool
	IsDeleted        bool      `gorm:"index"`
	CreatedBy        string    `gorm:"size:255"`
	CreatedAt        time.Time `gorm:"index"`
	UpdatedBy        string    `gorm:"size:255"`
	UpdatedAt        time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	if err := dbFromContext(ctx, r.db).WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername implements domain.UserRepository
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where(query, arg).Where("is_deleted = ?", false).
		First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// ExistsByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).WithContext(ctx).Model(&DBUser{}).
		Where("email = ? AND is_deleted = ?", email, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(userToDB(user)).Error
}

func userToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Phone:            user.Phone,
		PasswordHash:     user.PasswordHash,
		Role:             user.Role,
		TwoFactorEnabled: user.TwoFactorEnabled,
		IsDeleted:        user.IsDeleted,
		CreatedBy:        user.CreatedBy,
		CreatedAt:        user.CreatedAt,
		UpdatedBy:        user.UpdatedBy,
		UpdatedAt:        user.UpdatedAt,
	}
}

func userToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:               dbUser.ID,
		Username:         dbUser.Username,
		Email:            dbUser.Email,
		Phone:            dbUser.Phone,
		PasswordHash:     dbUser.PasswordHash,
		Role:             dbUser.Role,
		TwoFactorEnabled: dbUser.TwoFactorEnabled,
		IsDeleted:        dbUser.IsDeleted,
		AuditFields: domain.AuditFields{
			CreatedBy: dbUser.CreatedBy,
			CreatedAt: dbUser.CreatedAt,
			UpdatedBy: dbUser.UpdatedBy,
			UpdatedAt: dbUser.UpdatedAt,
		},
	}
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*UserRepositoryImpl)(nil)
