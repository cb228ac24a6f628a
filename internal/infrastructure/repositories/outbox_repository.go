package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/credsvc/domain"
)

// OutboxRepositoryImpl implements domain.OutboxRepository using GORM.
// Messages are never deleted; the dispatcher only flips the processed flag.
type OutboxRepositoryImpl struct {
	db *gorm.DB
}

// DBOutboxMessage represents the database model for OutboxMessage
type DBOutboxMessage struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	EmailAddress string    `gorm:"size:255"`
	Subject      string    `gorm:"size:255"`
	Body         string
	IsProcessed  bool   `gorm:"index"`
	CreatedBy    string `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedBy    string `gorm:"size:255"`
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBOutboxMessage) TableName() string {
	return "email_outbox"
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *gorm.DB) domain.OutboxRepository {
	return &OutboxRepositoryImpl{db: db}
}

// Enqueue implements domain.OutboxRepository
func (r *OutboxRepositoryImpl) Enqueue(ctx context.Context, message *domain.OutboxMessage) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Create(outboxToDB(message)).Error
}

// FindUnprocessed implements domain.OutboxRepository
func (r *OutboxRepositoryImpl) FindUnprocessed(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	var dbMessages []DBOutboxMessage
	err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("is_processed = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&dbMessages).Error
	if err != nil {
		return nil, err
	}

	messages := make([]domain.OutboxMessage, 0, len(dbMessages))
	for i := range dbMessages {
		messages = append(messages, *outboxToDomain(&dbMessages[i]))
	}
	return messages, nil
}

// MarkProcessed implements domain.OutboxRepository. Conditional on the
// processed flag still being false so the transition happens once.
func (r *OutboxRepositoryImpl) MarkProcessed(ctx context.Context, id uuid.UUID, now time.Time) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Model(&DBOutboxMessage{}).
		Where("id = ? AND is_processed = ?", id, false).
		Updates(map[string]interface{}{
			"is_processed": true,
			"updated_by":   domain.SystemActor,
			"updated_at":   now,
		}).Error
}

func outboxToDB(message *domain.OutboxMessage) *DBOutboxMessage {
	return &DBOutboxMessage{
		ID:           message.ID,
		EmailAddress: message.EmailAddress,
		Subject:      message.Subject,
		Body:         message.Body,
		IsProcessed:  message.IsProcessed,
		CreatedBy:    message.CreatedBy,
		CreatedAt:    message.CreatedAt,
		UpdatedBy:    message.UpdatedBy,
		UpdatedAt:    message.UpdatedAt,
	}
}

func outboxToDomain(dbMessage *DBOutboxMessage) *domain.OutboxMessage {
	return &domain.OutboxMessage{
		ID:           dbMessage.ID,
		EmailAddress: dbMessage.EmailAddress,
		Subject:      dbMessage.Subject,
		Body:         dbMessage.Body,
		IsProcessed:  dbMessage.IsProcessed,
		AuditFields: domain.AuditFields{
			CreatedBy: dbMessage.CreatedBy,
			CreatedAt: dbMessage.CreatedAt,
			UpdatedBy: dbMessage.UpdatedBy,
			UpdatedAt: dbMessage.UpdatedAt,
		},
	}
}

// Compile-time interface compliance verification
var _ domain.OutboxRepository = (*OutboxRepositoryImpl)(nil)
