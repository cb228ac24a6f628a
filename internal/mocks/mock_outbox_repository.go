package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/you/credsvc/domain"
)

// MockOutboxRepository implements domain.OutboxRepository for testing
type MockOutboxRepository struct {
	EnqueueFunc         func(ctx context.Context, message *domain.OutboxMessage) error
	FindUnprocessedFunc func(ctx context.Context, limit int) ([]domain.OutboxMessage, error)
	MarkProcessedFunc   func(ctx context.Context, id uuid.UUID, now time.Time) error
}

// NewMockOutboxRepository creates a new MockOutboxRepository with default behaviors
func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Enqueue(ctx context.Context, message *domain.OutboxMessage) error {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, message)
	}
	return nil
}

func (m *MockOutboxRepository) FindUnprocessed(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	if m.FindUnprocessedFunc != nil {
		return m.FindUnprocessedFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockOutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID, now time.Time) error {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, id, now)
	}
	return nil
}

var _ domain.OutboxRepository = (*MockOutboxRepository)(nil)
