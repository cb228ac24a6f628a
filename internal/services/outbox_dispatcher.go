package services

import (
	"context"
	"log"
	"time"

	"github.com/you/credsvc/domain"
)

// OutboxDispatcher drains unprocessed outbox messages on a fixed interval.
// Delivery is at-least-once: a crash between a successful send and the flag
// update causes redelivery on the next scan, so the downstream consumer
// must tolerate duplicates. Messages are never deleted.
type OutboxDispatcher struct {
	outboxRepo      domain.OutboxRepository
	notificationSvc domain.NotificationService
	clock           domain.Clock
	interval        time.Duration
	batchSize       int
}

// NewOutboxDispatcher creates a new outbox dispatcher
func NewOutboxDispatcher(
	outboxRepo domain.OutboxRepository,
	notificationSvc domain.NotificationService,
	clock domain.Clock,
	interval time.Duration,
	batchSize int,
) *OutboxDispatcher {
	return &OutboxDispatcher{
		outboxRepo:      outboxRepo,
		notificationSvc: notificationSvc,
		clock:           clock,
		interval:        interval,
		batchSize:       batchSize,
	}
}

// Run scans on the configured interval until the context is cancelled.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.RunOnce(ctx); err != nil {
				log.Printf("OUTBOX_SCAN_FAILED: error=%v", err)
			}
		}
	}
}

// RunOnce performs a single scan-and-deliver pass. A failed delivery leaves
// the message unprocessed for the next scan; it never blocks the rest of
// the batch.
func (d *OutboxDispatcher) RunOnce(ctx context.Context) error {
	messages, err := d.outboxRepo.FindUnprocessed(ctx, d.batchSize)
	if err != nil {
		return err
	}

	for i := range messages {
		msg := &messages[i]

		if err := d.notificationSvc.SendEmail(msg.EmailAddress, msg.Subject, msg.Body); err != nil {
			log.Printf("OUTBOX_DELIVERY_FAILED: message_id=%s error=%v", msg.ID, err)
			continue
		}

		if err := d.outboxRepo.MarkProcessed(ctx, msg.ID, d.clock.Now()); err != nil {
			log.Printf("OUTBOX_MARK_FAILED: message_id=%s error=%v", msg.ID, err)
		}
	}

	return nil
}
