package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/you/credsvc/domain"
)

type txKey struct{}

// TxManagerImpl implements domain.TxManager over a GORM transaction. The
// transaction handle travels in the context, so repository calls made with
// the callback's ctx join the same transaction and commit as one unit.
type TxManagerImpl struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) domain.TxManager {
	return &TxManagerImpl{db: db}
}

// WithinTx implements domain.TxManager
func (m *TxManagerImpl) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext returns the in-flight transaction if the ctx carries one,
// otherwise the repository's own handle.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// Compile-time interface compliance verification
var _ domain.TxManager = (*TxManagerImpl)(nil)
