package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/travel"
	"github.com/tourops/backend/internal/infrastructure/event"
	"github.com/tourops/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TransactionRepository stores ledger transactions and snapshots the
// collection after writes. Transactions are immutable in the domain;
// Update exists for the explicit full-replace edit the UI offers.
type TransactionRepository struct {
	db     *gorm.DB
	bus    event.SnapshotPublisher
	logger *zap.Logger
}

// NewTransactionRepository creates a transaction repository
func NewTransactionRepository(db *gorm.DB, bus event.SnapshotPublisher, logger *zap.Logger) *TransactionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionRepository{db: db, bus: bus, logger: logger}
}

// Create persists a new transaction
func (r *TransactionRepository) Create(ctx context.Context, t *travel.Transaction) error {
	if err := r.db.WithContext(ctx).Create(models.TransactionModelFromDomain(t)).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	r.notify(ctx)
	return nil
}

// Update replaces a transaction wholesale
func (r *TransactionRepository) Update(ctx context.Context, t *travel.Transaction) error {
	t.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("id = ?", t.ID).Select("*").Updates(models.TransactionModelFromDomain(t))
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("transaction %s not found", t.ID)
	}
	r.notify(ctx)
	return nil
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("transaction %s not found", id)
	}
	r.notify(ctx)
	return nil
}

// List returns the complete transaction collection ordered by id
func (r *TransactionRepository) List(ctx context.Context) ([]travel.Transaction, error) {
	var records []models.TransactionModel
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	transactions := make([]travel.Transaction, len(records))
	for i := range records {
		transactions[i] = records[i].ToDomain()
	}
	return transactions, nil
}

// PublishSnapshot delivers the current complete collection to the bus
func (r *TransactionRepository) PublishSnapshot(ctx context.Context) error {
	transactions, err := r.List(ctx)
	if err != nil {
		return err
	}
	r.bus.PublishSnapshot(ctx, travel.NewSnapshot(travel.CollectionTransactions, transactions))
	return nil
}

func (r *TransactionRepository) notify(ctx context.Context) {
	if err := r.PublishSnapshot(ctx); err != nil {
		r.logger.Error("failed to publish transaction snapshot", zap.Error(err))
	}
}
