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

// PolicyRepository stores insurance policies and snapshots the collection
// after writes
type PolicyRepository struct {
	db     *gorm.DB
	bus    event.SnapshotPublisher
	logger *zap.Logger
}

// NewPolicyRepository creates an insurance policy repository
func NewPolicyRepository(db *gorm.DB, bus event.SnapshotPublisher, logger *zap.Logger) *PolicyRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PolicyRepository{db: db, bus: bus, logger: logger}
}

// Create persists a new policy
func (r *PolicyRepository) Create(ctx context.Context, p *travel.InsurancePolicy) error {
	if err := r.db.WithContext(ctx).Create(models.PolicyModelFromDomain(p)).Error; err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}
	r.notify(ctx)
	return nil
}

// Update replaces a policy wholesale
func (r *PolicyRepository) Update(ctx context.Context, p *travel.InsurancePolicy) error {
	p.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.PolicyModel{}).Where("id = ?", p.ID).Select("*").Updates(models.PolicyModelFromDomain(p))
	if result.Error != nil {
		return fmt.Errorf("failed to update policy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("policy %s not found", p.ID)
	}
	r.notify(ctx)
	return nil
}

// Delete removes a policy
func (r *PolicyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PolicyModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete policy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("policy %s not found", id)
	}
	r.notify(ctx)
	return nil
}

// List returns the complete policy collection ordered by id
func (r *PolicyRepository) List(ctx context.Context) ([]travel.InsurancePolicy, error) {
	var records []models.PolicyModel
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	policies := make([]travel.InsurancePolicy, len(records))
	for i := range records {
		policies[i] = records[i].ToDomain()
	}
	return policies, nil
}

// PublishSnapshot delivers the current complete collection to the bus
func (r *PolicyRepository) PublishSnapshot(ctx context.Context) error {
	policies, err := r.List(ctx)
	if err != nil {
		return err
	}
	r.bus.PublishSnapshot(ctx, travel.NewSnapshot(travel.CollectionPolicies, policies))
	return nil
}

func (r *PolicyRepository) notify(ctx context.Context) {
	if err := r.PublishSnapshot(ctx); err != nil {
		r.logger.Error("failed to publish policy snapshot", zap.Error(err))
	}
}
