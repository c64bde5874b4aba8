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

// TourRepository stores tours and snapshots the collection after writes
type TourRepository struct {
	db     *gorm.DB
	bus    event.SnapshotPublisher
	logger *zap.Logger
}

// NewTourRepository creates a tour repository
func NewTourRepository(db *gorm.DB, bus event.SnapshotPublisher, logger *zap.Logger) *TourRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TourRepository{db: db, bus: bus, logger: logger}
}

// Create persists a new tour
func (r *TourRepository) Create(ctx context.Context, t *travel.Tour) error {
	if err := r.db.WithContext(ctx).Create(models.TourModelFromDomain(t)).Error; err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}
	r.notify(ctx)
	return nil
}

// Update replaces a tour wholesale
func (r *TourRepository) Update(ctx context.Context, t *travel.Tour) error {
	t.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.TourModel{}).Where("id = ?", t.ID).Select("*").Updates(models.TourModelFromDomain(t))
	if result.Error != nil {
		return fmt.Errorf("failed to update tour: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("tour %s not found", t.ID)
	}
	r.notify(ctx)
	return nil
}

// Delete removes a tour
func (r *TourRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TourModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete tour: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("tour %s not found", id)
	}
	r.notify(ctx)
	return nil
}

// List returns the complete tour collection ordered by id
func (r *TourRepository) List(ctx context.Context) ([]travel.Tour, error) {
	var records []models.TourModel
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	tours := make([]travel.Tour, len(records))
	for i := range records {
		tours[i] = records[i].ToDomain()
	}
	return tours, nil
}

// PublishSnapshot delivers the current complete collection to the bus
func (r *TourRepository) PublishSnapshot(ctx context.Context) error {
	tours, err := r.List(ctx)
	if err != nil {
		return err
	}
	r.bus.PublishSnapshot(ctx, travel.NewSnapshot(travel.CollectionTours, tours))
	return nil
}

func (r *TourRepository) notify(ctx context.Context) {
	if err := r.PublishSnapshot(ctx); err != nil {
		r.logger.Error("failed to publish tour snapshot", zap.Error(err))
	}
}
