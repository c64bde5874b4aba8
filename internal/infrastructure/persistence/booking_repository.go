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

// BookingRepository stores bookings and re-delivers the complete booking
// collection as a snapshot after every successful write. Snapshots, never
// deltas: the reconciliation side replaces its whole picture of the
// collection each time.
type BookingRepository struct {
	db     *gorm.DB
	bus    event.SnapshotPublisher
	logger *zap.Logger
}

// NewBookingRepository creates a booking repository
func NewBookingRepository(db *gorm.DB, bus event.SnapshotPublisher, logger *zap.Logger) *BookingRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingRepository{db: db, bus: bus, logger: logger}
}

// Create persists a new booking
func (r *BookingRepository) Create(ctx context.Context, b *travel.Booking) error {
	if err := r.db.WithContext(ctx).Create(models.BookingModelFromDomain(b)).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	r.notify(ctx)
	return nil
}

// Update replaces a booking wholesale
func (r *BookingRepository) Update(ctx context.Context, b *travel.Booking) error {
	b.UpdatedAt = time.Now()
	model := models.BookingModelFromDomain(b)
	result := r.db.WithContext(ctx).Model(&models.BookingModel{}).Where("id = ?", b.ID).Select("*").Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("booking %s not found", b.ID)
	}
	r.notify(ctx)
	return nil
}

// Delete removes a booking
func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BookingModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	r.notify(ctx)
	return nil
}

// GetByID loads one booking
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*travel.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	b := model.ToDomain()
	return &b, nil
}

// List returns the complete booking collection ordered by id
func (r *BookingRepository) List(ctx context.Context) ([]travel.Booking, error) {
	var records []models.BookingModel
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	bookings := make([]travel.Booking, len(records))
	for i := range records {
		bookings[i] = records[i].ToDomain()
	}
	return bookings, nil
}

// PublishSnapshot delivers the current complete collection to the bus
func (r *BookingRepository) PublishSnapshot(ctx context.Context) error {
	bookings, err := r.List(ctx)
	if err != nil {
		return err
	}
	r.bus.PublishSnapshot(ctx, travel.NewSnapshot(travel.CollectionBookings, bookings))
	return nil
}

// notify publishes a post-write snapshot; a listing failure here leaves
// the reconciliation side on its previous snapshot, which the next write
// will refresh
func (r *BookingRepository) notify(ctx context.Context) {
	if err := r.PublishSnapshot(ctx); err != nil {
		r.logger.Error("failed to publish booking snapshot", zap.Error(err))
	}
}
