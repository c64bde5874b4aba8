package persistence

import (
	"context"

	"github.com/tourops/backend/internal/infrastructure/event"
	"go.uber.org/zap"
)

// RecordStore bundles the four collection repositories behind one handle.
// It is the concrete edge of the external record store the reconciliation
// side only knows as four snapshot streams.
type RecordStore struct {
	Bookings     *BookingRepository
	Tours        *TourRepository
	Policies     *PolicyRepository
	Transactions *TransactionRepository
}

// NewRecordStore wires the four repositories to the database and bus
func NewRecordStore(db *Database, bus event.SnapshotPublisher, logger *zap.Logger) *RecordStore {
	return &RecordStore{
		Bookings:     NewBookingRepository(db.DB, bus, logger),
		Tours:        NewTourRepository(db.DB, bus, logger),
		Policies:     NewPolicyRepository(db.DB, bus, logger),
		Transactions: NewTransactionRepository(db.DB, bus, logger),
	}
}

// PublishAll delivers an initial snapshot of every collection. Called once
// at startup so the scheduler can publish its first complete view without
// waiting for a write.
func (s *RecordStore) PublishAll(ctx context.Context) error {
	if err := s.Bookings.PublishSnapshot(ctx); err != nil {
		return err
	}
	if err := s.Transactions.PublishSnapshot(ctx); err != nil {
		return err
	}
	if err := s.Tours.PublishSnapshot(ctx); err != nil {
		return err
	}
	return s.Policies.PublishSnapshot(ctx)
}
