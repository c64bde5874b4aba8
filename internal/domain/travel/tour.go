package travel

import (
	"time"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/shared"
)

// Tour is a scheduled group departure with a fixed seat capacity.
// Booked-seat counts and fulfillment are derived by the reconciliation
// engine from the bookings that link to the tour; the tour record itself
// stores only capacity and dates.
type Tour struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time

	Name          string
	MaxSeats      int
	DepartureDate time.Time
	ArrivalDate   time.Time
}

// NewTour creates a validated tour
func NewTour(name string, maxSeats int, departure, arrival time.Time) (*Tour, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tour name is required")
	}
	if maxSeats < 0 {
		return nil, shared.NewDomainError("INVALID_SEATS", "Max seats cannot be negative")
	}
	if arrival.Before(departure) {
		return nil, shared.NewDomainError("INVALID_DATES", "Arrival cannot precede departure")
	}
	now := time.Now()
	return &Tour{
		ID:            uuid.New(),
		CreatedAt:     now,
		UpdatedAt:     now,
		Name:          name,
		MaxSeats:      maxSeats,
		DepartureDate: departure,
		ArrivalDate:   arrival,
	}, nil
}
