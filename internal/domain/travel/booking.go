package travel

import (
	"time"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
)

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// IsValid reports whether s is a recognized booking status
func (s BookingStatus) IsValid() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCancelled
}

// Booking is a customer reservation. Profit and payment status are derived
// by the reconciliation engine from the booking's own amounts and its linked
// ledger transactions; any persisted profit value is legacy advisory data and
// is never read back into a computation.
type Booking struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time

	CustomerName         string
	Destination          string
	FinalAmount          valueobject.Money
	AmountOwedToSupplier valueobject.Money
	TransportCost        valueobject.Money
	Status               BookingStatus
	TouristCount         int
	LinkedTourID         *uuid.UUID
}

// NewBooking creates a validated booking in PENDING status
func NewBooking(customerName, destination string, finalAmount, owed, transport valueobject.Money, touristCount int, linkedTourID *uuid.UUID) (*Booking, error) {
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	if touristCount < 0 {
		return nil, shared.NewDomainError("INVALID_TOURIST_COUNT", "Tourist count cannot be negative")
	}
	now := time.Now()
	return &Booking{
		ID:                   uuid.New(),
		CreatedAt:            now,
		UpdatedAt:            now,
		CustomerName:         customerName,
		Destination:          destination,
		FinalAmount:          finalAmount,
		AmountOwedToSupplier: owed,
		TransportCost:        transport,
		Status:               BookingPending,
		TouristCount:         touristCount,
		LinkedTourID:         linkedTourID,
	}, nil
}

// IsCancelled reports whether the booking is excluded from portfolio sums.
// Cancelled bookings stay visible as records but contribute to no total.
func (b Booking) IsCancelled() bool {
	return b.Status == BookingCancelled
}

// Confirm moves the booking to CONFIRMED
func (b *Booking) Confirm() error {
	if b.Status == BookingCancelled {
		return shared.ErrInvalidState
	}
	b.Status = BookingConfirmed
	b.UpdatedAt = time.Now()
	return nil
}

// Cancel moves the booking to CANCELLED
func (b *Booking) Cancel() {
	b.Status = BookingCancelled
	b.UpdatedAt = time.Now()
}
