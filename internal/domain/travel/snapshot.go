package travel

import (
	"time"

	"github.com/tourops/backend/internal/domain/shared"
)

// Collection names one of the four independently delivered record collections
type Collection string

const (
	CollectionBookings     Collection = "bookings"
	CollectionTransactions Collection = "transactions"
	CollectionTours        Collection = "tours"
	CollectionPolicies     Collection = "insurance_policies"
)

// Collections lists every collection the reconciliation engine consumes
var Collections = []Collection{
	CollectionBookings,
	CollectionTransactions,
	CollectionTours,
	CollectionPolicies,
}

// IsValid reports whether c is a recognized collection
func (c Collection) IsValid() bool {
	switch c {
	case CollectionBookings, CollectionTransactions, CollectionTours, CollectionPolicies:
		return true
	}
	return false
}

// Snapshot is a complete, self-consistent dump of one collection's current
// contents, delivered wholesale on any write within that collection. The
// record store never delivers deltas, so a snapshot fully replaces whatever
// the consumer held for that collection before.
type Snapshot struct {
	Collection Collection
	TakenAt    time.Time
	// Payload holds the full collection: []Booking, []Transaction, []Tour
	// or []InsurancePolicy depending on Collection.
	Payload any
}

// NewSnapshot wraps a collection payload with its metadata
func NewSnapshot(collection Collection, payload any) Snapshot {
	return Snapshot{
		Collection: collection,
		TakenAt:    time.Now(),
		Payload:    payload,
	}
}

// Bookings extracts the booking payload.
// Returns ErrMalformedSnapshot if the payload is not a booking collection.
func (s Snapshot) Bookings() ([]Booking, error) {
	if s.Collection != CollectionBookings {
		return nil, shared.ErrMalformedSnapshot
	}
	items, ok := s.Payload.([]Booking)
	if !ok {
		return nil, shared.ErrMalformedSnapshot
	}
	return items, nil
}

// Transactions extracts the transaction payload
func (s Snapshot) Transactions() ([]Transaction, error) {
	if s.Collection != CollectionTransactions {
		return nil, shared.ErrMalformedSnapshot
	}
	items, ok := s.Payload.([]Transaction)
	if !ok {
		return nil, shared.ErrMalformedSnapshot
	}
	return items, nil
}

// Tours extracts the tour payload
func (s Snapshot) Tours() ([]Tour, error) {
	if s.Collection != CollectionTours {
		return nil, shared.ErrMalformedSnapshot
	}
	items, ok := s.Payload.([]Tour)
	if !ok {
		return nil, shared.ErrMalformedSnapshot
	}
	return items, nil
}

// Policies extracts the insurance policy payload
func (s Snapshot) Policies() ([]InsurancePolicy, error) {
	if s.Collection != CollectionPolicies {
		return nil, shared.ErrMalformedSnapshot
	}
	items, ok := s.Payload.([]InsurancePolicy)
	if !ok {
		return nil, shared.ErrMalformedSnapshot
	}
	return items, nil
}
