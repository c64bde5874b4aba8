package persistence

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
	"github.com/tourops/backend/internal/domain/travel"
	"github.com/tourops/backend/internal/infrastructure/config"
	"github.com/tourops/backend/internal/infrastructure/event"
)

// captureBus records published snapshots so tests can assert on the
// snapshot-after-write contract
type captureBus struct {
	mu        sync.Mutex
	snapshots []travel.Snapshot
}

func (b *captureBus) PublishSnapshot(_ context.Context, snapshot travel.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots = append(b.snapshots, snapshot)
}

func (b *captureBus) last(t *testing.T) travel.Snapshot {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.snapshots)
	return b.snapshots[len(b.snapshots)-1]
}

func (b *captureBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.snapshots)
}

var _ event.SnapshotPublisher = (*captureBus)(nil)

func newTestStore(t *testing.T) (*RecordStore, *captureBus) {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	bus := &captureBus{}
	return NewRecordStore(db, bus, nil), bus
}

func testBooking() *travel.Booking {
	b, _ := travel.NewBooking("Ivanov", "Rome",
		valueobject.NewMoneyBGNFromFloat(1000),
		valueobject.NewMoneyBGNFromFloat(600),
		valueobject.NewMoneyBGNFromFloat(50),
		2, nil)
	return b
}

func TestBookingRepositoryCreatePublishesSnapshot(t *testing.T) {
	store, bus := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Bookings.Create(ctx, testBooking()))

	snapshot := bus.last(t)
	assert.Equal(t, travel.CollectionBookings, snapshot.Collection)
	bookings, err := snapshot.Bookings()
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Ivanov", bookings[0].CustomerName)
}

func TestBookingRepositoryUpdate(t *testing.T) {
	store, bus := newTestStore(t)
	ctx := context.Background()

	b := testBooking()
	require.NoError(t, store.Bookings.Create(ctx, b))

	b.Cancel()
	require.NoError(t, store.Bookings.Update(ctx, b))

	loaded, err := store.Bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, travel.BookingCancelled, loaded.Status)

	// one snapshot per write
	assert.Equal(t, 2, bus.count())
	bookings, err := bus.last(t).Bookings()
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, travel.BookingCancelled, bookings[0].Status)
}

func TestBookingRepositoryUpdateMissing(t *testing.T) {
	store, bus := newTestStore(t)

	b := testBooking()
	err := store.Bookings.Update(context.Background(), b)
	assert.Error(t, err)
	assert.Zero(t, bus.count())
}

func TestBookingRepositoryDelete(t *testing.T) {
	store, bus := newTestStore(t)
	ctx := context.Background()

	b := testBooking()
	require.NoError(t, store.Bookings.Create(ctx, b))
	require.NoError(t, store.Bookings.Delete(ctx, b.ID))

	bookings, err := bus.last(t).Bookings()
	require.NoError(t, err)
	assert.Empty(t, bookings)

	_, err = store.Bookings.GetByID(ctx, b.ID)
	assert.Error(t, err)
}

func TestTransactionRepositoryRoundTrip(t *testing.T) {
	store, bus := newTestStore(t)
	ctx := context.Background()

	b := testBooking()
	require.NoError(t, store.Bookings.Create(ctx, b))

	tx, err := travel.NewTransaction(travel.TransactionIncome,
		valueobject.NewMoneyFromFloat(400, valueobject.EUR),
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		travel.AccountBank,
		&travel.EntityRef{Kind: travel.LinkBooking, ID: b.ID}, "")
	require.NoError(t, err)
	require.NoError(t, store.Transactions.Create(ctx, tx))

	snapshot := bus.last(t)
	assert.Equal(t, travel.CollectionTransactions, snapshot.Collection)
	transactions, err := snapshot.Transactions()
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, valueobject.EUR, transactions[0].Amount.Currency())
	require.NotNil(t, transactions[0].Linked)
	assert.Equal(t, b.ID, transactions[0].Linked.ID)
}

func TestTourRepositoryDeleteMissing(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Tours.Delete(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestPolicyRepositoryUpdate(t *testing.T) {
	store, bus := newTestStore(t)
	ctx := context.Background()

	p, err := travel.NewInsurancePolicy("Petrova",
		valueobject.NewMoneyBGNFromFloat(120),
		valueobject.NewMoneyBGNFromFloat(9))
	require.NoError(t, err)
	require.NoError(t, store.Policies.Create(ctx, p))

	p.MarkPaidByCustomer()
	require.NoError(t, store.Policies.Update(ctx, p))

	policies, err := bus.last(t).Policies()
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.True(t, policies[0].PaidByCustomer)
}

func TestPublishAllDeliversEveryCollection(t *testing.T) {
	store, bus := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Bookings.Create(ctx, testBooking()))
	before := bus.count()

	require.NoError(t, store.PublishAll(ctx))
	assert.Equal(t, before+len(travel.Collections), bus.count())

	seen := make(map[travel.Collection]bool)
	bus.mu.Lock()
	for _, snapshot := range bus.snapshots[before:] {
		seen[snapshot.Collection] = true
	}
	bus.mu.Unlock()
	for _, collection := range travel.Collections {
		assert.True(t, seen[collection], string(collection))
	}
}
