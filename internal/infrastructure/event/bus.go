package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tourops/backend/internal/domain/travel"
	"go.uber.org/zap"
)

// SnapshotHandler receives a complete collection snapshot.
// Handlers must not block for long: the bus dispatches synchronously on the
// publisher's goroutine, which for repository writes is the request path.
type SnapshotHandler func(travel.Snapshot)

// SnapshotPublisher publishes complete collection snapshots
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snapshot travel.Snapshot)
}

// SnapshotSubscriber registers handlers for snapshot arrivals
type SnapshotSubscriber interface {
	Subscribe(handler SnapshotHandler, collections ...travel.Collection)
}

// SnapshotBus combines publisher and subscriber capabilities
type SnapshotBus interface {
	SnapshotPublisher
	SnapshotSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type subscription struct {
	handler     SnapshotHandler
	collections map[travel.Collection]bool // empty means all collections
}

// InMemorySnapshotBus implements SnapshotBus with in-process pub/sub.
// The four record collections publish independently and unordered relative
// to each other; the bus preserves per-publisher ordering only.
type InMemorySnapshotBus struct {
	mu            sync.RWMutex
	subscriptions []subscription
	logger        *zap.Logger
	running       atomic.Bool
}

// NewInMemorySnapshotBus creates a new in-memory snapshot bus
func NewInMemorySnapshotBus(logger *zap.Logger) *InMemorySnapshotBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemorySnapshotBus{logger: logger}
}

// PublishSnapshot delivers a snapshot to every interested handler.
// Dropped silently when the bus is stopped, so late writes during shutdown
// do not reach a scheduler that is already draining.
func (b *InMemorySnapshotBus) PublishSnapshot(ctx context.Context, snapshot travel.Snapshot) {
	if !b.running.Load() {
		b.logger.Debug("snapshot dropped, bus not running",
			zap.String("collection", string(snapshot.Collection)),
		)
		return
	}
	if !snapshot.Collection.IsValid() {
		b.logger.Warn("snapshot for unknown collection dropped",
			zap.String("collection", string(snapshot.Collection)),
		)
		return
	}

	b.mu.RLock()
	subs := b.subscriptions
	b.mu.RUnlock()

	for _, sub := range subs {
		if len(sub.collections) > 0 && !sub.collections[snapshot.Collection] {
			continue
		}
		b.dispatch(sub.handler, snapshot)
	}
}

// Subscribe registers a handler for the given collections.
// With no collections the handler receives every snapshot.
func (b *InMemorySnapshotBus) Subscribe(handler SnapshotHandler, collections ...travel.Collection) {
	sub := subscription{handler: handler, collections: make(map[travel.Collection]bool, len(collections))}
	for _, c := range collections {
		sub.collections[c] = true
	}

	b.mu.Lock()
	b.subscriptions = append(b.subscriptions, sub)
	b.mu.Unlock()

	b.logger.Debug("snapshot handler subscribed",
		zap.Int("collections", len(collections)),
	)
}

// Start starts the bus
func (b *InMemorySnapshotBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("snapshot bus started")
	return nil
}

// Stop stops the bus; snapshots published afterwards are dropped
func (b *InMemorySnapshotBus) Stop(ctx context.Context) error {
	b.running.Store(false)
	b.logger.Info("snapshot bus stopped")
	return nil
}

// dispatch invokes one handler, containing any panic so a broken subscriber
// cannot take down the publisher's goroutine
func (b *InMemorySnapshotBus) dispatch(handler SnapshotHandler, snapshot travel.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("snapshot handler panicked",
				zap.String("collection", string(snapshot.Collection)),
				zap.Any("panic", r),
			)
		}
	}()
	handler(snapshot)
}

// Ensure InMemorySnapshotBus implements SnapshotBus
var _ SnapshotBus = (*InMemorySnapshotBus)(nil)
