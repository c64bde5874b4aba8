package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tourops/backend/internal/application/reconcile"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/travel"
	"go.uber.org/zap"
)

// State is the reconcile scheduler's lifecycle position
type State int32

const (
	StateIdle State = iota
	StatePending
	StateComputing
	StatePublished
)

// String returns the state name for logs
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateComputing:
		return "computing"
	case StatePublished:
		return "published"
	}
	return "unknown"
}

// PublishHook observes each newly published view. Hooks run on the
// scheduler goroutine after the atomic swap; a slow hook delays the next
// recompute, not readers.
type PublishHook func(*reconcile.AggregateView)

// ReconcileScheduler owns the concurrency discipline around the
// aggregation engine. The four record collections deliver complete
// snapshots independently and unordered; the scheduler serializes the
// arrivals into one queue owned by a single goroutine, coalesces bursts
// to the latest snapshot per collection, debounces, recomputes through
// the pure engine and atomically swaps the published view.
//
// A recompute is never aborted mid-flight: snapshots arriving while a
// compute runs queue up and re-enter the pending phase immediately after
// the in-flight result lands. If a compute panics, the previous view
// stays published; stale-but-consistent beats updated-but-broken.
type ReconcileScheduler struct {
	engine    *reconcile.Engine
	publisher *ViewPublisher
	logger    *zap.Logger
	debounce  time.Duration
	hooks     []PublishHook

	arrivals chan travel.Snapshot
	stopped  chan struct{}
	state    atomic.Int32

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// ReconcileSchedulerConfig holds scheduler tunables
type ReconcileSchedulerConfig struct {
	// Debounce is the quiescence window after the last snapshot arrival
	// before a recompute fires
	Debounce time.Duration
	// QueueSize bounds the arrival queue; publishers block when it fills,
	// which only happens under a pathological write storm
	QueueSize int
}

// DefaultReconcileSchedulerConfig returns default configuration
func DefaultReconcileSchedulerConfig() ReconcileSchedulerConfig {
	return ReconcileSchedulerConfig{
		Debounce:  50 * time.Millisecond,
		QueueSize: 256,
	}
}

// NewReconcileScheduler creates a scheduler around the given engine
func NewReconcileScheduler(engine *reconcile.Engine, publisher *ViewPublisher, logger *zap.Logger, cfg ReconcileSchedulerConfig) *ReconcileScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultReconcileSchedulerConfig().Debounce
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultReconcileSchedulerConfig().QueueSize
	}
	return &ReconcileScheduler{
		engine:    engine,
		publisher: publisher,
		logger:    logger,
		debounce:  cfg.Debounce,
		arrivals:  make(chan travel.Snapshot, cfg.QueueSize),
		stopped:   make(chan struct{}),
	}
}

// OnPublish registers a hook observing every published view.
// Must be called before Start.
func (s *ReconcileScheduler) OnPublish(hook PublishHook) {
	s.hooks = append(s.hooks, hook)
}

// Publisher returns the view publisher this scheduler writes to
func (s *ReconcileScheduler) Publisher() *ViewPublisher {
	return s.publisher
}

// State returns the scheduler's current state
func (s *ReconcileScheduler) State() State {
	return State(s.state.Load())
}

// HandleSnapshot receives one collection snapshot. It is the handler wired
// to the snapshot bus and may be called from any goroutine; the snapshot
// is validated structurally and then queued for the scheduler goroutine.
//
// A snapshot whose payload does not match its collection is the one fatal
// ingestion case: it is logged and discarded, and the last published view
// keeps serving.
func (s *ReconcileScheduler) HandleSnapshot(snapshot travel.Snapshot) {
	if err := validateSnapshot(snapshot); err != nil {
		s.logger.Error("malformed snapshot discarded, last published view stands",
			zap.String("collection", string(snapshot.Collection)),
			zap.Error(err),
		)
		return
	}

	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		s.logger.Debug("snapshot ignored, scheduler not running",
			zap.String("collection", string(snapshot.Collection)),
		)
		return
	}

	select {
	case s.arrivals <- snapshot:
	case <-s.stopped:
	}
}

// Start launches the scheduler goroutine
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("reconcile scheduler started",
		zap.Duration("debounce", s.debounce),
	)
	return nil
}

// Stop gracefully stops the scheduler. An in-flight compute finishes and
// publishes before the goroutine exits.
func (s *ReconcileScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.stopped)
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("reconcile scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("reconcile scheduler stop timed out")
		return ctx.Err()
	}
}

// run is the single goroutine owning the state machine and all snapshot
// state. Nothing outside this loop reads or writes the latest-snapshot
// map, so no locking is needed around recomputes.
func (s *ReconcileScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	latest := make(map[travel.Collection]travel.Snapshot, len(travel.Collections))
	bootstrapped := false

	timer := time.NewTimer(s.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	timerArmed := false

	for {
		select {
		case <-ctx.Done():
			if timerArmed && !timer.Stop() {
				<-timer.C
			}
			return

		case snapshot := <-s.arrivals:
			// Coalesce: only the latest snapshot per collection is kept.
			latest[snapshot.Collection] = snapshot
			s.state.Store(int32(StatePending))

			// Fast path on startup: once every collection has reported,
			// publish the first view without waiting out the debounce.
			if !bootstrapped && len(latest) == len(travel.Collections) {
				if timerArmed {
					if !timer.Stop() {
						<-timer.C
					}
					timerArmed = false
				}
				s.recompute(latest)
				bootstrapped = true
				continue
			}

			if timerArmed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(s.debounce)
			timerArmed = true

		case <-timer.C:
			timerArmed = false
			s.recompute(latest)
			bootstrapped = true
		}
	}
}

// recompute runs one full aggregation pass over the latest snapshots and
// atomically publishes the result. Snapshots arriving meanwhile wait in
// the queue and re-enter the pending phase right after.
func (s *ReconcileScheduler) recompute(latest map[travel.Collection]travel.Snapshot) {
	s.state.Store(int32(StateComputing))
	started := time.Now()

	view, ok := s.compute(latest)
	if !ok {
		// Previous view stands; next snapshot arrival retriggers.
		s.state.Store(int32(StatePublished))
		return
	}

	view.ComputedAt = time.Now().UTC()
	s.publisher.publish(view)
	s.state.Store(int32(StatePublished))

	s.logger.Debug("aggregate view published",
		zap.Duration("took", time.Since(started)),
		zap.Int("bookings", len(view.Bookings)),
		zap.Int("tours", len(view.Tours)),
		zap.Int("policies", len(view.Policies)),
	)

	for _, hook := range s.hooks {
		s.runHook(hook, view)
	}
}

// compute extracts the typed payloads and runs the engine, containing any
// panic so a broken recompute leaves the previous view standing
func (s *ReconcileScheduler) compute(latest map[travel.Collection]travel.Snapshot) (view *reconcile.AggregateView, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recompute panicked, keeping previous view",
				zap.Any("panic", r),
			)
			view, ok = nil, false
		}
	}()

	// Collections that have not reported yet participate as empty.
	// Payload shapes were validated on arrival.
	bookings, _ := latest[travel.CollectionBookings].Bookings()
	transactions, _ := latest[travel.CollectionTransactions].Transactions()
	tours, _ := latest[travel.CollectionTours].Tours()
	policies, _ := latest[travel.CollectionPolicies].Policies()

	index := reconcile.BuildLedgerIndex(transactions)
	return s.engine.Compute(bookings, tours, policies, index), true
}

// runHook invokes one publish hook with panic containment
func (s *ReconcileScheduler) runHook(hook PublishHook, view *reconcile.AggregateView) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("publish hook panicked", zap.Any("panic", r))
		}
	}()
	hook(view)
}

// validateSnapshot checks that a snapshot's payload matches its collection
func validateSnapshot(snapshot travel.Snapshot) error {
	var err error
	switch snapshot.Collection {
	case travel.CollectionBookings:
		_, err = snapshot.Bookings()
	case travel.CollectionTransactions:
		_, err = snapshot.Transactions()
	case travel.CollectionTours:
		_, err = snapshot.Tours()
	case travel.CollectionPolicies:
		_, err = snapshot.Policies()
	default:
		return shared.ErrMalformedSnapshot
	}
	return err
}
