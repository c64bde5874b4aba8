package scheduler

import (
	"sync/atomic"

	"github.com/tourops/backend/internal/application/reconcile"
)

// ViewPublisher holds the most recently published aggregate view.
// Exactly one writer (the reconcile scheduler's goroutine) ever stores a
// view; any number of readers load it. The swap is a single atomic pointer
// store, so a reader always observes one fully computed view, never a
// mixture of two.
type ViewPublisher struct {
	current atomic.Pointer[reconcile.AggregateView]
}

// NewViewPublisher creates an empty publisher; Latest returns nil until
// the first reconciliation pass completes
func NewViewPublisher() *ViewPublisher {
	return &ViewPublisher{}
}

// Latest returns the most recently published view, or nil before the
// first publish. The returned view is immutable and safe to share.
func (p *ViewPublisher) Latest() *reconcile.AggregateView {
	return p.current.Load()
}

// Ready reports whether at least one view has been published
func (p *ViewPublisher) Ready() bool {
	return p.current.Load() != nil
}

// publish atomically replaces the current view. Package-private: only the
// scheduler writes.
func (p *ViewPublisher) publish(view *reconcile.AggregateView) {
	p.current.Store(view)
}
