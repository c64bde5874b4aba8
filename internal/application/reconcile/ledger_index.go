package reconcile

import (
	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/travel"
)

type refKey struct {
	kind travel.LinkedKind
	id   uuid.UUID
}

// LedgerIndex maps linked business records to the transactions that
// reference them. It is rebuilt wholesale from every transaction snapshot,
// so staleness cannot accumulate across snapshots.
//
// Unlinked transactions are not indexed here; they still participate in
// account balances and portfolio totals, which iterate the full snapshot.
type LedgerIndex struct {
	byRef map[refKey][]travel.Transaction
	all   []travel.Transaction
}

// BuildLedgerIndex builds an index over the full transaction snapshot.
// The input slice is not mutated; building is O(n) in transaction count.
func BuildLedgerIndex(transactions []travel.Transaction) *LedgerIndex {
	idx := &LedgerIndex{
		byRef: make(map[refKey][]travel.Transaction),
		all:   transactions,
	}
	for _, t := range transactions {
		if t.Linked == nil {
			continue
		}
		key := refKey{kind: t.Linked.Kind, id: t.Linked.ID}
		idx.byRef[key] = append(idx.byRef[key], t)
	}
	return idx
}

// TransactionsFor returns every transaction linked to the given record.
// The returned slice must not be mutated by callers.
func (idx *LedgerIndex) TransactionsFor(kind travel.LinkedKind, id uuid.UUID) []travel.Transaction {
	return idx.byRef[refKey{kind: kind, id: id}]
}

// All returns the full transaction snapshot the index was built from
func (idx *LedgerIndex) All() []travel.Transaction {
	return idx.all
}

// LinkedCount returns the number of distinct linked records in the index
func (idx *LedgerIndex) LinkedCount() int {
	return len(idx.byRef)
}
