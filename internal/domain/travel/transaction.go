package travel

import (
	"time"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
)

// TransactionKind classifies a ledger transaction as money in or money out.
// The kind implies the sign of the amount; the stored numeric value is
// always treated as a magnitude.
type TransactionKind string

const (
	TransactionIncome  TransactionKind = "INCOME"
	TransactionExpense TransactionKind = "EXPENSE"
)

// IsValid reports whether k is a recognized transaction kind
func (k TransactionKind) IsValid() bool {
	return k == TransactionIncome || k == TransactionExpense
}

// Account identifies which cash desk or bank account a transaction moved
// money through. The agency runs two physical cash desks and one bank account.
type Account string

const (
	AccountCashA Account = "CASH_A"
	AccountCashB Account = "CASH_B"
	AccountBank  Account = "BANK"
)

// Accounts lists every account in a stable order, used for balance reports
var Accounts = []Account{AccountCashA, AccountCashB, AccountBank}

// IsValid reports whether a is a recognized account
func (a Account) IsValid() bool {
	return a == AccountCashA || a == AccountCashB || a == AccountBank
}

// LinkedKind names the kind of business record a transaction is tied to
type LinkedKind string

const (
	LinkBooking         LinkedKind = "BOOKING"
	LinkTour            LinkedKind = "TOUR"
	LinkInsurancePolicy LinkedKind = "INSURANCE_POLICY"
)

// IsValid reports whether k is a recognized link kind
func (k LinkedKind) IsValid() bool {
	return k == LinkBooking || k == LinkTour || k == LinkInsurancePolicy
}

// EntityRef points at the single business record a transaction is associated
// with. A transaction carries at most one link.
type EntityRef struct {
	Kind LinkedKind `json:"kind"`
	ID   uuid.UUID  `json:"id"`
}

// Transaction is one cash or bank movement recorded by the back office.
// Transactions are immutable once created; an edit in the UI replaces the
// record wholesale and re-delivers the full collection snapshot.
type Transaction struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time

	Kind    TransactionKind
	Amount  valueobject.Money
	Date    time.Time
	Account Account
	Linked  *EntityRef
	Note    string
}

// NewTransaction creates a validated transaction
func NewTransaction(kind TransactionKind, amount valueobject.Money, date time.Time, account Account, linked *EntityRef, note string) (*Transaction, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Transaction kind must be INCOME or EXPENSE")
	}
	if !account.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Unknown account")
	}
	if linked != nil && !linked.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_LINK", "Unknown linked entity kind")
	}
	now := time.Now()
	return &Transaction{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Kind:      kind,
		Amount:    amount,
		Date:      date,
		Account:   account,
		Linked:    linked,
		Note:      note,
	}, nil
}

// IsLinked reports whether the transaction references a business record
func (t Transaction) IsLinked() bool {
	return t.Linked != nil
}

// LinksTo reports whether the transaction references the given record
func (t Transaction) LinksTo(kind LinkedKind, id uuid.UUID) bool {
	return t.Linked != nil && t.Linked.Kind == kind && t.Linked.ID == id
}
