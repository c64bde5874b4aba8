package reconcile

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/travel"
)

// PaymentStatus classifies how much of a booking's final amount has been
// collected. Exactly one status holds for any booking.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "PAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentUnpaid  PaymentStatus = "UNPAID"
)

// PolicySettlement classifies an insurance policy's money flow state
type PolicySettlement string

const (
	PolicySettled          PolicySettlement = "SETTLED"
	PolicyReceivable       PolicySettlement = "RECEIVABLE"
	PolicyPayableToInsurer PolicySettlement = "PAYABLE_TO_INSURER"
)

// BookingView is the derived financial picture of one booking.
// All monetary values are expressed in the base currency.
type BookingView struct {
	BookingID     uuid.UUID            `json:"booking_id"`
	CustomerName  string               `json:"customer_name"`
	Destination   string               `json:"destination"`
	Status        travel.BookingStatus `json:"status"`
	Profit        decimal.Decimal      `json:"profit"`
	PaidTotal     decimal.Decimal      `json:"paid_total"`
	Remaining     decimal.Decimal      `json:"remaining"`
	PaymentStatus PaymentStatus        `json:"payment_status"`
}

// TourView is the derived seat-fulfillment picture of one tour
type TourView struct {
	TourID             uuid.UUID       `json:"tour_id"`
	Name               string          `json:"name"`
	MaxSeats           int             `json:"max_seats"`
	BookedSeats        int             `json:"booked_seats"`
	FulfillmentPercent decimal.Decimal `json:"fulfillment_percent"`
}

// PolicyView is the derived settlement picture of one insurance policy
type PolicyView struct {
	PolicyID    uuid.UUID        `json:"policy_id"`
	InsuredName string           `json:"insured_name"`
	Premium     decimal.Decimal  `json:"premium"`
	Commission  decimal.Decimal  `json:"commission"`
	Settlement  PolicySettlement `json:"settlement"`
}

// AccountView is the running balance of one cash desk or bank account
type AccountView struct {
	Account travel.Account  `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

// MonthlySummary is one month's rollup of ledger flow and booking activity.
// Month is formatted YYYY-MM.
type MonthlySummary struct {
	Month        string          `json:"month"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	Profit       decimal.Decimal `json:"profit"`
	BookingCount int             `json:"booking_count"`
}

// PortfolioView is the agency-wide rollup
type PortfolioView struct {
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	TotalProfit     decimal.Decimal `json:"total_profit"`
	NetResult       decimal.Decimal `json:"net_result"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}

// AggregateView is the complete derived output of one reconciliation pass.
// It is immutable once computed: consumers receive it through an atomic
// pointer swap and must never observe a partially updated view.
type AggregateView struct {
	ComputedAt time.Time        `json:"computed_at"`
	Bookings   []BookingView    `json:"bookings"`
	Tours      []TourView       `json:"tours"`
	Policies   []PolicyView     `json:"policies"`
	Accounts   []AccountView    `json:"accounts"`
	Portfolio  PortfolioView    `json:"portfolio"`
	Monthly    []MonthlySummary `json:"monthly"`
}

// BookingByID finds one booking's derived view
func (v *AggregateView) BookingByID(id uuid.UUID) (BookingView, bool) {
	for _, b := range v.Bookings {
		if b.BookingID == id {
			return b, true
		}
	}
	return BookingView{}, false
}

// TourByID finds one tour's derived view
func (v *AggregateView) TourByID(id uuid.UUID) (TourView, bool) {
	for _, t := range v.Tours {
		if t.TourID == id {
			return t, true
		}
	}
	return TourView{}, false
}

// AccountBalance returns the balance of one account, zero if unknown
func (v *AggregateView) AccountBalance(account travel.Account) decimal.Decimal {
	for _, a := range v.Accounts {
		if a.Account == account {
			return a.Balance
		}
	}
	return decimal.Zero
}
