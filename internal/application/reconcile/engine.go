package reconcile

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/travel"
)

// DefaultPaidTolerance is the rounding slack, in base currency, under which
// a remaining balance counts as fully paid. The exact threshold is a
// configuration value, not a business law: historical data shows amounts
// settled across currencies drift by a stotinka or two.
const DefaultPaidTolerance = 0.05

const fulfillmentPlaces = 2

// Engine computes the complete derived view from the four current record
// snapshots. Compute is a pure function: it holds no state between calls,
// never mutates its inputs, and never fails on data-level problems. Missing
// numeric fields count as zero, unknown currency tags as base currency, and
// negative transaction amounts are clamped to zero because the sign of a
// transaction is implied by its kind, never by the stored number.
type Engine struct {
	normalizer    *Normalizer
	paidTolerance decimal.Decimal
}

// EngineOption is a functional option for configuring the Engine
type EngineOption func(*Engine)

// WithNormalizer sets the currency normalizer
func WithNormalizer(n *Normalizer) EngineOption {
	return func(e *Engine) {
		if n != nil {
			e.normalizer = n
		}
	}
}

// WithPaidTolerance sets the paid-classification tolerance in base currency
func WithPaidTolerance(tolerance decimal.Decimal) EngineOption {
	return func(e *Engine) {
		if tolerance.GreaterThanOrEqual(decimal.Zero) {
			e.paidTolerance = tolerance
		}
	}
}

// NewEngine creates an aggregation engine with optional configuration
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		normalizer:    NewDefaultNormalizer(),
		paidTolerance: decimal.NewFromFloat(DefaultPaidTolerance),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Normalizer returns the engine's currency normalizer
func (e *Engine) Normalizer() *Normalizer {
	return e.normalizer
}

// Compute derives the full aggregate view from the four snapshots and the
// ledger index. Inputs are read-only; the returned view is freshly built.
func (e *Engine) Compute(bookings []travel.Booking, tours []travel.Tour, policies []travel.InsurancePolicy, index *LedgerIndex) *AggregateView {
	if index == nil {
		index = BuildLedgerIndex(nil)
	}

	// ComputedAt is stamped by the publisher: Compute stays a pure
	// function of its inputs, so identical snapshots yield identical views.
	view := &AggregateView{
		Bookings: make([]BookingView, 0, len(bookings)),
		Tours:    make([]TourView, 0, len(tours)),
		Policies: make([]PolicyView, 0, len(policies)),
		Accounts: make([]AccountView, 0, len(travel.Accounts)),
	}

	months := map[string]*MonthlySummary{}

	// Per-booking derivation and the portfolio profit rollup.
	for _, b := range bookings {
		bv := e.computeBooking(b, index)
		view.Bookings = append(view.Bookings, bv)

		if b.IsCancelled() {
			continue
		}
		if bv.Profit.IsPositive() {
			view.Portfolio.TotalProfit = view.Portfolio.TotalProfit.Add(bv.Profit)
		}
		m := monthOf(months, b.CreatedAt)
		m.BookingCount++
		if bv.Profit.IsPositive() {
			m.Profit = m.Profit.Add(bv.Profit)
		}
	}

	// Per-tour seat fulfillment from non-cancelled linked bookings.
	for _, tour := range tours {
		view.Tours = append(view.Tours, e.computeTour(tour, bookings))
	}

	// Per-policy settlement.
	for _, p := range policies {
		view.Policies = append(view.Policies, e.computePolicy(p))
	}

	// Account balances and ledger totals cover every transaction,
	// linked or not.
	balances := map[travel.Account]decimal.Decimal{}
	for _, t := range index.All() {
		amount := e.transactionAmount(t)
		switch t.Kind {
		case travel.TransactionIncome:
			balances[t.Account] = balances[t.Account].Add(amount)
			view.Portfolio.TotalIncome = view.Portfolio.TotalIncome.Add(amount)
			m := monthOf(months, t.Date)
			m.Income = m.Income.Add(amount)
		case travel.TransactionExpense:
			balances[t.Account] = balances[t.Account].Sub(amount)
			view.Portfolio.TotalExpense = view.Portfolio.TotalExpense.Add(amount)
			m := monthOf(months, t.Date)
			m.Expense = m.Expense.Add(amount)
		}
	}
	for _, account := range travel.Accounts {
		view.Accounts = append(view.Accounts, AccountView{
			Account: account,
			Balance: balances[account],
		})
	}
	view.Portfolio.NetResult = view.Portfolio.TotalIncome.Sub(view.Portfolio.TotalExpense)

	for _, p := range policies {
		view.Portfolio.TotalCommission = view.Portfolio.TotalCommission.Add(e.normalizer.Normalize(p.Commission))
	}

	view.Monthly = make([]MonthlySummary, 0, len(months))
	for _, m := range months {
		view.Monthly = append(view.Monthly, *m)
	}
	sort.Slice(view.Monthly, func(i, j int) bool {
		return view.Monthly[i].Month < view.Monthly[j].Month
	})

	return view
}

// computeBooking derives profit, collected total and payment status for one
// booking. Cancelled bookings still get a computed view for display; the
// caller excludes them from portfolio sums.
func (e *Engine) computeBooking(b travel.Booking, index *LedgerIndex) BookingView {
	finalAmt := e.normalizer.Normalize(b.FinalAmount)
	owed := e.normalizer.Normalize(b.AmountOwedToSupplier)
	transport := e.normalizer.Normalize(b.TransportCost)

	paid := decimal.Zero
	for _, t := range index.TransactionsFor(travel.LinkBooking, b.ID) {
		if t.Kind == travel.TransactionIncome {
			paid = paid.Add(e.transactionAmount(t))
		}
	}

	remaining := finalAmt.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return BookingView{
		BookingID:     b.ID,
		CustomerName:  b.CustomerName,
		Destination:   b.Destination,
		Status:        b.Status,
		Profit:        finalAmt.Sub(owed).Sub(transport),
		PaidTotal:     paid,
		Remaining:     remaining,
		PaymentStatus: e.classifyPayment(finalAmt, paid, remaining),
	}
}

// classifyPayment applies the tolerance-based payment classification.
// A zero-price booking with nothing collected is UNPAID, not PAID: the
// absence of a price is not a settlement.
func (e *Engine) classifyPayment(finalAmt, paid, remaining decimal.Decimal) PaymentStatus {
	if finalAmt.LessThanOrEqual(decimal.Zero) && paid.IsZero() {
		return PaymentUnpaid
	}
	if remaining.LessThanOrEqual(e.paidTolerance) {
		return PaymentPaid
	}
	if paid.IsPositive() {
		return PaymentPartial
	}
	return PaymentUnpaid
}

// computeTour derives booked seats and fulfillment for one tour
func (e *Engine) computeTour(tour travel.Tour, bookings []travel.Booking) TourView {
	booked := 0
	for _, b := range bookings {
		if b.IsCancelled() || b.LinkedTourID == nil || *b.LinkedTourID != tour.ID {
			continue
		}
		if b.TouristCount > 0 {
			booked += b.TouristCount
		}
	}

	fulfillment := decimal.Zero
	if tour.MaxSeats > 0 {
		fulfillment = decimal.NewFromInt(int64(booked)).
			Div(decimal.NewFromInt(int64(tour.MaxSeats))).
			Mul(decimal.NewFromInt(100)).
			Round(fulfillmentPlaces)
		hundred := decimal.NewFromInt(100)
		if fulfillment.GreaterThan(hundred) {
			fulfillment = hundred
		}
	}

	return TourView{
		TourID:             tour.ID,
		Name:               tour.Name,
		MaxSeats:           tour.MaxSeats,
		BookedSeats:        booked,
		FulfillmentPercent: fulfillment,
	}
}

// computePolicy derives the settlement state of one insurance policy
func (e *Engine) computePolicy(p travel.InsurancePolicy) PolicyView {
	settlement := PolicyReceivable
	switch {
	case p.PaidByCustomer && p.PaidToInsurer:
		settlement = PolicySettled
	case p.PaidByCustomer:
		settlement = PolicyPayableToInsurer
	}

	return PolicyView{
		PolicyID:    p.ID,
		InsuredName: p.InsuredName,
		Premium:     e.normalizer.Normalize(p.TotalPremium),
		Commission:  e.normalizer.Normalize(p.Commission),
		Settlement:  settlement,
	}
}

// transactionAmount returns the normalized magnitude of a transaction.
// Negative stored amounts are clamped to zero; direction comes from the
// transaction kind alone.
func (e *Engine) transactionAmount(t travel.Transaction) decimal.Decimal {
	amount := e.normalizer.Normalize(t.Amount)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// monthOf returns (creating if needed) the rollup bucket for ts
func monthOf(months map[string]*MonthlySummary, ts time.Time) *MonthlySummary {
	key := ts.Format("2006-01")
	m, ok := months[key]
	if !ok {
		m = &MonthlySummary{Month: key}
		months[key] = m
	}
	return m
}
