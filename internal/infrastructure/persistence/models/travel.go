package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
	"github.com/tourops/backend/internal/domain/travel"
)

// BookingModel is the persistence shape of a booking.
// StoredProfit is a legacy column written by an earlier generation of the
// system; it is persisted for backwards compatibility with old exports but
// never read back into a computation. The reconciliation engine always
// recomputes profit from the source amounts.
type BookingModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`

	CustomerName         string          `gorm:"column:customer_name;not null"`
	Destination          string          `gorm:"column:destination"`
	FinalAmount          decimal.Decimal `gorm:"column:final_amount;type:decimal(20,4);default:0"`
	FinalAmountCurrency  string          `gorm:"column:final_amount_currency;default:BGN"`
	OwedToSupplier       decimal.Decimal `gorm:"column:owed_to_supplier;type:decimal(20,4);default:0"`
	OwedCurrency         string          `gorm:"column:owed_currency;default:BGN"`
	TransportCost        decimal.Decimal `gorm:"column:transport_cost;type:decimal(20,4);default:0"`
	TransportCurrency    string          `gorm:"column:transport_currency;default:BGN"`
	Status               string          `gorm:"column:status;not null;default:PENDING"`
	TouristCount         int             `gorm:"column:tourist_count;default:0"`
	LinkedTourID         *uuid.UUID      `gorm:"column:linked_tour_id;type:uuid;index"`
	StoredProfit         decimal.Decimal `gorm:"column:stored_profit;type:decimal(20,4);default:0"`
}

func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts the model to a domain booking
func (m *BookingModel) ToDomain() travel.Booking {
	return travel.Booking{
		ID:                   m.ID,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
		CustomerName:         m.CustomerName,
		Destination:          m.Destination,
		FinalAmount:          money(m.FinalAmount, m.FinalAmountCurrency),
		AmountOwedToSupplier: money(m.OwedToSupplier, m.OwedCurrency),
		TransportCost:        money(m.TransportCost, m.TransportCurrency),
		Status:               travel.BookingStatus(m.Status),
		TouristCount:         m.TouristCount,
		LinkedTourID:         m.LinkedTourID,
	}
}

// BookingModelFromDomain converts a domain booking to its persistence shape
func BookingModelFromDomain(b *travel.Booking) *BookingModel {
	return &BookingModel{
		ID:                  b.ID,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
		CustomerName:        b.CustomerName,
		Destination:         b.Destination,
		FinalAmount:         b.FinalAmount.Amount(),
		FinalAmountCurrency: string(b.FinalAmount.Currency()),
		OwedToSupplier:      b.AmountOwedToSupplier.Amount(),
		OwedCurrency:        string(b.AmountOwedToSupplier.Currency()),
		TransportCost:       b.TransportCost.Amount(),
		TransportCurrency:   string(b.TransportCost.Currency()),
		Status:              string(b.Status),
		TouristCount:        b.TouristCount,
		LinkedTourID:        b.LinkedTourID,
	}
}

// TourModel is the persistence shape of a tour
type TourModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`

	Name          string    `gorm:"column:name;not null"`
	MaxSeats      int       `gorm:"column:max_seats;default:0"`
	DepartureDate time.Time `gorm:"column:departure_date"`
	ArrivalDate   time.Time `gorm:"column:arrival_date"`
}

func (TourModel) TableName() string {
	return "tours"
}

// ToDomain converts the model to a domain tour
func (m *TourModel) ToDomain() travel.Tour {
	return travel.Tour{
		ID:            m.ID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		Name:          m.Name,
		MaxSeats:      m.MaxSeats,
		DepartureDate: m.DepartureDate,
		ArrivalDate:   m.ArrivalDate,
	}
}

// TourModelFromDomain converts a domain tour to its persistence shape
func TourModelFromDomain(t *travel.Tour) *TourModel {
	return &TourModel{
		ID:            t.ID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		Name:          t.Name,
		MaxSeats:      t.MaxSeats,
		DepartureDate: t.DepartureDate,
		ArrivalDate:   t.ArrivalDate,
	}
}

// PolicyModel is the persistence shape of an insurance policy
type PolicyModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`

	InsuredName        string          `gorm:"column:insured_name;not null"`
	TotalPremium       decimal.Decimal `gorm:"column:total_premium;type:decimal(20,4);default:0"`
	PremiumCurrency    string          `gorm:"column:premium_currency;default:BGN"`
	Commission         decimal.Decimal `gorm:"column:commission;type:decimal(20,4);default:0"`
	CommissionCurrency string          `gorm:"column:commission_currency;default:BGN"`
	PaidByCustomer     bool            `gorm:"column:paid_by_customer;default:false"`
	PaidToInsurer      bool            `gorm:"column:paid_to_insurer;default:false"`
}

func (PolicyModel) TableName() string {
	return "insurance_policies"
}

// ToDomain converts the model to a domain policy
func (m *PolicyModel) ToDomain() travel.InsurancePolicy {
	return travel.InsurancePolicy{
		ID:             m.ID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		InsuredName:    m.InsuredName,
		TotalPremium:   money(m.TotalPremium, m.PremiumCurrency),
		Commission:     money(m.Commission, m.CommissionCurrency),
		PaidByCustomer: m.PaidByCustomer,
		PaidToInsurer:  m.PaidToInsurer,
	}
}

// PolicyModelFromDomain converts a domain policy to its persistence shape
func PolicyModelFromDomain(p *travel.InsurancePolicy) *PolicyModel {
	return &PolicyModel{
		ID:                 p.ID,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		InsuredName:        p.InsuredName,
		TotalPremium:       p.TotalPremium.Amount(),
		PremiumCurrency:    string(p.TotalPremium.Currency()),
		Commission:         p.Commission.Amount(),
		CommissionCurrency: string(p.Commission.Currency()),
		PaidByCustomer:     p.PaidByCustomer,
		PaidToInsurer:      p.PaidToInsurer,
	}
}

// TransactionModel is the persistence shape of a ledger transaction
type TransactionModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`

	Kind           string          `gorm:"column:kind;not null"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(20,4);default:0"`
	AmountCurrency string          `gorm:"column:amount_currency;default:BGN"`
	Date           time.Time       `gorm:"column:date;index"`
	Account        string          `gorm:"column:account;not null"`
	LinkedKind     *string         `gorm:"column:linked_kind;index:idx_transactions_link"`
	LinkedID       *uuid.UUID      `gorm:"column:linked_id;type:uuid;index:idx_transactions_link"`
	Note           string          `gorm:"column:note"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the model to a domain transaction
func (m *TransactionModel) ToDomain() travel.Transaction {
	var linked *travel.EntityRef
	if m.LinkedKind != nil && m.LinkedID != nil {
		linked = &travel.EntityRef{Kind: travel.LinkedKind(*m.LinkedKind), ID: *m.LinkedID}
	}
	return travel.Transaction{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Kind:      travel.TransactionKind(m.Kind),
		Amount:    money(m.Amount, m.AmountCurrency),
		Date:      m.Date,
		Account:   travel.Account(m.Account),
		Linked:    linked,
		Note:      m.Note,
	}
}

// TransactionModelFromDomain converts a domain transaction to its
// persistence shape
func TransactionModelFromDomain(t *travel.Transaction) *TransactionModel {
	m := &TransactionModel{
		ID:             t.ID,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		Kind:           string(t.Kind),
		Amount:         t.Amount.Amount(),
		AmountCurrency: string(t.Amount.Currency()),
		Date:           t.Date,
		Account:        string(t.Account),
		Note:           t.Note,
	}
	if t.Linked != nil {
		kind := string(t.Linked.Kind)
		id := t.Linked.ID
		m.LinkedKind = &kind
		m.LinkedID = &id
	}
	return m
}

// All lists every model for schema migration
func All() []any {
	return []any{
		&BookingModel{},
		&TourModel{},
		&PolicyModel{},
		&TransactionModel{},
	}
}

// money rebuilds a tagged Money from its two stored columns.
// Empty or unknown currency columns degrade to the base currency.
func money(amount decimal.Decimal, currency string) valueobject.Money {
	return valueobject.NewMoney(amount, valueobject.Currency(currency))
}
