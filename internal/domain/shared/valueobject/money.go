package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	BGN Currency = "BGN" // Bulgarian Lev, the base currency all sums are expressed in
	EUR Currency = "EUR" // Euro, converted through the fixed exchange rate
)

// BaseCurrency is the canonical currency every amount is normalized to
// before any sum or comparison.
const BaseCurrency = BGN

// IsKnown reports whether c is one of the currencies this system handles.
// Unknown codes are treated as BGN downstream rather than rejected; legacy
// records carry untagged amounts that predate the currency field.
func (c Currency) IsKnown() bool {
	return c == BGN || c == EUR
}

// Money is a value object representing monetary amounts.
// It is immutable - all operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency.
// An empty or unknown currency tag falls back to the base currency.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	if !currency.IsKnown() {
		currency = BaseCurrency
	}
	return Money{amount: amount, currency: currency}
}

// NewMoneyFromFloat creates Money from a float64 value
func NewMoneyFromFloat(amount float64, currency Currency) Money {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency), nil
}

// NewMoneyBGN creates Money in the base currency
func NewMoneyBGN(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: BGN}
}

// NewMoneyBGNFromFloat creates base-currency Money from float64
func NewMoneyBGNFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: BGN}
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return NewMoney(decimal.Zero, currency)
}

// ZeroBGN returns a zero-value Money in the base currency
func ZeroBGN() Money {
	return Zero(BGN)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code. The zero Money value has an empty
// tag, which normalization treats as the base currency.
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts.
// Returns error if currencies don't match; cross-currency sums go through
// the reconcile package's normalizer instead.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns a new Money with the difference.
// Returns error if currencies don't match.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Abs returns a new Money with the absolute value
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.currency}
}

// Round returns a new Money rounded to the specified decimal places
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// Float64 returns the amount as a float64 (may lose precision)
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// A missing or unknown currency tag degrades to the base currency and a
// missing amount to zero; record snapshots from the store must never fail
// to bind because one legacy field is absent.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Amount == "" {
		m.amount = decimal.Zero
	} else {
		amount, err := decimal.NewFromString(v.Amount)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		m.amount = amount
	}
	if !v.Currency.IsKnown() {
		v.Currency = BaseCurrency
	}
	m.currency = v.Currency
	return nil
}

// Value implements driver.Valuer for database storage.
// Stores the amount only; the currency tag lives in a sibling column.
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
// Scans only the amount; currency defaults to the base currency unless
// already set by the owning model's currency column.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = BaseCurrency
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case float64:
		m.amount = decimal.NewFromFloat(v)
		if m.currency == "" {
			m.currency = BaseCurrency
		}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	if m.currency == "" {
		m.currency = BaseCurrency
	}
	return nil
}

// WithCurrency returns a copy of m tagged with the given currency.
// Used when rehydrating from storage where amount and tag are separate columns.
func (m Money) WithCurrency(currency Currency) Money {
	return NewMoney(m.amount, currency)
}
