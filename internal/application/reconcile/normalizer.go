package reconcile

import (
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
)

// DefaultExchangeRate is the fixed BGN-per-EUR peg used when configuration
// does not override it.
const DefaultExchangeRate = 1.95583

// Normalizer converts tagged monetary amounts into the canonical base
// currency using one fixed exchange rate. It is pure and never fails:
// an amount with an unrecognized or missing currency tag is treated as
// already being in the base currency.
//
// No rounding is applied here. Callers round at presentation boundaries
// only, so repeated conversions do not compound rounding error.
type Normalizer struct {
	rate decimal.Decimal
}

// NewNormalizer creates a normalizer with the given BGN-per-EUR rate.
// A zero or negative rate falls back to the default peg.
func NewNormalizer(rate decimal.Decimal) *Normalizer {
	if rate.LessThanOrEqual(decimal.Zero) {
		rate = decimal.NewFromFloat(DefaultExchangeRate)
	}
	return &Normalizer{rate: rate}
}

// NewDefaultNormalizer creates a normalizer with the default fixed rate
func NewDefaultNormalizer() *Normalizer {
	return NewNormalizer(decimal.NewFromFloat(DefaultExchangeRate))
}

// Rate returns the fixed exchange rate in use
func (n *Normalizer) Rate() decimal.Decimal {
	return n.rate
}

// Normalize returns the amount expressed in the base currency.
// Base-currency amounts pass through unchanged.
func (n *Normalizer) Normalize(m valueobject.Money) decimal.Decimal {
	if m.Currency() == valueobject.EUR {
		return m.Amount().Div(n.rate)
	}
	return m.Amount()
}

// Denormalize converts a base-currency value back into the given currency.
// Used only by presentation code that renders dual-currency figures.
func (n *Normalizer) Denormalize(value decimal.Decimal, currency valueobject.Currency) valueobject.Money {
	if currency == valueobject.EUR {
		return valueobject.NewMoney(value.Mul(n.rate), valueobject.EUR)
	}
	return valueobject.NewMoney(value, valueobject.BaseCurrency)
}
