package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("known currency is kept", func(t *testing.T) {
		m := NewMoney(decimal.NewFromInt(100), EUR)
		assert.Equal(t, EUR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("empty currency falls back to base", func(t *testing.T) {
		m := NewMoney(decimal.NewFromInt(100), "")
		assert.Equal(t, BGN, m.Currency())
	})

	t.Run("unknown currency falls back to base", func(t *testing.T) {
		m := NewMoney(decimal.NewFromInt(100), "USD")
		assert.Equal(t, BGN, m.Currency())
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("Add with same currency", func(t *testing.T) {
		a := NewMoneyBGNFromFloat(10.50)
		b := NewMoneyBGNFromFloat(4.50)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(15.0)))
	})

	t.Run("Add with different currencies fails", func(t *testing.T) {
		a := NewMoneyBGNFromFloat(10)
		b := NewMoneyFromFloat(10, EUR)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("Subtract with same currency", func(t *testing.T) {
		a := NewMoneyBGNFromFloat(10)
		b := NewMoneyBGNFromFloat(3)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(7)))
	})

	t.Run("Negate and Abs", func(t *testing.T) {
		m := NewMoneyBGNFromFloat(5)
		n := m.Negate()
		assert.True(t, n.IsNegative())
		assert.True(t, n.Abs().Equals(m))
	})
}

func TestMoneyPredicates(t *testing.T) {
	assert.True(t, ZeroBGN().IsZero())
	assert.True(t, NewMoneyBGNFromFloat(1).IsPositive())
	assert.True(t, NewMoneyBGNFromFloat(-1).IsNegative())
}

func TestMoneyJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		m := NewMoneyFromFloat(306.77, EUR)
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var out Money
		require.NoError(t, json.Unmarshal(data, &out))
		assert.True(t, m.Equals(out))
	})

	t.Run("missing currency defaults to base", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"12.30"}`), &m))
		assert.Equal(t, BGN, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(12.30)))
	})

	t.Run("missing amount defaults to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`{"currency":"EUR"}`), &m))
		assert.True(t, m.IsZero())
		assert.Equal(t, EUR, m.Currency())
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string amount", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("42.10"))
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(42.10)))
		assert.Equal(t, BGN, m.Currency())
	})

	t.Run("nil scans to zero base", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
		assert.Equal(t, BGN, m.Currency())
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(true))
	})
}

func TestMoneyString(t *testing.T) {
	m := NewMoneyBGNFromFloat(1234.5)
	assert.Equal(t, "1234.50 BGN", m.String())
}
