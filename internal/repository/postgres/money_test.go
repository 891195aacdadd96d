package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCents(t *testing.T) {
	tests := []struct {
		amount string
		cents  int64
	}{
		{"80.00", 8000},
		{"20.03", 2003},
		{"0.01", 1},
		{"0", 0},
		{"12.345", 1235},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			cents := toCents(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.cents, cents)
			assert.True(t, fromCents(cents).Equal(decimal.RequireFromString(tt.amount).Round(2)))
		})
	}
}

func TestNullCents(t *testing.T) {
	assert.Nil(t, nullToCents(decimal.NullDecimal{}))
	assert.False(t, nullFromCents(nil).Valid)

	cents := nullToCents(decimal.NewNullDecimal(decimal.RequireFromString("40.50")))
	if assert.NotNil(t, cents) {
		assert.Equal(t, int64(4050), *cents)
	}

	restored := nullFromCents(cents)
	assert.True(t, restored.Valid)
	assert.Equal(t, "40.50", restored.Decimal.StringFixed(2))
}
