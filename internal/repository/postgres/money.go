package postgres

import (
	"github.com/frontandrew/patrol/internal/domain"
	"github.com/shopspring/decimal"
)

// Деньги хранятся в БД в центах (BIGINT)

func toCents(d decimal.Decimal) int64 {
	return d.Shift(domain.MoneyPlaces).Round(0).IntPart()
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -domain.MoneyPlaces)
}

func nullToCents(d decimal.NullDecimal) *int64 {
	if !d.Valid {
		return nil
	}
	cents := toCents(d.Decimal)
	return &cents
}

func nullFromCents(cents *int64) decimal.NullDecimal {
	if cents == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(fromCents(*cents))
}
