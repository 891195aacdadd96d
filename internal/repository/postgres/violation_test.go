package postgres

import (
	"testing"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdownJSON(t *testing.T) {
	items := []domain.FineItem{
		{ViolationTypeID: 1, Description: "Illegal parking", Amount: decimal.RequireFromString("20.00")},
		{ViolationTypeID: 3, Description: "Blocking bus lane", Amount: decimal.RequireFromString("100.50")},
	}

	data, err := marshalBreakdown(items)
	require.NoError(t, err)

	restored := unmarshalBreakdown(data)
	require.Len(t, restored, 2)
	assert.Equal(t, "Illegal parking", restored[0].Description)
	assert.True(t, restored[1].Amount.Equal(decimal.RequireFromString("100.50")))
}

func TestBreakdownJSON_Degrades(t *testing.T) {
	data, err := marshalBreakdown(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	assert.Empty(t, unmarshalBreakdown(nil))
	assert.Empty(t, unmarshalBreakdown([]byte(`{"broken":`)))
	assert.NotNil(t, unmarshalBreakdown([]byte(`not json`)))
}
