package commerce

import (
	"testing"

	"github.com/deppfellow/labstore/internal/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_Validate(t *testing.T) {
	free := Order{ProfileID: 1, TotalPrice: decimal.Zero}
	require.NoError(t, free.Validate())

	negative := Order{ProfileID: 1, TotalPrice: decimal.RequireFromString("-0.01")}
	err := negative.Validate()
	require.True(t, errs.IsValidation(err))
	assert.NotEmpty(t, err.(*errs.Error).Field("total_price"))
}

func TestProduct_Sell(t *testing.T) {
	p := Product{InStock: 2, IsAvailable: true}

	p.Sell()
	assert.Equal(t, 1, p.InStock)
	assert.True(t, p.IsAvailable)

	p.Sell()
	assert.Equal(t, 0, p.InStock)
	assert.False(t, p.IsAvailable)
}
