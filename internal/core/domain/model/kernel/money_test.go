package kernel_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{name: "zero", amount: "0"},
		{name: "fractional", amount: "12.50"},
		{name: "negative", amount: "-0.01", wantErr: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := kernel.NewMoney(decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.Decimal().Equal(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestMoneyFromString_Malformed(t *testing.T) {
	_, err := kernel.MoneyFromString("ten")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestMoney_Arithmetic(t *testing.T) {
	price := kernel.MustMoney("19.99")

	assert.Equal(t, "59.97", price.Mul(3).String())
	assert.Equal(t, "20.99", price.Add(kernel.MustMoney("1")).String())
	assert.True(t, price.Mul(-1).IsZero())
	assert.True(t, kernel.ZeroMoney().IsEqual(kernel.Money{}))
}
