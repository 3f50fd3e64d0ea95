package services_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpactCalculator_Calculate(t *testing.T) {
	now := time.Now()
	factors, err := impact.NewFactors(map[string]impact.Factor{
		"electronics": {CO2PerUnit: decimal.RequireFromString("12.5"), WastePerUnit: decimal.RequireFromString("1.2")},
	}, impact.Factor{CO2PerUnit: decimal.NewFromInt(1), WastePerUnit: decimal.NewFromInt(1)})
	require.NoError(t, err)
	calc := services.NewImpactCalculator(factors)

	seller, _ := identity.NewPrincipal(kernel.NewUUID())
	buyer, _ := identity.NewPrincipal(kernel.NewUUID())
	tx, err := transaction.NewTransaction(kernel.NewUUID(), transaction.Sale, buyer.UserID(), transaction.Listing{
		ProductID: kernel.NewUUID(),
		SellerID:  seller.UserID(),
		Category:  "Electronics",
		UnitPrice: kernel.MustMoney("100"),
		Available: 5,
	}, 4, now)
	require.NoError(t, err)

	t.Run("pending transaction has no impact", func(t *testing.T) {
		_, err := calc.Calculate(tx)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("completed transaction uses category factor", func(t *testing.T) {
		require.NoError(t, tx.Accept(seller, now))
		require.NoError(t, tx.Complete(buyer, now))

		delta, err := calc.Calculate(tx)

		require.NoError(t, err)
		assert.True(t, delta.CO2Saved.Equal(decimal.NewFromInt(50)))
		assert.True(t, delta.WasteReduced.Equal(decimal.RequireFromString("4.8")))
	})
}
