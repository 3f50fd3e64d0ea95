package services

import (
	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ImpactCalculator computes the impact of a completed transaction:
// category factor times quantity, for both CO2 saved and waste reduced.
type ImpactCalculator struct {
	factors impact.Factors
}

func NewImpactCalculator(factors impact.Factors) ImpactCalculator {
	return ImpactCalculator{factors: factors}
}

// Calculate returns the delta for tx. Only completed transactions contribute.
func (c ImpactCalculator) Calculate(tx *transaction.Transaction) (impact.Delta, error) {
	if err := tx.Validate(); err != nil {
		return impact.Delta{}, err
	}
	if tx.Status() != transaction.Completed {
		return impact.Delta{}, errs.NewValueIsInvalidError("only completed transactions have an impact")
	}

	factor := c.factors.For(tx.Category())
	qty := decimal.NewFromInt(int64(tx.Quantity()))
	return impact.Delta{
		CO2Saved:     factor.CO2PerUnit.Mul(qty),
		WasteReduced: factor.WastePerUnit.Mul(qty),
	}, nil
}
