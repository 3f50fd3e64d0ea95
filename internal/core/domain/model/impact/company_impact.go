package impact

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Delta is the impact contributed by one completed transaction.
type Delta struct {
	CO2Saved     decimal.Decimal
	WasteReduced decimal.Decimal
}

func (d Delta) IsZero() bool {
	return d.CO2Saved.IsZero() && d.WasteReduced.IsZero()
}

// CompanyImpact is the running total of a company. Totals only grow: cancellations
// after completion are impossible, and cancelling an accepted transaction never
// contributed anything.
type CompanyImpact struct {
	CompanyID             kernel.UUID
	CO2Saved              decimal.Decimal
	WasteReduced          decimal.Decimal
	CompletedTransactions int
	UpdatedAt             time.Time
}

// Apply adds d and counts one more completed transaction.
func (c CompanyImpact) Apply(d Delta, now time.Time) CompanyImpact {
	return CompanyImpact{
		CompanyID:             c.CompanyID,
		CO2Saved:              c.CO2Saved.Add(d.CO2Saved),
		WasteReduced:          c.WasteReduced.Add(d.WasteReduced),
		CompletedTransactions: c.CompletedTransactions + 1,
		UpdatedAt:             now,
	}
}
