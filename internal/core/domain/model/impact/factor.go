// Package impact models the economic and environmental impact accumulated by
// companies when their surplus goods change hands.
package impact

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Factor is the impact of moving one unit of a product category.
type Factor struct {
	CO2PerUnit   decimal.Decimal
	WastePerUnit decimal.Decimal
}

func (f Factor) Validate() error {
	var co2Err, wasteErr error
	if f.CO2PerUnit.IsNegative() {
		co2Err = errs.NewValueIsInvalidErrorWithCause("co2 per unit", fmt.Errorf("%s is negative", f.CO2PerUnit))
	}
	if f.WastePerUnit.IsNegative() {
		wasteErr = errs.NewValueIsInvalidErrorWithCause("waste per unit", fmt.Errorf("%s is negative", f.WastePerUnit))
	}
	return errors.Join(co2Err, wasteErr)
}

// Factors maps product categories to factors. Unknown categories use the fallback.
type Factors struct {
	byCategory map[string]Factor
	fallback   Factor
}

// NewFactors validates every factor. Category keys are matched case-insensitively.
func NewFactors(byCategory map[string]Factor, fallback Factor) (Factors, error) {
	if err := fallback.Validate(); err != nil {
		return Factors{}, err
	}
	normalized := make(map[string]Factor, len(byCategory))
	for category, f := range byCategory {
		key := normalize(category)
		if key == "" {
			return Factors{}, errs.NewValueIsRequiredError("category")
		}
		if err := f.Validate(); err != nil {
			return Factors{}, fmt.Errorf("category %s: %w", category, err)
		}
		normalized[key] = f
	}
	return Factors{byCategory: normalized, fallback: fallback}, nil
}

// For returns the factor of category, or the fallback.
func (f Factors) For(category string) Factor {
	if factor, ok := f.byCategory[normalize(category)]; ok {
		return factor
	}
	return f.fallback
}

// Categories returns the configured category keys.
func (f Factors) Categories() map[string]Factor {
	return maps.Clone(f.byCategory)
}

func normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
