package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/core/domain/model/kernel"
)

// ImpactRepository accumulates per-company impact totals.
type ImpactRepository interface {
	// Accumulate adds delta to the company's totals, creating them on first use.
	Accumulate(ctx context.Context, companyID kernel.UUID, delta impact.Delta, now time.Time) error
}
