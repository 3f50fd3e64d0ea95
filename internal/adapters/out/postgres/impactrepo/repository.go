// Package impactrepo keeps the running economic-impact totals per company.
package impactrepo

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompanyImpactDTO is the row of company_impacts.
type CompanyImpactDTO struct {
	CompanyID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CO2Saved              decimal.Decimal `gorm:"column:co2_saved;type:numeric(18,4);not null;default:0"`
	WasteReduced          decimal.Decimal `gorm:"column:waste_reduced;type:numeric(18,4);not null;default:0"`
	CompletedTransactions int             `gorm:"type:int;not null;default:0"`
	UpdatedAt             time.Time       `gorm:"not null;autoUpdateTime:false"`
}

func (CompanyImpactDTO) TableName() string {
	return "company_impacts"
}

// GormImpactRepository implements ports.ImpactRepository using GORM.
type GormImpactRepository struct {
	db *gorm.DB
}

func NewGormImpactRepository(db *gorm.DB) *GormImpactRepository {
	return &GormImpactRepository{db: db}
}

// Accumulate upserts the totals in one statement, so concurrent completions for the
// same company add up instead of overwriting each other.
func (r *GormImpactRepository) Accumulate(
	ctx context.Context,
	companyID kernel.UUID,
	delta impact.Delta,
	now time.Time,
) error {
	if err := companyID.Validate(); err != nil {
		return err
	}

	dto := CompanyImpactDTO{
		CompanyID:             companyID.Bytes(),
		CO2Saved:              delta.CO2Saved,
		WasteReduced:          delta.WasteReduced,
		CompletedTransactions: 1,
		UpdatedAt:             now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"co2_saved":              gorm.Expr("company_impacts.co2_saved + EXCLUDED.co2_saved"),
			"waste_reduced":          gorm.Expr("company_impacts.waste_reduced + EXCLUDED.waste_reduced"),
			"completed_transactions": gorm.Expr("company_impacts.completed_transactions + 1"),
			"updated_at":             gorm.Expr("EXCLUDED.updated_at"),
		}),
	}).Create(&dto).Error
}
