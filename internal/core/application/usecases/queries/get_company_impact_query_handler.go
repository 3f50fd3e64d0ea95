package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetCompanyImpactQueryHandler struct {
	db *gorm.DB
}

func NewGetCompanyImpactQueryHandler(db *gorm.DB) GetCompanyImpactQueryHandler {
	return GetCompanyImpactQueryHandler{db: db}
}

func (h GetCompanyImpactQueryHandler) Handle(ctx context.Context, query GetCompanyImpactQuery) (impact.CompanyImpact, error) {
	if err := query.Validate(); err != nil {
		return impact.CompanyImpact{}, err
	}
	principal := query.Principal()
	if !principal.IsAdmin() && !principal.MemberOf(query.CompanyID()) {
		return impact.CompanyImpact{}, errs.NewForbiddenError("read company impact", "caller is neither a member of the company nor an admin")
	}

	result := impact.CompanyImpact{
		CompanyID:    query.CompanyID(),
		CO2Saved:     decimal.Zero,
		WasteReduced: decimal.Zero,
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			co2_saved,
			waste_reduced,
			completed_transactions,
			updated_at
		FROM company_impacts
		WHERE company_id = ?
	`, query.CompanyID().Bytes()).Rows()
	if err != nil {
		return impact.CompanyImpact{}, err
	}
	defer rows.Close()

	if rows.Next() {
		var updatedAt time.Time
		if err = rows.Scan(
			&result.CO2Saved,
			&result.WasteReduced,
			&result.CompletedTransactions,
			&updatedAt,
		); err != nil {
			return impact.CompanyImpact{}, err
		}
		result.UpdatedAt = updatedAt.UTC()
	}

	if err = rows.Err(); err != nil {
		return impact.CompanyImpact{}, err
	}
	return result, nil
}
