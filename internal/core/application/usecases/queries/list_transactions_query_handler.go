package queries

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ListTransactionsQueryHandler struct {
	db *gorm.DB
}

func NewListTransactionsQueryHandler(db *gorm.DB) ListTransactionsQueryHandler {
	return ListTransactionsQueryHandler{db: db}
}

func (h ListTransactionsQueryHandler) Handle(ctx context.Context, query ListTransactionsQuery) (TransactionPage, error) {
	if err := query.Validate(); err != nil {
		return TransactionPage{}, err
	}

	userID := query.Principal().UserID().Bytes()
	var where string
	args := make([]any, 0, 4)
	switch query.Role() {
	case AsBuyer:
		where = ` WHERE t.buyer_id = ?`
		args = append(args, userID)
	case AsSeller:
		where = ` WHERE t.seller_id = ?`
		args = append(args, userID)
	default:
		where = ` WHERE (t.buyer_id = ? OR t.seller_id = ?)`
		args = append(args, userID, userID)
	}

	if statuses := query.Statuses(); len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = s.String()
		}
		where += ` AND t.status = ANY(?)`
		args = append(args, pq.Array(names))
	}

	p := query.Pagination()
	page := TransactionPage{
		Items:    make([]TransactionView, 0),
		Page:     p.Page,
		PageSize: p.PageSize,
	}

	if err := h.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM transactions t`+where, args...).
		Scan(&page.Total).Error; err != nil {
		return TransactionPage{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(
		`SELECT`+transactionColumns+transactionFrom+where+`
		ORDER BY t.created_at DESC, t.id
		LIMIT ? OFFSET ?`,
		append(args, p.PageSize, p.Offset())...,
	).Rows()
	if err != nil {
		return TransactionPage{}, err
	}
	defer rows.Close()

	for rows.Next() {
		view, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return TransactionPage{}, scanErr
		}
		page.Items = append(page.Items, view)
	}

	if err = rows.Err(); err != nil {
		return TransactionPage{}, err
	}
	return page, nil
}
