package queries

import (
	"context"

	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetTransactionQueryHandler struct {
	db *gorm.DB
}

func NewGetTransactionQueryHandler(db *gorm.DB) GetTransactionQueryHandler {
	return GetTransactionQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for an unknown id and errs.ForbiddenError
// when the caller is neither a participant nor an admin.
func (h GetTransactionQueryHandler) Handle(ctx context.Context, query GetTransactionQuery) (TransactionView, error) {
	if err := query.Validate(); err != nil {
		return TransactionView{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(
		`SELECT`+transactionColumns+transactionFrom+`
		WHERE t.id = ?`,
		query.TransactionID().Bytes(),
	).Rows()
	if err != nil {
		return TransactionView{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return TransactionView{}, err
		}
		return TransactionView{}, errs.NewObjectNotFoundError("transaction", query.TransactionID().String())
	}

	view, err := scanTransaction(rows)
	if err != nil {
		return TransactionView{}, err
	}

	p := query.Principal()
	if !p.IsAdmin() && !view.IsParticipant(p.UserID()) {
		return TransactionView{}, errs.NewForbiddenError("read transaction", "caller is neither a participant nor an admin")
	}
	return view, nil
}
