package queries

// Page bounds. Out-of-range values are clamped, never rejected.
const (
	DefaultTransactionPageSize  = 20
	MaxTransactionPageSize      = 100
	DefaultNotificationPageSize = 50
	MaxNotificationPageSize     = 200
)

// Pagination is a normalized 1-based page request.
type Pagination struct {
	Page     int
	PageSize int
}

func newPagination(page, pageSize, defaultSize, maxSize int) Pagination {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize <= 0:
		pageSize = defaultSize
	case pageSize > maxSize:
		pageSize = maxSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
