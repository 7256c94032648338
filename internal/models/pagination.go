package models

// Page wraps an offset-paginated list response. total_count drives classic
// page-number pagination in the UI.
type Page[T any] struct {
	Data       []T   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Skip       int64 `json:"skip"`
	Limit      int64 `json:"limit"`
}

// CursorPage wraps a cursor-paginated list response (files, batches). The
// server detects "more" by fetching one item past the requested page size.
type CursorPage[T any] struct {
	Data    []T    `json:"data"`
	FirstID string `json:"first_id,omitempty"`
	LastID  string `json:"last_id,omitempty"`
	HasMore bool   `json:"has_more"`
}

// TransactionPage is a Page of transactions plus the balance at the start of
// the page, which lets the UI derive per-row running balances.
type TransactionPage struct {
	Data             []Transaction `json:"data"`
	TotalCount       int64         `json:"total_count"`
	Skip             int64         `json:"skip"`
	Limit            int64         `json:"limit"`
	PageStartBalance float64       `json:"page_start_balance,string"`
}

// TotalPages returns the number of pages for the given page size.
func (p Page[T]) TotalPages() int64 {
	if p.Limit <= 0 {
		return 0
	}
	return (p.TotalCount + p.Limit - 1) / p.Limit
}
