// Package domain contains the dashboard read model.
package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Summary is the landing-page snapshot. Every figure is computed from the
// ledger at request time, nothing here is cached or stored.
type Summary struct {
	TotalInvoiced   decimal.Decimal `json:"total_invoiced"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetResult       decimal.Decimal `json:"net_result"`
	PendingInvoices int64           `json:"pending_invoices"`
	OverdueInvoices int64           `json:"overdue_invoices"`
	PendingExpenses int64           `json:"pending_expenses"`
	ClientCount     int64           `json:"client_count"`
	UserCount       int64           `json:"user_count"`
}

type Service interface {
	Summary(ctx context.Context) (Summary, error)
}
