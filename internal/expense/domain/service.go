package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidVendorName  = errors.New("invalid_vendor_name")
	ErrInvalidNumber      = errors.New("invalid_number")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrInvalidIssueDate   = errors.New("invalid_issue_date")
	ErrInvalidTaxableBase = errors.New("invalid_taxable_base")
	ErrAlreadyPaid        = errors.New("already_paid")
)

// CreateExpenseRequest registers a supplier document. Number is the
// vendor's own reference, not allocated by the numbering authority.
type CreateExpenseRequest struct {
	Number      string           `json:"number"`
	VendorName  string           `json:"vendor_name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	IssueDate   time.Time        `json:"issue_date"`
	TaxableBase *decimal.Decimal `json:"taxable_base"`
	// TaxRate defaults to the configured company rate when omitted.
	TaxRate *int64 `json:"tax_rate,omitempty"`
}

// ListExpenseRequest selects a subset of expenses. Text matches vendor
// name, number and description; Status and Category are categorical
// dimensions with "all" as the sentinel.
type ListExpenseRequest struct {
	Text     string
	Status   string
	Category string
}

type ListExpenseResponse struct {
	Expenses []Expense `json:"expenses"`
}

type Service interface {
	Create(ctx context.Context, req CreateExpenseRequest) (Expense, error)
	GetByID(ctx context.Context, id string) (Expense, error)
	List(ctx context.Context, req ListExpenseRequest) (ListExpenseResponse, error)
	MarkPaid(ctx context.Context, id string) (Expense, error)
	Delete(ctx context.Context, id string) error
}
