package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// LineInput is the caller-supplied shape of one invoice line.
type LineInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest creates a validated invoice. When Lines are given
// the taxable base is aggregated from them; otherwise TaxableBase must be
// supplied directly. The invoice number is rendered from the configured
// template and the per-year sequence.
type CreateInvoiceRequest struct {
	ClientID    string           `json:"client_id,omitempty"`
	ClientName  string           `json:"client_name"`
	Description string           `json:"description"`
	IssueDate   time.Time        `json:"issue_date"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	TaxableBase *decimal.Decimal `json:"taxable_base,omitempty"`
	// TaxRate defaults to the configured company rate when omitted.
	TaxRate *int64      `json:"tax_rate,omitempty"`
	Lines   []LineInput `json:"lines,omitempty"`
}

// ListInvoiceRequest selects a subset of invoices. Text matches client
// name, number and description; Status filters on the display status with
// "all" as the sentinel. ClientID narrows the list to one client's
// invoices.
type ListInvoiceRequest struct {
	Text     string
	Status   string
	ClientID *snowflake.ID
}

// InvoiceView is an invoice with its read-time classification and lines.
type InvoiceView struct {
	Invoice
	DisplayStatus Status        `json:"display_status"`
	Lines         []InvoiceLine `json:"lines,omitempty"`
}

type ListInvoiceResponse struct {
	Invoices []InvoiceView `json:"invoices"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (InvoiceView, error)
	GetByID(ctx context.Context, id string) (InvoiceView, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	MarkPaid(ctx context.Context, id string) (InvoiceView, error)
	Reopen(ctx context.Context, id string) (InvoiceView, error)
	AddLine(ctx context.Context, invoiceID string, line LineInput) (InvoiceView, error)
	UpdateLine(ctx context.Context, invoiceID, lineID string, line LineInput) (InvoiceView, error)
	RemoveLine(ctx context.Context, invoiceID, lineID string) (InvoiceView, error)
	Delete(ctx context.Context, id string) error
}
