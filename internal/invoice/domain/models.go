// Package domain contains core types for income documents (facturas).
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// StoredStatus is the persisted payment state of an invoice. Overdue is
// never stored; it is derived at read time by ClassifyStatus.
type StoredStatus string

const (
	StoredStatusPending StoredStatus = "pending"
	StoredStatusPaid    StoredStatus = "paid"
)

// Invoice is an issued income document. TaxAmount and Total are derived
// from TaxableBase and TaxRate and are recomputed by the service on every
// mutation; callers never write them directly.
type Invoice struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	Number      string            `gorm:"type:text;not null;uniqueIndex" json:"number"`
	ClientID    *snowflake.ID     `gorm:"index" json:"client_id,omitempty"`
	ClientName  string            `gorm:"type:text;not null" json:"client_name"`
	Description string            `gorm:"type:text" json:"description"`
	IssueDate   time.Time         `gorm:"not null" json:"issue_date"`
	DueDate     *time.Time        `gorm:"" json:"due_date,omitempty"`
	TaxableBase decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"taxable_base"`
	TaxRate     int64             `gorm:"not null" json:"tax_rate"`
	TaxAmount   decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"tax_amount"`
	Total       decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"total"`
	Status      StoredStatus      `gorm:"type:text;not null;default:'pending'" json:"status"`
	PaidAt      *time.Time        `gorm:"" json:"paid_at,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceLine is one priced entry of an invoice. Lines are owned by their
// invoice and only change through the invoice line-editing operations.
type InvoiceLine struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_total"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceLine) TableName() string { return "invoice_lines" }

// InvoiceSequence is the per-year numbering authority row. Sequence values
// never repeat within a year.
type InvoiceSequence struct {
	Year    int   `gorm:"primaryKey" json:"year"`
	LastSeq int64 `gorm:"not null" json:"last_seq"`
}

// TableName sets the database table name.
func (InvoiceSequence) TableName() string { return "invoice_sequences" }
