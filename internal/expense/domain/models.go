// Package domain contains core types for expense documents (gastos).
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Status is the payment state of an expense. Expenses carry no due date,
// so unlike invoices there is no derived overdue state.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Expense is a supplier document. TaxAmount and Total are derived from
// TaxableBase and TaxRate; callers never write them directly.
type Expense struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	Number      string          `gorm:"type:text;not null" json:"number"`
	VendorName  string          `gorm:"type:text;not null" json:"vendor_name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:text;not null;index" json:"category"`
	IssueDate   time.Time       `gorm:"not null" json:"issue_date"`
	TaxableBase decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"taxable_base"`
	TaxRate     int64           `gorm:"not null" json:"tax_rate"`
	TaxAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax_amount"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Status      Status          `gorm:"type:text;not null;default:'pending'" json:"status"`
	PaidAt      *time.Time      `gorm:"" json:"paid_at,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Expense) TableName() string { return "expenses" }
