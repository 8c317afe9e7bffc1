// Package domain contains the company-wide settings record.
package domain

import (
	"context"
	"errors"
	"time"
)

// Settings is the singleton configuration row edited on the settings page.
// The invoice service reads the numbering template and the default tax
// rate from here on every create.
type Settings struct {
	ID                    int64     `gorm:"primaryKey" json:"id"`
	CompanyName           string    `gorm:"type:text;not null" json:"company_name"`
	Currency              string    `gorm:"type:text;not null" json:"currency"`
	DefaultTaxRate        int64     `gorm:"not null" json:"default_tax_rate"`
	InvoiceNumberTemplate string    `gorm:"type:text;not null" json:"invoice_number_template"`
	UpdatedAt             time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Settings) TableName() string { return "settings" }

// DefaultID is the fixed primary key of the singleton row.
const DefaultID int64 = 1

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidTaxRate  = errors.New("invalid_tax_rate")
)

type UpdateSettingsRequest struct {
	CompanyName           *string `json:"company_name,omitempty"`
	Currency              *string `json:"currency,omitempty"`
	DefaultTaxRate        *int64  `json:"default_tax_rate,omitempty"`
	InvoiceNumberTemplate *string `json:"invoice_number_template,omitempty"`
}

type Service interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (Settings, error)
}
