// Package domain contains core types for client relationships.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Phase is the client's stage in the commercial relationship funnel. It is
// a plain relationship label set by an explicit business action; it is
// never derived from the client's documents and never touches billing
// totals. Any phase may move to any other phase, a rejected client can be
// re-engaged.
type Phase string

const (
	PhaseAwaitingPayment Phase = "awaiting_payment"
	PhasePaid            Phase = "paid"
	PhaseInMaintenance   Phase = "in_maintenance"
	PhaseRejected        Phase = "rejected"
)

// Valid reports whether p belongs to the closed phase set.
func (p Phase) Valid() bool {
	switch p {
	case PhaseAwaitingPayment, PhasePaid, PhaseInMaintenance, PhaseRejected:
		return true
	}
	return false
}

// Client is a billed counterparty.
type Client struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	ContactName string       `gorm:"type:text" json:"contact_name"`
	Email       string       `gorm:"type:text;not null" json:"email"`
	Phone       string       `gorm:"type:text" json:"phone"`
	Phase       Phase        `gorm:"type:text;not null;default:'awaiting_payment'" json:"phase"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

// PhaseEvent records one phase transition. Phase history drives
// client-relationship reporting, every transition is logged.
type PhaseEvent struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	ClientID   snowflake.ID `gorm:"not null;index" json:"client_id"`
	FromPhase  Phase        `gorm:"type:text;not null" json:"from_phase"`
	ToPhase    Phase        `gorm:"type:text;not null" json:"to_phase"`
	OccurredAt time.Time    `gorm:"not null;index" json:"occurred_at"`
}

// TableName sets the database table name.
func (PhaseEvent) TableName() string { return "client_phase_events" }

// BillingStats are read-time aggregates over the client's invoices.
type BillingStats struct {
	TotalBilled     decimal.Decimal `json:"total_billed"`
	PendingInvoices int64           `json:"pending_invoices"`
}

// ClientView is a client with its derived billing aggregates.
type ClientView struct {
	Client
	BillingStats
}
