package domain

import "time"

// Status is the lifecycle state shown to callers. Paid is terminal;
// Overdue is a pending invoice past its due date.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// ClassifyStatus derives the display status from the stored state and the
// current instant. It runs on every read: an invoice becomes overdue by
// the passage of time alone, without any write.
func ClassifyStatus(stored StoredStatus, dueDate *time.Time, now time.Time) Status {
	if stored == StoredStatusPaid {
		return StatusPaid
	}
	if dueDate != nil && dueDate.Before(now) {
		return StatusOverdue
	}
	return StatusPending
}

// DisplayStatus classifies the invoice against now.
func (i Invoice) DisplayStatus(now time.Time) Status {
	return ClassifyStatus(i.Status, i.DueDate, now)
}
