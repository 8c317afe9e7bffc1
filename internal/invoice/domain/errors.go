package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidClientName  = errors.New("invalid_client_name")
	ErrInvalidIssueDate   = errors.New("invalid_issue_date")
	ErrInvalidDueDate     = errors.New("invalid_due_date")
	ErrInvalidTaxableBase = errors.New("invalid_taxable_base")
	ErrAlreadyPaid        = errors.New("already_paid")
	ErrNotPaid            = errors.New("not_paid")
	ErrLineNotFound       = errors.New("line_not_found")
	ErrLastLine           = errors.New("last_line")
)
