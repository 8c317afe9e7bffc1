package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/gestoria/pkg/db/pagination"
)

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidPhase = errors.New("invalid_phase")
)

type CreateClientRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

type UpdateClientRequest struct {
	Name        *string `json:"name,omitempty"`
	ContactName *string `json:"contact_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// ListClientRequest selects a subset of clients. Text matches name,
// contact and email; Phase is a categorical dimension with "all" as the
// sentinel.
type ListClientRequest struct {
	Text  string
	Phase string
}

type ListClientResponse struct {
	Clients []ClientView `json:"clients"`
}

type ChangePhaseRequest struct {
	Phase Phase `json:"phase"`
}

type ListPhaseEventsRequest struct {
	ClientID string
	Page     pagination.Pagination
}

type ListPhaseEventsResponse struct {
	pagination.PageInfo
	Events []PhaseEvent `json:"events"`
}

type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (ClientView, error)
	GetByID(ctx context.Context, id string) (ClientView, error)
	List(ctx context.Context, req ListClientRequest) (ListClientResponse, error)
	Update(ctx context.Context, id string, req UpdateClientRequest) (ClientView, error)
	ChangePhase(ctx context.Context, id string, req ChangePhaseRequest) (ClientView, error)
	ListPhaseEvents(ctx context.Context, req ListPhaseEventsRequest) (ListPhaseEventsResponse, error)
	Delete(ctx context.Context, id string) error
}
