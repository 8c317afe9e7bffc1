package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidRole     = errors.New("invalid_role")
	ErrEmailTaken      = errors.New("email_taken")
	ErrLastOwner       = errors.New("last_owner")
	ErrAlreadyInactive = errors.New("already_inactive")
)

type InviteUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type UpdateUserRequest struct {
	Name *string `json:"name,omitempty"`
	Role *Role   `json:"role,omitempty"`
}

// ListUserRequest selects a subset of members. Text matches name and
// email; Role and Status are categorical dimensions with "all" as the
// sentinel.
type ListUserRequest struct {
	Text   string
	Role   string
	Status string
}

type ListUserResponse struct {
	Users []UserView `json:"users"`
}

type Service interface {
	Invite(ctx context.Context, req InviteUserRequest) (UserView, error)
	GetByID(ctx context.Context, id string) (UserView, error)
	List(ctx context.Context, req ListUserRequest) (ListUserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserView, error)

	// RecordAccess stamps the member's last access and promotes an invited
	// member to active.
	RecordAccess(ctx context.Context, id string) (UserView, error)

	Deactivate(ctx context.Context, id string) (UserView, error)
	Reactivate(ctx context.Context, id string) (UserView, error)
	Delete(ctx context.Context, id string) error
}
