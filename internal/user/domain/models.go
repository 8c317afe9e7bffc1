// Package domain contains core types for workspace members.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role is the member's access tier. Permissions are derived from the role,
// they are never stored or edited independently.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RoleAccountant Role = "accountant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleAccountant:
		return true
	}
	return false
}

// Permission names one area of the product a member may access.
type Permission string

const (
	PermDashboard Permission = "dashboard"
	PermIncome    Permission = "income"
	PermExpenses  Permission = "expenses"
	PermClients   Permission = "clients"
	PermUsers     Permission = "users"
	PermSettings  Permission = "settings"
)

var rolePermissions = map[Role][]Permission{
	RoleOwner:      {PermDashboard, PermIncome, PermExpenses, PermClients, PermUsers, PermSettings},
	RoleManager:    {PermDashboard, PermIncome, PermExpenses, PermClients},
	RoleAccountant: {PermDashboard, PermIncome, PermExpenses},
}

// Permissions returns the areas granted to the role. The returned slice is
// a copy, callers may mutate it freely.
func (r Role) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Can reports whether the role grants access to the area.
func (r Role) Can(p Permission) bool {
	for _, perm := range rolePermissions[r] {
		if perm == p {
			return true
		}
	}
	return false
}

// Status is the member's account state. Invited members become active on
// their first recorded access.
type Status string

const (
	StatusActive   Status = "active"
	StatusInvited  Status = "invited"
	StatusInactive Status = "inactive"
)

// User is a workspace member.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	Email        string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Role         Role         `gorm:"type:text;not null" json:"role"`
	Status       Status       `gorm:"type:text;not null;default:'invited'" json:"status"`
	LastAccessAt *time.Time   `json:"last_access_at,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// UserView is a user with the permissions its role derives.
type UserView struct {
	User
	Permissions []Permission `json:"permissions"`
}
