// Package models defines the REST resource types mirrored from the admin API.
// The server is authoritative for all of these; this process only caches them.
package models

import "time"

// Role is a job-function tag attached to a user.
type Role string

const (
	RolePlatformManager Role = "PlatformManager"
	RoleRequestViewer   Role = "RequestViewer"
	RoleStandardUser    Role = "StandardUser"
	RoleBillingManager  Role = "BillingManager"
	RoleBatchAPIUser    Role = "BatchAPIUser"
)

// User represents a platform user as returned by /admin/api/v1/users.
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	IsAdmin     bool       `json:"is_admin"`
	Roles       []Role     `json:"roles"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`

	// Groups is populated only when the list/get was made with include=groups.
	Groups []Group `json:"groups,omitempty"`
	// CreditBalance is populated only with include=billing.
	CreditBalance *float64 `json:"credit_balance,omitempty"`
}

// UserCreate is the request body for creating a user.
type UserCreate struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Roles       []Role `json:"roles"`
}

// UserUpdate is the request body for updating a user. Nil fields are unchanged.
type UserUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	Roles       []Role  `json:"roles,omitempty"`
}

// HasRole reports whether the user carries the given role tag.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
