package models

import "time"

// Group represents a user group as returned by /admin/api/v1/groups.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Users is populated only with include=users.
	Users []User `json:"users,omitempty"`
	// Models is populated only with include=models.
	Models []Deployment `json:"models,omitempty"`
}

// GroupCreate is the request body for creating a group.
type GroupCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// GroupUpdate is the request body for updating a group. Nil fields are unchanged.
type GroupUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
