package models

import "time"

// APIKeyPurpose is the access scope of an API key.
type APIKeyPurpose string

const (
	// PurposeInference scopes a key to the inference endpoints (/ai/*).
	PurposeInference APIKeyPurpose = "inference"
	// PurposePlatform scopes a key to the management API (/admin/api/*).
	PurposePlatform APIKeyPurpose = "platform"
)

// APIKey represents an API key as returned by /admin/api/v1/users/{id}/api-keys.
// The Secret field is populated only in the response to the create call.
type APIKey struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Purpose     APIKeyPurpose `json:"purpose"`
	UserID      string     `json:"user_id"`
	Secret      string     `json:"key,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsed    *time.Time `json:"last_used,omitempty"`

	// Per-key rate limits; nil means no limit.
	RequestsPerSecond *float64 `json:"requests_per_second,omitempty"`
	BurstSize         *int     `json:"burst_size,omitempty"`
}

// APIKeyCreate is the request body for creating an API key.
type APIKeyCreate struct {
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Purpose           APIKeyPurpose `json:"purpose"`
	RequestsPerSecond *float64      `json:"requests_per_second,omitempty"`
	BurstSize         *int          `json:"burst_size,omitempty"`
}

// APIKeyUpdate is the request body for updating an API key.
type APIKeyUpdate struct {
	Name              *string  `json:"name,omitempty"`
	Description       *string  `json:"description,omitempty"`
	RequestsPerSecond *float64 `json:"requests_per_second,omitempty"`
	BurstSize         *int     `json:"burst_size,omitempty"`
}
