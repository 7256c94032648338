package api

import (
	"context"
	"net/http"

	"github.com/inference-gw/admin-tui/internal/models"
)

// ListUsers fetches a page of users. Embedded groups/billing fields are
// present only when requested via params.Include.
func (c *Client) ListUsers(ctx context.Context, params ListParams) (models.Page[models.User], error) {
	var page models.Page[models.User]
	err := c.get(ctx, "/users", params.values(), &page, "users")
	return page, err
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, id, include string) (models.User, error) {
	var user models.User
	err := c.get(ctx, "/users/"+id, ListParams{Include: include}.values(), &user, "user")
	return user, err
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, req models.UserCreate) (models.User, error) {
	var user models.User
	err := c.call(ctx, http.MethodPost, "/users", nil, req, &user, "create", "user")
	return user, err
}

// UpdateUser applies a partial update to a user.
func (c *Client) UpdateUser(ctx context.Context, id string, req models.UserUpdate) (models.User, error) {
	var user models.User
	err := c.call(ctx, http.MethodPatch, "/users/"+id, nil, req, &user, "update", "user")
	return user, err
}

// DeleteUser deletes a user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/users/"+id, nil, nil, nil, "delete", "user")
}

// ListAPIKeys fetches the API keys belonging to a user.
func (c *Client) ListAPIKeys(ctx context.Context, userID string, params ListParams) (models.Page[models.APIKey], error) {
	var page models.Page[models.APIKey]
	err := c.get(ctx, "/users/"+userID+"/api-keys", params.values(), &page, "api keys")
	return page, err
}

// CreateAPIKey creates an API key for a user. The returned key carries the
// secret value; it is never returned again.
func (c *Client) CreateAPIKey(ctx context.Context, userID string, req models.APIKeyCreate) (models.APIKey, error) {
	var key models.APIKey
	err := c.call(ctx, http.MethodPost, "/users/"+userID+"/api-keys", nil, req, &key, "create", "api key")
	return key, err
}

// UpdateAPIKey applies a partial update to an API key.
func (c *Client) UpdateAPIKey(ctx context.Context, userID, keyID string, req models.APIKeyUpdate) (models.APIKey, error) {
	var key models.APIKey
	err := c.call(ctx, http.MethodPatch, "/users/"+userID+"/api-keys/"+keyID, nil, req, &key, "update", "api key")
	return key, err
}

// DeleteAPIKey deletes an API key.
func (c *Client) DeleteAPIKey(ctx context.Context, userID, keyID string) error {
	return c.call(ctx, http.MethodDelete, "/users/"+userID+"/api-keys/"+keyID, nil, nil, nil, "delete", "api key")
}
