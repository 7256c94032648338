package api

import (
	"context"
	"net/http"

	"github.com/inference-gw/admin-tui/internal/models"
)

// ListGroups fetches a page of groups.
func (c *Client) ListGroups(ctx context.Context, params ListParams) (models.Page[models.Group], error) {
	var page models.Page[models.Group]
	err := c.get(ctx, "/groups", params.values(), &page, "groups")
	return page, err
}

// GetGroup fetches a single group by id.
func (c *Client) GetGroup(ctx context.Context, id, include string) (models.Group, error) {
	var group models.Group
	err := c.get(ctx, "/groups/"+id, ListParams{Include: include}.values(), &group, "group")
	return group, err
}

// CreateGroup creates a group.
func (c *Client) CreateGroup(ctx context.Context, req models.GroupCreate) (models.Group, error) {
	var group models.Group
	err := c.call(ctx, http.MethodPost, "/groups", nil, req, &group, "create", "group")
	return group, err
}

// UpdateGroup applies a partial update to a group.
func (c *Client) UpdateGroup(ctx context.Context, id string, req models.GroupUpdate) (models.Group, error) {
	var group models.Group
	err := c.call(ctx, http.MethodPatch, "/groups/"+id, nil, req, &group, "update", "group")
	return group, err
}

// DeleteGroup deletes a group.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/groups/"+id, nil, nil, nil, "delete", "group")
}

// AddUserToGroup creates a user-group membership.
func (c *Client) AddUserToGroup(ctx context.Context, groupID, userID string) error {
	return c.call(ctx, http.MethodPost, "/groups/"+groupID+"/users/"+userID, nil, nil, nil, "add", "group member")
}

// RemoveUserFromGroup removes a user-group membership.
func (c *Client) RemoveUserFromGroup(ctx context.Context, groupID, userID string) error {
	return c.call(ctx, http.MethodDelete, "/groups/"+groupID+"/users/"+userID, nil, nil, nil, "remove", "group member")
}

// AddModelToGroup grants a group access to a deployed model.
func (c *Client) AddModelToGroup(ctx context.Context, groupID, modelID string) error {
	return c.call(ctx, http.MethodPost, "/groups/"+groupID+"/models/"+modelID, nil, nil, nil, "add", "group model")
}

// RemoveModelFromGroup revokes a group's access to a deployed model.
func (c *Client) RemoveModelFromGroup(ctx context.Context, groupID, modelID string) error {
	return c.call(ctx, http.MethodDelete, "/groups/"+groupID+"/models/"+modelID, nil, nil, nil, "remove", "group model")
}
