package api

import (
	"context"
	"net/http"

	"github.com/inference-gw/admin-tui/internal/models"
)

// ListModels fetches a page of deployed models, optionally filtered by the
// hosting endpoint via params.HostedOn.
func (c *Client) ListModels(ctx context.Context, params ListParams) (models.Page[models.Deployment], error) {
	var page models.Page[models.Deployment]
	err := c.get(ctx, "/models", params.values(), &page, "models")
	return page, err
}

// GetModel fetches a single deployed model by id.
func (c *Client) GetModel(ctx context.Context, id, include string) (models.Deployment, error) {
	var dep models.Deployment
	err := c.get(ctx, "/models/"+id, ListParams{Include: include}.values(), &dep, "model")
	return dep, err
}

// CreateModel deploys a model.
func (c *Client) CreateModel(ctx context.Context, req models.DeploymentCreate) (models.Deployment, error) {
	var dep models.Deployment
	err := c.call(ctx, http.MethodPost, "/models", nil, req, &dep, "create", "model")
	return dep, err
}

// UpdateModel applies a partial update to a deployed model.
func (c *Client) UpdateModel(ctx context.Context, id string, req models.DeploymentUpdate) (models.Deployment, error) {
	var dep models.Deployment
	err := c.call(ctx, http.MethodPatch, "/models/"+id, nil, req, &dep, "update", "model")
	return dep, err
}

// DeleteModel removes a deployed model.
func (c *Client) DeleteModel(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/models/"+id, nil, nil, nil, "delete", "model")
}

// ListEndpoints fetches a page of inference endpoints.
func (c *Client) ListEndpoints(ctx context.Context, params ListParams) (models.Page[models.Endpoint], error) {
	var page models.Page[models.Endpoint]
	err := c.get(ctx, "/endpoints", params.values(), &page, "endpoints")
	return page, err
}

// GetEndpoint fetches a single endpoint by id.
func (c *Client) GetEndpoint(ctx context.Context, id string) (models.Endpoint, error) {
	var ep models.Endpoint
	err := c.get(ctx, "/endpoints/"+id, nil, &ep, "endpoint")
	return ep, err
}

// CreateEndpoint registers an inference endpoint.
func (c *Client) CreateEndpoint(ctx context.Context, req models.EndpointCreate) (models.Endpoint, error) {
	var ep models.Endpoint
	err := c.call(ctx, http.MethodPost, "/endpoints", nil, req, &ep, "create", "endpoint")
	return ep, err
}

// UpdateEndpoint applies a partial update to an endpoint.
func (c *Client) UpdateEndpoint(ctx context.Context, id string, req models.EndpointUpdate) (models.Endpoint, error) {
	var ep models.Endpoint
	err := c.call(ctx, http.MethodPatch, "/endpoints/"+id, nil, req, &ep, "update", "endpoint")
	return ep, err
}

// DeleteEndpoint removes an inference endpoint.
func (c *Client) DeleteEndpoint(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/endpoints/"+id, nil, nil, nil, "delete", "endpoint")
}
