package models

import "time"

// Deployment represents a deployed model as returned by /admin/api/v1/models.
type Deployment struct {
	ID           string    `json:"id"`
	Alias        string    `json:"alias"`
	ModelName    string    `json:"model_name"`
	HostedOn     string    `json:"hosted_on"`
	Description  string    `json:"description,omitempty"`
	Capabilities []string  `json:"capabilities,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// InputTariff and OutputTariff are credit prices per million tokens.
	InputTariff  *float64 `json:"input_tariff,omitempty"`
	OutputTariff *float64 `json:"output_tariff,omitempty"`

	// Groups is populated only with include=groups.
	Groups []Group `json:"groups,omitempty"`
	// Metrics is populated only with include=metrics.
	Metrics *DeploymentMetrics `json:"metrics,omitempty"`
}

// DeploymentMetrics carries aggregated usage for a deployment.
type DeploymentMetrics struct {
	TotalRequests  int64    `json:"total_requests"`
	TotalTokens    int64    `json:"total_tokens"`
	AvgLatencyMs   *float64 `json:"avg_latency_ms,omitempty"`
	RequestsPerDay float64  `json:"requests_per_day"`
}

// DeploymentCreate is the request body for deploying a model.
type DeploymentCreate struct {
	Alias        string   `json:"alias"`
	ModelName    string   `json:"model_name"`
	HostedOn     string   `json:"hosted_on"`
	Description  string   `json:"description,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	InputTariff  *float64 `json:"input_tariff,omitempty"`
	OutputTariff *float64 `json:"output_tariff,omitempty"`
}

// DeploymentUpdate is the request body for updating a deployment.
type DeploymentUpdate struct {
	Alias        *string  `json:"alias,omitempty"`
	ModelName    *string  `json:"model_name,omitempty"`
	HostedOn     *string  `json:"hosted_on,omitempty"`
	Description  *string  `json:"description,omitempty"`
	InputTariff  *float64 `json:"input_tariff,omitempty"`
	OutputTariff *float64 `json:"output_tariff,omitempty"`
}

// Endpoint represents an inference endpoint hosting one or more deployments.
type Endpoint struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	URL            string    `json:"url"`
	RequiresAPIKey bool      `json:"requires_api_key"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EndpointCreate is the request body for registering an endpoint.
type EndpointCreate struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	URL         string  `json:"url"`
	APIKey      *string `json:"api_key,omitempty"`
}

// EndpointUpdate is the request body for updating an endpoint.
type EndpointUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	URL         *string `json:"url,omitempty"`
	APIKey      *string `json:"api_key,omitempty"`
}
