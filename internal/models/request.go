package models

import "time"

// RequestEntry is a single logged API call from /admin/api/v1/requests.
type RequestEntry struct {
	ID               int64     `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Model            string    `json:"model"`
	StatusCode       int       `json:"status_code"`
	DurationMs       int64     `json:"duration_ms"`
	PromptTokens     int64     `json:"prompt_tokens"`
	CompletionTokens int64     `json:"completion_tokens"`
	Cost             float64   `json:"cost,string"`
	BatchID          string    `json:"batch_id,omitempty"`
}

// RequestAggregate is the server-side rollup of request analytics.
type RequestAggregate struct {
	TotalRequests    int64    `json:"total_requests"`
	TotalTokens      int64    `json:"total_tokens"`
	AvgDurationMs    *float64 `json:"avg_duration_ms,omitempty"`
	TotalCost        float64  `json:"total_cost,string"`
	SuccessRate      float64  `json:"success_rate"`
	RequestsPerModel map[string]int64 `json:"requests_per_model,omitempty"`
}
