package models

import "encoding/json"

// FilePurpose tags what a stored file is for.
type FilePurpose string

const (
	FilePurposeBatch       FilePurpose = "batch"
	FilePurposeBatchOutput FilePurpose = "batch_output"
	FilePurposeBatchError  FilePurpose = "batch_error"
)

// File represents a stored file as returned by /admin/api/v1/files.
type File struct {
	ID        string      `json:"id"`
	Filename  string      `json:"filename"`
	Bytes     int64       `json:"bytes"`
	Purpose   FilePurpose `json:"purpose"`
	CreatedAt int64       `json:"created_at"`
	ExpiresAt *int64      `json:"expires_at,omitempty"`
}

// BatchRecord is one newline-delimited JSON record from a batch input or
// output file. Body and Response are kept raw; the viewer pretty-prints them.
type BatchRecord struct {
	CustomID string             `json:"custom_id"`
	Method   string             `json:"method,omitempty"`
	URL      string             `json:"url,omitempty"`
	Body     json.RawMessage    `json:"body,omitempty"`
	Response *BatchRecordResult `json:"response,omitempty"`
	Error    *BatchError        `json:"error,omitempty"`
}

// BatchRecordResult is the per-request result half of an output record.
type BatchRecordResult struct {
	StatusCode int             `json:"status_code"`
	RequestID  string          `json:"request_id,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
}
