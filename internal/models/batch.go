package models

// BatchStatus is the server-reported processing state of a batch. The UI
// never transitions a batch itself; it only selects a badge and decides
// whether to keep polling.
type BatchStatus string

const (
	BatchValidating BatchStatus = "validating"
	BatchInProgress BatchStatus = "in_progress"
	BatchFinalizing BatchStatus = "finalizing"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
	BatchExpired    BatchStatus = "expired"
	BatchCancelling BatchStatus = "cancelling"
	BatchCancelled  BatchStatus = "cancelled"
)

// IsTerminal reports whether no further status transition can occur.
func (s BatchStatus) IsTerminal() bool {
	switch s {
	case BatchCompleted, BatchFailed, BatchExpired, BatchCancelled:
		return true
	}
	return false
}

// RequestCounts summarizes request progress within a batch.
type RequestCounts struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// BatchError is a single batch-level error, usually tied to an input line.
type BatchError struct {
	Code    string `json:"code,omitempty"`
	Line    *int   `json:"line,omitempty"`
	Message string `json:"message"`
}

// BatchErrors wraps batch-level errors.
type BatchErrors struct {
	Data []BatchError `json:"data"`
}

// Batch represents a batch job as returned by /admin/api/v1/batches.
// Timestamps are Unix seconds, one per phase; unset phases are nil.
type Batch struct {
	ID               string            `json:"id"`
	Endpoint         string            `json:"endpoint"`
	Status           BatchStatus       `json:"status"`
	InputFileID      string            `json:"input_file_id"`
	OutputFileID     *string           `json:"output_file_id,omitempty"`
	ErrorFileID      *string           `json:"error_file_id,omitempty"`
	CompletionWindow string            `json:"completion_window"`
	RequestCounts    RequestCounts     `json:"request_counts"`
	Errors           *BatchErrors      `json:"errors,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`

	CreatedAt    int64  `json:"created_at"`
	InProgressAt *int64 `json:"in_progress_at,omitempty"`
	FinalizingAt *int64 `json:"finalizing_at,omitempty"`
	CompletedAt  *int64 `json:"completed_at,omitempty"`
	FailedAt     *int64 `json:"failed_at,omitempty"`
	ExpiredAt    *int64 `json:"expired_at,omitempty"`
	CancellingAt *int64 `json:"cancelling_at,omitempty"`
	CancelledAt  *int64 `json:"cancelled_at,omitempty"`
	ExpiresAt    *int64 `json:"expires_at,omitempty"`
}

// BatchCreate is the request body for creating a batch.
type BatchCreate struct {
	InputFileID      string            `json:"input_file_id"`
	Endpoint         string            `json:"endpoint"`
	CompletionWindow string            `json:"completion_window"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}
