package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/inference-gw/admin-tui/internal/models"
)

// ListBatches fetches a cursor-paginated page of batches.
func (c *Client) ListBatches(ctx context.Context, params ListParams) (models.CursorPage[models.Batch], error) {
	var page models.CursorPage[models.Batch]
	err := c.get(ctx, "/batches", params.values(), &page, "batches")
	return page, err
}

// GetBatch fetches a single batch by id.
func (c *Client) GetBatch(ctx context.Context, id string) (models.Batch, error) {
	var batch models.Batch
	err := c.get(ctx, "/batches/"+id, nil, &batch, "batch")
	return batch, err
}

// CreateBatch submits a new batch job.
func (c *Client) CreateBatch(ctx context.Context, req models.BatchCreate) (models.Batch, error) {
	var batch models.Batch
	err := c.call(ctx, http.MethodPost, "/batches", nil, req, &batch, "create", "batch")
	return batch, err
}

// CancelBatch requests cancellation of a batch. The server moves it to
// cancelling; the final cancelled status arrives through polling.
func (c *Client) CancelBatch(ctx context.Context, id string) (models.Batch, error) {
	var batch models.Batch
	err := c.call(ctx, http.MethodPost, "/batches/"+id+"/cancel", nil, nil, &batch, "cancel", "batch")
	return batch, err
}

// ListFiles fetches a cursor-paginated page of stored files.
func (c *Client) ListFiles(ctx context.Context, params ListParams) (models.CursorPage[models.File], error) {
	var page models.CursorPage[models.File]
	err := c.get(ctx, "/files", params.values(), &page, "files")
	return page, err
}

// GetFile fetches a single file's metadata by id.
func (c *Client) GetFile(ctx context.Context, id string) (models.File, error) {
	var file models.File
	err := c.get(ctx, "/files/"+id, nil, &file, "file")
	return file, err
}

// DeleteFile deletes a stored file.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/files/"+id, nil, nil, nil, "delete", "file")
}

// FileContent downloads a file's newline-delimited JSON content and parses
// it into individual batch records. Blank lines are skipped; a malformed
// line fails the whole download with its line number.
func (c *Client) FileContent(ctx context.Context, id string) ([]models.BatchRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+BasePath+"/files/"+id+"/content", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Failed to fetch file content: %d", resp.StatusCode),
		}
	}

	var records []models.BatchRecord
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var rec models.BatchRecord
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse file content line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return records, nil
}
