package mock

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/inference-gw/admin-tui/internal/models"
)

func (t *Transport) routeFiles(req *http.Request, segs []string) (*http.Response, error) {
	switch {
	case len(segs) == 1 && req.Method == http.MethodGet:
		return t.listFiles(req), nil
	case len(segs) == 2 && req.Method == http.MethodGet:
		for _, f := range t.files {
			if f.ID == segs[1] {
				return respondJSON(req, http.StatusOK, f), nil
			}
		}
		return respondError(req, http.StatusNotFound), nil
	case len(segs) == 2 && req.Method == http.MethodDelete:
		for i, f := range t.files {
			if f.ID == segs[1] {
				t.files = append(t.files[:i], t.files[i+1:]...)
				delete(t.fileContent, segs[1])
				return respondJSON(req, http.StatusOK, map[string]bool{"deleted": true}), nil
			}
		}
		return respondError(req, http.StatusNotFound), nil
	case len(segs) == 3 && segs[2] == "content" && req.Method == http.MethodGet:
		content, ok := t.fileContent[segs[1]]
		if !ok {
			return respondError(req, http.StatusNotFound), nil
		}
		return respondText(req, http.StatusOK, content), nil
	}
	return respondError(req, http.StatusNotFound), nil
}

func (t *Transport) listFiles(req *http.Request) *http.Response {
	purpose := req.URL.Query().Get("purpose")
	var filtered []models.File
	for _, f := range t.files {
		if purpose != "" && string(f.Purpose) != purpose {
			continue
		}
		filtered = append(filtered, f)
	}
	page := cursorPage(filtered, req, func(f models.File) string { return f.ID })
	return respondJSON(req, http.StatusOK, page)
}

// cursorPage slices items after the ?after= cursor, fetching one extra to
// decide has_more the same way the server does.
func cursorPage[T any](items []T, req *http.Request, id func(T) string) models.CursorPage[T] {
	_, limit := pageParams(req)
	after := req.URL.Query().Get("after")

	start := 0
	if after != "" {
		for i, it := range items {
			if id(it) == after {
				start = i + 1
				break
			}
		}
	}

	end := start + int(limit)
	hasMore := end < len(items)
	if end > len(items) {
		end = len(items)
	}
	page := models.CursorPage[T]{Data: items[start:end], HasMore: hasMore}
	if len(page.Data) > 0 {
		page.FirstID = id(page.Data[0])
		page.LastID = id(page.Data[len(page.Data)-1])
	}
	return page
}

func (t *Transport) routeBatches(req *http.Request, segs []string) (*http.Response, error) {
	switch {
	case len(segs) == 1 && req.Method == http.MethodGet:
		t.listCalls++
		if t.listCalls%3 == 0 {
			t.advanceBatches()
		}
		page := cursorPage(t.batches, req, func(b models.Batch) string { return b.ID })
		return respondJSON(req, http.StatusOK, page), nil
	case len(segs) == 1 && req.Method == http.MethodPost:
		return t.createBatch(req), nil
	case len(segs) == 2 && req.Method == http.MethodGet:
		for _, b := range t.batches {
			if b.ID == segs[1] {
				return respondJSON(req, http.StatusOK, b), nil
			}
		}
		return respondError(req, http.StatusNotFound), nil
	case len(segs) == 3 && segs[2] == "cancel" && req.Method == http.MethodPost:
		return t.cancelBatch(req, segs[1]), nil
	}
	return respondError(req, http.StatusNotFound), nil
}

func (t *Transport) createBatch(req *http.Request) *http.Response {
	var body models.BatchCreate
	if err := decodeBody(req, &body); err != nil {
		return respondError(req, http.StatusBadRequest)
	}
	inputOK := false
	for _, f := range t.files {
		if f.ID == body.InputFileID {
			inputOK = true
			break
		}
	}
	if !inputOK {
		return respondError(req, http.StatusNotFound)
	}

	created := time.Now().Unix()
	expires := created + 24*3600
	b := models.Batch{
		ID:               uuid.NewString(),
		Endpoint:         body.Endpoint,
		Status:           models.BatchValidating,
		InputFileID:      body.InputFileID,
		CompletionWindow: body.CompletionWindow,
		Metadata:         body.Metadata,
		RequestCounts:    models.RequestCounts{Total: 3},
		CreatedAt:        created,
		ExpiresAt:        &expires,
	}
	// Newest first, matching the production listing order.
	t.batches = append([]models.Batch{b}, t.batches...)
	return respondJSON(req, http.StatusCreated, b)
}

func (t *Transport) cancelBatch(req *http.Request, id string) *http.Response {
	for i := range t.batches {
		b := &t.batches[i]
		if b.ID != id {
			continue
		}
		if b.Status.IsTerminal() {
			return respondError(req, http.StatusConflict)
		}
		ts := time.Now().Unix()
		b.Status = models.BatchCancelling
		b.CancellingAt = &ts
		return respondJSON(req, http.StatusOK, *b)
	}
	return respondError(req, http.StatusNotFound)
}

// advanceBatches moves every non-terminal batch one phase forward so polling
// in demo mode shows live progress.
func (t *Transport) advanceBatches() {
	ts := time.Now().Unix()
	for i := range t.batches {
		b := &t.batches[i]
		switch b.Status {
		case models.BatchValidating:
			b.Status = models.BatchInProgress
			b.InProgressAt = &ts
		case models.BatchInProgress:
			b.Status = models.BatchFinalizing
			b.FinalizingAt = &ts
			b.RequestCounts.Completed = b.RequestCounts.Total
		case models.BatchFinalizing:
			b.Status = models.BatchCompleted
			b.CompletedAt = &ts
			out := t.writeOutputFile(b)
			b.OutputFileID = &out
		case models.BatchCancelling:
			b.Status = models.BatchCancelled
			b.CancelledAt = &ts
		}
	}
}

// writeOutputFile synthesizes a batch_output file with one result per input
// record so the record viewer has something to show for finished batches.
func (t *Transport) writeOutputFile(b *models.Batch) string {
	id := uuid.NewString()
	content := `{"custom_id":"req-1","response":{"status_code":200,"request_id":"` + uuid.NewString() + `","body":{"choices":[{"message":{"content":"ok"}}]}}}` + "\n" +
		`{"custom_id":"req-2","response":{"status_code":200,"request_id":"` + uuid.NewString() + `","body":{"choices":[{"message":{"content":"ok"}}]}}}` + "\n"
	t.fileContent[id] = content
	t.files = append(t.files, models.File{
		ID:        id,
		Filename:  "batch-" + b.ID + "-output.jsonl",
		Bytes:     int64(len(content)),
		Purpose:   models.FilePurposeBatchOutput,
		CreatedAt: time.Now().Unix(),
	})
	return id
}
