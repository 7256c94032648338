// Package mock provides a fixture-backed http.RoundTripper that answers the
// same calls the REST client issues. It backs both the test suite and the
// demo mode, so responses are shaped exactly like production ones:
// synthesized pagination, include/hosted_on filtering, 404 for unknown ids
// and 500 for the sentinel id.
package mock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inference-gw/admin-tui/internal/models"
)

// SentinelErrorID always answers 500, for exercising error paths.
const SentinelErrorID = "deadbeef-0000-0000-0000-000000000500"

// Transport intercepts admin API requests and serves fixture data.
type Transport struct {
	mu sync.Mutex

	users        []models.User
	groups       []models.Group
	deployments  []models.Deployment
	endpoints    []models.Endpoint
	apiKeys      map[string][]models.APIKey // by user id
	files        []models.File
	fileContent  map[string]string // file id -> JSONL body
	batches      []models.Batch
	transactions []models.Transaction
	requests     []models.RequestEntry
	balances     map[string]float64
	memberships  map[string][]string // group id -> user ids
	groupModels  map[string][]string // group id -> model ids

	// listCalls drives the demo batch progression: every third batch list
	// advances each non-terminal batch one phase.
	listCalls int
}

// New creates a transport seeded with demo fixtures.
func New() *Transport {
	t := &Transport{
		apiKeys:     make(map[string][]models.APIKey),
		fileContent: make(map[string]string),
		balances:    make(map[string]float64),
		memberships: make(map[string][]string),
		groupModels: make(map[string][]string),
	}
	t.seed()
	return t
}

// RoundTrip dispatches a request to the matching fixture handler.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	path := strings.TrimPrefix(req.URL.Path, "/admin/api/v1")
	segs := splitPath(path)

	if len(segs) == 0 {
		return respondError(req, http.StatusNotFound), nil
	}

	for _, seg := range segs {
		if seg == SentinelErrorID {
			return respondError(req, http.StatusInternalServerError), nil
		}
	}

	switch segs[0] {
	case "users":
		return t.routeUsers(req, segs)
	case "groups":
		return t.routeGroups(req, segs)
	case "models":
		return t.routeModels(req, segs)
	case "endpoints":
		return t.routeEndpoints(req, segs)
	case "files":
		return t.routeFiles(req, segs)
	case "batches":
		return t.routeBatches(req, segs)
	case "transactions":
		return t.routeTransactions(req, segs)
	case "requests":
		return t.routeRequests(req, segs)
	case "create_checkout":
		return respondJSON(req, http.StatusOK, map[string]string{
			"url": "https://pay.example.com/session/" + uuid.NewString(),
		}), nil
	}
	return respondError(req, http.StatusNotFound), nil
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func respondJSON(req *http.Request, status int, body any) *http.Response {
	buf, _ := json.Marshal(body)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(buf)),
		Request:    req,
	}
}

func respondError(req *http.Request, status int) *http.Response {
	return respondJSON(req, status, map[string]string{"error": http.StatusText(status)})
}

func respondText(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/jsonl"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func pageParams(req *http.Request) (skip, limit int64) {
	skip, _ = strconv.ParseInt(req.URL.Query().Get("skip"), 10, 64)
	limit, _ = strconv.ParseInt(req.URL.Query().Get("limit"), 10, 64)
	if limit <= 0 {
		limit = 10
	}
	return skip, limit
}

func paginate[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return []T{}
	}
	end := skip + limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}

func decodeBody(req *http.Request, out any) error {
	if req.Body == nil {
		return fmt.Errorf("empty body")
	}
	defer req.Body.Close()
	return json.NewDecoder(req.Body).Decode(out)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
