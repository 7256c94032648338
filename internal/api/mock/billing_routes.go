package mock

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/inference-gw/admin-tui/internal/models"
)

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (t *Transport) routeTransactions(req *http.Request, segs []string) (*http.Response, error) {
	switch {
	case len(segs) == 1 && req.Method == http.MethodGet:
		return t.listTransactions(req), nil
	case len(segs) == 1 && req.Method == http.MethodPost:
		return t.createTransaction(req), nil
	}
	return respondError(req, http.StatusNotFound), nil
}

func (t *Transport) listTransactions(req *http.Request) *http.Response {
	userID := req.URL.Query().Get("user_id")

	// Newest first, like the production listing.
	var filtered []models.Transaction
	for i := len(t.transactions) - 1; i >= 0; i-- {
		tx := t.transactions[i]
		if userID != "" && tx.UserID != userID {
			continue
		}
		filtered = append(filtered, tx)
	}

	skip, limit := pageParams(req)
	data := paginate(filtered, skip, limit)

	var startBalance float64
	if len(data) > 0 {
		startBalance = data[0].BalanceAfter
	} else if userID != "" {
		startBalance = t.balances[userID]
	}

	return respondJSON(req, http.StatusOK, models.TransactionPage{
		Data:             data,
		TotalCount:       int64(len(filtered)),
		Skip:             skip,
		Limit:            limit,
		PageStartBalance: startBalance,
	})
}

func (t *Transport) createTransaction(req *http.Request) *http.Response {
	var body models.TransactionCreate
	if err := decodeBody(req, &body); err != nil {
		return respondError(req, http.StatusBadRequest)
	}
	found := false
	for _, u := range t.users {
		if u.ID == body.UserID {
			found = true
			break
		}
	}
	if !found {
		return respondError(req, http.StatusNotFound)
	}

	delta := body.Amount
	if body.Type == models.TxAdminRemoval || body.Type == models.TxUsage {
		delta = -delta
	}
	t.balances[body.UserID] += delta

	tx := models.Transaction{
		ID:           uuid.NewString(),
		UserID:       body.UserID,
		Type:         body.Type,
		Amount:       body.Amount,
		BalanceAfter: t.balances[body.UserID],
		Description:  body.Description,
		CreatedAt:    now(),
	}
	t.transactions = append(t.transactions, tx)
	return respondJSON(req, http.StatusCreated, tx)
}

func (t *Transport) routeRequests(req *http.Request, segs []string) (*http.Response, error) {
	switch {
	case len(segs) == 1 && req.Method == http.MethodGet:
		return t.listRequests(req), nil
	case len(segs) == 2 && segs[1] == "aggregate" && req.Method == http.MethodGet:
		return t.aggregateRequests(req), nil
	}
	return respondError(req, http.StatusNotFound), nil
}

func (t *Transport) filterRequests(req *http.Request) []models.RequestEntry {
	q := req.URL.Query()
	model := q.Get("model")
	after, _ := time.Parse(time.RFC3339, q.Get("timestamp_after"))
	before, _ := time.Parse(time.RFC3339, q.Get("timestamp_before"))

	var filtered []models.RequestEntry
	for _, r := range t.requests {
		if model != "" && r.Model != model {
			continue
		}
		if !after.IsZero() && r.Timestamp.Before(after) {
			continue
		}
		if !before.IsZero() && r.Timestamp.After(before) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func (t *Transport) listRequests(req *http.Request) *http.Response {
	filtered := t.filterRequests(req)
	limit, _ := strconv.ParseInt(req.URL.Query().Get("limit"), 10, 64)
	if limit > 0 && int64(len(filtered)) > limit {
		filtered = filtered[:limit]
	}
	return respondJSON(req, http.StatusOK, map[string][]models.RequestEntry{
		"requests": filtered,
	})
}

func (t *Transport) aggregateRequests(req *http.Request) *http.Response {
	filtered := t.filterRequests(req)

	agg := models.RequestAggregate{RequestsPerModel: map[string]int64{}}
	var durationSum, succeeded int64
	for _, r := range filtered {
		agg.TotalRequests++
		agg.TotalTokens += r.PromptTokens + r.CompletionTokens
		agg.TotalCost += r.Cost
		agg.RequestsPerModel[r.Model]++
		durationSum += r.DurationMs
		if r.StatusCode < 400 {
			succeeded++
		}
	}
	if agg.TotalRequests > 0 {
		avg := float64(durationSum) / float64(agg.TotalRequests)
		agg.AvgDurationMs = &avg
		agg.SuccessRate = float64(succeeded) / float64(agg.TotalRequests)
	}
	return respondJSON(req, http.StatusOK, agg)
}
