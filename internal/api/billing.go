package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/inference-gw/admin-tui/internal/models"
)

// ListTransactions fetches a page of credit transactions, optionally
// filtered to a single user via params.UserID.
func (c *Client) ListTransactions(ctx context.Context, params ListParams) (models.TransactionPage, error) {
	var page models.TransactionPage
	err := c.get(ctx, "/transactions", params.values(), &page, "transactions")
	return page, err
}

// CreateTransaction grants or removes credits for a user.
func (c *Client) CreateTransaction(ctx context.Context, req models.TransactionCreate) (models.Transaction, error) {
	var tx models.Transaction
	err := c.call(ctx, http.MethodPost, "/transactions", nil, req, &tx, "create", "transaction")
	return tx, err
}

// GetBalance fetches a user's current credit balance.
func (c *Client) GetBalance(ctx context.Context, userID string) (models.Balance, error) {
	var balance models.Balance
	err := c.get(ctx, "/users/"+userID+"/balance", nil, &balance, "balance")
	return balance, err
}

// CheckoutResponse carries the payment-provider redirect URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// CreateCheckout creates a payment checkout session and returns the URL the
// operator opens in a browser.
func (c *Client) CreateCheckout(ctx context.Context) (CheckoutResponse, error) {
	var resp CheckoutResponse
	err := c.call(ctx, http.MethodPost, "/create_checkout", nil, nil, &resp, "create", "checkout session")
	return resp, err
}

// ListRequests fetches logged API calls with optional analytics filters.
func (c *Client) ListRequests(ctx context.Context, model string, after, before time.Time, limit int64) ([]models.RequestEntry, error) {
	q := url.Values{}
	if model != "" {
		q.Set("model", model)
	}
	if !after.IsZero() {
		q.Set("timestamp_after", after.Format(time.RFC3339))
	}
	if !before.IsZero() {
		q.Set("timestamp_before", before.Format(time.RFC3339))
	}
	if limit > 0 {
		q.Set("limit", strconv.FormatInt(limit, 10))
	}

	var resp struct {
		Requests []models.RequestEntry `json:"requests"`
	}
	err := c.get(ctx, "/requests", q, &resp, "requests")
	return resp.Requests, err
}

// AggregateRequests fetches the server-side request-analytics rollup.
func (c *Client) AggregateRequests(ctx context.Context, model string, after, before time.Time) (models.RequestAggregate, error) {
	q := url.Values{}
	if model != "" {
		q.Set("model", model)
	}
	if !after.IsZero() {
		q.Set("timestamp_after", after.Format(time.RFC3339))
	}
	if !before.IsZero() {
		q.Set("timestamp_before", before.Format(time.RFC3339))
	}

	var agg models.RequestAggregate
	err := c.get(ctx, "/requests/aggregate", q, &agg, "request analytics")
	return agg, err
}
