// Package billing manages credit transactions, balances and checkout.
package billing

import (
	"context"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/query"
	"github.com/inference-gw/admin-tui/internal/services/catalog"
)

// ResourceTransactions is the cache family for transaction listings.
const ResourceTransactions = "transactions"

// balanceInclude marks a user's cached balance entry.
const balanceInclude = "balance"

// Service wraps the billing endpoints with cache-aware reads. Fund
// mutations invalidate the affected user's billing detail and the
// transaction family, then refetch the balance so the new figure is on
// screen before the next render.
type Service struct {
	client *api.Client
	store  *query.Store
}

// New creates the billing service.
func New(client *api.Client, store *query.Store) *Service {
	return &Service{client: client, store: store}
}

// Transactions returns a cached page of transactions, optionally scoped to
// one user.
func (s *Service) Transactions(ctx context.Context, params api.ListParams) (models.TransactionPage, error) {
	key := query.ListKey(ResourceTransactions, query.Options{
		UserID: params.UserID, Skip: params.Skip, Limit: params.Limit,
	})
	return query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.TransactionPage, error) {
		return s.client.ListTransactions(ctx, params)
	})
}

// Balance returns a user's cached credit balance.
func (s *Service) Balance(ctx context.Context, userID string) (models.Balance, error) {
	key := query.DetailKey(catalog.ResourceUsers, userID, balanceInclude)
	return query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.Balance, error) {
		return s.client.GetBalance(ctx, userID)
	})
}

// AddFunds grants credits to a user.
func (s *Service) AddFunds(ctx context.Context, userID string, amount float64, description string) (models.Transaction, error) {
	return s.createTransaction(ctx, models.TransactionCreate{
		UserID:      userID,
		Type:        models.TxAdminGrant,
		Amount:      amount,
		Description: description,
	})
}

// RemoveFunds removes credits from a user.
func (s *Service) RemoveFunds(ctx context.Context, userID string, amount float64, description string) (models.Transaction, error) {
	return s.createTransaction(ctx, models.TransactionCreate{
		UserID:      userID,
		Type:        models.TxAdminRemoval,
		Amount:      amount,
		Description: description,
	})
}

func (s *Service) createTransaction(ctx context.Context, req models.TransactionCreate) (models.Transaction, error) {
	tx, err := s.client.CreateTransaction(ctx, req)
	if err != nil {
		return tx, err
	}

	// The user's embedded billing detail and every transaction listing are
	// stale now; the fresh balance is fetched eagerly rather than lazily.
	s.store.Invalidate(query.Key{catalog.ResourceUsers, "byId", req.UserID})
	s.store.Invalidate(query.FamilyKey(ResourceTransactions))

	balanceKey := query.DetailKey(catalog.ResourceUsers, req.UserID, balanceInclude)
	if _, err := query.ForceFetchAs(ctx, s.store, balanceKey, func(ctx context.Context) (models.Balance, error) {
		return s.client.GetBalance(ctx, req.UserID)
	}); err != nil {
		// The grant itself succeeded; a failed refetch just leaves the
		// balance to the next read.
		return tx, nil
	}
	return tx, nil
}

// Checkout creates a payment session and returns the redirect URL.
func (s *Service) Checkout(ctx context.Context) (string, error) {
	resp, err := s.client.CreateCheckout(ctx)
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}
