// Package requests syncs logged API calls from the server into the local
// history database and serves the analytics the dashboard charts from.
package requests

import (
	"context"
	"time"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/db"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/query"
)

// ResourceRequests is the cache family for server-side request queries.
const ResourceRequests = "requests"

const (
	// syncLimit caps one sync window; the server returns newest first.
	syncLimit = 1000
	// backfillWindow bounds the first sync on an empty database.
	backfillWindow = 7 * 24 * time.Hour
	// retention is how much local history PruneOld keeps.
	retention = 90 * 24 * time.Hour
)

// Service pulls request history down and answers analytics queries from the
// local store, so charts survive restarts and work while the listing
// endpoint is slow.
type Service struct {
	client   *api.Client
	store    *query.Store
	database *db.DB
}

// New creates the requests service.
func New(client *api.Client, store *query.Store, database *db.DB) *Service {
	return &Service{client: client, store: store, database: database}
}

// Sync fetches entries newer than the latest stored one and upserts them.
// Returns how many new entries landed.
func (s *Service) Sync(ctx context.Context) (int, error) {
	since, err := s.database.LatestTimestamp()
	if err != nil {
		return 0, err
	}
	if since.IsZero() {
		since = time.Now().UTC().Add(-backfillWindow)
	}

	entries, err := s.client.ListRequests(ctx, "", since, time.Time{}, syncLimit)
	if err != nil {
		return 0, err
	}
	return s.database.UpsertRequests(entries)
}

// Recent returns the newest locally stored request entries.
func (s *Service) Recent(limit int) ([]models.RequestEntry, error) {
	return s.database.RecentRequests(limit)
}

// HourlyVolume returns per-hour traffic buckets from the local store.
func (s *Service) HourlyVolume(hours int) ([]db.HourlyVolume, error) {
	return s.database.GetHourlyVolume(hours)
}

// ModelTotals returns cumulative local usage grouped by model.
func (s *Service) ModelTotals() ([]db.ModelTotal, error) {
	return s.database.GetModelTotals()
}

// Aggregate returns the server-side rollup, cached per filter combination.
func (s *Service) Aggregate(ctx context.Context, model string, after, before time.Time) (models.RequestAggregate, error) {
	window := ""
	if !after.IsZero() {
		window = after.Format(time.RFC3339)
	}
	if !before.IsZero() {
		window += ".." + before.Format(time.RFC3339)
	}
	key := query.Key{ResourceRequests, "aggregate", model, window}
	return query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.RequestAggregate, error) {
		return s.client.AggregateRequests(ctx, model, after, before)
	})
}

// InvalidateAggregates drops cached rollups, typically after a sync landed
// new entries.
func (s *Service) InvalidateAggregates() {
	s.store.Invalidate(query.FamilyKey(ResourceRequests))
}

// PruneOld trims local history beyond the retention window.
func (s *Service) PruneOld() (int64, error) {
	return s.database.PruneBefore(time.Now().UTC().Add(-retention))
}

// Count returns the number of locally stored entries.
func (s *Service) Count() (int64, error) {
	return s.database.CountRequests()
}
