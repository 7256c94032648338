package requests

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/api/mock"
	"github.com/inference-gw/admin-tui/internal/db"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/query"
)

func newService(t *testing.T) *Service {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "requests.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	store := query.NewStore()
	client := api.New("http://gateway.test", "test-token", mock.New())
	return New(client, store, database)
}

func TestSyncIsIdempotent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	inserted, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if inserted == 0 {
		t.Fatal("first sync landed nothing")
	}

	count, err := svc.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if int(count) != inserted {
		t.Errorf("count = %d, inserted = %d", count, inserted)
	}

	// A second sync of the same window adds nothing.
	again, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync again: %v", err)
	}
	if again != 0 {
		t.Errorf("second sync inserted %d, want 0", again)
	}
}

func TestRecentAfterSync(t *testing.T) {
	svc := newService(t)

	if _, err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	recent, err := svc.Recent(5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) == 0 {
		t.Fatal("nothing recent after sync")
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].Timestamp.After(recent[i-1].Timestamp) {
			t.Fatal("recent entries not newest first")
		}
	}
}

func TestModelTotalsAfterSync(t *testing.T) {
	svc := newService(t)

	if _, err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	totals, err := svc.ModelTotals()
	if err != nil {
		t.Fatalf("ModelTotals: %v", err)
	}
	if len(totals) == 0 {
		t.Fatal("no model totals after sync")
	}
	for i := 1; i < len(totals); i++ {
		if totals[i].Requests > totals[i-1].Requests {
			t.Fatal("totals not ordered busiest first")
		}
	}
}

func TestPruneOldKeepsRetentionWindow(t *testing.T) {
	svc := newService(t)

	now := time.Now().UTC()
	entries := []models.RequestEntry{
		{ID: 9001, Timestamp: now.Add(-91 * 24 * time.Hour), Model: "gpt-4o", StatusCode: 200},
		{ID: 9002, Timestamp: now.Add(-24 * time.Hour), Model: "gpt-4o", StatusCode: 200},
	}
	if _, err := svc.database.UpsertRequests(entries); err != nil {
		t.Fatalf("UpsertRequests: %v", err)
	}

	pruned, err := svc.PruneOld()
	if err != nil {
		t.Fatalf("PruneOld: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned %d rows, want 1", pruned)
	}

	count, err := svc.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("count after prune = %d, want 1", count)
	}
}

func TestAggregateCachedAndInvalidated(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	agg, err := svc.Aggregate(ctx, "", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if agg.TotalRequests == 0 {
		t.Fatal("aggregate empty")
	}

	key := query.Key{ResourceRequests, "aggregate", "", ""}
	if _, ok := svc.store.Get(key); !ok {
		t.Fatal("aggregate not cached")
	}

	svc.InvalidateAggregates()
	if _, ok := svc.store.Get(key); ok {
		t.Error("aggregate survived invalidation")
	}
}
