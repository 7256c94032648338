package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/api/mock"
	"github.com/inference-gw/admin-tui/internal/models"
)

func newClient() *api.Client {
	return api.New("http://gateway.test", "test-token", mock.New())
}

func TestErrorMessages(t *testing.T) {
	client := newClient()
	ctx := context.Background()

	tests := []struct {
		name       string
		call       func() error
		wantStatus int
		wantMsg    string
	}{
		{
			name: "unknown user",
			call: func() error {
				_, err := client.GetUser(ctx, "00000000-0000-0000-0000-000000000000", "")
				return err
			},
			wantStatus: 404,
			wantMsg:    "Failed to fetch user: 404",
		},
		{
			name: "sentinel id",
			call: func() error {
				_, err := client.GetUser(ctx, mock.SentinelErrorID, "")
				return err
			},
			wantStatus: 500,
			wantMsg:    "Failed to fetch user: 500",
		},
		{
			name: "delete unknown model",
			call: func() error {
				return client.DeleteModel(ctx, "00000000-0000-0000-0000-000000000000")
			},
			wantStatus: 404,
			wantMsg:    "Failed to delete model: 404",
		},
		{
			name: "cancel unknown batch",
			call: func() error {
				_, err := client.CancelBatch(ctx, "00000000-0000-0000-0000-000000000000")
				return err
			},
			wantStatus: 404,
			wantMsg:    "Failed to cancel batch: 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var apiErr *api.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *api.Error, got %v", err)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.wantStatus)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestListUsersInclude(t *testing.T) {
	client := newClient()
	ctx := context.Background()

	plain, err := client.ListUsers(ctx, api.ListParams{Limit: 50})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(plain.Data) == 0 {
		t.Fatal("expected seeded users")
	}
	for _, u := range plain.Data {
		if u.CreditBalance != nil || len(u.Groups) > 0 {
			t.Fatalf("user %s has embedded data without include", u.Username)
		}
	}

	full, err := client.ListUsers(ctx, api.ListParams{Include: "groups,billing", Limit: 50})
	if err != nil {
		t.Fatalf("ListUsers include: %v", err)
	}
	var alice models.User
	for _, u := range full.Data {
		if u.ID == mock.UserAliceID {
			alice = u
		}
	}
	if alice.CreditBalance == nil {
		t.Fatal("include=billing did not populate credit_balance")
	}
	if *alice.CreditBalance != 412.50 {
		t.Errorf("alice balance = %v, want 412.50", *alice.CreditBalance)
	}
	if len(alice.Groups) != 1 || alice.Groups[0].Name != "ops" {
		t.Errorf("alice groups = %+v, want [ops]", alice.Groups)
	}
}

func TestSearchFiltersUsers(t *testing.T) {
	client := newClient()
	page, err := client.ListUsers(context.Background(), api.ListParams{Search: "tanaka", Limit: 50})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if page.TotalCount != 1 || len(page.Data) != 1 || page.Data[0].Username != "bob" {
		t.Errorf("search returned %+v, want just bob", page.Data)
	}
}

func TestCreateUserEchoesFields(t *testing.T) {
	client := newClient()
	created, err := client.CreateUser(context.Background(), models.UserCreate{
		Username:    "dave",
		Email:       "dave@example.com",
		DisplayName: "Dave Okafor",
		Roles:       []models.Role{models.RoleStandardUser},
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.ID == "" {
		t.Error("created user has no id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("created user missing timestamps")
	}
	if created.Username != "dave" || created.Email != "dave@example.com" {
		t.Errorf("created user = %+v, fields not echoed", created)
	}

	fetched, err := client.GetUser(context.Background(), created.ID, "")
	if err != nil {
		t.Fatalf("GetUser after create: %v", err)
	}
	if fetched.Username != "dave" {
		t.Errorf("fetched username = %q", fetched.Username)
	}
}

func TestAPIKeySecretReturnedOnce(t *testing.T) {
	client := newClient()
	ctx := context.Background()

	key, err := client.CreateAPIKey(ctx, mock.UserCarolID, models.APIKeyCreate{
		Name:    "eval",
		Purpose: models.PurposeInference,
	})
	if err != nil {
		t.Fatalf("CreateAPIKey: %v", err)
	}
	if key.Secret == "" {
		t.Fatal("create response missing secret")
	}

	page, err := client.ListAPIKeys(ctx, mock.UserCarolID, api.ListParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListAPIKeys: %v", err)
	}
	if len(page.Data) != 1 {
		t.Fatalf("expected 1 key, got %d", len(page.Data))
	}
	if page.Data[0].Secret != "" {
		t.Error("list response leaked the secret")
	}
}

func TestAddFundsUpdatesBalance(t *testing.T) {
	client := newClient()
	ctx := context.Background()

	before, err := client.GetBalance(ctx, mock.UserCarolID)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}

	tx, err := client.CreateTransaction(ctx, models.TransactionCreate{
		UserID:      mock.UserCarolID,
		Type:        models.TxAdminGrant,
		Amount:      25,
		Description: "Eval budget",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.BalanceAfter != before.CurrentBalance+25 {
		t.Errorf("balance_after = %v, want %v", tx.BalanceAfter, before.CurrentBalance+25)
	}

	after, err := client.GetBalance(ctx, mock.UserCarolID)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if after.CurrentBalance != before.CurrentBalance+25 {
		t.Errorf("balance = %v, want %v", after.CurrentBalance, before.CurrentBalance+25)
	}
}

func TestTransactionPageStartBalance(t *testing.T) {
	client := newClient()
	page, err := client.ListTransactions(context.Background(), api.ListParams{
		UserID: mock.UserBobID,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 transactions for bob, got %d", len(page.Data))
	}
	if page.PageStartBalance != page.Data[0].BalanceAfter {
		t.Errorf("page_start_balance = %v, want %v", page.PageStartBalance, page.Data[0].BalanceAfter)
	}
}

func TestFileCursorPagination(t *testing.T) {
	client := newClient()
	ctx := context.Background()

	first, err := client.ListFiles(ctx, api.ListParams{Limit: 2})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(first.Data) != 2 || !first.HasMore {
		t.Fatalf("first page = %d items, has_more=%v", len(first.Data), first.HasMore)
	}

	second, err := client.ListFiles(ctx, api.ListParams{Limit: 2, After: first.LastID})
	if err != nil {
		t.Fatalf("ListFiles after: %v", err)
	}
	if second.HasMore {
		t.Error("second page should be the last")
	}
	if len(second.Data) == 0 {
		t.Fatal("second page empty")
	}
	if second.Data[0].ID == first.Data[0].ID {
		t.Error("pages overlap")
	}
}

func TestFileContentParsing(t *testing.T) {
	client := newClient()
	ctx := context.Background()

	records, err := client.FileContent(ctx, mock.FileInputID)
	if err != nil {
		t.Fatalf("FileContent: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].CustomID != "req-1" || records[0].Method != "POST" {
		t.Errorf("first record = %+v", records[0])
	}

	out, err := client.FileContent(ctx, mock.FileOutputID)
	if err != nil {
		t.Fatalf("FileContent output: %v", err)
	}
	if out[0].Response == nil || out[0].Response.StatusCode != 200 {
		t.Errorf("output record missing response: %+v", out[0])
	}

	_, err = client.FileContent(ctx, "00000000-0000-0000-0000-000000000000")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("expected 404 api error, got %v", err)
	}
	if apiErr.Message != "Failed to fetch file content: 404" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestCancelBatchMovesToCancelling(t *testing.T) {
	client := newClient()
	batch, err := client.CancelBatch(context.Background(), mock.BatchRunningID)
	if err != nil {
		t.Fatalf("CancelBatch: %v", err)
	}
	if batch.Status != models.BatchCancelling {
		t.Errorf("status = %s, want cancelling", batch.Status)
	}
	if batch.CancellingAt == nil {
		t.Error("cancelling_at not set")
	}
}

func TestCreateBatchRequiresInputFile(t *testing.T) {
	client := newClient()
	ctx := context.Background()

	batch, err := client.CreateBatch(ctx, models.BatchCreate{
		InputFileID:      mock.FileInputID,
		Endpoint:         "/v1/chat/completions",
		CompletionWindow: "24h",
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if batch.Status != models.BatchValidating {
		t.Errorf("new batch status = %s, want validating", batch.Status)
	}

	_, err = client.CreateBatch(ctx, models.BatchCreate{
		InputFileID:      "00000000-0000-0000-0000-000000000000",
		Endpoint:         "/v1/chat/completions",
		CompletionWindow: "24h",
	})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("expected 404 for missing input file, got %v", err)
	}
}

func TestGroupMembershipMutations(t *testing.T) {
	client := newClient()
	ctx := context.Background()

	if err := client.AddUserToGroup(ctx, mock.GroupOpsID, mock.UserBobID); err != nil {
		t.Fatalf("AddUserToGroup: %v", err)
	}
	group, err := client.GetGroup(ctx, mock.GroupOpsID, "users")
	if err != nil {
		t.Fatalf("GetGroup: %v", err)
	}
	found := false
	for _, u := range group.Users {
		if u.ID == mock.UserBobID {
			found = true
		}
	}
	if !found {
		t.Fatal("bob not in ops after add")
	}

	if err := client.RemoveUserFromGroup(ctx, mock.GroupOpsID, mock.UserBobID); err != nil {
		t.Fatalf("RemoveUserFromGroup: %v", err)
	}
	group, err = client.GetGroup(ctx, mock.GroupOpsID, "users")
	if err != nil {
		t.Fatalf("GetGroup: %v", err)
	}
	for _, u := range group.Users {
		if u.ID == mock.UserBobID {
			t.Fatal("bob still in ops after remove")
		}
	}
}

func TestHostedOnFilter(t *testing.T) {
	client := newClient()
	page, err := client.ListModels(context.Background(), api.ListParams{
		HostedOn: mock.EndpointOllamaID,
		Limit:    50,
	})
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Alias != "embed" {
		t.Errorf("hosted_on filter returned %+v", page.Data)
	}
}

func TestRequestAggregate(t *testing.T) {
	client := newClient()
	agg, err := client.AggregateRequests(context.Background(), "", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("AggregateRequests: %v", err)
	}
	if agg.TotalRequests == 0 {
		t.Fatal("aggregate has no requests")
	}
	if agg.SuccessRate <= 0 || agg.SuccessRate > 1 {
		t.Errorf("success rate = %v", agg.SuccessRate)
	}
	if len(agg.RequestsPerModel) == 0 {
		t.Error("aggregate missing per-model counts")
	}
}

// authRecorder captures the Authorization header of each request and serves
// an empty page so calls succeed without the fixture transport.
type authRecorder struct {
	headers []string
}

func (r *authRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	r.headers = append(r.headers, req.Header.Get("Authorization"))
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(`{"data":[],"total_count":0}`)),
		Request:    req,
	}, nil
}

func TestSetCredentialsRotatesToken(t *testing.T) {
	rec := &authRecorder{}
	client := api.New("http://gateway.test", "old-token", rec)
	ctx := context.Background()

	if _, err := client.ListUsers(ctx, api.ListParams{Limit: 1}); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	client.SetCredentials("", "new-token")
	if _, err := client.ListUsers(ctx, api.ListParams{Limit: 1}); err != nil {
		t.Fatalf("ListUsers after rotation: %v", err)
	}

	if len(rec.headers) != 2 {
		t.Fatalf("recorded %d requests, want 2", len(rec.headers))
	}
	if rec.headers[0] != "Bearer old-token" {
		t.Errorf("first request auth = %q", rec.headers[0])
	}
	if rec.headers[1] != "Bearer new-token" {
		t.Errorf("rotated request auth = %q, want Bearer new-token", rec.headers[1])
	}
	if client.BaseURL() != "http://gateway.test" {
		t.Errorf("empty base URL overwrote the old one: %q", client.BaseURL())
	}
}
