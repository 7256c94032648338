package mock

import (
	"time"

	"github.com/inference-gw/admin-tui/internal/models"
)

// Stable fixture ids, so tests and the demo walkthrough can target known
// resources without listing first.
const (
	UserAliceID = "0b6bd1a0-9f3e-4a3d-8c1f-2f6f10a24001"
	UserBobID   = "0b6bd1a0-9f3e-4a3d-8c1f-2f6f10a24002"
	UserCarolID = "0b6bd1a0-9f3e-4a3d-8c1f-2f6f10a24003"

	GroupOpsID      = "4f1d2c30-55aa-4e1b-9c77-8d2e30b15001"
	GroupResearchID = "4f1d2c30-55aa-4e1b-9c77-8d2e30b15002"

	ModelChatID  = "7a90e5c0-1bd2-4f6a-a3e8-6c1f40c26001"
	ModelCodeID  = "7a90e5c0-1bd2-4f6a-a3e8-6c1f40c26002"
	ModelEmbedID = "7a90e5c0-1bd2-4f6a-a3e8-6c1f40c26003"

	EndpointVLLMID   = "9c2f17e0-83dd-4b5c-b1a9-4e0d50d37001"
	EndpointOllamaID = "9c2f17e0-83dd-4b5c-b1a9-4e0d50d37002"

	FileInputID  = "c4e32980-a711-4d0e-95cb-1a2b60e48001"
	FileOutputID = "c4e32980-a711-4d0e-95cb-1a2b60e48002"
	FileErrorID  = "c4e32980-a711-4d0e-95cb-1a2b60e48003"

	BatchRunningID  = "e6d54ba0-c933-4f2a-87dd-3c4d70f59001"
	BatchCompleteID = "e6d54ba0-c933-4f2a-87dd-3c4d70f59002"
	BatchFailedID   = "e6d54ba0-c933-4f2a-87dd-3c4d70f59003"
)

func (t *Transport) seed() {
	base := time.Now().UTC().Truncate(time.Second).Add(-30 * 24 * time.Hour)

	t.users = []models.User{
		{
			ID: UserAliceID, Username: "alice", Email: "alice@example.com",
			DisplayName: "Alice Moran", IsAdmin: true,
			Roles:     []models.Role{models.RolePlatformManager, models.RoleBillingManager},
			CreatedAt: base, UpdatedAt: base,
		},
		{
			ID: UserBobID, Username: "bob", Email: "bob@example.com",
			DisplayName: "Bob Tanaka",
			Roles:       []models.Role{models.RoleStandardUser, models.RoleBatchAPIUser},
			CreatedAt:   base.Add(24 * time.Hour), UpdatedAt: base.Add(24 * time.Hour),
		},
		{
			ID: UserCarolID, Username: "carol", Email: "carol@example.com",
			DisplayName: "Carol Weiss",
			Roles:       []models.Role{models.RoleStandardUser, models.RoleRequestViewer},
			CreatedAt:   base.Add(48 * time.Hour), UpdatedAt: base.Add(48 * time.Hour),
		},
	}
	t.balances[UserAliceID] = 412.50
	t.balances[UserBobID] = 83.10
	t.balances[UserCarolID] = 0

	t.groups = []models.Group{
		{ID: GroupOpsID, Name: "ops", Description: "Platform operators", Source: "local", CreatedAt: base, UpdatedAt: base},
		{ID: GroupResearchID, Name: "research", Description: "Model evaluation team", Source: "ldap", CreatedAt: base, UpdatedAt: base},
	}
	t.memberships[GroupOpsID] = []string{UserAliceID}
	t.memberships[GroupResearchID] = []string{UserBobID, UserCarolID}

	inTariff, outTariff := 0.40, 1.60
	embTariff := 0.02
	t.deployments = []models.Deployment{
		{
			ID: ModelChatID, Alias: "chat-large", ModelName: "llama-3.3-70b-instruct",
			HostedOn: EndpointVLLMID, Description: "General chat workhorse",
			Capabilities: []string{"chat", "tools"},
			InputTariff:  &inTariff, OutputTariff: &outTariff,
			CreatedAt: base, UpdatedAt: base,
		},
		{
			ID: ModelCodeID, Alias: "code", ModelName: "qwen-2.5-coder-32b",
			HostedOn: EndpointVLLMID, Description: "Code completion",
			Capabilities: []string{"chat"},
			InputTariff:  &inTariff, OutputTariff: &outTariff,
			CreatedAt: base, UpdatedAt: base,
		},
		{
			ID: ModelEmbedID, Alias: "embed", ModelName: "bge-m3",
			HostedOn: EndpointOllamaID, Description: "Embeddings",
			Capabilities: []string{"embeddings"},
			InputTariff:  &embTariff,
			CreatedAt:    base, UpdatedAt: base,
		},
	}
	t.groupModels[GroupOpsID] = []string{ModelChatID, ModelCodeID, ModelEmbedID}
	t.groupModels[GroupResearchID] = []string{ModelChatID}

	t.endpoints = []models.Endpoint{
		{ID: EndpointVLLMID, Name: "vllm-main", URL: "http://vllm.internal:8000", RequiresAPIKey: true, CreatedAt: base, UpdatedAt: base},
		{ID: EndpointOllamaID, Name: "ollama-lab", URL: "http://ollama.lab:11434", CreatedAt: base, UpdatedAt: base},
	}

	rps := 10.0
	burst := 20
	t.apiKeys[UserBobID] = []models.APIKey{
		{
			ID: "aa0e8400-e29b-41d4-a716-446655440010", Name: "batch-runner",
			Purpose: models.PurposeInference, UserID: UserBobID,
			RequestsPerSecond: &rps, BurstSize: &burst,
			CreatedAt: base.Add(72 * time.Hour),
		},
	}

	t.seedFiles(base)
	t.seedBatches()
	t.seedTransactions(base)
	t.seedRequests()
}

func (t *Transport) seedFiles(base time.Time) {
	input := `{"custom_id":"req-1","method":"POST","url":"/v1/chat/completions","body":{"model":"chat-large","messages":[{"role":"user","content":"Summarize Q1"}]}}
{"custom_id":"req-2","method":"POST","url":"/v1/chat/completions","body":{"model":"chat-large","messages":[{"role":"user","content":"Summarize Q2"}]}}
{"custom_id":"req-3","method":"POST","url":"/v1/chat/completions","body":{"model":"chat-large","messages":[{"role":"user","content":"Summarize Q3"}]}}
`
	output := `{"custom_id":"req-1","response":{"status_code":200,"request_id":"r-1001","body":{"choices":[{"message":{"content":"Q1 summary"}}]}}}
{"custom_id":"req-2","response":{"status_code":200,"request_id":"r-1002","body":{"choices":[{"message":{"content":"Q2 summary"}}]}}}
{"custom_id":"req-3","response":{"status_code":200,"request_id":"r-1003","body":{"choices":[{"message":{"content":"Q3 summary"}}]}}}
`
	errFile := `{"custom_id":"req-7","error":{"code":"invalid_request","line":7,"message":"model not found"}}
`

	expires := base.Add(60 * 24 * time.Hour).Unix()
	t.files = []models.File{
		{ID: FileInputID, Filename: "quarterly-summaries.jsonl", Bytes: int64(len(input)), Purpose: models.FilePurposeBatch, CreatedAt: base.Unix(), ExpiresAt: &expires},
		{ID: FileOutputID, Filename: "quarterly-summaries-output.jsonl", Bytes: int64(len(output)), Purpose: models.FilePurposeBatchOutput, CreatedAt: base.Add(time.Hour).Unix()},
		{ID: FileErrorID, Filename: "eval-run-errors.jsonl", Bytes: int64(len(errFile)), Purpose: models.FilePurposeBatchError, CreatedAt: base.Add(2 * time.Hour).Unix()},
	}
	t.fileContent[FileInputID] = input
	t.fileContent[FileOutputID] = output
	t.fileContent[FileErrorID] = errFile
}

func (t *Transport) seedBatches() {
	nowTS := time.Now().Unix()
	hourAgo := nowTS - 3600
	dayAgo := nowTS - 24*3600
	expires := nowTS + 24*3600
	outputID := FileOutputID
	errorID := FileErrorID

	t.batches = []models.Batch{
		{
			ID: BatchRunningID, Endpoint: "/v1/chat/completions",
			Status: models.BatchInProgress, InputFileID: FileInputID,
			CompletionWindow: "24h",
			RequestCounts:    models.RequestCounts{Total: 3, Completed: 1},
			CreatedAt:        hourAgo, InProgressAt: &hourAgo, ExpiresAt: &expires,
		},
		{
			ID: BatchCompleteID, Endpoint: "/v1/chat/completions",
			Status: models.BatchCompleted, InputFileID: FileInputID,
			OutputFileID: &outputID, CompletionWindow: "24h",
			RequestCounts: models.RequestCounts{Total: 3, Completed: 3},
			CreatedAt:     dayAgo, InProgressAt: &dayAgo, FinalizingAt: &hourAgo, CompletedAt: &hourAgo,
		},
		{
			ID: BatchFailedID, Endpoint: "/v1/chat/completions",
			Status: models.BatchFailed, InputFileID: FileInputID,
			ErrorFileID: &errorID, CompletionWindow: "24h",
			RequestCounts: models.RequestCounts{Total: 3, Completed: 2, Failed: 1},
			Errors: &models.BatchErrors{Data: []models.BatchError{
				{Code: "invalid_request", Message: "model not found"},
			}},
			CreatedAt: dayAgo, InProgressAt: &dayAgo, FailedAt: &hourAgo,
		},
	}
}

func (t *Transport) seedTransactions(base time.Time) {
	t.transactions = []models.Transaction{
		{
			ID: "b1000000-0000-4000-8000-000000000001", UserID: UserBobID,
			Type: models.TxAdminGrant, Amount: 100, BalanceAfter: 100,
			Description: "Initial grant", CreatedAt: base.Add(24 * time.Hour),
		},
		{
			ID: "b1000000-0000-4000-8000-000000000002", UserID: UserBobID,
			Type: models.TxUsage, Amount: 16.90, BalanceAfter: 83.10,
			Description: "Batch usage", CreatedAt: base.Add(48 * time.Hour),
		},
		{
			ID: "b1000000-0000-4000-8000-000000000003", UserID: UserAliceID,
			Type: models.TxPurchase, Amount: 412.50, BalanceAfter: 412.50,
			Description: "Card purchase", CreatedAt: base.Add(24 * time.Hour),
		},
	}
}

func (t *Transport) seedRequests() {
	modelNames := []string{"llama-3.3-70b-instruct", "qwen-2.5-coder-32b", "bge-m3"}
	start := time.Now().UTC().Add(-7 * 24 * time.Hour)
	for i := 0; i < 42; i++ {
		status := 200
		if i%13 == 0 {
			status = 429
		}
		entry := models.RequestEntry{
			ID:               int64(i + 1),
			Timestamp:        start.Add(time.Duration(i*4) * time.Hour),
			Model:            modelNames[i%len(modelNames)],
			StatusCode:       status,
			DurationMs:       int64(250 + 37*(i%9)),
			PromptTokens:     int64(120 + 11*i),
			CompletionTokens: int64(80 + 7*i),
			Cost:             float64(i%9) * 0.013,
		}
		if i%5 == 0 {
			entry.BatchID = BatchCompleteID
		}
		t.requests = append(t.requests, entry)
	}
	// Anchor the newest entry well inside the default dashboard window.
	t.requests[len(t.requests)-1].Timestamp = time.Now().UTC().Add(-10 * time.Minute)
}
