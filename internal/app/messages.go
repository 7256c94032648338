package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-gw/admin-tui/internal/db"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// RefreshMsg requests a refresh of data. Resource is one of "all", "tab",
// "dashboard", "users", "models", "batches", "billing".
type RefreshMsg struct {
	Resource string
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SearchDebouncedMsg fires when a search input has settled. Seq lets the tab
// discard stale timers after further keystrokes.
type SearchDebouncedMsg struct {
	Seq   int
	Query string
}

// DashboardLoadedMsg carries the request analytics for the dashboard tab.
type DashboardLoadedMsg struct {
	Volume    []db.HourlyVolume
	Totals    []db.ModelTotal
	Recent    []models.RequestEntry
	Aggregate models.RequestAggregate
	Err       error
}

// RequestsSyncedMsg signals that the local request history gained new rows.
type RequestsSyncedMsg struct {
	Inserted int
}

// UsersLoadedMsg contains a page of users.
type UsersLoadedMsg struct {
	Page models.Page[models.User]
	Err  error
}

// UserDetailLoadedMsg contains one user with embeds plus their API keys.
type UserDetailLoadedMsg struct {
	User models.User
	Keys []models.APIKey
	Err  error
}

// UserCreatedMsg contains the result of a user creation.
type UserCreatedMsg struct {
	User models.User
	Err  error
}

// UserDeletedMsg contains the result of a user deletion.
type UserDeletedMsg struct {
	ID  string
	Err error
}

// GroupsLoadedMsg contains a page of groups.
type GroupsLoadedMsg struct {
	Page models.Page[models.Group]
	Err  error
}

// ModelsLoadedMsg contains a page of model deployments.
type ModelsLoadedMsg struct {
	Page models.Page[models.Deployment]
	Err  error
}

// ModelDetailLoadedMsg contains one deployment with embeds.
type ModelDetailLoadedMsg struct {
	Model models.Deployment
	Err   error
}

// EndpointsLoadedMsg contains a page of inference endpoints.
type EndpointsLoadedMsg struct {
	Page models.Page[models.Endpoint]
	Err  error
}

// BatchesLoadedMsg contains a cursor page of batch jobs.
type BatchesLoadedMsg struct {
	Page models.CursorPage[models.Batch]
	Err  error
}

// BatchCancelledMsg contains the result of a batch cancellation.
type BatchCancelledMsg struct {
	Batch models.Batch
	Err   error
}

// BatchCreatedMsg contains the result of a batch submission.
type BatchCreatedMsg struct {
	Batch models.Batch
	Err   error
}

// FilesLoadedMsg contains a cursor page of files.
type FilesLoadedMsg struct {
	Page models.CursorPage[models.File]
	Err  error
}

// FileContentLoadedMsg contains the parsed records of a JSONL file.
type FileContentLoadedMsg struct {
	FileID  string
	Records []models.BatchRecord
	Err     error
}

// FileDeletedMsg contains the result of a file deletion.
type FileDeletedMsg struct {
	ID  string
	Err error
}

// TransactionsLoadedMsg contains a page of billing transactions.
type TransactionsLoadedMsg struct {
	Page models.TransactionPage
	Err  error
}

// BalanceLoadedMsg contains a user's current credit balance.
type BalanceLoadedMsg struct {
	Balance models.Balance
	Err     error
}

// FundsChangedMsg contains the result of a fund grant or removal.
type FundsChangedMsg struct {
	Tx  models.Transaction
	Err error
}

// CheckoutReadyMsg contains a payment checkout URL.
type CheckoutReadyMsg struct {
	URL string
	Err error
}

// DelayedMsg wraps a message to be sent after a delay.
type DelayedMsg struct {
	Delay time.Duration
	Msg   tea.Msg
}
