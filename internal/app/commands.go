package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/query"
	"github.com/inference-gw/admin-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// SearchDebounceDelay is how long a search input must settle before a
	// request goes out.
	SearchDebounceDelay = 300 * time.Millisecond

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// WaitForServiceEvent is the public version for use in tab models.
func WaitForServiceEvent(ch <-chan services.ServiceEvent) tea.Cmd {
	return services.WaitForEvent(ch)
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func loadDashboardCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := DashboardLoadedMsg{}

		var err error
		if msg.Volume, err = mgr.Requests().HourlyVolume(24); err != nil {
			msg.Err = err
			return msg
		}
		if msg.Totals, err = mgr.Requests().ModelTotals(); err != nil {
			msg.Err = err
			return msg
		}
		if msg.Recent, err = mgr.Requests().Recent(15); err != nil {
			msg.Err = err
			return msg
		}
		msg.Aggregate, msg.Err = mgr.Requests().Aggregate(ctx, "", time.Time{}, time.Time{})
		return msg
	}
}

func syncRequestsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		inserted, err := mgr.Requests().Sync(context.Background())
		if err != nil {
			return ErrorMsg{Error: err, Context: "request sync"}
		}
		return RequestsSyncedMsg{Inserted: inserted}
	}
}

func loadUsersCmd(mgr *services.Manager, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		page, err := mgr.Catalog().Users(context.Background(), params)
		return UsersLoadedMsg{Page: page, Err: err}
	}
}

func loadUserDetailCmd(mgr *services.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		user, err := mgr.Catalog().User(ctx, id, "groups,billing")
		if err != nil {
			return UserDetailLoadedMsg{Err: err}
		}
		keys, err := mgr.Catalog().APIKeys(ctx, id, api.ListParams{Limit: 20})
		return UserDetailLoadedMsg{User: user, Keys: keys.Data, Err: err}
	}
}

func createUserCmd(mgr *services.Manager, req models.UserCreate) tea.Cmd {
	return func() tea.Msg {
		user, err := mgr.Catalog().CreateUser(context.Background(), req)
		return UserCreatedMsg{User: user, Err: err}
	}
}

func deleteUserCmd(mgr *services.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		err := mgr.Catalog().DeleteUser(context.Background(), id)
		return UserDeletedMsg{ID: id, Err: err}
	}
}

func loadGroupsCmd(mgr *services.Manager, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		page, err := mgr.Catalog().Groups(context.Background(), params)
		return GroupsLoadedMsg{Page: page, Err: err}
	}
}

func loadModelsCmd(mgr *services.Manager, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		page, err := mgr.Catalog().Models(context.Background(), params)
		return ModelsLoadedMsg{Page: page, Err: err}
	}
}

func loadModelDetailCmd(mgr *services.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		model, err := mgr.Catalog().Model(context.Background(), id, "groups,metrics")
		return ModelDetailLoadedMsg{Model: model, Err: err}
	}
}

func loadEndpointsCmd(mgr *services.Manager, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		page, err := mgr.Catalog().Endpoints(context.Background(), params)
		return EndpointsLoadedMsg{Page: page, Err: err}
	}
}

func loadBatchesCmd(mgr *services.Manager, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		page, err := mgr.Batches().Batches(context.Background(), params)
		return BatchesLoadedMsg{Page: page, Err: err}
	}
}

func cancelBatchCmd(mgr *services.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		batch, err := mgr.Batches().Cancel(context.Background(), id)
		return BatchCancelledMsg{Batch: batch, Err: err}
	}
}

func loadFilesCmd(mgr *services.Manager, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		page, err := mgr.Batches().Files(context.Background(), params)
		return FilesLoadedMsg{Page: page, Err: err}
	}
}

func loadFileContentCmd(mgr *services.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		records, err := mgr.Batches().FileContent(context.Background(), id)
		return FileContentLoadedMsg{FileID: id, Records: records, Err: err}
	}
}

func deleteFileCmd(mgr *services.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		err := mgr.Batches().DeleteFile(context.Background(), id)
		return FileDeletedMsg{ID: id, Err: err}
	}
}

func loadTransactionsCmd(mgr *services.Manager, params api.ListParams) tea.Cmd {
	return func() tea.Msg {
		page, err := mgr.Billing().Transactions(context.Background(), params)
		return TransactionsLoadedMsg{Page: page, Err: err}
	}
}

func loadBalanceCmd(mgr *services.Manager, userID string) tea.Cmd {
	return func() tea.Msg {
		balance, err := mgr.Billing().Balance(context.Background(), userID)
		return BalanceLoadedMsg{Balance: balance, Err: err}
	}
}

func addFundsCmd(mgr *services.Manager, userID string, amount float64, description string) tea.Cmd {
	return func() tea.Msg {
		tx, err := mgr.Billing().AddFunds(context.Background(), userID, amount, description)
		return FundsChangedMsg{Tx: tx, Err: err}
	}
}

func removeFundsCmd(mgr *services.Manager, userID string, amount float64, description string) tea.Cmd {
	return func() tea.Msg {
		tx, err := mgr.Billing().RemoveFunds(context.Background(), userID, amount, description)
		return FundsChangedMsg{Tx: tx, Err: err}
	}
}

func checkoutCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		url, err := mgr.Billing().Checkout(context.Background())
		return CheckoutReadyMsg{URL: url, Err: err}
	}
}

func debounceSearchCmd(seq int, query string) tea.Cmd {
	return tea.Tick(SearchDebounceDelay, func(_ time.Time) tea.Msg {
		return SearchDebouncedMsg{Seq: seq, Query: query}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// delayedCmd returns a command that sends a message after a delay.
func delayedCmd(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return msg
	})
}

// Commands provides a public interface to the command functions for tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Manager exposes the underlying service manager.
func (c *Commands) Manager() *services.Manager {
	return c.manager
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// LoadDashboard returns a command that loads the request analytics.
func (c *Commands) LoadDashboard() tea.Cmd {
	return loadDashboardCmd(c.manager)
}

// SyncRequests returns a command that pulls new request history rows.
func (c *Commands) SyncRequests() tea.Cmd {
	return syncRequestsCmd(c.manager)
}

// LoadUsers returns a command that loads a page of users.
func (c *Commands) LoadUsers(params api.ListParams) tea.Cmd {
	return loadUsersCmd(c.manager, params)
}

// LoadUserDetail returns a command that loads a user with embeds and API keys.
func (c *Commands) LoadUserDetail(id string) tea.Cmd {
	return loadUserDetailCmd(c.manager, id)
}

// CreateUser returns a command that creates a user.
func (c *Commands) CreateUser(req models.UserCreate) tea.Cmd {
	return createUserCmd(c.manager, req)
}

// DeleteUser returns a command that deletes a user.
func (c *Commands) DeleteUser(id string) tea.Cmd {
	return deleteUserCmd(c.manager, id)
}

// LoadGroups returns a command that loads a page of groups.
func (c *Commands) LoadGroups(params api.ListParams) tea.Cmd {
	return loadGroupsCmd(c.manager, params)
}

// LoadModels returns a command that loads a page of model deployments.
func (c *Commands) LoadModels(params api.ListParams) tea.Cmd {
	return loadModelsCmd(c.manager, params)
}

// LoadModelDetail returns a command that loads one deployment with embeds.
func (c *Commands) LoadModelDetail(id string) tea.Cmd {
	return loadModelDetailCmd(c.manager, id)
}

// LoadEndpoints returns a command that loads a page of endpoints.
func (c *Commands) LoadEndpoints(params api.ListParams) tea.Cmd {
	return loadEndpointsCmd(c.manager, params)
}

// LoadBatches returns a command that loads a cursor page of batches.
func (c *Commands) LoadBatches(params api.ListParams) tea.Cmd {
	return loadBatchesCmd(c.manager, params)
}

// CancelBatch returns a command that cancels a running batch.
func (c *Commands) CancelBatch(id string) tea.Cmd {
	return cancelBatchCmd(c.manager, id)
}

// CreateBatch returns a command that submits a new batch job.
func (c *Commands) CreateBatch(req models.BatchCreate) tea.Cmd {
	mgr := c.manager
	return func() tea.Msg {
		batch, err := mgr.Batches().Create(context.Background(), req)
		return BatchCreatedMsg{Batch: batch, Err: err}
	}
}

// LoadFiles returns a command that loads a cursor page of files.
func (c *Commands) LoadFiles(params api.ListParams) tea.Cmd {
	return loadFilesCmd(c.manager, params)
}

// LoadFileContent returns a command that fetches and parses a JSONL file.
func (c *Commands) LoadFileContent(id string) tea.Cmd {
	return loadFileContentCmd(c.manager, id)
}

// DeleteFile returns a command that deletes a file.
func (c *Commands) DeleteFile(id string) tea.Cmd {
	return deleteFileCmd(c.manager, id)
}

// LoadTransactions returns a command that loads a page of transactions.
func (c *Commands) LoadTransactions(params api.ListParams) tea.Cmd {
	return loadTransactionsCmd(c.manager, params)
}

// LoadBalance returns a command that loads a user's credit balance.
func (c *Commands) LoadBalance(userID string) tea.Cmd {
	return loadBalanceCmd(c.manager, userID)
}

// AddFunds returns a command that grants credits to a user.
func (c *Commands) AddFunds(userID string, amount float64, description string) tea.Cmd {
	return addFundsCmd(c.manager, userID, amount, description)
}

// RemoveFunds returns a command that removes credits from a user.
func (c *Commands) RemoveFunds(userID string, amount float64, description string) tea.Cmd {
	return removeFundsCmd(c.manager, userID, amount, description)
}

// Checkout returns a command that creates a payment checkout session.
func (c *Commands) Checkout() tea.Cmd {
	return checkoutCmd(c.manager)
}

// Reload invalidates the given cache families and then runs the load
// command. A manual refresh goes through here so it reaches the network
// instead of being satisfied from cache.
func (c *Commands) Reload(load tea.Cmd, families ...string) tea.Cmd {
	if c.manager == nil || load == nil {
		return load
	}
	store := c.manager.Store()
	return func() tea.Msg {
		for _, family := range families {
			store.Invalidate(query.FamilyKey(family))
		}
		return load()
	}
}

// DebounceSearch returns a command that fires once a search input settles.
func (c *Commands) DebounceSearch(seq int, query string) tea.Cmd {
	return debounceSearchCmd(seq, query)
}

// SubscribeToServices returns a command that subscribes to service events.
func (c *Commands) SubscribeToServices() tea.Cmd {
	return subscribeToServicesCmd(c.manager)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Delayed returns a command that sends a message after a delay.
func (c *Commands) Delayed(delay time.Duration, msg tea.Msg) tea.Cmd {
	return delayedCmd(delay, msg)
}

// Batch combines multiple commands into one.
func (c *Commands) Batch(cmds ...tea.Cmd) tea.Cmd {
	return tea.Batch(cmds...)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}
