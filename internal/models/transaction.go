package models

import "time"

// TransactionType classifies a credit transaction.
type TransactionType string

const (
	TxAdminGrant   TransactionType = "admin_grant"
	TxAdminRemoval TransactionType = "admin_removal"
	TxPurchase     TransactionType = "purchase"
	TxUsage        TransactionType = "usage"
)

// Transaction represents a credit transaction as returned by
// /admin/api/v1/transactions. Amounts are decimal strings on the wire to
// preserve precision; they are parsed at the API boundary.
type Transaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Type         TransactionType `json:"transaction_type"`
	Amount       float64         `json:"amount,string"`
	BalanceAfter float64         `json:"balance_after,string"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TransactionCreate is the request body for granting or removing credits.
type TransactionCreate struct {
	UserID      string          `json:"user_id"`
	Type        TransactionType `json:"transaction_type"`
	Amount      float64         `json:"amount,string"`
	Description string          `json:"description,omitempty"`
}

// Balance is a user's current credit balance.
type Balance struct {
	UserID         string  `json:"user_id"`
	CurrentBalance float64 `json:"current_balance,string"`
}
