package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a chart-of-accounts row.
// Note: ParentAccountID uses string for nullable foreign key; DB handling may vary.
type Account struct {
	AccountID       string          `db:"account_id"`
	EntityID        string          `db:"entity_id"`
	Code            string          `db:"code"` // Unique per entity
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	CurrencyCode    string          `db:"currency_code"`
	ParentAccountID string          `db:"parent_account_id"` // Nullable
	Description     string          `db:"description"`
	Reconcilable    bool            `db:"reconcilable"`
	IsActive        bool            `db:"is_active"`
	AuditFields                     // Embed common audit fields
	Balance         decimal.Decimal `db:"balance"` // Persisted account balance
}
