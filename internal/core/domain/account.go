package domain

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

// Account represents a node in an entity's chart of accounts.
// This is the primary representation used by services.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary Key (e.g., UUID)
	EntityID        string          `json:"entityID"`        // FK -> entities.entity_id (NON-NULL)
	Code            string          `json:"code"`            // Account code, unique per entity
	Name            string          `json:"name"`            // User-defined name
	AccountType     AccountType     `json:"accountType"`     // ASSET, LIABILITY, etc.
	CurrencyCode    string          `json:"currencyCode"`    // ISO currency code (NON-NULL)
	ParentAccountID string          `json:"parentAccountID"` // Nullable FK -> accounts.account_id (Self-referencing)
	Description     string          `json:"description"`     // Nullable user description
	Reconcilable    bool            `json:"reconcilable"`    // True when the account mirrors an external bank account
	IsActive        bool            `json:"isActive"`        // Deactivation flag; accounts are never physically deleted
	AuditFields                     // Embed CreatedAt, CreatedBy, etc.
	Balance         decimal.Decimal `json:"balance"` // Persisted running balance
}
