package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is an entity-scoped record of an external bank account.
// It is linked to a GL account which must be flagged reconcilable.
type BankAccount struct {
	BankAccountID  string          `json:"bankAccountID"`
	EntityID       string          `json:"entityID"`
	Name           string          `json:"name"`
	BankName       string          `json:"bankName"`
	AccountNumber  string          `json:"accountNumber"`
	CurrencyCode   string          `json:"currencyCode"`
	GLAccountID    string          `json:"glAccountID"` // FK -> accounts.account_id, reconcilable
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	LastReconciled *time.Time      `json:"lastReconciled,omitempty"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}
