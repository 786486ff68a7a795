package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is an entity-scoped record of an external bank account.
type BankAccount struct {
	BankAccountID  string          `db:"bank_account_id"`
	EntityID       string          `db:"entity_id"`
	Name           string          `db:"name"`
	BankName       string          `db:"bank_name"`
	AccountNumber  string          `db:"account_number"`
	CurrencyCode   string          `db:"currency_code"`
	GLAccountID    string          `db:"gl_account_id"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	LastReconciled *time.Time      `db:"last_reconciled"` // Nullable
	IsActive       bool            `db:"is_active"`
	AuditFields
}
