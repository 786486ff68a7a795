package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// SourceType identifies the sub-ledger that originated a journal entry.
type SourceType string

const (
	SourceManual          SourceType = "MANUAL"
	SourceSales           SourceType = "SALES"
	SourcePurchase        SourceType = "PURCHASE"
	SourcePayroll         SourceType = "PAYROLL"
	SourceDepreciation    SourceType = "DEPRECIATION"
	SourceReconAdjustment SourceType = "RECON_ADJUSTMENT"
)

// Journal represents a single, balanced financial event composed of multiple transactions.
// Once posted it is immutable; corrections happen by reversal, never by edit.
type Journal struct {
	JournalID          string          `json:"journalID"`   // Primary Key (e.g., UUID)
	EntityID           string          `json:"entityID"`    // FK -> entities.entity_id (Not Null)
	JournalDate        time.Time       `json:"journalDate"` // Date the event occurred
	PeriodID           string          `json:"periodID"`    // FK -> fiscal_periods.period_id (Not Null)
	Description        string          `json:"description"`
	CurrencyCode       string          `json:"currencyCode"` // Primary currency of the Journal (Not Null)
	SourceType         SourceType      `json:"sourceType"`
	Status             JournalStatus   `json:"status"`
	OriginalJournalID  *string         `json:"originalJournalID,omitempty"`  // Set on a reversal, points to the reversed journal
	ReversingJournalID *string         `json:"reversingJournalID,omitempty"` // Set on the original once reversed
	Amount             decimal.Decimal `json:"amount"`                       // Sum of the debit side
	Transactions       []Transaction   `json:"transactions,omitempty"`
	AuditFields
}
