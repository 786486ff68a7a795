package models

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

// Journal represents a single, balanced financial event composed of multiple transactions.
type Journal struct {
	JournalID          string          `db:"journal_id"`
	EntityID           string          `db:"entity_id"`
	JournalDate        time.Time       `db:"journal_date"`
	PeriodID           string          `db:"period_id"`
	Description        string          `db:"description"`
	CurrencyCode       string          `db:"currency_code"`
	SourceType         string          `db:"source_type"`
	Status             JournalStatus   `db:"status"`
	OriginalJournalID  *string         `db:"original_journal_id"`  // Nullable
	ReversingJournalID *string         `db:"reversing_journal_id"` // Nullable
	Amount             decimal.Decimal `db:"amount"`               // Sum of the debit side
	AuditFields
}
