package domain

import "time"

// PeriodStatus is the lifecycle state of a fiscal period.
//
// CLOSED periods reject new postings but can be reopened by an explicit
// action. LOCKED periods reject postings permanently; the distinction is
// intentional and locking is irreversible.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// FiscalPeriod is a non-overlapping date range per entity that scopes journal postings.
type FiscalPeriod struct {
	PeriodID  string       `json:"periodID"`
	EntityID  string       `json:"entityID"`
	Name      string       `json:"name"` // e.g. "2026-01"
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	AuditFields
}

// Contains reports whether the given date falls inside the period's range (inclusive).
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// CloseChecklist enumerates everything blocking a period close. The caller
// must be able to render the full list, not a single boolean.
type CloseChecklist struct {
	Success        bool     `json:"success"`
	BlockingIssues []string `json:"blockingIssues"`
}
