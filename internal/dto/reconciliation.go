package dto

import (
	"time"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/OluAde/ledger_recon_app/internal/ingest"
	"github.com/shopspring/decimal"
)

// CreateReconciliationRequest starts a reconciliation for (bank account, period).
type CreateReconciliationRequest struct {
	BankAccountID           string          `json:"bankAccountID" binding:"required"`
	PeriodID                string          `json:"periodID" binding:"required"`
	StatementOpeningBalance decimal.Decimal `json:"statementOpeningBalance"`
	StatementClosingBalance decimal.Decimal `json:"statementClosingBalance"`
}

// IngestStatementRequest submits raw statement lines for a reconciliation.
type IngestStatementRequest struct {
	Format ingest.Format `json:"format" binding:"required,oneof=CSV FIXED_WIDTH NORMALIZED"`
	// Raw statement content. For CSV/FIXED_WIDTH this is the file text; for
	// NORMALIZED it is a JSON array of normalized lines.
	Raw string `json:"raw" binding:"required"`
}

// IngestResponse reports one ingestion batch: inserted count, duplicates
// skipped by the idempotency key, and the per-line error list.
type IngestResponse struct {
	Parsed     int                `json:"parsed"`
	Ingested   int                `json:"ingested"`
	Duplicates int                `json:"duplicates"`
	Errors     []ingest.LineError `json:"errors"`
}

// AutoMatchResponse reports counts per match type and what remains unmatched.
type AutoMatchResponse struct {
	Exact              int `json:"exact"`
	Fuzzy              int `json:"fuzzy"`
	Group              int `json:"group"` // one-to-many + many-to-one
	OutstandingItems   int `json:"outstandingItems"`
	ChargesClassified  int `json:"chargesClassified"`
	UnmatchedBankLines int `json:"unmatchedBankLines"`
	UnmatchedBookLines int `json:"unmatchedBookLines"`
}

// ManualMatchRequest pairs one statement line with ledger lines by hand.
// Manual matches take precedence over any automatic classification.
type ManualMatchRequest struct {
	StatementTxnID string   `json:"statementTxnID" binding:"required"`
	TransactionIDs []string `json:"transactionIDs" binding:"required,min=1"`
}

// CreateAdjustmentRequest proposes a manual reconciliation adjustment.
type CreateAdjustmentRequest struct {
	StatementTxnID  string                `json:"statementTxnID"`
	Side            domain.AdjustmentSide `json:"side" binding:"required,oneof=BANK BOOK"`
	Amount          decimal.Decimal       `json:"amount" binding:"required,decimalgt0"`
	DebitAccountID  string                `json:"debitAccountID" binding:"required"`
	CreditAccountID string                `json:"creditAccountID" binding:"required"`
	Description     string                `json:"description" binding:"required"`
}

// RejectReconciliationRequest returns a submitted reconciliation to adjusting.
type RejectReconciliationRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// AdjustmentResponse defines the data returned for an adjustment.
type AdjustmentResponse struct {
	AdjustmentID    string                  `json:"adjustmentID"`
	StatementTxnID  string                  `json:"statementTxnID,omitempty"`
	AdjustmentType  string                  `json:"adjustmentType"`
	Side            domain.AdjustmentSide   `json:"side"`
	Amount          decimal.Decimal         `json:"amount"`
	DebitAccountID  string                  `json:"debitAccountID"`
	CreditAccountID string                  `json:"creditAccountID"`
	Description     string                  `json:"description"`
	Status          domain.AdjustmentStatus `json:"status"`
	JournalID       *string                 `json:"journalID,omitempty"`
}

// OutstandingItemResponse defines the data returned for an outstanding item.
type OutstandingItemResponse struct {
	OutstandingItemID string                     `json:"outstandingItemID"`
	Kind              domain.OutstandingItemKind `json:"kind"`
	TransactionID     string                     `json:"transactionID"`
	Amount            decimal.Decimal            `json:"amount"`
	ItemDate          time.Time                  `json:"itemDate"`
	Description       string                     `json:"description"`
	Cleared           bool                       `json:"cleared"`
}

// ReconciliationResponse defines the data returned for a reconciliation.
type ReconciliationResponse struct {
	ReconciliationID        string                      `json:"reconciliationID"`
	BankAccountID           string                      `json:"bankAccountID"`
	PeriodID                string                      `json:"periodID"`
	Status                  domain.ReconciliationStatus `json:"status"`
	StatementOpeningBalance decimal.Decimal             `json:"statementOpeningBalance"`
	StatementClosingBalance decimal.Decimal             `json:"statementClosingBalance"`
	BookOpeningBalance      decimal.Decimal             `json:"bookOpeningBalance"`
	BookClosingBalance      decimal.Decimal             `json:"bookClosingBalance"`
	AdjustedBankBalance     decimal.Decimal             `json:"adjustedBankBalance"`
	AdjustedBookBalance     decimal.Decimal             `json:"adjustedBookBalance"`
	Difference              decimal.Decimal             `json:"difference"`
	PreparedBy              string                      `json:"preparedBy,omitempty"`
	ApprovedBy              string                      `json:"approvedBy,omitempty"`
	ReviewerComment         string                      `json:"reviewerComment,omitempty"`
	Adjustments             []AdjustmentResponse        `json:"adjustments,omitempty"`
	OutstandingItems        []OutstandingItemResponse   `json:"outstandingItems,omitempty"`
}

// ToAdjustmentResponse converts a domain adjustment to its DTO.
func ToAdjustmentResponse(a *domain.ReconciliationAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		AdjustmentID:    a.AdjustmentID,
		StatementTxnID:  a.StatementTxnID,
		AdjustmentType:  a.AdjustmentType,
		Side:            a.Side,
		Amount:          a.Amount,
		DebitAccountID:  a.DebitAccountID,
		CreditAccountID: a.CreditAccountID,
		Description:     a.Description,
		Status:          a.Status,
		JournalID:       a.JournalID,
	}
}

// ToReconciliationResponse converts a domain.Reconciliation to its DTO.
func ToReconciliationResponse(r *domain.Reconciliation) ReconciliationResponse {
	resp := ReconciliationResponse{
		ReconciliationID:        r.ReconciliationID,
		BankAccountID:           r.BankAccountID,
		PeriodID:                r.PeriodID,
		Status:                  r.Status,
		StatementOpeningBalance: r.StatementOpeningBalance,
		StatementClosingBalance: r.StatementClosingBalance,
		BookOpeningBalance:      r.BookOpeningBalance,
		BookClosingBalance:      r.BookClosingBalance,
		AdjustedBankBalance:     r.AdjustedBankBalance,
		AdjustedBookBalance:     r.AdjustedBookBalance,
		Difference:              r.Difference,
		PreparedBy:              r.PreparedBy,
		ApprovedBy:              r.ApprovedBy,
		ReviewerComment:         r.ReviewerComment,
	}
	for i := range r.Adjustments {
		resp.Adjustments = append(resp.Adjustments, ToAdjustmentResponse(&r.Adjustments[i]))
	}
	for _, item := range r.OutstandingItems {
		resp.OutstandingItems = append(resp.OutstandingItems, OutstandingItemResponse{
			OutstandingItemID: item.OutstandingItemID,
			Kind:              item.Kind,
			TransactionID:     item.TransactionID,
			Amount:            item.Amount,
			ItemDate:          item.ItemDate,
			Description:       item.Description,
			Cleared:           item.Cleared,
		})
	}
	return resp
}
