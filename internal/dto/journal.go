package dto

import (
	"time"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is one debit/credit line of a journal draft.
type CreateTransactionRequest struct {
	AccountID       string                 `json:"accountID" binding:"required"`
	Amount          decimal.Decimal        `json:"amount" binding:"required,decimalgt0"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=DEBIT CREDIT"`
	Notes           string                 `json:"notes"`
	TransactionDate *time.Time             `json:"transactionDate"` // Defaults to the journal date
}

// CreateJournalRequest defines the pre-balanced draft a sub-ledger submits to
// the posting engine.
type CreateJournalRequest struct {
	Date         time.Time                  `json:"date" binding:"required"`
	Description  string                     `json:"description" binding:"required"`
	CurrencyCode string                     `json:"currencyCode" binding:"required"`
	SourceType   domain.SourceType          `json:"sourceType" binding:"required,oneof=MANUAL SALES PURCHASE PAYROLL DEPRECIATION RECON_ADJUSTMENT"`
	AsDraft      bool                       `json:"asDraft"` // Persist unposted; drafts block period close
	Transactions []CreateTransactionRequest `json:"transactions" binding:"required,min=2,dive"`
}

// ReverseJournalRequest carries the reversal date; the period gate is
// evaluated against it, not the original journal date.
type ReverseJournalRequest struct {
	Date time.Time `json:"date" binding:"required"`
}

// TransactionResponse defines the data returned for a transaction line.
type TransactionResponse struct {
	TransactionID  string          `json:"transactionID"`
	AccountID      string          `json:"accountID"`
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"type"` // DEBIT or CREDIT
	Notes          string          `json:"notes,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID    string                `json:"journalID"`
	Date         time.Time             `json:"date"`
	PeriodID     string                `json:"periodID"`
	Description  string                `json:"description"`
	CurrencyCode string                `json:"currencyCode"`
	SourceType   domain.SourceType     `json:"sourceType"`
	Status       domain.JournalStatus  `json:"status"`
	Amount       decimal.Decimal       `json:"amount"`
	Transactions []TransactionResponse `json:"transactions,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	CreatedBy    string                `json:"createdBy"`
}

// ListJournalsParams holds parameters for listing journals.
type ListJournalsParams struct {
	Limit               int     `form:"limit"`
	NextToken           *string `form:"nextToken"`
	IncludeReversals    bool    `form:"includeReversals"`
	IncludeTransactions bool    `form:"includeTransactions"`
}

// ListJournalsResponse is a page of journals plus the token for the next page.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListTransactionsParams holds parameters for listing account transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions plus the next-page token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:  txn.TransactionID,
		AccountID:      txn.AccountID,
		Amount:         txn.Amount,
		Type:           string(txn.TransactionType),
		Notes:          txn.Notes,
		RunningBalance: txn.RunningBalance,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:    j.JournalID,
		Date:         j.JournalDate,
		PeriodID:     j.PeriodID,
		Description:  j.Description,
		CurrencyCode: j.CurrencyCode,
		SourceType:   j.SourceType,
		Status:       j.Status,
		Amount:       j.Amount,
		CreatedAt:    j.CreatedAt,
		CreatedBy:    j.CreatedBy,
	}
	if len(j.Transactions) > 0 {
		resp.Transactions = ToTransactionResponses(j.Transactions)
	}
	return resp
}
