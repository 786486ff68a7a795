package dto

import (
	"time"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the data needed to register a bank account.
type CreateBankAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	BankName       string          `json:"bankName" binding:"required"`
	AccountNumber  string          `json:"accountNumber" binding:"required"`
	CurrencyCode   string          `json:"currencyCode" binding:"required"`
	GLAccountID    string          `json:"glAccountID" binding:"required"` // Must reference a reconcilable account
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID  string          `json:"bankAccountID"`
	EntityID       string          `json:"entityID"`
	Name           string          `json:"name"`
	BankName       string          `json:"bankName"`
	AccountNumber  string          `json:"accountNumber"`
	CurrencyCode   string          `json:"currencyCode"`
	GLAccountID    string          `json:"glAccountID"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	LastReconciled *time.Time      `json:"lastReconciled,omitempty"`
	IsActive       bool            `json:"isActive"`
}

// ToBankAccountResponse converts a domain.BankAccount to BankAccountResponse DTO.
func ToBankAccountResponse(b *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:  b.BankAccountID,
		EntityID:       b.EntityID,
		Name:           b.Name,
		BankName:       b.BankName,
		AccountNumber:  b.AccountNumber,
		CurrencyCode:   b.CurrencyCode,
		GLAccountID:    b.GLAccountID,
		OpeningBalance: b.OpeningBalance,
		CurrentBalance: b.CurrentBalance,
		LastReconciled: b.LastReconciled,
		IsActive:       b.IsActive,
	}
}
