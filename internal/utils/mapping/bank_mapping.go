package mapping

import (
	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/OluAde/ledger_recon_app/internal/models"
)

// ToModelBankAccount converts a domain BankAccount to a model BankAccount
func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID:  d.BankAccountID,
		EntityID:       d.EntityID,
		Name:           d.Name,
		BankName:       d.BankName,
		AccountNumber:  d.AccountNumber,
		CurrencyCode:   d.CurrencyCode,
		GLAccountID:    d.GLAccountID,
		OpeningBalance: d.OpeningBalance,
		CurrentBalance: d.CurrentBalance,
		LastReconciled: d.LastReconciled,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a model BankAccount to a domain BankAccount
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:  m.BankAccountID,
		EntityID:       m.EntityID,
		Name:           m.Name,
		BankName:       m.BankName,
		AccountNumber:  m.AccountNumber,
		CurrencyCode:   m.CurrencyCode,
		GLAccountID:    m.GLAccountID,
		OpeningBalance: m.OpeningBalance,
		CurrentBalance: m.CurrentBalance,
		LastReconciled: m.LastReconciled,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankAccountSlice converts a slice of model BankAccounts to domain BankAccounts
func ToDomainBankAccountSlice(ms []models.BankAccount) []domain.BankAccount {
	ds := make([]domain.BankAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBankAccount(m)
	}
	return ds
}

// ToModelStatementTransaction converts a domain BankStatementTransaction to its model
func ToModelStatementTransaction(d domain.BankStatementTransaction) models.BankStatementTransaction {
	return models.BankStatementTransaction{
		StatementTxnID: d.StatementTxnID,
		BankAccountID:  d.BankAccountID,
		TxnDate:        d.TxnDate,
		Description:    d.Description,
		Reference:      d.Reference,
		Amount:         d.Amount,
		RunningBalance: d.RunningBalance,
		MatchStatus:    string(d.MatchStatus),
		MatchType:      string(d.MatchType),
		Confidence:     d.Confidence,
		MatchedLineIDs: d.MatchedLineIDs,
		MatchedBy:      d.MatchedBy,
		MatchedAt:      d.MatchedAt,
		IsBankCharge:   d.IsBankCharge,
		IsEMTL:         d.IsEMTL,
		IsStampDuty:    d.IsStampDuty,
		IsVAT:          d.IsVAT,
		IsWHT:          d.IsWHT,
		IsInterest:     d.IsInterest,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStatementTransaction converts a model BankStatementTransaction to its domain form
func ToDomainStatementTransaction(m models.BankStatementTransaction) domain.BankStatementTransaction {
	return domain.BankStatementTransaction{
		StatementTxnID: m.StatementTxnID,
		BankAccountID:  m.BankAccountID,
		TxnDate:        m.TxnDate,
		Description:    m.Description,
		Reference:      m.Reference,
		Amount:         m.Amount,
		RunningBalance: m.RunningBalance,
		MatchStatus:    domain.MatchStatus(m.MatchStatus),
		MatchType:      domain.MatchType(m.MatchType),
		Confidence:     m.Confidence,
		MatchedLineIDs: m.MatchedLineIDs,
		MatchedBy:      m.MatchedBy,
		MatchedAt:      m.MatchedAt,
		ChargeFlags: domain.ChargeFlags{
			IsBankCharge: m.IsBankCharge,
			IsEMTL:       m.IsEMTL,
			IsStampDuty:  m.IsStampDuty,
			IsVAT:        m.IsVAT,
			IsWHT:        m.IsWHT,
			IsInterest:   m.IsInterest,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStatementTransactionSlice converts model statement lines to domain form
func ToDomainStatementTransactionSlice(ms []models.BankStatementTransaction) []domain.BankStatementTransaction {
	ds := make([]domain.BankStatementTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStatementTransaction(m)
	}
	return ds
}
