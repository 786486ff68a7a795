package mapping

import (
	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/OluAde/ledger_recon_app/internal/models"
)

// ToModelReconciliation converts a domain Reconciliation to its model.
// Adjustments and outstanding items are persisted separately.
func ToModelReconciliation(d domain.Reconciliation) models.Reconciliation {
	return models.Reconciliation{
		ReconciliationID:        d.ReconciliationID,
		EntityID:                d.EntityID,
		BankAccountID:           d.BankAccountID,
		PeriodID:                d.PeriodID,
		Status:                  string(d.Status),
		StatementOpeningBalance: d.StatementOpeningBalance,
		StatementClosingBalance: d.StatementClosingBalance,
		BookOpeningBalance:      d.BookOpeningBalance,
		BookClosingBalance:      d.BookClosingBalance,
		AdjustedBankBalance:     d.AdjustedBankBalance,
		AdjustedBookBalance:     d.AdjustedBookBalance,
		Difference:              d.Difference,
		PreparedBy:              d.PreparedBy,
		SubmittedAt:             d.SubmittedAt,
		ApprovedBy:              d.ApprovedBy,
		ApprovedAt:              d.ApprovedAt,
		ReviewerComment:         d.ReviewerComment,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliation converts a model Reconciliation to its domain form
func ToDomainReconciliation(m models.Reconciliation) domain.Reconciliation {
	return domain.Reconciliation{
		ReconciliationID:        m.ReconciliationID,
		EntityID:                m.EntityID,
		BankAccountID:           m.BankAccountID,
		PeriodID:                m.PeriodID,
		Status:                  domain.ReconciliationStatus(m.Status),
		StatementOpeningBalance: m.StatementOpeningBalance,
		StatementClosingBalance: m.StatementClosingBalance,
		BookOpeningBalance:      m.BookOpeningBalance,
		BookClosingBalance:      m.BookClosingBalance,
		AdjustedBankBalance:     m.AdjustedBankBalance,
		AdjustedBookBalance:     m.AdjustedBookBalance,
		Difference:              m.Difference,
		PreparedBy:              m.PreparedBy,
		SubmittedAt:             m.SubmittedAt,
		ApprovedBy:              m.ApprovedBy,
		ApprovedAt:              m.ApprovedAt,
		ReviewerComment:         m.ReviewerComment,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAdjustment converts a domain ReconciliationAdjustment to its model
func ToModelAdjustment(d domain.ReconciliationAdjustment) models.ReconciliationAdjustment {
	m := models.ReconciliationAdjustment{
		AdjustmentID:     d.AdjustmentID,
		ReconciliationID: d.ReconciliationID,
		AdjustmentType:   d.AdjustmentType,
		Side:             string(d.Side),
		Amount:           d.Amount,
		DebitAccountID:   d.DebitAccountID,
		CreditAccountID:  d.CreditAccountID,
		Description:      d.Description,
		Status:           string(d.Status),
		JournalID:        d.JournalID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
	if d.StatementTxnID != "" {
		stmtID := d.StatementTxnID
		m.StatementTxnID = &stmtID
	}
	return m
}

// ToDomainAdjustment converts a model ReconciliationAdjustment to its domain form
func ToDomainAdjustment(m models.ReconciliationAdjustment) domain.ReconciliationAdjustment {
	d := domain.ReconciliationAdjustment{
		AdjustmentID:     m.AdjustmentID,
		ReconciliationID: m.ReconciliationID,
		AdjustmentType:   m.AdjustmentType,
		Side:             domain.AdjustmentSide(m.Side),
		Amount:           m.Amount,
		DebitAccountID:   m.DebitAccountID,
		CreditAccountID:  m.CreditAccountID,
		Description:      m.Description,
		Status:           domain.AdjustmentStatus(m.Status),
		JournalID:        m.JournalID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
	if m.StatementTxnID != nil {
		d.StatementTxnID = *m.StatementTxnID
	}
	return d
}

// ToModelOutstandingItem converts a domain OutstandingItem to its model
func ToModelOutstandingItem(d domain.OutstandingItem) models.OutstandingItem {
	return models.OutstandingItem{
		OutstandingItemID: d.OutstandingItemID,
		ReconciliationID:  d.ReconciliationID,
		Kind:              string(d.Kind),
		TransactionID:     d.TransactionID,
		Amount:            d.Amount,
		ItemDate:          d.ItemDate,
		Description:       d.Description,
		CarriedFromID:     d.CarriedFromID,
		Cleared:           d.Cleared,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOutstandingItem converts a model OutstandingItem to its domain form
func ToDomainOutstandingItem(m models.OutstandingItem) domain.OutstandingItem {
	return domain.OutstandingItem{
		OutstandingItemID: m.OutstandingItemID,
		ReconciliationID:  m.ReconciliationID,
		Kind:              domain.OutstandingItemKind(m.Kind),
		TransactionID:     m.TransactionID,
		Amount:            m.Amount,
		ItemDate:          m.ItemDate,
		Description:       m.Description,
		CarriedFromID:     m.CarriedFromID,
		Cleared:           m.Cleared,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
