package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/OluAde/ledger_recon_app/internal/apperrors"
	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	portssvc "github.com/OluAde/ledger_recon_app/internal/core/ports/services"
	"github.com/OluAde/ledger_recon_app/internal/core/services"
	"github.com/OluAde/ledger_recon_app/internal/dto"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountSvc   *MockAccountService
	mockPeriodRepo   *MockPeriodRepository
	mockBankRepo     *MockBankRepository
	mockReconRepo    *MockReconciliationRepository
	service          portssvc.PostingSvcFacade
	entityID         string
	actorID          string
	openPeriod       domain.FiscalPeriod
	assetAccount     domain.Account
	liabilityAccount domain.Account
	revenueAccount   domain.Account
	expenseAccount   domain.Account
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockBankRepo = new(MockBankRepository)
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.service = services.NewPostingService(
		suite.mockJournalRepo,
		suite.mockAccountSvc,
		suite.mockPeriodRepo,
		suite.mockBankRepo,
		suite.mockReconRepo,
	)

	suite.entityID = uuid.NewString()
	suite.actorID = uuid.NewString()

	suite.openPeriod = domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		EntityID:  suite.entityID,
		Name:      "2026-01",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodOpen,
	}

	suite.assetAccount = domain.Account{
		AccountID:    uuid.NewString(),
		EntityID:     suite.entityID,
		AccountType:  domain.Asset,
		CurrencyCode: "NGN",
		IsActive:     true,
	}
	suite.liabilityAccount = domain.Account{
		AccountID:    uuid.NewString(),
		EntityID:     suite.entityID,
		AccountType:  domain.Liability,
		CurrencyCode: "NGN",
		IsActive:     true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:    uuid.NewString(),
		EntityID:     suite.entityID,
		AccountType:  domain.Revenue,
		CurrencyCode: "NGN",
		IsActive:     true,
	}
	suite.expenseAccount = domain.Account{
		AccountID:    uuid.NewString(),
		EntityID:     suite.entityID,
		AccountType:  domain.Expense,
		CurrencyCode: "NGN",
		IsActive:     true,
	}
}

func (suite *PostingServiceTestSuite) expectPeriodResolution(period domain.FiscalPeriod) {
	suite.mockPeriodRepo.On("FindPeriodForDate", mock.Anything, suite.entityID, mock.AnythingOfType("time.Time")).Return(&period, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, period.PeriodID).Return(&period, nil).Once()
}

func (suite *PostingServiceTestSuite) TestPostJournal_Success() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:  "Cash sale",
		CurrencyCode: "NGN",
		SourceType:   domain.SourceSales,
		Transactions: []dto.CreateTransactionRequest{
			{AccountID: suite.assetAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Debit},
			{AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Credit},
		},
	}

	suite.expectPeriodResolution(suite.openPeriod)
	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID:   suite.assetAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.entityID, mock.Anything).Return(accountsMap, nil).Once()

	var capturedChanges map[string]decimal.Decimal
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.Transaction"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			capturedChanges = args.Get(3).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	journal, err := suite.service.PostJournal(ctx, suite.entityID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(journal)
	suite.Equal(domain.Posted, journal.Status)
	suite.Equal(suite.openPeriod.PeriodID, journal.PeriodID)
	suite.True(journal.Amount.Equal(decimal.NewFromInt(100)))

	// Debit to asset raises its balance, credit to revenue raises its balance.
	suite.True(capturedChanges[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(100)))
	suite.True(capturedChanges[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(100)))

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostJournal_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:  "Unbalanced",
		CurrencyCode: "NGN",
		SourceType:   domain.SourceManual,
		Transactions: []dto.CreateTransactionRequest{
			{AccountID: suite.assetAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Debit},
			{AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromFloat(99.99), TransactionType: domain.Credit},
		},
	}
	suite.mockPeriodRepo.On("FindPeriodForDate", mock.Anything, suite.entityID, mock.AnythingOfType("time.Time")).Return(&suite.openPeriod, nil).Once()

	_, err := suite.service.PostJournal(ctx, suite.entityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJournalUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostJournal_LessThanTwoEntries() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:  "One-legged",
		CurrencyCode: "NGN",
		SourceType:   domain.SourceManual,
		Transactions: []dto.CreateTransactionRequest{
			{AccountID: suite.assetAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Debit},
		},
	}

	_, err := suite.service.PostJournal(ctx, suite.entityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJournalMinEntries)
}

func (suite *PostingServiceTestSuite) TestPostJournal_SingleAccount() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:  "Same account both sides",
		CurrencyCode: "NGN",
		SourceType:   domain.SourceManual,
		Transactions: []dto.CreateTransactionRequest{
			{AccountID: suite.assetAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Debit},
			{AccountID: suite.assetAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Credit},
		},
	}

	_, err := suite.service.PostJournal(ctx, suite.entityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJournalMinAccounts)
}

func (suite *PostingServiceTestSuite) TestPostJournal_NoPeriodForDate() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:         time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC),
		Description:  "Future entry",
		CurrencyCode: "NGN",
		SourceType:   domain.SourceManual,
		Transactions: []dto.CreateTransactionRequest{
			{AccountID: suite.assetAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Debit},
			{AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Credit},
		},
	}
	suite.mockPeriodRepo.On("FindPeriodForDate", mock.Anything, suite.entityID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PostJournal(ctx, suite.entityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoPeriodForDate)
}

func (suite *PostingServiceTestSuite) TestPostJournal_ClosedPeriod() {
	ctx := context.Background()
	closedPeriod := suite.openPeriod
	closedPeriod.Status = domain.PeriodClosed

	req := dto.CreateJournalRequest{
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:  "Late entry",
		CurrencyCode: "NGN",
		SourceType:   domain.SourceManual,
		Transactions: []dto.CreateTransactionRequest{
			{AccountID: suite.assetAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Debit},
			{AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Credit},
		},
	}
	suite.expectPeriodResolution(closedPeriod)
	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID:   suite.assetAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.entityID, mock.Anything).Return(accountsMap, nil).Once()

	_, err := suite.service.PostJournal(ctx, suite.entityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostJournal_LockedPeriod() {
	ctx := context.Background()
	lockedPeriod := suite.openPeriod
	lockedPeriod.Status = domain.PeriodLocked

	req := dto.CreateJournalRequest{
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:  "Entry into locked period",
		CurrencyCode: "NGN",
		SourceType:   domain.SourceManual,
		Transactions: []dto.CreateTransactionRequest{
			{AccountID: suite.assetAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Debit},
			{AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Credit},
		},
	}
	suite.expectPeriodResolution(lockedPeriod)
	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID:   suite.assetAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.entityID, mock.Anything).Return(accountsMap, nil).Once()

	_, err := suite.service.PostJournal(ctx, suite.entityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodLocked)
}

func (suite *PostingServiceTestSuite) TestPostJournal_AsDraft_NoBalanceChanges() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:  "Draft accrual",
		CurrencyCode: "NGN",
		SourceType:   domain.SourceManual,
		AsDraft:      true,
		Transactions: []dto.CreateTransactionRequest{
			{AccountID: suite.expenseAccount.AccountID, Amount: decimal.NewFromInt(50), TransactionType: domain.Debit},
			{AccountID: suite.liabilityAccount.AccountID, Amount: decimal.NewFromInt(50), TransactionType: domain.Credit},
		},
	}
	suite.expectPeriodResolution(suite.openPeriod)
	accountsMap := map[string]domain.Account{
		suite.expenseAccount.AccountID:   suite.expenseAccount,
		suite.liabilityAccount.AccountID: suite.liabilityAccount,
	}
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.entityID, mock.Anything).Return(accountsMap, nil).Once()

	var capturedChanges map[string]decimal.Decimal
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.Transaction"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			capturedChanges = args.Get(3).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	journal, err := suite.service.PostJournal(ctx, suite.entityID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, journal.Status)
	suite.Empty(capturedChanges)
}

func (suite *PostingServiceTestSuite) TestReverseJournal_Success() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.Journal{
		JournalID:    originalID,
		EntityID:     suite.entityID,
		JournalDate:  time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		PeriodID:     suite.openPeriod.PeriodID,
		Description:  "Original sale",
		CurrencyCode: "NGN",
		SourceType:   domain.SourceSales,
		Status:       domain.Posted,
		Amount:       decimal.NewFromInt(100),
	}
	originalTxns := []domain.Transaction{
		{TransactionID: uuid.NewString(), JournalID: originalID, AccountID: suite.assetAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Debit, CurrencyCode: "NGN"},
		{TransactionID: uuid.NewString(), JournalID: originalID, AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Credit, CurrencyCode: "NGN"},
	}
	reversalDate := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	suite.mockJournalRepo.On("FindJournalByID", ctx, originalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByJournalID", ctx, originalID).Return(originalTxns, nil).Once()
	suite.expectPeriodResolution(suite.openPeriod)
	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID:   suite.assetAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.entityID, mock.Anything).Return(accountsMap, nil).Once()

	var savedTxns []domain.Transaction
	var capturedChanges map[string]decimal.Decimal
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.Transaction"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedTxns = args.Get(2).([]domain.Transaction)
			capturedChanges = args.Get(3).(map[string]decimal.Decimal)
		}).Return(nil).Once()
	suite.mockJournalRepo.On("UpdateJournalStatusAndLinks", ctx, originalID, domain.Reversed, mock.AnythingOfType("*string"), (*string)(nil), suite.actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversal, err := suite.service.ReverseJournal(ctx, suite.entityID, originalID, reversalDate, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.Posted, reversal.Status)
	suite.Require().NotNil(reversal.OriginalJournalID)
	suite.Equal(originalID, *reversal.OriginalJournalID)
	suite.Equal(reversalDate, reversal.JournalDate)

	// Each leg mirrored: asset credited, revenue debited.
	suite.Require().Len(savedTxns, 2)
	suite.Equal(domain.Credit, savedTxns[0].TransactionType)
	suite.Equal(domain.Debit, savedTxns[1].TransactionType)
	suite.True(capturedChanges[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(-100)))
	suite.True(capturedChanges[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(-100)))

	// The reversal is built from fresh lines; the originals keep their
	// identity, direction, and amount.
	suite.NotEqual(originalTxns[0].TransactionID, savedTxns[0].TransactionID)
	suite.NotEqual(originalTxns[1].TransactionID, savedTxns[1].TransactionID)
	suite.Equal(domain.Debit, originalTxns[0].TransactionType)
	suite.Equal(domain.Credit, originalTxns[1].TransactionType)
	suite.True(originalTxns[0].Amount.Equal(decimal.NewFromInt(100)))
	suite.True(originalTxns[1].Amount.Equal(decimal.NewFromInt(100)))

	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverseJournal_AlreadyReversal() {
	ctx := context.Background()
	someID := uuid.NewString()
	reversalJournal := &domain.Journal{
		JournalID:         uuid.NewString(),
		EntityID:          suite.entityID,
		Status:            domain.Posted,
		OriginalJournalID: &someID,
	}
	suite.mockJournalRepo.On("FindJournalByID", ctx, reversalJournal.JournalID).Return(reversalJournal, nil).Once()

	_, err := suite.service.ReverseJournal(ctx, suite.entityID, reversalJournal.JournalID, time.Now(), suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PostingServiceTestSuite) TestReverseJournal_ClosedPeriod() {
	ctx := context.Background()
	closedPeriod := suite.openPeriod
	closedPeriod.Status = domain.PeriodClosed

	originalID := uuid.NewString()
	original := &domain.Journal{
		JournalID:    originalID,
		EntityID:     suite.entityID,
		PeriodID:     closedPeriod.PeriodID,
		CurrencyCode: "NGN",
		Status:       domain.Posted,
		Amount:       decimal.NewFromInt(100),
	}
	originalTxns := []domain.Transaction{
		{TransactionID: uuid.NewString(), AccountID: suite.assetAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Debit, CurrencyCode: "NGN"},
		{TransactionID: uuid.NewString(), AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Credit, CurrencyCode: "NGN"},
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, originalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByJournalID", ctx, originalID).Return(originalTxns, nil).Once()
	suite.expectPeriodResolution(closedPeriod)
	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID:   suite.assetAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.entityID, mock.Anything).Return(accountsMap, nil).Once()

	_, err := suite.service.ReverseJournal(ctx, suite.entityID, originalID, time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC), suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestClosePeriod_BlockedByDraftsAndReconciliation() {
	ctx := context.Background()
	bankAccount := domain.BankAccount{
		BankAccountID: uuid.NewString(),
		EntityID:      suite.entityID,
		BankName:      "First Bank",
		AccountNumber: "0123456789",
	}
	recon := &domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		BankAccountID:    bankAccount.BankAccountID,
		PeriodID:         suite.openPeriod.PeriodID,
		Status:           domain.ReconAdjusting,
	}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.openPeriod.PeriodID).Return(&suite.openPeriod, nil).Twice()
	suite.mockJournalRepo.On("CountDraftsByPeriod", ctx, suite.entityID, suite.openPeriod.PeriodID).Return(2, nil).Once()
	suite.mockBankRepo.On("ListBankAccounts", ctx, suite.entityID).Return([]domain.BankAccount{bankAccount}, nil).Once()
	suite.mockReconRepo.On("FindReconciliationByBankAccountAndPeriod", ctx, bankAccount.BankAccountID, suite.openPeriod.PeriodID).Return(recon, nil).Once()

	checklist, err := suite.service.ClosePeriod(ctx, suite.entityID, suite.openPeriod.PeriodID, suite.actorID)

	suite.Require().NoError(err)
	suite.False(checklist.Success)
	suite.Len(checklist.BlockingIssues, 2)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "UpdatePeriodStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestClosePeriod_Success() {
	ctx := context.Background()
	bankAccount := domain.BankAccount{
		BankAccountID: uuid.NewString(),
		EntityID:      suite.entityID,
		BankName:      "GTBank",
		AccountNumber: "0987654321",
	}
	lockedRecon := &domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		BankAccountID:    bankAccount.BankAccountID,
		PeriodID:         suite.openPeriod.PeriodID,
		Status:           domain.ReconLocked,
	}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.openPeriod.PeriodID).Return(&suite.openPeriod, nil).Twice()
	suite.mockJournalRepo.On("CountDraftsByPeriod", ctx, suite.entityID, suite.openPeriod.PeriodID).Return(0, nil).Once()
	suite.mockBankRepo.On("ListBankAccounts", ctx, suite.entityID).Return([]domain.BankAccount{bankAccount}, nil).Once()
	suite.mockReconRepo.On("FindReconciliationByBankAccountAndPeriod", ctx, bankAccount.BankAccountID, suite.openPeriod.PeriodID).Return(lockedRecon, nil).Once()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, suite.openPeriod.PeriodID, domain.PeriodClosed, suite.actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	checklist, err := suite.service.ClosePeriod(ctx, suite.entityID, suite.openPeriod.PeriodID, suite.actorID)

	suite.Require().NoError(err)
	suite.True(checklist.Success)
	suite.Empty(checklist.BlockingIssues)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReopenPeriod_LockedRejected() {
	ctx := context.Background()
	lockedPeriod := suite.openPeriod
	lockedPeriod.Status = domain.PeriodLocked

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, lockedPeriod.PeriodID).Return(&lockedPeriod, nil).Twice()

	err := suite.service.ReopenPeriod(ctx, suite.entityID, lockedPeriod.PeriodID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodLocked)
}

func (suite *PostingServiceTestSuite) TestLockPeriod_RequiresClosed() {
	ctx := context.Background()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.openPeriod.PeriodID).Return(&suite.openPeriod, nil).Twice()

	err := suite.service.LockPeriod(ctx, suite.entityID, suite.openPeriod.PeriodID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
