package services_test

import (
	"context"
	"testing"

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

type BankAccountServiceTestSuite struct {
	suite.Suite
	mockBankRepo   *MockBankRepository
	mockAccountSvc *MockAccountService
	service        portssvc.BankAccountSvcFacade
	entityID       string
	actorID        string
	glAccount      domain.Account
}

func (suite *BankAccountServiceTestSuite) SetupTest() {
	suite.mockBankRepo = new(MockBankRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewBankAccountService(suite.mockBankRepo, suite.mockAccountSvc)

	suite.entityID = uuid.NewString()
	suite.actorID = uuid.NewString()
	suite.glAccount = domain.Account{
		AccountID:    uuid.NewString(),
		EntityID:     suite.entityID,
		Code:         "1010",
		AccountType:  domain.Asset,
		CurrencyCode: "NGN",
		Reconcilable: true,
		IsActive:     true,
	}
}

func (suite *BankAccountServiceTestSuite) newRequest() dto.CreateBankAccountRequest {
	return dto.CreateBankAccountRequest{
		Name:           "Operations",
		BankName:       "First Bank",
		AccountNumber:  "0123456789",
		CurrencyCode:   "NGN",
		GLAccountID:    suite.glAccount.AccountID,
		OpeningBalance: decimal.NewFromInt(100000),
	}
}

func (suite *BankAccountServiceTestSuite) TestCreateBankAccount_Success() {
	ctx := context.Background()
	req := suite.newRequest()

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.entityID, req.GLAccountID).Return(&suite.glAccount, nil).Once()
	suite.mockBankRepo.On("SaveBankAccount", ctx, mock.AnythingOfType("domain.BankAccount")).Return(nil).Once()

	bankAccount, err := suite.service.CreateBankAccount(ctx, suite.entityID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(bankAccount)
	suite.Equal(suite.entityID, bankAccount.EntityID)
	suite.Equal(req.GLAccountID, bankAccount.GLAccountID)
	suite.True(bankAccount.CurrentBalance.Equal(req.OpeningBalance))
	suite.True(bankAccount.IsActive)
	suite.mockBankRepo.AssertExpectations(suite.T())
}

func (suite *BankAccountServiceTestSuite) TestCreateBankAccount_NonReconcilableGLAccount() {
	ctx := context.Background()
	req := suite.newRequest()
	nonReconcilable := suite.glAccount
	nonReconcilable.Reconcilable = false

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.entityID, req.GLAccountID).Return(&nonReconcilable, nil).Once()

	_, err := suite.service.CreateBankAccount(ctx, suite.entityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBankRepo.AssertNotCalled(suite.T(), "SaveBankAccount", mock.Anything, mock.Anything)
}

func (suite *BankAccountServiceTestSuite) TestCreateBankAccount_CurrencyMismatch() {
	ctx := context.Background()
	req := suite.newRequest()
	req.CurrencyCode = "USD"

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.entityID, req.GLAccountID).Return(&suite.glAccount, nil).Once()

	_, err := suite.service.CreateBankAccount(ctx, suite.entityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BankAccountServiceTestSuite) TestGetBankAccountByID_OtherEntityHidden() {
	ctx := context.Background()
	bankAccountID := uuid.NewString()
	other := &domain.BankAccount{
		BankAccountID: bankAccountID,
		EntityID:      uuid.NewString(),
	}
	suite.mockBankRepo.On("FindBankAccountByID", ctx, bankAccountID).Return(other, nil).Once()

	_, err := suite.service.GetBankAccountByID(ctx, suite.entityID, bankAccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestBankAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BankAccountServiceTestSuite))
}
