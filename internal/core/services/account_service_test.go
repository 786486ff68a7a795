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

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
	entityID        string
	actorID         string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.entityID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:         "1010",
		Name:         "Main Operating Account",
		AccountType:  domain.Asset,
		CurrencyCode: "NGN",
		Reconcilable: true,
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.entityID, "1010").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.entityID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal("1010", account.Code)
	suite.Equal(suite.entityID, account.EntityID)
	suite.True(account.Reconcilable)
	suite.True(account.IsActive)
	suite.True(account.Balance.IsZero())
	suite.Equal(suite.actorID, account.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	existing := &domain.Account{
		AccountID: uuid.NewString(),
		EntityID:  suite.entityID,
		Code:      "1010",
	}
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.entityID, "1010").Return(existing, nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.entityID, dto.CreateAccountRequest{
		Code:         "1010",
		Name:         "Duplicate",
		AccountType:  domain.Asset,
		CurrencyCode: "NGN",
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentInOtherEntityHidden() {
	ctx := context.Background()
	parentID := uuid.NewString()
	parent := &domain.Account{
		AccountID: parentID,
		EntityID:  uuid.NewString(), // different entity
		Code:      "1000",
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.entityID, "1011").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, parentID).Return(parent, nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.entityID, dto.CreateAccountRequest{
		Code:            "1011",
		Name:            "Child",
		AccountType:     domain.Asset,
		CurrencyCode:    "NGN",
		ParentAccountID: &parentID,
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherEntityHidden() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID: accountID,
		EntityID:  uuid.NewString(),
	}
	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	_, err := suite.service.GetAccountByID(ctx, suite.entityID, accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_NonZeroBalanceRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID: accountID,
		EntityID:  suite.entityID,
		Code:      "2010",
		Balance:   decimal.NewFromInt(150),
	}
	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.entityID, accountID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID: accountID,
		EntityID:  suite.entityID,
		Code:      "2010",
		Balance:   decimal.Zero,
	}
	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", ctx, accountID, suite.actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.entityID, accountID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_DefaultsLimit() {
	ctx := context.Background()
	suite.mockAccountRepo.On("ListAccounts", ctx, suite.entityID, 50, 0).Return([]domain.Account{}, nil).Once()

	_, err := suite.service.ListAccounts(ctx, suite.entityID, 0, 0)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
