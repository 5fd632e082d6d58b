package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/splitmate-app/splitmate_backend/internal/apperrors"
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	"github.com/splitmate-app/splitmate_backend/internal/core/ledger"
	portssvc "github.com/splitmate-app/splitmate_backend/internal/core/ports/services"
	"github.com/splitmate-app/splitmate_backend/internal/core/services"
	"github.com/splitmate-app/splitmate_backend/internal/dto"
)

// --- Test Suite Setup ---
type SettlementServiceTestSuite struct {
	suite.Suite
	mockSettlementRepo *MockSettlementRepository
	mockSnapshotRepo   *MockSnapshotReader
	mockGroupSvc       *MockGroupService
	service            portssvc.SettlementSvcFacade
	groupID            string
	creditorID         string
	debtorID           string
	outsiderID         string
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockSettlementRepo = new(MockSettlementRepository)
	suite.mockSnapshotRepo = new(MockSnapshotReader)
	suite.mockGroupSvc = new(MockGroupService)
	suite.service = services.NewSettlementService(suite.mockSettlementRepo, suite.mockSnapshotRepo, suite.mockGroupSvc)

	suite.groupID = uuid.NewString()
	suite.creditorID = "user-creditor"
	suite.debtorID = "user-debtor"
	suite.outsiderID = "user-outsider"
}

// snapshotWithDebt builds a snapshot where the debtor owes the creditor the
// given amount through a single expense.
func (suite *SettlementServiceTestSuite) snapshotWithDebt(owed decimal.Decimal) *ledger.GroupSnapshot {
	expenseID := uuid.NewString()
	return &ledger.GroupSnapshot{
		Group: domain.Group{GroupID: suite.groupID, Name: "Trip", CurrencyCode: "USD"},
		Members: []domain.GroupMember{
			{GroupID: suite.groupID, UserID: suite.creditorID},
			{GroupID: suite.groupID, UserID: suite.debtorID},
		},
		Expenses: []domain.Expense{
			{
				ExpenseID: expenseID,
				GroupID:   suite.groupID,
				Amount:    owed.Mul(decimal.NewFromInt(2)),
				PaidBy:    suite.creditorID,
				Splits: []domain.Split{
					{ExpenseID: expenseID, UserID: suite.creditorID, Amount: owed},
					{ExpenseID: expenseID, UserID: suite.debtorID, Amount: owed},
				},
			},
		},
	}
}

func (suite *SettlementServiceTestSuite) expectMembership(userIDs ...string) {
	for _, id := range userIDs {
		suite.mockGroupSvc.On("AuthorizeMember", mock.Anything, id, suite.groupID, domain.RoleMember).Return(nil)
	}
}

// --- RecordSettlement ---

func (suite *SettlementServiceTestSuite) TestRecordSettlement_ByDebtorIsPending() {
	ctx := context.Background()
	req := dto.RecordSettlementRequest{
		GroupID:    suite.groupID,
		FromUserID: suite.debtorID,
		ToUserID:   suite.creditorID,
		Amount:     decimal.NewFromInt(40),
	}

	suite.expectMembership(suite.debtorID, suite.creditorID)
	suite.mockSettlementRepo.On("FindPendingSettlementBetween", ctx, suite.groupID, suite.debtorID, suite.creditorID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSnapshotRepo.On("GetGroupSnapshot", ctx, suite.groupID).Return(suite.snapshotWithDebt(decimal.NewFromInt(50)), nil).Once()
	suite.mockSettlementRepo.On("SaveSettlement", ctx, mock.AnythingOfType("domain.Settlement")).Return(nil).Once()

	settlement, err := suite.service.RecordSettlement(ctx, req, suite.debtorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(settlement)
	suite.Equal(domain.SettlementPending, settlement.Status)
	suite.Nil(settlement.ConfirmedAt)
	suite.Equal(suite.debtorID, settlement.RecordedBy)
	suite.True(settlement.Amount.Equal(decimal.NewFromInt(40)))
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestRecordSettlement_ByCreditorIsConfirmed() {
	ctx := context.Background()
	req := dto.RecordSettlementRequest{
		GroupID:    suite.groupID,
		FromUserID: suite.debtorID,
		ToUserID:   suite.creditorID,
		Amount:     decimal.NewFromInt(50),
	}

	suite.expectMembership(suite.debtorID, suite.creditorID)
	suite.mockSettlementRepo.On("FindPendingSettlementBetween", ctx, suite.groupID, suite.debtorID, suite.creditorID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSnapshotRepo.On("GetGroupSnapshot", ctx, suite.groupID).Return(suite.snapshotWithDebt(decimal.NewFromInt(50)), nil).Once()
	suite.mockSettlementRepo.On("SaveSettlement", ctx, mock.AnythingOfType("domain.Settlement")).Return(nil).Once()

	settlement, err := suite.service.RecordSettlement(ctx, req, suite.creditorID)

	suite.Require().NoError(err)
	suite.Equal(domain.SettlementConfirmed, settlement.Status)
	suite.Require().NotNil(settlement.ConfirmedAt)
	suite.Equal(suite.creditorID, settlement.RecordedBy)
}

func (suite *SettlementServiceTestSuite) TestRecordSettlement_ByThirdPartyForbidden() {
	ctx := context.Background()
	req := dto.RecordSettlementRequest{
		GroupID:    suite.groupID,
		FromUserID: suite.debtorID,
		ToUserID:   suite.creditorID,
		Amount:     decimal.NewFromInt(10),
	}

	suite.expectMembership(suite.outsiderID)

	_, err := suite.service.RecordSettlement(ctx, req, suite.outsiderID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "SaveSettlement")
}

func (suite *SettlementServiceTestSuite) TestRecordSettlement_PendingCollision() {
	ctx := context.Background()
	req := dto.RecordSettlementRequest{
		GroupID:    suite.groupID,
		FromUserID: suite.debtorID,
		ToUserID:   suite.creditorID,
		Amount:     decimal.NewFromInt(10),
	}

	existing := &domain.Settlement{
		SettlementID: uuid.NewString(),
		GroupID:      suite.groupID,
		FromUserID:   suite.creditorID,
		ToUserID:     suite.debtorID,
		Status:       domain.SettlementPending,
	}

	suite.expectMembership(suite.debtorID, suite.creditorID)
	suite.mockSettlementRepo.On("FindPendingSettlementBetween", ctx, suite.groupID, suite.debtorID, suite.creditorID).Return(existing, nil).Once()

	_, err := suite.service.RecordSettlement(ctx, req, suite.debtorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "SaveSettlement")
}

func (suite *SettlementServiceTestSuite) TestRecordSettlement_OverSettlement() {
	ctx := context.Background()
	req := dto.RecordSettlementRequest{
		GroupID:    suite.groupID,
		FromUserID: suite.debtorID,
		ToUserID:   suite.creditorID,
		Amount:     decimal.NewFromInt(80),
	}

	suite.expectMembership(suite.debtorID, suite.creditorID)
	suite.mockSettlementRepo.On("FindPendingSettlementBetween", ctx, suite.groupID, suite.debtorID, suite.creditorID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSnapshotRepo.On("GetGroupSnapshot", ctx, suite.groupID).Return(suite.snapshotWithDebt(decimal.NewFromInt(50)), nil).Once()

	_, err := suite.service.RecordSettlement(ctx, req, suite.debtorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "SaveSettlement")
}

func (suite *SettlementServiceTestSuite) TestRecordSettlement_NothingOwed() {
	ctx := context.Background()
	// The direction is inverted: the creditor owes nothing to the debtor.
	req := dto.RecordSettlementRequest{
		GroupID:    suite.groupID,
		FromUserID: suite.creditorID,
		ToUserID:   suite.debtorID,
		Amount:     decimal.NewFromInt(10),
	}

	suite.expectMembership(suite.debtorID, suite.creditorID)
	suite.mockSettlementRepo.On("FindPendingSettlementBetween", ctx, suite.groupID, suite.creditorID, suite.debtorID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSnapshotRepo.On("GetGroupSnapshot", ctx, suite.groupID).Return(suite.snapshotWithDebt(decimal.NewFromInt(50)), nil).Once()

	_, err := suite.service.RecordSettlement(ctx, req, suite.creditorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- ConfirmSettlement ---

func (suite *SettlementServiceTestSuite) pendingSettlement(amount decimal.Decimal) *domain.Settlement {
	return &domain.Settlement{
		SettlementID: uuid.NewString(),
		GroupID:      suite.groupID,
		FromUserID:   suite.debtorID,
		ToUserID:     suite.creditorID,
		Amount:       amount,
		Status:       domain.SettlementPending,
		RecordedBy:   suite.debtorID,
	}
}

func (suite *SettlementServiceTestSuite) TestConfirmSettlement_Success() {
	ctx := context.Background()
	settlement := suite.pendingSettlement(decimal.NewFromInt(40))

	suite.expectMembership(suite.creditorID)
	suite.mockSettlementRepo.On("FindSettlementByID", ctx, settlement.SettlementID).Return(settlement, nil).Once()
	suite.mockSnapshotRepo.On("GetGroupSnapshot", ctx, suite.groupID).Return(suite.snapshotWithDebt(decimal.NewFromInt(50)), nil).Once()
	suite.mockSettlementRepo.On("ConfirmSettlement", ctx, settlement.SettlementID, mock.AnythingOfType("time.Time"), suite.creditorID).Return(nil).Once()

	confirmed, err := suite.service.ConfirmSettlement(ctx, settlement.SettlementID, suite.creditorID)

	suite.Require().NoError(err)
	suite.Equal(domain.SettlementConfirmed, confirmed.Status)
	suite.Require().NotNil(confirmed.ConfirmedAt)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestConfirmSettlement_DebtorForbidden() {
	ctx := context.Background()
	settlement := suite.pendingSettlement(decimal.NewFromInt(40))

	suite.expectMembership(suite.debtorID)
	suite.mockSettlementRepo.On("FindSettlementByID", ctx, settlement.SettlementID).Return(settlement, nil).Once()

	_, err := suite.service.ConfirmSettlement(ctx, settlement.SettlementID, suite.debtorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "ConfirmSettlement")
}

func (suite *SettlementServiceTestSuite) TestConfirmSettlement_AlreadyConfirmed() {
	ctx := context.Background()
	now := time.Now()
	settlement := suite.pendingSettlement(decimal.NewFromInt(40))
	settlement.Status = domain.SettlementConfirmed
	settlement.ConfirmedAt = &now

	suite.expectMembership(suite.creditorID)
	suite.mockSettlementRepo.On("FindSettlementByID", ctx, settlement.SettlementID).Return(settlement, nil).Once()

	_, err := suite.service.ConfirmSettlement(ctx, settlement.SettlementID, suite.creditorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *SettlementServiceTestSuite) TestConfirmSettlement_StaleAmountRejected() {
	ctx := context.Background()
	// Recorded when the debt was larger; the live balance has since shrunk.
	settlement := suite.pendingSettlement(decimal.NewFromInt(45))

	suite.expectMembership(suite.creditorID)
	suite.mockSettlementRepo.On("FindSettlementByID", ctx, settlement.SettlementID).Return(settlement, nil).Once()
	suite.mockSnapshotRepo.On("GetGroupSnapshot", ctx, suite.groupID).Return(suite.snapshotWithDebt(decimal.NewFromInt(30)), nil).Once()

	_, err := suite.service.ConfirmSettlement(ctx, settlement.SettlementID, suite.creditorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "ConfirmSettlement")
}

// --- DeleteSettlement ---

func (suite *SettlementServiceTestSuite) TestDeleteSettlement_ConfirmedRejected() {
	ctx := context.Background()
	now := time.Now()
	settlement := suite.pendingSettlement(decimal.NewFromInt(40))
	settlement.Status = domain.SettlementConfirmed
	settlement.ConfirmedAt = &now

	suite.expectMembership(suite.debtorID)
	suite.mockSettlementRepo.On("FindSettlementByID", ctx, settlement.SettlementID).Return(settlement, nil).Once()

	err := suite.service.DeleteSettlement(ctx, settlement.SettlementID, suite.debtorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "DeleteSettlement")
}

func (suite *SettlementServiceTestSuite) TestDeleteSettlement_ByRecorder() {
	ctx := context.Background()
	settlement := suite.pendingSettlement(decimal.NewFromInt(40))

	suite.expectMembership(suite.debtorID)
	suite.mockSettlementRepo.On("FindSettlementByID", ctx, settlement.SettlementID).Return(settlement, nil).Once()
	suite.mockSettlementRepo.On("DeleteSettlement", ctx, settlement.SettlementID).Return(nil).Once()

	err := suite.service.DeleteSettlement(ctx, settlement.SettlementID, suite.debtorID)

	suite.Require().NoError(err)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

// --- GetSimplifiedSettlements ---

func (suite *SettlementServiceTestSuite) TestGetSimplifiedSettlements() {
	ctx := context.Background()

	suite.expectMembership(suite.creditorID)
	suite.mockSnapshotRepo.On("GetGroupSnapshot", ctx, suite.groupID).Return(suite.snapshotWithDebt(decimal.NewFromInt(50)), nil).Once()

	suggestions, err := suite.service.GetSimplifiedSettlements(ctx, suite.groupID, suite.creditorID)

	suite.Require().NoError(err)
	suite.Require().Len(suggestions, 1)
	suite.Equal(suite.debtorID, suggestions[0].FromUserID)
	suite.Equal(suite.creditorID, suggestions[0].ToUserID)
	suite.True(suggestions[0].Amount.Equal(decimal.NewFromInt(50)))
}

// --- Run Test Suite ---
func TestSettlementService(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
