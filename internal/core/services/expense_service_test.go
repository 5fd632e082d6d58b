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
type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo *MockExpenseRepository
	mockGroupSvc    *MockGroupService
	service         portssvc.ExpenseSvcFacade
	groupID         string
	payerID         string
	memberID        string
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockGroupSvc = new(MockGroupService)
	suite.service = services.NewExpenseService(suite.mockExpenseRepo, suite.mockGroupSvc)

	suite.groupID = uuid.NewString()
	suite.payerID = "user-payer"
	suite.memberID = "user-member"
}

func (suite *ExpenseServiceTestSuite) expectMembers(userIDs ...string) {
	members := make([]domain.GroupMember, len(userIDs))
	for i, id := range userIDs {
		members[i] = domain.GroupMember{GroupID: suite.groupID, UserID: id, Role: domain.RoleMember}
	}
	suite.mockGroupSvc.On("ListGroupMembers", mock.Anything, suite.groupID, mock.AnythingOfType("string")).Return(members, nil)
}

func (suite *ExpenseServiceTestSuite) createRequest(method domain.SplitMethod, splits []dto.SplitInputDTO) dto.CreateExpenseRequest {
	return dto.CreateExpenseRequest{
		GroupID:     suite.groupID,
		Title:       "Dinner",
		Amount:      decimal.NewFromInt(100),
		PaidBy:      suite.payerID,
		SplitMethod: method,
		Splits:      splits,
		Date:        time.Now(),
	}
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_EqualSplitAssignsRemainderToFirst() {
	ctx := context.Background()
	thirdMember := "user-third"
	suite.mockGroupSvc.On("AuthorizeMember", mock.Anything, suite.payerID, suite.groupID, domain.RoleMember).Return(nil)
	suite.expectMembers(suite.payerID, suite.memberID, thirdMember)

	var saved domain.Expense
	suite.mockExpenseRepo.On("SaveExpense", mock.Anything, mock.AnythingOfType("domain.Expense")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.Expense)
	}).Return(nil).Once()

	req := suite.createRequest(domain.SplitEqual, []dto.SplitInputDTO{
		{UserID: suite.payerID},
		{UserID: suite.memberID},
		{UserID: thirdMember},
	})

	expense, err := suite.service.CreateExpense(ctx, req, suite.payerID)

	suite.Require().NoError(err)
	suite.Require().Len(expense.Splits, 3)
	// 100/3 leaves a cent of remainder with the first participant.
	suite.True(saved.Splits[0].Amount.Equal(decimal.NewFromFloat(33.34)))
	suite.True(saved.Splits[1].Amount.Equal(decimal.NewFromFloat(33.33)))
	suite.True(saved.Splits[2].Amount.Equal(decimal.NewFromFloat(33.33)))

	sum := decimal.Zero
	for _, s := range saved.Splits {
		suite.NotEmpty(s.SplitID)
		suite.Equal(saved.ExpenseID, s.ExpenseID)
		sum = sum.Add(s.Amount)
	}
	suite.True(sum.Equal(req.Amount))
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_PayerNotMember() {
	ctx := context.Background()
	suite.mockGroupSvc.On("AuthorizeMember", mock.Anything, suite.memberID, suite.groupID, domain.RoleMember).Return(nil)
	suite.expectMembers(suite.memberID) // payer absent

	req := suite.createRequest(domain.SplitEqual, []dto.SplitInputDTO{{UserID: suite.memberID}})

	_, err := suite.service.CreateExpense(ctx, req, suite.memberID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpense")
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_DuplicateParticipant() {
	ctx := context.Background()
	suite.mockGroupSvc.On("AuthorizeMember", mock.Anything, suite.payerID, suite.groupID, domain.RoleMember).Return(nil)
	suite.expectMembers(suite.payerID, suite.memberID)

	req := suite.createRequest(domain.SplitEqual, []dto.SplitInputDTO{
		{UserID: suite.memberID},
		{UserID: suite.memberID},
	})

	_, err := suite.service.CreateExpense(ctx, req, suite.payerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_PercentagesMustSumToHundred() {
	ctx := context.Background()
	suite.mockGroupSvc.On("AuthorizeMember", mock.Anything, suite.payerID, suite.groupID, domain.RoleMember).Return(nil)
	suite.expectMembers(suite.payerID, suite.memberID)

	req := suite.createRequest(domain.SplitPercentage, []dto.SplitInputDTO{
		{UserID: suite.payerID, Percentage: decimal.NewFromInt(60)},
		{UserID: suite.memberID, Percentage: decimal.NewFromInt(30)},
	})

	_, err := suite.service.CreateExpense(ctx, req, suite.payerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpense")
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_CustomSplit() {
	ctx := context.Background()
	suite.mockGroupSvc.On("AuthorizeMember", mock.Anything, suite.payerID, suite.groupID, domain.RoleMember).Return(nil)
	suite.expectMembers(suite.payerID, suite.memberID)
	suite.mockExpenseRepo.On("SaveExpense", mock.Anything, mock.AnythingOfType("domain.Expense")).Return(nil).Once()

	req := suite.createRequest(domain.SplitCustom, []dto.SplitInputDTO{
		{UserID: suite.payerID, Amount: decimal.NewFromFloat(70.50)},
		{UserID: suite.memberID, Amount: decimal.NewFromFloat(29.50)},
	})

	expense, err := suite.service.CreateExpense(ctx, req, suite.payerID)

	suite.Require().NoError(err)
	suite.Require().Len(expense.Splits, 2)
	suite.True(expense.Splits[0].Amount.Equal(decimal.NewFromFloat(70.50)))
	suite.True(expense.Splits[1].Percentage.Equal(decimal.NewFromFloat(29.50)))
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_OnlyPayerOrAdmin() {
	ctx := context.Background()
	expense := &domain.Expense{
		ExpenseID:   uuid.NewString(),
		GroupID:     suite.groupID,
		Amount:      decimal.NewFromInt(100),
		PaidBy:      suite.payerID,
		SplitMethod: domain.SplitEqual,
	}
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	suite.mockGroupSvc.On("AuthorizeMember", mock.Anything, suite.memberID, suite.groupID, domain.RoleAdmin).Return(apperrors.ErrForbidden)

	req := dto.UpdateExpenseRequest{
		Title:       "Dinner",
		Amount:      decimal.NewFromInt(120),
		PaidBy:      suite.payerID,
		SplitMethod: domain.SplitEqual,
		Splits:      []dto.SplitInputDTO{{UserID: suite.payerID}},
		Date:        time.Now(),
	}

	_, err := suite.service.UpdateExpense(ctx, expense.ExpenseID, req, suite.memberID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "UpdateExpense")
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_ByPayer() {
	ctx := context.Background()
	expense := &domain.Expense{
		ExpenseID: uuid.NewString(),
		GroupID:   suite.groupID,
		PaidBy:    suite.payerID,
	}
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	suite.mockGroupSvc.On("AuthorizeMember", mock.Anything, suite.payerID, suite.groupID, domain.RoleMember).Return(nil)
	suite.mockExpenseRepo.On("MarkExpenseDeleted", ctx, expense.ExpenseID, suite.payerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeleteExpense(ctx, expense.ExpenseID, suite.payerID)

	suite.Require().NoError(err)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestListExpensesByGroup_PassesToken() {
	ctx := context.Background()
	token := "opaque-token"
	next := "next-token"
	suite.mockGroupSvc.On("AuthorizeMember", mock.Anything, suite.memberID, suite.groupID, domain.RoleMember).Return(nil)
	suite.mockExpenseRepo.On("ListExpensesByGroup", ctx, suite.groupID, 20, &token).Return([]domain.Expense{{ExpenseID: "e1"}}, &next, nil).Once()

	expenses, nextToken, err := suite.service.ListExpensesByGroup(ctx, suite.groupID, suite.memberID, 20, token)

	suite.Require().NoError(err)
	suite.Len(expenses, 1)
	suite.Equal(next, nextToken)
}

func (suite *ExpenseServiceTestSuite) TestGetGroupBalances() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	snap := &ledger.GroupSnapshot{
		Group: domain.Group{GroupID: suite.groupID, CurrencyCode: "USD"},
		Members: []domain.GroupMember{
			{GroupID: suite.groupID, UserID: suite.payerID},
			{GroupID: suite.groupID, UserID: suite.memberID},
		},
		Expenses: []domain.Expense{
			{
				ExpenseID: expenseID,
				GroupID:   suite.groupID,
				Amount:    decimal.NewFromInt(100),
				PaidBy:    suite.payerID,
				Splits: []domain.Split{
					{ExpenseID: expenseID, UserID: suite.payerID, Amount: decimal.NewFromInt(50)},
					{ExpenseID: expenseID, UserID: suite.memberID, Amount: decimal.NewFromInt(50)},
				},
			},
		},
		Settlements: []domain.Settlement{
			{GroupID: suite.groupID, FromUserID: suite.memberID, ToUserID: suite.payerID, Amount: decimal.NewFromInt(20), Status: domain.SettlementConfirmed},
		},
	}
	suite.mockGroupSvc.On("AuthorizeMember", mock.Anything, suite.memberID, suite.groupID, domain.RoleMember).Return(nil)
	suite.mockExpenseRepo.On("GetGroupSnapshot", ctx, suite.groupID).Return(snap, nil).Once()

	balances, err := suite.service.GetGroupBalances(ctx, suite.groupID, suite.memberID)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 2)
	// Payer is owed 50, reduced by the 20 already settled.
	suite.Equal(suite.payerID, balances[0].UserID)
	suite.True(balances[0].Balance.Equal(decimal.NewFromInt(30)))
	suite.True(balances[1].Balance.Equal(decimal.NewFromInt(-30)))
}

// --- Run Test Suite ---
func TestExpenseService(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
