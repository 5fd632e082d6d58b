package services_test

import (
	"context"
	"testing"

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
type FriendServiceTestSuite struct {
	suite.Suite
	mockFriendshipRepo *MockFriendshipRepository
	mockUserRepo       *MockUserRepository
	mockSnapshotRepo   *MockSnapshotReader
	mockSettlementRepo *MockSettlementRepository
	service            portssvc.FriendSvcFacade
	userID             string
	friendID           string
	friend             domain.User
}

func (suite *FriendServiceTestSuite) SetupTest() {
	suite.mockFriendshipRepo = new(MockFriendshipRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockSnapshotRepo = new(MockSnapshotReader)
	suite.mockSettlementRepo = new(MockSettlementRepository)
	suite.service = services.NewFriendService(suite.mockFriendshipRepo, suite.mockUserRepo, suite.mockSnapshotRepo, suite.mockSettlementRepo)

	suite.userID = "user-main"
	suite.friendID = "user-friend"
	suite.friend = domain.User{UserID: suite.friendID, Name: "Friend"}
}

// sharedSnapshot builds a group where the friend owes the user (positive
// owed) or the user owes the friend (negative owed) through one expense.
func (suite *FriendServiceTestSuite) sharedSnapshot(groupName, currency string, owed decimal.Decimal) ledger.GroupSnapshot {
	groupID := uuid.NewString()
	expenseID := uuid.NewString()

	payer, ower := suite.userID, suite.friendID
	share := owed
	if owed.IsNegative() {
		payer, ower = suite.friendID, suite.userID
		share = owed.Neg()
	}

	return ledger.GroupSnapshot{
		Group: domain.Group{GroupID: groupID, Name: groupName, CurrencyCode: currency},
		Members: []domain.GroupMember{
			{GroupID: groupID, UserID: suite.userID},
			{GroupID: groupID, UserID: suite.friendID},
		},
		Expenses: []domain.Expense{
			{
				ExpenseID: expenseID,
				GroupID:   groupID,
				Amount:    share.Mul(decimal.NewFromInt(2)),
				PaidBy:    payer,
				Splits: []domain.Split{
					{ExpenseID: expenseID, UserID: payer, Amount: share},
					{ExpenseID: expenseID, UserID: ower, Amount: share},
				},
			},
		},
	}
}

func (suite *FriendServiceTestSuite) TestGetFriendBalances() {
	ctx := context.Background()
	shared := []ledger.GroupSnapshot{
		suite.sharedSnapshot("Trip", "USD", decimal.NewFromInt(50)),
		suite.sharedSnapshot("Flat", "USD", decimal.NewFromInt(-10)),
		suite.sharedSnapshot("Tokyo", "JPY", decimal.NewFromInt(3000)),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.friendID).Return(&suite.friend, nil).Once()
	suite.mockSnapshotRepo.On("GetSharedGroupSnapshots", ctx, suite.userID, suite.friendID).Return(shared, nil).Once()

	resp, err := suite.service.GetFriendBalances(ctx, suite.userID, suite.friendID)

	suite.Require().NoError(err)
	suite.Equal(suite.friendID, resp.Friend.UserID)
	suite.Require().Len(resp.Breakdown, 3)

	// Totals stay separated per currency; USD nets 50-10, JPY stays alone.
	suite.Require().Len(resp.Totals, 2)
	suite.Equal("USD", resp.Totals[0].CurrencyCode)
	suite.True(resp.Totals[0].Balance.Equal(decimal.NewFromInt(40)))
	suite.Equal("JPY", resp.Totals[1].CurrencyCode)
	suite.True(resp.Totals[1].Balance.Equal(decimal.NewFromInt(3000)))
}

func (suite *FriendServiceTestSuite) TestSettleFriend_AllocatesAcrossGroups() {
	ctx := context.Background()
	shared := []ledger.GroupSnapshot{
		suite.sharedSnapshot("Trip", "USD", decimal.NewFromInt(60)),
		suite.sharedSnapshot("Flat", "USD", decimal.NewFromInt(40)),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.friendID).Return(&suite.friend, nil).Once()
	suite.mockSnapshotRepo.On("GetSharedGroupSnapshots", ctx, suite.userID, suite.friendID).Return(shared, nil).Once()
	suite.mockSettlementRepo.On("FindPendingSettlementBetween", ctx, mock.AnythingOfType("string"), suite.userID, suite.friendID).Return(nil, apperrors.ErrNotFound).Twice()

	var saved []domain.Settlement
	suite.mockSettlementRepo.On("SaveSettlementsAtomic", ctx, mock.AnythingOfType("[]domain.Settlement")).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]domain.Settlement)
	}).Return(nil).Once()

	// Friend owes 100 total; settling 50 splits 30/20 across the groups.
	allocations, err := suite.service.SettleFriend(ctx, suite.userID, suite.friendID, dto.SettleFriendRequest{
		Amount: decimal.NewFromInt(50),
	})

	suite.Require().NoError(err)
	suite.Require().Len(allocations, 2)
	suite.True(allocations[0].Amount.Equal(decimal.NewFromInt(30)))
	suite.True(allocations[1].Amount.Equal(decimal.NewFromInt(20)))

	suite.Require().Len(saved, 2)
	for _, s := range saved {
		// The friend pays the user, and the recipient recorded it.
		suite.Equal(suite.friendID, s.FromUserID)
		suite.Equal(suite.userID, s.ToUserID)
		suite.Equal(domain.SettlementConfirmed, s.Status)
		suite.Equal(suite.userID, s.RecordedBy)
	}
}

func (suite *FriendServiceTestSuite) TestSettleFriend_UserOwesFriend() {
	ctx := context.Background()
	shared := []ledger.GroupSnapshot{
		suite.sharedSnapshot("Flat", "USD", decimal.NewFromInt(-80)),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.friendID).Return(&suite.friend, nil).Once()
	suite.mockSnapshotRepo.On("GetSharedGroupSnapshots", ctx, suite.userID, suite.friendID).Return(shared, nil).Once()
	suite.mockSettlementRepo.On("FindPendingSettlementBetween", ctx, mock.AnythingOfType("string"), suite.userID, suite.friendID).Return(nil, apperrors.ErrNotFound).Once()

	var saved []domain.Settlement
	suite.mockSettlementRepo.On("SaveSettlementsAtomic", ctx, mock.AnythingOfType("[]domain.Settlement")).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]domain.Settlement)
	}).Return(nil).Once()

	allocations, err := suite.service.SettleFriend(ctx, suite.userID, suite.friendID, dto.SettleFriendRequest{
		Amount: decimal.NewFromInt(80),
	})

	suite.Require().NoError(err)
	suite.Require().Len(allocations, 1)

	// The user pays and recorded their own debt, so the settlement waits for
	// the friend's confirmation.
	suite.Require().Len(saved, 1)
	suite.Equal(suite.userID, saved[0].FromUserID)
	suite.Equal(suite.friendID, saved[0].ToUserID)
	suite.Equal(domain.SettlementPending, saved[0].Status)
}

func (suite *FriendServiceTestSuite) TestSettleFriend_ExceedsNetBalance() {
	ctx := context.Background()
	shared := []ledger.GroupSnapshot{
		suite.sharedSnapshot("Trip", "USD", decimal.NewFromInt(30)),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.friendID).Return(&suite.friend, nil).Once()
	suite.mockSnapshotRepo.On("GetSharedGroupSnapshots", ctx, suite.userID, suite.friendID).Return(shared, nil).Once()

	_, err := suite.service.SettleFriend(ctx, suite.userID, suite.friendID, dto.SettleFriendRequest{
		Amount: decimal.NewFromInt(100),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "SaveSettlementsAtomic")
}

func (suite *FriendServiceTestSuite) TestSettleFriend_MixedCurrenciesNeedFilter() {
	ctx := context.Background()
	shared := []ledger.GroupSnapshot{
		suite.sharedSnapshot("Trip", "USD", decimal.NewFromInt(30)),
		suite.sharedSnapshot("Tokyo", "JPY", decimal.NewFromInt(3000)),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.friendID).Return(&suite.friend, nil).Twice()
	suite.mockSnapshotRepo.On("GetSharedGroupSnapshots", ctx, suite.userID, suite.friendID).Return(shared, nil).Twice()

	_, err := suite.service.SettleFriend(ctx, suite.userID, suite.friendID, dto.SettleFriendRequest{
		Amount: decimal.NewFromInt(30),
	})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// Scoping the settle to one currency makes it unambiguous.
	suite.mockSettlementRepo.On("FindPendingSettlementBetween", ctx, mock.AnythingOfType("string"), suite.userID, suite.friendID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSettlementRepo.On("SaveSettlementsAtomic", ctx, mock.AnythingOfType("[]domain.Settlement")).Return(nil).Once()

	allocations, err := suite.service.SettleFriend(ctx, suite.userID, suite.friendID, dto.SettleFriendRequest{
		Amount:       decimal.NewFromInt(30),
		CurrencyCode: "USD",
	})
	suite.Require().NoError(err)
	suite.Require().Len(allocations, 1)
	suite.True(allocations[0].Amount.Equal(decimal.NewFromInt(30)))
}

func (suite *FriendServiceTestSuite) TestSettleFriend_PendingBlocksWholeOperation() {
	ctx := context.Background()
	shared := []ledger.GroupSnapshot{
		suite.sharedSnapshot("Trip", "USD", decimal.NewFromInt(60)),
		suite.sharedSnapshot("Flat", "USD", decimal.NewFromInt(40)),
	}
	pending := &domain.Settlement{SettlementID: uuid.NewString(), Status: domain.SettlementPending}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.friendID).Return(&suite.friend, nil).Once()
	suite.mockSnapshotRepo.On("GetSharedGroupSnapshots", ctx, suite.userID, suite.friendID).Return(shared, nil).Once()
	suite.mockSettlementRepo.On("FindPendingSettlementBetween", ctx, shared[0].Group.GroupID, suite.userID, suite.friendID).Return(pending, nil).Once()

	_, err := suite.service.SettleFriend(ctx, suite.userID, suite.friendID, dto.SettleFriendRequest{
		Amount: decimal.NewFromInt(50),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "SaveSettlementsAtomic")
}

func (suite *FriendServiceTestSuite) TestAddFriend_CanonicalOrder() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.friendID).Return(&suite.friend, nil).Once()

	var saved domain.Friendship
	suite.mockFriendshipRepo.On("UpsertFriendship", ctx, mock.AnythingOfType("domain.Friendship")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.Friendship)
	}).Return(nil).Once()

	err := suite.service.AddFriend(ctx, suite.userID, suite.friendID)

	suite.Require().NoError(err)
	suite.Less(saved.UserAID, saved.UserBID)
}

func (suite *FriendServiceTestSuite) TestAddFriend_SelfRejected() {
	ctx := context.Background()

	err := suite.service.AddFriend(ctx, suite.userID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFriendshipRepo.AssertNotCalled(suite.T(), "UpsertFriendship")
}

func (suite *FriendServiceTestSuite) TestListFriends() {
	ctx := context.Background()
	friendship := domain.Friendship{
		FriendshipID: uuid.NewString(),
		UserAID:      suite.friendID,
		UserBID:      suite.userID,
	}
	shared := []ledger.GroupSnapshot{
		suite.sharedSnapshot("Trip", "USD", decimal.NewFromInt(25)),
	}

	suite.mockFriendshipRepo.On("ListFriendships", ctx, suite.userID).Return([]domain.Friendship{friendship}, nil).Once()
	suite.mockUserRepo.On("FindUsersByIDs", ctx, []string{suite.friendID}).Return(map[string]domain.User{suite.friendID: suite.friend}, nil).Once()
	suite.mockSnapshotRepo.On("GetSharedGroupSnapshots", ctx, suite.userID, suite.friendID).Return(shared, nil).Once()

	friends, err := suite.service.ListFriends(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(friends, 1)
	suite.Equal(suite.friendID, friends[0].User.UserID)
	suite.Require().Len(friends[0].Balances, 1)
	suite.True(friends[0].Balances[0].Balance.Equal(decimal.NewFromInt(25)))
}

// --- Run Test Suite ---
func TestFriendService(t *testing.T) {
	suite.Run(t, new(FriendServiceTestSuite))
}
